// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"context"

	"github.com/poiesic/topicscan/core"
)

// VectorRepository stores the word model: one unit-length embedding per
// normalized word form and language.
type VectorRepository interface {
	// GetVector retrieves the vector for a normalized word.
	// Returns ErrNotFound if the word is not in the model.
	GetVector(ctx context.Context, lang core.Language, word string) (*core.WordVector, error)

	// GetVectors retrieves vectors for several words in one read transaction.
	// Missing words are absent from the returned map (no error).
	GetVectors(ctx context.Context, lang core.Language, words ...string) (map[string]*core.WordVector, error)

	// HasVector reports whether the word is present in the model.
	HasVector(ctx context.Context, lang core.Language, word string) (bool, error)

	// PutVectors validates and stores vectors, overwriting existing entries.
	// Sets InsertedAt if not already set and populates content-based IDs.
	PutVectors(ctx context.Context, vectors ...*core.WordVector) error

	// Count returns the number of stored words for a language.
	Count(ctx context.Context, lang core.Language) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
