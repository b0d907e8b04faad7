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


// Package storage provides the storage abstraction layer for topicscan.
//
// The only persisted state is the word model: a VectorRepository mapping
// (language, normalized word) to a unit-length embedding. The model is loaded
// once (see package loader) and then read concurrently by the similarity
// oracle; entries embedded on demand are added as they are computed.
//
// # Constructor Return Type Pattern
//
// Public constructors return the VectorRepository interface so that callers
// stay decoupled from BadgerDB:
//
//	repo, err := badger.NewVectorRepository(backend)  // returns storage.VectorRepository
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
