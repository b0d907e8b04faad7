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


package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Language is an ISO 639-3 language code such as "rus" or "eng".
type Language string

const (
	LanguageRussian   Language = "rus"
	LanguageEnglish   Language = "eng"
	LanguageSpanish   Language = "spa"
	LanguageFrench    Language = "fra"
	LanguageSwedish   Language = "swe"
	LanguageNorwegian Language = "nor"
	LanguageHungarian Language = "hun"
)

// DefaultLanguage is used when no language is configured or detected.
const DefaultLanguage = LanguageRussian

// WordVector is a single entry of the word model: the embedding of one
// normalized word form in one language.
type WordVector struct {
	Id         ID
	Lang       Language
	Word       string    // Normalized word form (the lookup key)
	Vector     []float32 // Unit-length embedding
	InsertedAt time.Time
}

// Key returns the (lang,word) tuple used to derive the entry's ID.
func (w *WordVector) Key() string {
	return "(" + string(w.Lang) + "," + w.Word + ")"
}

// NewWordVector builds a WordVector with its content-based ID populated.
func NewWordVector(lang Language, word string, vector []float32) *WordVector {
	wv := &WordVector{
		Lang:   lang,
		Word:   word,
		Vector: vector,
	}
	wv.Id = IDFromContent(wv.Key())
	return wv
}
