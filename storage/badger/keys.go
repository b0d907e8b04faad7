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


package badger

import (
	"github.com/poiesic/topicscan/core"
)

const (
	wordVectorPrefix = "wordvec"
)

// makeWordVectorKey builds "wordvec:<lang>:<word>".
func makeWordVectorKey(lang core.Language, word string) []byte {
	prefix := makeLanguagePrefix(lang)
	buf := make([]byte, len(prefix)+len(word))
	offset := copy(buf, prefix)
	copy(buf[offset:], word)
	return buf
}

// makeLanguagePrefix builds "wordvec:<lang>:" for prefix iteration.
func makeLanguagePrefix(lang core.Language) []byte {
	totalSize := len(wordVectorPrefix) + 1 + len(lang) + 1
	buf := make([]byte, totalSize)
	offset := copy(buf, wordVectorPrefix)
	buf[offset] = ':'
	offset++
	offset += copy(buf[offset:], lang)
	buf[offset] = ':'
	return buf
}
