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


// Package similarity defines word-pair similarity scoring.
//
// Two interfaces separate the fallible lookup from the total function the
// matcher consumes:
//
//   - Scorer: computes a score for a word pair and may fail (unknown word,
//     unavailable model, storage error).
//   - Oracle: always returns a score in [0,1].
//
// WithFallback composes the two: it calls the Scorer once and, on any
// failure, substitutes exact case-insensitive equality scoring (1 or 0).
//
// Implementation packages:
//
//   - similarity/embedding: cosine similarity of stored or embedded word vectors
//   - similarity/lexical: edit-distance based string similarity
package similarity
