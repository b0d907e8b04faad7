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


// Package embedding scores word similarity as the cosine of stored word vectors.
//
// Words are reduced to a normalized form (case folded and stemmed) before
// lookup so that inflected forms share one vector. The vectors live in a
// storage.VectorRepository, usually a word2vec model imported by the loader
// package. When an ai.Embedder is configured, words missing from the model are
// embedded on demand and cached in the repository.
//
// Scorer reports failures as errors. Wrap it with similarity.WithFallback to
// obtain a total Oracle that degrades to exact matching.
package embedding
