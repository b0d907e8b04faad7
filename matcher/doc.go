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


// Package matcher decides whether a text contains a short topic phrase.
//
// The text and topic are tokenized with the same Tokenizer, and a window the
// length of the topic slides over the text's tokens from left to right. A
// window matches only when every aligned word pair scores at or above the
// threshold according to the similarity Oracle; there is no averaging or
// partial credit. The first matching window ends the scan.
//
// An empty topic is never contained in any text.
//
// # Usage
//
//	m, err := matcher.New(tokenize.NewSplitter(), similarity.Exact(), 0.7)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok, err := m.ContainsTopic(ctx, "The quick brown fox", "quick brown")
//
// A Matcher is immutable and safe for concurrent use as long as its
// Tokenizer and Oracle are. Use WithThreshold to obtain a matcher with a
// different threshold.
package matcher
