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


// Package analyze answers match requests: given a text and a list of candidate
// topics it returns the topics the text contains.
//
// Topics are evaluated concurrently on an ants worker pool. Each topic is an
// independent ContainsTopic call against the same text, and the surviving
// topics are returned in the order they were given.
//
// # Usage
//
//	analyzer, err := analyze.NewAnalyzer(m, analyze.WithPoolSize(8))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer analyzer.Release()
//
//	topics, err := analyzer.Analyze(ctx, "the quick brown fox", []string{"brown fox", "lazy dog"})
//
// # Monitoring
//
// AnalyzeWithMonitor reports per-topic decisions through an AnalyzeMonitor.
// Hooks run on pool workers and must be safe for concurrent use.
package analyze
