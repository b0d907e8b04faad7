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


// Package lexical scores word similarity by edit distance.
//
// It needs no word-vector model, which makes it the choice for languages
// without one. Scores come from go-edlib and are already normalized to [0,1].
package lexical

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/similarity"
	"golang.org/x/text/cases"
)

// ErrUnknownAlgorithm is returned for an algorithm name ParseAlgorithm does not know.
var ErrUnknownAlgorithm = errors.New("unknown lexical algorithm")

// Algorithm names accepted by ParseAlgorithm.
const (
	JaroWinkler        = "jaro-winkler"
	Jaro               = "jaro"
	Levenshtein        = "levenshtein"
	DamerauLevenshtein = "damerau-levenshtein"
)

var algorithms = map[string]edlib.Algorithm{
	JaroWinkler:        edlib.JaroWinkler,
	Jaro:               edlib.Jaro,
	Levenshtein:        edlib.Levenshtein,
	DamerauLevenshtein: edlib.DamerauLevenshtein,
}

// ParseAlgorithm maps a configuration name to an edlib algorithm.
// An empty name selects Jaro-Winkler.
func ParseAlgorithm(name string) (edlib.Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return edlib.JaroWinkler, nil
	}
	algo, ok := algorithms[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return algo, nil
}

// Scorer implements similarity.Scorer with string edit distance.
type Scorer struct {
	algorithm edlib.Algorithm
}

var _ similarity.Scorer = (*Scorer)(nil)

// Option configures a Scorer.
type Option func(*Scorer)

// WithAlgorithm selects the edlib algorithm. Default is Jaro-Winkler.
func WithAlgorithm(algorithm edlib.Algorithm) Option {
	return func(s *Scorer) {
		s.algorithm = algorithm
	}
}

// NewScorer creates a lexical Scorer.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{algorithm: edlib.JaroWinkler}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score compares the case-folded words. The language is ignored.
func (s *Scorer) Score(_ context.Context, _ core.Language, a, b string) (float64, error) {
	fold := cases.Fold()
	a, b = fold.String(a), fold.String(b)
	if a == b {
		return 1, nil
	}
	if a == "" || b == "" {
		return 0, nil
	}

	score, err := edlib.StringsSimilarity(a, b, s.algorithm)
	if err != nil {
		return 0, err
	}
	return similarity.Clamp(float64(score)), nil
}
