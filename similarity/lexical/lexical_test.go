package lexical

import (
	"context"
	"testing"

	"github.com/hbollon/go-edlib"
	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name     string
		expected edlib.Algorithm
		wantErr  bool
	}{
		{"", edlib.JaroWinkler, false},
		{"jaro-winkler", edlib.JaroWinkler, false},
		{" Levenshtein ", edlib.Levenshtein, false},
		{"jaro", edlib.Jaro, false},
		{"damerau-levenshtein", edlib.DamerauLevenshtein, false},
		{"soundex", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			algo, err := ParseAlgorithm(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, algo)
		})
	}
}

func TestScorer_Score(t *testing.T) {
	ctx := context.Background()

	t.Run("case-insensitive identity", func(t *testing.T) {
		score, err := NewScorer().Score(ctx, core.LanguageRussian, "Москва", "москва")
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("empty word", func(t *testing.T) {
		score, err := NewScorer().Score(ctx, core.LanguageEnglish, "", "cat")
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})

	t.Run("levenshtein", func(t *testing.T) {
		score, err := NewScorer(WithAlgorithm(edlib.Levenshtein)).Score(ctx, core.LanguageEnglish, "kitten", "sitting")
		require.NoError(t, err)
		assert.InDelta(t, 1-3.0/7.0, score, 1e-3)
	})

	t.Run("jaro-winkler favors shared prefixes", func(t *testing.T) {
		s := NewScorer()
		near, err := s.Score(ctx, core.LanguageEnglish, "martha", "marhta")
		require.NoError(t, err)
		far, err := s.Score(ctx, core.LanguageEnglish, "martha", "zebra")
		require.NoError(t, err)
		assert.Greater(t, near, 0.9)
		assert.Less(t, far, near)
	})
}

func TestScorer_AsOracle(t *testing.T) {
	oracle := similarity.WithFallback(NewScorer())
	score := oracle.Similarity(context.Background(), core.LanguageEnglish, "colour", "color")
	assert.Greater(t, score, 0.9)
	assert.LessOrEqual(t, score, 1.0)
}
