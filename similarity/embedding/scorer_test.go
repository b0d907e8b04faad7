package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/topicscan/ai/mock"
	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/similarity"
	"github.com/poiesic/topicscan/storage"
	"github.com/poiesic/topicscan/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.VectorRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func seed(t *testing.T, repo storage.VectorRepository, lang core.Language, words map[string][]float32) {
	t.Helper()
	n := NewNormalizer()
	for word, vec := range words {
		require.NoError(t, repo.PutVectors(context.Background(), core.NewWordVector(lang, n.Normalize(lang, word), vec)))
	}
}

func TestNewScorer_RequiresRepository(t *testing.T) {
	_, err := NewScorer(nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
}

func TestScorer_StoredVectors(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, core.LanguageEnglish, map[string][]float32{
		"cat":   {1, 0},
		"dog":   {0.6, 0.8},
		"stone": {-1, 0},
	})
	scorer, err := NewScorer(repo)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("cosine of stored vectors", func(t *testing.T) {
		score, err := scorer.Score(ctx, core.LanguageEnglish, "cat", "Dogs")
		require.NoError(t, err)
		assert.InDelta(t, 0.6, score, 1e-6)
	})

	t.Run("negative cosine clamps to zero", func(t *testing.T) {
		score, err := scorer.Score(ctx, core.LanguageEnglish, "cat", "stone")
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})

	t.Run("same normalized form scores one", func(t *testing.T) {
		score, err := scorer.Score(ctx, core.LanguageEnglish, "Cats", "cat")
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("identical unknown words score one", func(t *testing.T) {
		score, err := scorer.Score(ctx, core.LanguageEnglish, "zebra", "ZEBRA")
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("unknown word without embedder", func(t *testing.T) {
		_, err := scorer.Score(ctx, core.LanguageEnglish, "cat", "zebra")
		assert.ErrorIs(t, err, ErrUnknownWord)
	})

	t.Run("language scopes the lookup", func(t *testing.T) {
		_, err := scorer.Score(ctx, core.LanguageRussian, "cat", "dog")
		assert.ErrorIs(t, err, ErrUnknownWord)
	})

	t.Run("empty word", func(t *testing.T) {
		_, err := scorer.Score(ctx, core.LanguageEnglish, "cat", " ")
		assert.ErrorIs(t, err, core.ErrEmptyWord)
	})
}

func TestScorer_VectorErrors(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, core.LanguageEnglish, map[string][]float32{
		"cat":  {1, 0},
		"void": {0, 0},
		"tree": {1, 0, 0},
	})
	scorer, err := NewScorer(repo)
	require.NoError(t, err)

	_, err = scorer.Score(context.Background(), core.LanguageEnglish, "cat", "void")
	assert.ErrorIs(t, err, ErrZeroVector)

	_, err = scorer.Score(context.Background(), core.LanguageEnglish, "cat", "tree")
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestScorer_EmbedsMissingWords(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, core.LanguageEnglish, map[string][]float32{"cat": {1, 0}})

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{3, 4}
		}
		return vectors, nil
	}

	scorer, err := NewScorer(repo, WithEmbedder(embedder))
	require.NoError(t, err)
	ctx := context.Background()

	score, err := scorer.Score(ctx, core.LanguageEnglish, "cat", "Kitten")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, score, 1e-6)
	assert.Equal(t, []string{"kitten"}, embedder.Texts())

	key := scorer.Normalizer().Normalize(core.LanguageEnglish, "kitten")
	cached, err := repo.GetVector(ctx, core.LanguageEnglish, key)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, cached.Vector[0], 1e-6)
	assert.InDelta(t, 0.8, cached.Vector[1], 1e-6)

	// Second lookup is served from the repository.
	_, err = scorer.Score(ctx, core.LanguageEnglish, "cat", "kitten")
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestScorer_EmbedderFailure(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, core.LanguageEnglish, map[string][]float32{"cat": {1, 0}})

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("connection refused")
	}
	scorer, err := NewScorer(repo, WithEmbedder(embedder))
	require.NoError(t, err)

	_, err = scorer.Score(context.Background(), core.LanguageEnglish, "cat", "kitten")
	assert.ErrorIs(t, err, ErrUnknownWord)

	t.Run("short batch", func(t *testing.T) {
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{}, nil
		}
		_, err := scorer.Score(context.Background(), core.LanguageEnglish, "cat", "kitten")
		assert.ErrorIs(t, err, ErrUnknownWord)
	})
}

func TestScorer_WithFallback(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, core.LanguageEnglish, map[string][]float32{
		"cat": {1, 0},
		"dog": {0.6, 0.8},
	})
	scorer, err := NewScorer(repo)
	require.NoError(t, err)
	oracle := similarity.WithFallback(scorer)
	ctx := context.Background()

	assert.InDelta(t, 0.6, oracle.Similarity(ctx, core.LanguageEnglish, "cat", "dog"), 1e-6)
	assert.Equal(t, 0.0, oracle.Similarity(ctx, core.LanguageEnglish, "cat", "zebra"))
	assert.Equal(t, 1.0, oracle.Similarity(ctx, core.LanguageEnglish, "zebra", "Zebra"))
}
