package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/topicscan/config"
	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/tokenize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topicscan.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 0.7, cfg.Matcher.Threshold)
	assert.Equal(t, "rus", cfg.Matcher.Language)
	assert.Equal(t, core.LanguageRussian, cfg.Language())
	assert.Equal(t, tokenize.DefaultStripChars, cfg.Tokenizer.StripChars)
	assert.Equal(t, config.BackendEmbedding, cfg.Similarity.Backend)
	assert.True(t, cfg.Similarity.Stemming)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Bind)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout.Std())
	assert.False(t, cfg.Embedding.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(config.EnvEmbeddingToken, "")

	cfg, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.False(t, exists)

	want := config.Default()
	want.Storage.Path = filepath.Clean(want.Storage.Path)
	assert.Equal(t, &want, cfg)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 0.7, cfg.Matcher.Threshold)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Setenv(config.EnvEmbeddingToken, "")
	path := writeConfig(t, `
[matcher]
threshold = 0.85
language = " ENG "
detect_language = true

[similarity]
backend = "lexical"
lexical_algorithm = "levenshtein"

[embedding]
host = "http://localhost:11434"
model = "embeddinggemma"

[server]
bind = "127.0.0.1:9000"
request_timeout = "250ms"
pool_size = 4
`)

	cfg, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, 0.85, cfg.Matcher.Threshold)
	assert.Equal(t, core.LanguageEnglish, cfg.Language())
	assert.True(t, cfg.Matcher.DetectLanguage)
	assert.Equal(t, config.BackendLexical, cfg.Similarity.Backend)
	assert.Equal(t, "levenshtein", cfg.Similarity.LexicalAlgorithm)
	assert.True(t, cfg.Embedding.Enabled())
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Bind)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.RequestTimeout.Std())
	assert.Equal(t, 4, cfg.Server.PoolSize)

	// Untouched sections keep their defaults.
	assert.Equal(t, tokenize.DefaultStripChars, cfg.Tokenizer.StripChars)
	assert.True(t, cfg.Similarity.Stemming)
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	t.Setenv(config.EnvEmbeddingToken, "sk-env")

	cfg, _, err := config.Load(writeConfig(t, "[embedding]\nhost = \"http://h\"\nmodel = \"m\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.Embedding.Token)

	cfg, _, err = config.Load(writeConfig(t, "[embedding]\nhost = \"http://h\"\nmodel = \"m\"\ntoken = \"sk-file\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.Embedding.Token)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"threshold above one", "[matcher]\nthreshold = 1.5\n"},
		{"negative threshold", "[matcher]\nthreshold = -0.1\n"},
		{"empty language", "[matcher]\nlanguage = \"\"\n"},
		{"unknown backend", "[similarity]\nbackend = \"word2vec\"\n"},
		{"unknown lexical algorithm", "[similarity]\nbackend = \"lexical\"\nlexical_algorithm = \"soundex\"\n"},
		{"embedding host without model", "[embedding]\nhost = \"http://h\"\n"},
		{"zero timeout", "[server]\nrequest_timeout = \"0s\"\n"},
		{"negative pool", "[server]\npool_size = -1\n"},
		{"missing storage path", "[storage]\npath = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := config.Load(writeConfig(t, tt.contents))
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoad_ThresholdBoundsAccepted(t *testing.T) {
	for _, contents := range []string{"[matcher]\nthreshold = 0.0\n", "[matcher]\nthreshold = 1.0\n"} {
		_, _, err := config.Load(writeConfig(t, contents))
		assert.NoError(t, err)
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	t.Run("bad toml", func(t *testing.T) {
		_, exists, err := config.Load(writeConfig(t, "[matcher\n"))
		assert.Error(t, err)
		assert.True(t, exists)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, _, err := config.Load(writeConfig(t, "[server]\nrequest_timeout = \"soon\"\n"))
		assert.Error(t, err)
	})
}

func TestCreateSample(t *testing.T) {
	t.Setenv(config.EnvEmbeddingToken, "")
	path := filepath.Join(t.TempDir(), "nested", "topicscan.toml")
	require.NoError(t, config.CreateSample(path))

	cfg, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)

	want := config.Default()
	want.Storage.Path = filepath.Clean(want.Storage.Path)
	assert.Equal(t, &want, cfg, "sample config should match defaults")
}
