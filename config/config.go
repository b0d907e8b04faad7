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


// Package config loads topicscan settings from a TOML file.
//
// Values not present in the file keep the defaults from Default. The result
// is normalized and validated before it is returned.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/similarity/lexical"
	"github.com/poiesic/topicscan/tokenize"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvEmbeddingToken supplies the embedding token when the file leaves it empty.
const EnvEmbeddingToken = "TOPICSCAN_EMBEDDING_TOKEN"

// Similarity backends.
const (
	BackendEmbedding = "embedding"
	BackendLexical   = "lexical"
	BackendExact     = "exact"
)

// Config is the complete service configuration.
type Config struct {
	Storage    StorageConfig    `toml:"storage"`
	Matcher    MatcherConfig    `toml:"matcher"`
	Tokenizer  TokenizerConfig  `toml:"tokenizer"`
	Similarity SimilarityConfig `toml:"similarity"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Server     ServerConfig     `toml:"server"`
}

// StorageConfig locates the word-vector database.
type StorageConfig struct {
	Path     string `toml:"path"`
	InMemory bool   `toml:"in_memory"`
}

// MatcherConfig holds the matching threshold and language selection.
type MatcherConfig struct {
	Threshold      float64 `toml:"threshold"`
	Language       string  `toml:"language"`
	DetectLanguage bool    `toml:"detect_language"`
}

// TokenizerConfig controls how texts and topics are split into words.
type TokenizerConfig struct {
	StripChars string `toml:"strip_chars"`
	FoldCase   bool   `toml:"fold_case"`
}

// SimilarityConfig selects the word similarity backend.
type SimilarityConfig struct {
	Backend          string `toml:"backend"`
	LexicalAlgorithm string `toml:"lexical_algorithm"`
	Stemming         bool   `toml:"stemming"`
	Porter2English   bool   `toml:"porter2_english"`
}

// EmbeddingConfig points at an OpenAI-compatible embedding service used for
// words missing from the model. An empty host disables it.
type EmbeddingConfig struct {
	Host  string `toml:"host"`
	Model string `toml:"model"`
	Token string `toml:"token"`
}

// Enabled reports whether an embedding service is configured.
func (e EmbeddingConfig) Enabled() bool {
	return e.Host != "" && e.Model != ""
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Bind           string   `toml:"bind"`
	RequestTimeout Duration `toml:"request_timeout"`
	PoolSize       int      `toml:"pool_size"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a string such as "10s".
type Duration time.Duration

// UnmarshalText parses a time.ParseDuration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a time.Duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Path: "./topicscan_db",
		},
		Matcher: MatcherConfig{
			Threshold: 0.7,
			Language:  string(core.DefaultLanguage),
		},
		Tokenizer: TokenizerConfig{
			StripChars: tokenize.DefaultStripChars,
		},
		Similarity: SimilarityConfig{
			Backend:          BackendEmbedding,
			LexicalAlgorithm: lexical.JaroWinkler,
			Stemming:         true,
		},
		Server: ServerConfig{
			Bind:           "0.0.0.0:8000",
			RequestTimeout: Duration(10 * time.Second),
			MaxBodyBytes:   1 << 20,
		},
	}
}

// Load reads path over the defaults, then normalizes and validates the result.
// A missing file is not an error; exists reports whether it was found.
// An empty path skips the file entirely.
func Load(path string) (cfg *Config, exists bool, err error) {
	c := Default()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, false, fmt.Errorf("open config: %w", err)
		default:
			defer file.Close()
			exists = true
			if err := toml.NewDecoder(file).Decode(&c); err != nil {
				return nil, true, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, exists, err
	}
	return &c, exists, nil
}

func (c *Config) normalize() {
	c.Matcher.Language = strings.ToLower(strings.TrimSpace(c.Matcher.Language))
	c.Similarity.Backend = strings.ToLower(strings.TrimSpace(c.Similarity.Backend))
	c.Embedding.Host = strings.TrimSpace(c.Embedding.Host)
	if c.Embedding.Token == "" {
		c.Embedding.Token = os.Getenv(EnvEmbeddingToken)
	}
	if c.Storage.Path != "" {
		c.Storage.Path = filepath.Clean(c.Storage.Path)
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if err := core.ValidateThreshold(c.Matcher.Threshold); err != nil {
		return fmt.Errorf("%w: matcher.threshold: %w", ErrInvalidConfig, err)
	}
	if c.Matcher.Language == "" {
		return fmt.Errorf("%w: matcher.language is required", ErrInvalidConfig)
	}

	switch c.Similarity.Backend {
	case BackendEmbedding:
		if c.Storage.Path == "" && !c.Storage.InMemory {
			return fmt.Errorf("%w: storage.path is required for the embedding backend", ErrInvalidConfig)
		}
	case BackendLexical:
		if _, err := lexical.ParseAlgorithm(c.Similarity.LexicalAlgorithm); err != nil {
			return fmt.Errorf("%w: similarity.lexical_algorithm: %w", ErrInvalidConfig, err)
		}
	case BackendExact:
	default:
		return fmt.Errorf("%w: similarity.backend %q (want %s, %s or %s)",
			ErrInvalidConfig, c.Similarity.Backend, BackendEmbedding, BackendLexical, BackendExact)
	}

	if (c.Embedding.Host == "") != (c.Embedding.Model == "") {
		return fmt.Errorf("%w: embedding.host and embedding.model must be set together", ErrInvalidConfig)
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("%w: server.request_timeout must be positive", ErrInvalidConfig)
	}
	if c.Server.PoolSize < 0 {
		return fmt.Errorf("%w: server.pool_size must not be negative", ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.max_body_bytes must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Language returns the configured default language.
func (c *Config) Language() core.Language {
	return core.Language(c.Matcher.Language)
}

// CreateSample writes a commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

const sampleConfig = `# topicscan configuration

[storage]
path = "./topicscan_db"

[matcher]
threshold = 0.7
language = "rus"
detect_language = false

[tokenizer]
# Characters deleted before splitting on whitespace.
strip_chars = "0123456789!#$%&'()*+,./:;<=>?@[]^_` + "`" + `{|}~—\"-"
fold_case = false

[similarity]
# embedding | lexical | exact
backend = "embedding"
lexical_algorithm = "jaro-winkler"
stemming = true
porter2_english = false

[embedding]
# OpenAI-compatible service for words missing from the model. Leave empty to disable.
host = ""
model = ""
token = ""

[server]
bind = "0.0.0.0:8000"
request_timeout = "10s"
# 0 uses half the CPUs.
pool_size = 0
max_body_bytes = 1048576
`
