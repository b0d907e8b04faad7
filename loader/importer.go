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


package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/similarity/embedding"
	"github.com/poiesic/topicscan/storage"
)

// Config holds configuration for loading word vectors.
type Config struct {
	// BatchSize is the number of vectors written per transaction
	BatchSize int

	// Workers is the number of batches written concurrently
	Workers int

	// ReportInterval is how often to report progress (number of words)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for a failed batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// StripPOSTags removes "_NOUN"-style suffixes from model keys
	StripPOSTags bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      1000,
		Workers:        2,
		ReportInterval: 10000,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		StripPOSTags:   true,
	}
}

// Stats summarizes a load.
type Stats struct {
	// Read is the number of entries read from the input
	Read int
	// Stored is the number of vectors written
	Stored int
	// Duplicates is the number of entries whose normalized form was already seen
	Duplicates int
	// Skipped is the number of entries dropped as empty, invalid or already present
	Skipped int
}

// Importer streams a word2vec model into a VectorRepository.
type Importer struct {
	repo       storage.VectorRepository
	normalizer *embedding.Normalizer
	config     *Config
	progress   io.Writer
	logger     *slog.Logger
}

// NewImporter creates an Importer. The normalizer must match the one used
// by the embedding scorer at query time.
// progress: where to write progress output (typically os.Stderr)
func NewImporter(repo storage.VectorRepository, normalizer *embedding.Normalizer, config *Config, progress io.Writer) *Importer {
	if config == nil {
		config = DefaultConfig()
	}
	if normalizer == nil {
		normalizer = embedding.NewNormalizer()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Importer{
		repo:       repo,
		normalizer: normalizer,
		config:     config,
		progress:   progress,
		logger:     slog.Default().With("component", "importer"),
	}
}

// normalizeKey turns a model key into a repository key.
func (im *Importer) normalizeKey(lang core.Language, word string) string {
	if im.config.StripPOSTags {
		word = StripPOSTag(word)
	}
	return im.normalizer.Normalize(lang, word)
}

// Import reads a model in the given format and stores its vectors under lang.
// The first occurrence of a normalized form wins.
func (im *Importer) Import(ctx context.Context, r io.Reader, lang core.Language, format Format) (Stats, error) {
	var stats Stats
	if lang == "" {
		return stats, core.ErrEmptyLanguage
	}

	tracker := NewProgressTracker(im.progress, 0, im.config.ReportInterval)
	tracker.Start()

	runner, err := newBatchRunner(ctx, im.config.BatchSize, im.config.Workers,
		func(ctx context.Context, batch []*core.WordVector) error {
			err := RetryWithBackoff(ctx, func() error {
				return im.repo.PutVectors(ctx, batch...)
			}, im.config.MaxRetries, im.config.RetryDelay)
			if err != nil {
				return fmt.Errorf("failed to store batch after %d attempts: %w", im.config.MaxRetries, err)
			}
			tracker.Increment(len(batch))
			return nil
		})
	if err != nil {
		return stats, err
	}

	seen := make(map[string]struct{})
	header, readErr := Read(r, format, func(word string, vec []float32) error {
		stats.Read++
		if stats.Read == 1 {
			fmt.Fprintf(im.progress, "Importing %s vectors (batch size: %d)\n", lang, im.config.BatchSize)
		}

		key := im.normalizeKey(lang, word)
		if key == "" {
			stats.Skipped++
			return nil
		}
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			return nil
		}
		seen[key] = struct{}{}

		return runner.add(core.NewWordVector(lang, key, embedding.NormalizeVector(vec)))
	})
	if header.Count > 0 {
		tracker.SetTotal(header.Count - stats.Duplicates - stats.Skipped)
	}

	runErr := runner.finish()
	tracker.Finish()
	stats.Stored = tracker.Current()

	if readErr != nil {
		return stats, readErr
	}
	if runErr != nil {
		return stats, runErr
	}

	elapsed := tracker.Elapsed()
	im.logger.Info("import complete", "lang", lang, "read", stats.Read, "stored", stats.Stored,
		"duplicates", stats.Duplicates, "skipped", stats.Skipped, "elapsed", elapsed.Round(time.Millisecond))
	fmt.Fprintf(im.progress, "Import complete. Stored %d of %d vectors in %v\n",
		stats.Stored, stats.Read, elapsed.Round(time.Second))
	return stats, nil
}
