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


package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// releaseTimeout bounds how long Release waits for pool workers to exit.
const releaseTimeout = 5 * time.Second

// TopicMatcher decides whether a text contains a topic.
// *matcher.Matcher satisfies it.
type TopicMatcher interface {
	ContainsTopic(ctx context.Context, text, topic string) (bool, error)
}

// Analyzer filters candidate topics against a text using a worker pool.
type Analyzer struct {
	matcher TopicMatcher
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithPoolSize sets the worker pool size for concurrent topic matching.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(a *Analyzer) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if a.pool != nil {
			a.releasePool()
		}
		a.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnalyzer creates an Analyzer around m.
func NewAnalyzer(m TopicMatcher, opts ...Option) (*Analyzer, error) {
	if m == nil {
		return nil, ErrMatcherRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		matcher: m,
		pool:    pool,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(a); optErr != nil {
			a.Release()
			return nil, optErr
		}
	}
	a.logger = a.logger.With("component", "analyzer")

	return a, nil
}

// Analyze returns the topics contained in text, in input order.
func (a *Analyzer) Analyze(ctx context.Context, text string, topics []string) ([]string, error) {
	return a.AnalyzeWithMonitor(ctx, text, topics, &noopMonitor{})
}

// AnalyzeWithMonitor is Analyze with progress hooks.
// A matcher error for any topic fails the whole request.
// Cancellation is checked before each topic is evaluated.
func (a *Analyzer) AnalyzeWithMonitor(ctx context.Context, text string, topics []string, monitor AnalyzeMonitor) (matched []string, err error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(text, topics)
	defer func() {
		monitor.Finish(matched, err)
	}()

	if len(topics) == 0 {
		return []string{}, nil
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	hits := make([]bool, len(topics))
	var wg sync.WaitGroup

	for i, topic := range topics {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		submitErr := a.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}

			ok, err := a.matcher.ContainsTopic(ctx, text, topic)
			if err != nil {
				cancel(fmt.Errorf("topic %d: %w", i, err))
				return
			}
			hits[i] = ok
			if ok {
				monitor.TopicMatched(i, topic)
			} else {
				monitor.TopicRejected(i, topic)
			}
		})
		if submitErr != nil {
			wg.Done()
			cancel(fmt.Errorf("submit topic %d: %w", i, submitErr))
		}
	}
	wg.Wait()

	if cause := context.Cause(ctx); cause != nil {
		a.logger.Debug("analysis aborted", "topics", len(topics), "err", cause)
		return nil, cause
	}

	matched = make([]string, 0, len(topics))
	for i, topic := range topics {
		if hits[i] {
			matched = append(matched, topic)
		}
	}
	a.logger.Debug("analysis complete", "topics", len(topics), "matched", len(matched))
	return matched, nil
}

// Release releases the worker pool.
// The analyzer should not be used after calling Release.
func (a *Analyzer) Release() {
	if a.pool != nil {
		a.releasePool()
	}
}

func (a *Analyzer) releasePool() {
	if err := a.pool.ReleaseTimeout(releaseTimeout); err != nil && err != ants.ErrPoolClosed {
		a.logger.Warn("worker pool did not stop in time", "err", err)
	}
}
