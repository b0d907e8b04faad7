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
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// batchRunner groups items into fixed-size batches and processes each full
// batch on a worker pool. The first processing error cancels the run.
type batchRunner[T any] struct {
	ctx     context.Context
	cancel  context.CancelCauseFunc
	pool    *ants.Pool
	size    int
	process func(ctx context.Context, batch []T) error
	pending []T
	wg      sync.WaitGroup
}

func newBatchRunner[T any](ctx context.Context, size, workers int, process func(context.Context, []T) error) (*batchRunner[T], error) {
	if size < 1 {
		size = 1
	}
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancelCause(ctx)
	return &batchRunner[T]{
		ctx:     ctx,
		cancel:  cancel,
		pool:    pool,
		size:    size,
		process: process,
		pending: make([]T, 0, size),
	}, nil
}

// add queues item and submits a batch when one is full.
// It returns the run's failure cause, if any, so callers can stop reading early.
func (b *batchRunner[T]) add(item T) error {
	if err := context.Cause(b.ctx); err != nil {
		return err
	}
	b.pending = append(b.pending, item)
	if len(b.pending) >= b.size {
		b.submit()
	}
	return nil
}

func (b *batchRunner[T]) submit() {
	if len(b.pending) == 0 {
		return
	}
	batch := b.pending
	b.pending = make([]T, 0, b.size)

	b.wg.Add(1)
	err := b.pool.Submit(func() {
		defer b.wg.Done()
		if b.ctx.Err() != nil {
			return
		}
		if err := b.process(b.ctx, batch); err != nil {
			b.cancel(err)
		}
	})
	if err != nil {
		b.wg.Done()
		b.cancel(err)
	}
}

// finish submits the remaining items, waits for every batch and releases the pool.
func (b *batchRunner[T]) finish() error {
	if context.Cause(b.ctx) == nil {
		b.submit()
	}
	b.wg.Wait()
	_ = b.pool.ReleaseTimeout(5 * time.Second)

	err := context.Cause(b.ctx)
	b.cancel(nil)
	return err
}
