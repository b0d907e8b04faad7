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


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/topicscan/core"
	"github.com/poiesic/topicscan/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) (storage.VectorRepository, error) {
	return &VectorRepository{
		backend: backend,
	}, nil
}

// Close releases resources. VectorRepository has no resources to release;
// the backend is closed by its owner.
func (r *VectorRepository) Close() error {
	return nil
}

// GetVector retrieves the vector stored for word.
func (r *VectorRepository) GetVector(ctx context.Context, lang core.Language, word string) (*core.WordVector, error) {
	var wv *core.WordVector
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		wv, err = readWordVector(tx, makeWordVectorKey(lang, word))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if wv == nil {
		return nil, storage.ErrNotFound
	}
	return wv, nil
}

// GetVectors retrieves the vectors for several words in one read transaction.
func (r *VectorRepository) GetVectors(ctx context.Context, lang core.Language, words ...string) (map[string]*core.WordVector, error) {
	found := make(map[string]*core.WordVector, len(words))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, word := range words {
			if _, seen := found[word]; seen {
				continue
			}
			wv, err := readWordVector(tx, makeWordVectorKey(lang, word))
			if err != nil {
				return err
			}
			if wv != nil {
				found[word] = wv
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// HasVector reports whether word has a stored vector.
func (r *VectorRepository) HasVector(ctx context.Context, lang core.Language, word string) (bool, error) {
	var present bool
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeWordVectorKey(lang, word))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		present = true
		return nil
	}, false)
	return present, err
}

// PutVectors stores vectors, overwriting existing entries.
func (r *VectorRepository) PutVectors(ctx context.Context, vectors ...*core.WordVector) error {
	for _, wv := range vectors {
		if err := core.ValidateWordVector(wv); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, wv := range vectors {
			if wv.Id == 0 {
				wv.Id = core.IDFromContent(wv.Key())
			}
			if wv.InsertedAt.IsZero() {
				wv.InsertedAt = now
			}
			if err := tx.Set(makeWordVectorKey(wv.Lang, wv.Word), storage.MarshalWordVector(wv)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of stored words for lang.
func (r *VectorRepository) Count(ctx context.Context, lang core.Language) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeLanguagePrefix(lang)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readWordVector returns nil, nil when the key does not exist.
func readWordVector(tx *badger.Txn, key []byte) (*core.WordVector, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var wv *core.WordVector
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		wv, unmarshalErr = storage.UnmarshalWordVector(val)
		return unmarshalErr
	})
	return wv, err
}
