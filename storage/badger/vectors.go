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


// Package badger implements storage.VectorStore on BadgerDB.
//
// The store holds one entry per valid paragraph under a common key prefix.
// Queries are flat scans: every entry is compared against the query vector.
// Corpus sizes here are tens of thousands of paragraphs, which a scan covers
// in a few milliseconds, so no ANN index is maintained.
package badger

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
)

type vectorStore struct {
	backend *Backend
	logger  *slog.Logger
}

// Open opens the vector store at the given directory, creating it if needed.
// The returned store owns the underlying database; Close releases it.
func Open(path string) (storage.VectorStore, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}
	return NewStore(backend), nil
}

// NewStore wraps an already-open backend. Closing the store closes the
// backend.
func NewStore(backend *Backend) storage.VectorStore {
	return &vectorStore{
		backend: backend,
		logger:  slog.Default().With("component", "vectorstore"),
	}
}

func (s *vectorStore) Rebuild(ctx context.Context, entries []*core.VectorEntry) error {
	dim := -1
	for _, entry := range entries {
		if entry.Id == "" {
			return fmt.Errorf("vector entry: %w", core.ErrEmptyID)
		}
		if dim < 0 {
			dim = len(entry.Vector)
		} else if len(entry.Vector) != dim {
			return fmt.Errorf("%w: entry %q has vector dimension %d, want %d",
				storage.ErrInvalidQuery, entry.Id, len(entry.Vector), dim)
		}
	}

	if err := s.backend.db.DropPrefix(vectorEntryKeyPrefix()); err != nil {
		return fmt.Errorf("dropping old entries: %w", err)
	}

	// WriteBatch sidesteps the single-transaction size limit on large
	// corpora.
	wb := s.backend.db.NewWriteBatch()
	defer wb.Cancel()

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := wb.Set(makeVectorEntryKey(entry.Id), storage.MarshalVectorEntry(entry)); err != nil {
			return fmt.Errorf("writing entry %q: %w", entry.Id, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flushing entries: %w", err)
	}

	s.logger.Info("vector store rebuilt", "entries", len(entries))
	return nil
}

func (s *vectorStore) Search(ctx context.Context, vector []float32, k int) ([]*core.Candidate, error) {
	return s.scan(ctx, vector, "", k)
}

func (s *vectorStore) SearchBySource(ctx context.Context, vector []float32, sourceName string, k int) ([]*core.Candidate, error) {
	if sourceName == "" {
		return nil, fmt.Errorf("%w: empty source name", storage.ErrInvalidQuery)
	}
	return s.scan(ctx, vector, sourceName, k)
}

// scan compares the query vector against every stored entry and returns the
// k closest by cosine distance. Vectors are stored normalized, so the
// distance is 1 minus the dot product.
func (s *vectorStore) scan(ctx context.Context, vector []float32, sourceName string, k int) ([]*core.Candidate, error) {
	if len(vector) == 0 || k <= 0 {
		return nil, fmt.Errorf("%w: need a non-empty vector and k > 0", storage.ErrInvalidQuery)
	}

	var candidates []*core.Candidate
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = vectorEntryKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var entry *core.VectorEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalVectorEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if sourceName != "" && entry.SourceName != sourceName {
				continue
			}
			if len(entry.Vector) == 0 {
				continue
			}

			distance := float64(1 - dotProduct(vector, entry.Vector))
			candidates = append(candidates, &core.Candidate{
				Id:              entry.Id,
				SourceName:      entry.SourceName,
				OpeningSentence: entry.OpeningSentence,
				Text:            entry.Text,
				ParagraphIndex:  entry.ParagraphIndex,
				WordCount:       entry.WordCount,
				Distance:        &distance,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Ties broken by ID so equal-distance results come back in a stable
	// order regardless of iteration order.
	slices.SortFunc(candidates, func(a, b *core.Candidate) int {
		if c := cmp.Compare(*a.Distance, *b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

func (s *vectorStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = vectorEntryKeyPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *vectorStore) Close() error {
	return s.backend.Close()
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
