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


package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/pool"
)

// DefaultEmbeddingBatchSize is how many paragraphs go into one embedding
// request.
const DefaultEmbeddingBatchSize = 100

// EmbeddingBuilder turns valid paragraph records into vector entries ready
// for the vector store.
type EmbeddingBuilder struct {
	embedder  ai.Embedder
	batchSize int
	logger    *slog.Logger
}

// EmbeddingOption configures an EmbeddingBuilder.
type EmbeddingOption func(*EmbeddingBuilder)

// WithEmbeddingBatchSize overrides the per-request paragraph count.
func WithEmbeddingBatchSize(size int) EmbeddingOption {
	return func(b *EmbeddingBuilder) {
		if size > 0 {
			b.batchSize = size
		}
	}
}

// NewEmbeddingBuilder creates a builder over the given embedder.
func NewEmbeddingBuilder(embedder ai.Embedder, opts ...EmbeddingOption) *EmbeddingBuilder {
	b := &EmbeddingBuilder{
		embedder:  embedder,
		batchSize: DefaultEmbeddingBatchSize,
		logger:    slog.Default().With("component", "embedding-builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build embeds the valid records and returns vector entries in record order.
// Invalid records are skipped. Vectors are normalized to unit length so the
// vector store can use cosine distance as 1 minus the dot product.
func (b *EmbeddingBuilder) Build(ctx context.Context, records []*core.ParagraphRecord) ([]*core.VectorEntry, error) {
	valid := make([]*core.ParagraphRecord, 0, len(records))
	for _, record := range records {
		if record.Valid {
			valid = append(valid, record)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidParagraphs
	}

	batches := chunkRecords(valid, b.batchSize)
	b.logger.Info("building embeddings", "paragraphs", len(valid), "batches", len(batches))

	results, errs := pool.Map(ctx, batches, b.embedBatch)
	if err := pool.FirstError(errs); err != nil {
		return nil, err
	}

	entries := make([]*core.VectorEntry, 0, len(valid))
	for _, batch := range results {
		entries = append(entries, batch...)
	}
	return entries, nil
}

func (b *EmbeddingBuilder) embedBatch(ctx context.Context, batch []*core.ParagraphRecord) ([]*core.VectorEntry, error) {
	texts := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = record.Text
	}

	vectors, err := b.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding batch of %d: %w", len(batch), err)
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(batch), len(vectors))
	}

	entries := make([]*core.VectorEntry, len(batch))
	for i, record := range batch {
		entries[i] = &core.VectorEntry{
			Id:              record.Id,
			SourceName:      record.SourceName,
			OpeningSentence: record.OpeningSentence,
			ParagraphIndex:  record.ParagraphIndex,
			WordCount:       record.WordCount,
			Text:            record.Text,
			Vector:          NormalizeVector(vectors[i]),
		}
	}
	return entries, nil
}

func chunkRecords(records []*core.ParagraphRecord, size int) [][]*core.ParagraphRecord {
	var batches [][]*core.ParagraphRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}
