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
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
)

const (
	// DefaultScoringBatchSize is how many paragraphs are scored and
	// persisted per round.
	DefaultScoringBatchSize = 50

	// DefaultNeighborK is how many nearest neighbors each scoring query
	// retrieves.
	DefaultNeighborK = 6

	// selfMatchThreshold: a full-text neighbor this close is the paragraph
	// itself (or a verbatim duplicate) and carries no signal.
	selfMatchThreshold = 0.001
)

// Component weights of the difficulty score.
const (
	weightNeighbor    = 0.3
	weightOpening     = 0.3
	weightSourceCount = 0.2
	weightCrossTopic  = 0.2
)

// DifficultyIndexer assigns each valid paragraph a difficulty score in
// [0, 1] from its semantic neighborhood and writes the scores back to the
// metadata store.
type DifficultyIndexer struct {
	paragraphs storage.ParagraphStore
	vectors    storage.VectorStore
	embedder   ai.Embedder
	batchSize  int
	neighborK  int
	progress   io.Writer
	logger     *slog.Logger
}

// DifficultyOption configures a DifficultyIndexer.
type DifficultyOption func(*DifficultyIndexer)

// WithScoringBatchSize overrides the per-round paragraph count.
func WithScoringBatchSize(size int) DifficultyOption {
	return func(d *DifficultyIndexer) {
		if size > 0 {
			d.batchSize = size
		}
	}
}

// WithNeighborK overrides how many neighbors each query retrieves.
func WithNeighborK(k int) DifficultyOption {
	return func(d *DifficultyIndexer) {
		if k > 0 {
			d.neighborK = k
		}
	}
}

// WithProgressWriter redirects progress output (default os.Stderr).
func WithProgressWriter(w io.Writer) DifficultyOption {
	return func(d *DifficultyIndexer) {
		d.progress = w
	}
}

// NewDifficultyIndexer creates an indexer over the given stores and embedder.
func NewDifficultyIndexer(paragraphs storage.ParagraphStore, vectors storage.VectorStore, embedder ai.Embedder, opts ...DifficultyOption) *DifficultyIndexer {
	d := &DifficultyIndexer{
		paragraphs: paragraphs,
		vectors:    vectors,
		embedder:   embedder,
		batchSize:  DefaultScoringBatchSize,
		neighborK:  DefaultNeighborK,
		progress:   os.Stderr,
		logger:     slog.Default().With("component", "difficulty-indexer"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run scores every valid paragraph and persists the results in batches.
// The vector store must already hold the corpus embeddings.
func (d *DifficultyIndexer) Run(ctx context.Context) error {
	if err := d.paragraphs.EnsureDifficultySchema(ctx); err != nil {
		return fmt.Errorf("preparing difficulty schema: %w", err)
	}

	records, sourceCounts, err := d.loadValidParagraphs(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrNoValidParagraphs
	}

	maxCount := 0
	for _, count := range sourceCounts {
		if count > maxCount {
			maxCount = count
		}
	}

	d.logger.Info("scoring difficulty", "paragraphs", len(records), "sources", len(sourceCounts))
	tracker := NewProgressTracker(d.progress, len(records), d.batchSize)
	tracker.Start()

	for start := 0; start < len(records); start += d.batchSize {
		end := start + d.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		scores, err := d.scoreBatch(ctx, batch, sourceCounts, maxCount)
		if err != nil {
			return fmt.Errorf("scoring paragraphs %d-%d: %w", start, end-1, err)
		}
		if err := d.paragraphs.UpdateDifficulty(ctx, scores); err != nil {
			return fmt.Errorf("persisting scores: %w", err)
		}
		tracker.Increment(len(batch))
	}

	tracker.Finish()
	d.logger.Info("difficulty scoring complete", "paragraphs", len(records), "elapsed", tracker.Elapsed())
	return nil
}

func (d *DifficultyIndexer) loadValidParagraphs(ctx context.Context) ([]*core.ParagraphRecord, map[string]int, error) {
	sources, err := d.paragraphs.ListSources(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing sources: %w", err)
	}

	var records []*core.ParagraphRecord
	counts := make(map[string]int, len(sources))
	for _, source := range sources {
		sourceRecords, err := d.paragraphs.GetBySource(ctx, source)
		if err != nil {
			return nil, nil, fmt.Errorf("loading source %q: %w", source, err)
		}
		for _, record := range sourceRecords {
			if record.Valid {
				records = append(records, record)
				counts[source]++
			}
		}
	}
	return records, counts, nil
}

func (d *DifficultyIndexer) scoreBatch(ctx context.Context, batch []*core.ParagraphRecord, sourceCounts map[string]int, maxCount int) (map[string]float64, error) {
	texts := make([]string, len(batch))
	openings := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = record.Text
		openings[i] = record.OpeningSentence
		if openings[i] == "" {
			openings[i] = record.Text
		}
	}

	textVectors, err := d.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding texts: %w", err)
	}
	openingVectors, err := d.embedder.EmbedTexts(ctx, openings)
	if err != nil {
		return nil, fmt.Errorf("embedding opening sentences: %w", err)
	}
	if len(textVectors) != len(batch) || len(openingVectors) != len(batch) {
		return nil, fmt.Errorf("%w: expected %d", ErrEmbeddingCountMismatch, len(batch))
	}

	scores := make(map[string]float64, len(batch))
	for i, record := range batch {
		score, err := d.scoreParagraph(ctx, record, textVectors[i], openingVectors[i], sourceCounts, maxCount)
		if err != nil {
			return nil, err
		}
		scores[record.Id] = score
	}
	return scores, nil
}

// scoreParagraph computes the composite difficulty of one paragraph:
//
//   - neighborSim: similarity to the nearest non-self full-text neighbor.
//     A crowded neighborhood means many paragraphs could be confused with
//     this one. Defaults to 0.5 when no neighbor qualifies.
//   - openingSim: similarity of the opening sentence to its nearest
//     neighbor, skipping only exact-duplicate matches (usually the
//     paragraph's own full-text entry). A generic opening gives the
//     guesser less to work with. Defaults to 0.0.
//   - sourceCountNorm: the source document's valid-paragraph count,
//     normalized against the largest source.
//   - crossTopic: similarity to the nearest neighbor from a different
//     source; 0.0 when the top k are all same-source.
func (d *DifficultyIndexer) scoreParagraph(ctx context.Context, record *core.ParagraphRecord, textVector, openingVector []float32, sourceCounts map[string]int, maxCount int) (float64, error) {
	textNeighbors, err := d.vectors.Search(ctx, NormalizeVector(textVector), d.neighborK)
	if err != nil {
		return 0, fmt.Errorf("paragraph %q: full-text neighbors: %w", record.Id, err)
	}
	openingNeighbors, err := d.vectors.Search(ctx, NormalizeVector(openingVector), d.neighborK)
	if err != nil {
		return 0, fmt.Errorf("paragraph %q: opening neighbors: %w", record.Id, err)
	}

	neighborSim := 0.5
	for _, c := range textNeighbors {
		if c.Id == record.Id || *c.Distance <= selfMatchThreshold {
			continue
		}
		neighborSim = clamp01(1 - *c.Distance)
		break
	}

	// Only exact-duplicate matches are skipped here. The paragraph's own
	// full-text entry stays eligible: the opening query never matches it
	// within the duplicate threshold, and its similarity is exactly the
	// generic-opening signal this term measures.
	openingSim := 0.0
	for _, c := range openingNeighbors {
		if *c.Distance <= selfMatchThreshold {
			continue
		}
		openingSim = clamp01(1 - *c.Distance)
		break
	}

	crossTopic := 0.0
	for _, c := range textNeighbors {
		if c.SourceName != record.SourceName {
			crossTopic = clamp01(1 - *c.Distance)
			break
		}
	}

	sourceCountNorm := normalize(float64(sourceCounts[record.SourceName]), 1, float64(maxCount))

	score := weightNeighbor*neighborSim +
		weightOpening*openingSim +
		weightSourceCount*sourceCountNorm +
		weightCrossTopic*crossTopic
	return clamp01(math.Round(score*10000) / 10000), nil
}

// normalize maps value from [lo, hi] onto [0, 1], clamped. A degenerate
// range yields the midpoint.
func normalize(value, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return clamp01((value - lo) / (hi - lo))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
