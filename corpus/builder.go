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


package corpus

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/pool"
)

// Builder orchestrates extraction, segmentation, sentence extraction and
// quality filtering across all source documents.
type Builder struct {
	extractor Extractor
	minWords  int
	logger    *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithMinWords sets the minimum paragraph word count for segmentation.
// Default is DefaultMinWords.
func WithMinWords(minWords int) BuilderOption {
	return func(b *Builder) {
		if minWords > 0 {
			b.minWords = minWords
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a corpus builder using the given document extractor.
func NewBuilder(extractor Extractor, opts ...BuilderOption) (*Builder, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	b := &Builder{
		extractor: extractor,
		minWords:  DefaultMinWords,
		logger:    slog.Default().With("component", "corpus-builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build processes all documents and returns the full paragraph corpus,
// sorted by id. Document work is fanned over a CPU-bound worker pool sized
// to available parallelism; a document whose worker fails is logged and
// dropped, and the build continues with whatever succeeded. The sort is a
// correctness requirement: two builds over the same inputs must yield
// identical output regardless of worker completion order.
//
// Returns core.ErrEmptyCorpus when no document produced any paragraphs.
func (b *Builder) Build(ctx context.Context, paths []string) ([]*core.ParagraphRecord, error) {
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}

	// Sorted input keeps log output and failure reporting stable.
	sorted := slices.Clone(paths)
	slices.Sort(sorted)

	perDoc, errs := pool.Map(ctx, sorted, b.buildDocument)

	var records []*core.ParagraphRecord
	for i, docRecords := range perDoc {
		if errs[i] != nil {
			b.logger.Error("document processing failed, dropping document",
				"path", sorted[i], "err", errs[i])
			continue
		}
		records = append(records, docRecords...)
	}

	slices.SortFunc(records, func(a, b *core.ParagraphRecord) int {
		return strings.Compare(a.Id, b.Id)
	})

	if len(records) == 0 {
		return nil, core.ErrEmptyCorpus
	}

	b.logger.Info("corpus built", "documents", len(sorted), "paragraphs", len(records))
	return records, nil
}

// buildDocument runs the per-document pipeline: pages -> paragraphs -> records.
func (b *Builder) buildDocument(ctx context.Context, path string) ([]*core.ParagraphRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	pages, err := b.extractor.Extract(path)
	if err != nil {
		return nil, err
	}

	pageTexts := make([]string, len(pages))
	for i, p := range pages {
		pageTexts[i] = p.Text
	}
	fullText := strings.Join(pageTexts, "\n\n")
	paragraphs := Segment(fullText, b.minWords)

	sourceFile := filepath.Base(path)
	sourceName := strings.TrimSuffix(sourceFile, filepath.Ext(sourceFile))

	records := make([]*core.ParagraphRecord, 0, len(paragraphs))
	for i, text := range paragraphs {
		opening := FirstSentence(text)
		records = append(records, &core.ParagraphRecord{
			Id:              core.ParagraphID(sourceName, i),
			SourceName:      sourceName,
			SourceFile:      sourceFile,
			ParagraphIndex:  i,
			Text:            text,
			OpeningSentence: opening,
			WordCount:       len(strings.Fields(text)),
			Valid:           IsValid(opening, text),
		})
	}

	b.logger.Debug("document processed", "path", path, "paragraphs", len(records))
	return records, nil
}
