package index

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/corpora/ai/mock"
	"github.com/poiesic/corpora/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeIndexRecord(sourceName string, index int, valid bool) *core.ParagraphRecord {
	return &core.ParagraphRecord{
		Id:              core.ParagraphID(sourceName, index),
		SourceName:      sourceName,
		SourceFile:      sourceName + ".pdf",
		ParagraphIndex:  index,
		Text:            "פסקה שמספרה " + core.ParagraphID(sourceName, index),
		OpeningSentence: "פתיחה של " + core.ParagraphID(sourceName, index),
		WordCount:       60,
		Valid:           valid,
	}
}

func TestEmbeddingBuilder_BuildsEntriesInOrder(t *testing.T) {
	builder := NewEmbeddingBuilder(mock.NewMockEmbedder(), WithEmbeddingBatchSize(2))

	records := []*core.ParagraphRecord{
		makeIndexRecord("alpha", 0, true),
		makeIndexRecord("alpha", 1, true),
		makeIndexRecord("alpha", 2, false),
		makeIndexRecord("beta", 0, true),
	}

	entries, err := builder.Build(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "alpha_p0000", entries[0].Id)
	assert.Equal(t, "alpha_p0001", entries[1].Id)
	assert.Equal(t, "beta_p0000", entries[2].Id)

	for _, entry := range entries {
		assert.NotEmpty(t, entry.Vector)
		assert.NotEmpty(t, entry.Text)
		assert.NotEmpty(t, entry.OpeningSentence)
	}
}

func TestEmbeddingBuilder_NormalizesVectors(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{3, 4}
		}
		return vectors, nil
	}

	builder := NewEmbeddingBuilder(embedder)
	entries, err := builder.Build(context.Background(), []*core.ParagraphRecord{makeIndexRecord("alpha", 0, true)})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var norm float64
	for _, v := range entries[0].Vector {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestEmbeddingBuilder_NoValidParagraphs(t *testing.T) {
	builder := NewEmbeddingBuilder(mock.NewMockEmbedder())

	_, err := builder.Build(context.Background(), []*core.ParagraphRecord{makeIndexRecord("alpha", 0, false)})
	assert.ErrorIs(t, err, ErrNoValidParagraphs)
}

func TestEmbeddingBuilder_EmbedderFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	builder := NewEmbeddingBuilder(embedder)
	_, err := builder.Build(context.Background(), []*core.ParagraphRecord{makeIndexRecord("alpha", 0, true)})
	assert.ErrorContains(t, err, "embedding service down")
}

func TestEmbeddingBuilder_CountMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil // always one vector, regardless of input
	}

	builder := NewEmbeddingBuilder(embedder)
	_, err := builder.Build(context.Background(), []*core.ParagraphRecord{
		makeIndexRecord("alpha", 0, true),
		makeIndexRecord("alpha", 1, true),
	})
	assert.ErrorIs(t, err, ErrEmbeddingCountMismatch)
}
