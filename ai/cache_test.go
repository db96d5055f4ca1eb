package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder returns a fixed vector per text and counts upstream calls.
type countingEmbedder struct {
	singleCalls int
	batchCalls  int
	batchTexts  []string
}

func (c *countingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	c.singleCalls++
	return []float32{float32(len(text)), 1}, nil
}

func (c *countingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls++
	c.batchTexts = append([]string(nil), texts...)
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = []float32{float32(len(text)), 1}
	}
	return vectors, nil
}

func TestCachingEmbedder_SingleTextHit(t *testing.T) {
	upstream := &countingEmbedder{}
	embedder := NewCachingEmbedder(upstream, "m1", 16, time.Minute)
	ctx := context.Background()

	first, err := embedder.EmbedText(ctx, "שלום עולם")
	require.NoError(t, err)
	second, err := embedder.EmbedText(ctx, "שלום עולם")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, upstream.singleCalls)
}

func TestCachingEmbedder_BatchOnlyEmbedsMisses(t *testing.T) {
	upstream := &countingEmbedder{}
	embedder := NewCachingEmbedder(upstream, "m1", 16, time.Minute)
	ctx := context.Background()

	_, err := embedder.EmbedText(ctx, "cached")
	require.NoError(t, err)

	vectors, err := embedder.EmbedTexts(ctx, []string{"cached", "fresh one", "fresh two"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, v := range vectors {
		assert.NotEmpty(t, v)
	}

	assert.Equal(t, 1, upstream.batchCalls)
	assert.Equal(t, []string{"fresh one", "fresh two"}, upstream.batchTexts)
}

func TestCachingEmbedder_ModelsDoNotShareEntries(t *testing.T) {
	upstream := &countingEmbedder{}
	ctx := context.Background()

	a := NewCachingEmbedder(upstream, "model-a", 16, time.Minute)
	b := NewCachingEmbedder(upstream, "model-b", 16, time.Minute)

	_, err := a.EmbedText(ctx, "text")
	require.NoError(t, err)
	_, err = b.EmbedText(ctx, "text")
	require.NoError(t, err)

	assert.Equal(t, 2, upstream.singleCalls)
}

func TestNewCachingEmbedder_DisabledPassesThrough(t *testing.T) {
	upstream := &countingEmbedder{}

	assert.Equal(t, Embedder(upstream), NewCachingEmbedder(upstream, "m", 0, time.Minute))
	assert.Equal(t, Embedder(upstream), NewCachingEmbedder(upstream, "m", 16, 0))
	assert.Nil(t, NewCachingEmbedder(nil, "m", 16, time.Minute))
}
