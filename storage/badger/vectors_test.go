package badger

import (
	"context"
	"testing"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) storage.VectorStore {
	t.Helper()
	s, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func makeEntry(sourceName string, index int, vector []float32) *core.VectorEntry {
	return &core.VectorEntry{
		Id:              core.ParagraphID(sourceName, index),
		SourceName:      sourceName,
		OpeningSentence: "משפט פתיחה של הפסקה.",
		ParagraphIndex:  index,
		WordCount:       60,
		Text:            "משפט פתיחה של הפסקה. ועוד קצת טקסט שממשיך אותה.",
		Vector:          vector,
	}
}

func TestVectorStoreRebuildAndCount(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	entries := []*core.VectorEntry{
		makeEntry("alpha", 0, []float32{1, 0, 0}),
		makeEntry("alpha", 1, []float32{0, 1, 0}),
		makeEntry("beta", 0, []float32{0, 0, 1}),
	}
	require.NoError(t, s.Rebuild(ctx, entries))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestVectorStoreRebuild_ReplacesContents(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, s.Rebuild(ctx, []*core.VectorEntry{
		makeEntry("alpha", 0, []float32{1, 0}),
		makeEntry("alpha", 1, []float32{0, 1}),
	}))
	require.NoError(t, s.Rebuild(ctx, []*core.VectorEntry{
		makeEntry("beta", 0, []float32{1, 0}),
	}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := s.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "beta_p0000", results[0].Id)
}

func TestVectorStoreRebuild_DimensionMismatch(t *testing.T) {
	s := newMemoryStore(t)

	err := s.Rebuild(context.Background(), []*core.VectorEntry{
		makeEntry("alpha", 0, []float32{1, 0, 0}),
		makeEntry("alpha", 1, []float32{1, 0}),
	})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestVectorStoreRebuild_EmptyID(t *testing.T) {
	s := newMemoryStore(t)

	entry := makeEntry("alpha", 0, []float32{1, 0})
	entry.Id = ""
	err := s.Rebuild(context.Background(), []*core.VectorEntry{entry})
	assert.ErrorIs(t, err, core.ErrEmptyID)
}

func TestVectorStoreSearch_OrdersByDistance(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	entries := []*core.VectorEntry{
		makeEntry("alpha", 0, []float32{0, 1, 0}),   // distance 1.0
		makeEntry("alpha", 1, []float32{1, 0, 0}),   // distance 0.0
		makeEntry("alpha", 2, []float32{0.6, 0.8, 0}), // distance 0.4
	}
	require.NoError(t, s.Rebuild(ctx, entries))

	results, err := s.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "alpha_p0001", results[0].Id)
	assert.Equal(t, "alpha_p0002", results[1].Id)
	assert.Equal(t, "alpha_p0000", results[2].Id)

	require.NotNil(t, results[0].Distance)
	assert.InDelta(t, 0.0, *results[0].Distance, 1e-6)
	require.NotNil(t, results[1].Distance)
	assert.InDelta(t, 0.4, *results[1].Distance, 1e-6)
	require.NotNil(t, results[2].Distance)
	assert.InDelta(t, 1.0, *results[2].Distance, 1e-6)
}

func TestVectorStoreSearch_TruncatesToK(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	entries := []*core.VectorEntry{
		makeEntry("alpha", 0, []float32{1, 0, 0}),
		makeEntry("alpha", 1, []float32{0.8, 0.6, 0}),
		makeEntry("alpha", 2, []float32{0, 1, 0}),
	}
	require.NoError(t, s.Rebuild(ctx, entries))

	results, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "alpha_p0000", results[0].Id)
	assert.Equal(t, "alpha_p0001", results[1].Id)
}

func TestVectorStoreSearchBySource(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	entries := []*core.VectorEntry{
		makeEntry("alpha", 0, []float32{1, 0}),
		makeEntry("beta", 0, []float32{1, 0}),
		makeEntry("beta", 1, []float32{0, 1}),
	}
	require.NoError(t, s.Rebuild(ctx, entries))

	results, err := s.SearchBySource(ctx, []float32{1, 0}, "beta", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, c := range results {
		assert.Equal(t, "beta", c.SourceName)
	}
	assert.Equal(t, "beta_p0000", results[0].Id)
}

func TestVectorStoreSearchBySource_EmptySource(t *testing.T) {
	s := newMemoryStore(t)

	_, err := s.SearchBySource(context.Background(), []float32{1, 0}, "", 5)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestVectorStoreSearch_InvalidArguments(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	_, err := s.Search(ctx, nil, 5)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = s.Search(ctx, []float32{1, 0}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestVectorStoreSearch_CancelledContext(t *testing.T) {
	s := newMemoryStore(t)

	require.NoError(t, s.Rebuild(context.Background(), []*core.VectorEntry{
		makeEntry("alpha", 0, []float32{1, 0}),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Search(ctx, []float32{1, 0}, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVectorStoreSearch_EqualDistancesOrderedByID(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	// gamma, alpha and beta all sit at the same distance from the query;
	// delta is strictly closer.
	require.NoError(t, s.Rebuild(ctx, []*core.VectorEntry{
		makeEntry("gamma", 0, []float32{0, 1, 0}),
		makeEntry("alpha", 0, []float32{0, 1, 0}),
		makeEntry("beta", 0, []float32{0, 1, 0}),
		makeEntry("delta", 0, []float32{1, 0, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0, 0}, 4)
	require.NoError(t, err)
	require.Len(t, results, 4)

	ids := make([]string, len(results))
	for i, c := range results {
		ids[i] = c.Id
	}
	assert.Equal(t, []string{"delta_p0000", "alpha_p0000", "beta_p0000", "gamma_p0000"}, ids)
}
