package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/corpora/ai/mock"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/index"
	"github.com/poiesic/corpora/storage/badger"
	"github.com/poiesic/corpora/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSearchRecord(sourceName string, idx int, valid bool) *core.ParagraphRecord {
	id := core.ParagraphID(sourceName, idx)
	return &core.ParagraphRecord{
		Id:              id,
		SourceName:      sourceName,
		SourceFile:      sourceName + ".pdf",
		ParagraphIndex:  idx,
		Text:            "תוכן הפסקה " + id,
		OpeningSentence: "פתיחת הפסקה " + id,
		WordCount:       70,
		Valid:           valid,
	}
}

// newRetrieverFixture seeds a two-source corpus. When withVectors is false
// the vector store stays empty so retrieval exercises the metadata fallback.
func newRetrieverFixture(t *testing.T, withVectors bool) *Retriever {
	t.Helper()
	ctx := context.Background()

	paragraphs, err := sqlite.Open(filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { paragraphs.Close() })

	vectors, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { vectors.Close() })

	records := []*core.ParagraphRecord{
		makeSearchRecord("alpha", 0, true),
		makeSearchRecord("alpha", 1, true),
		makeSearchRecord("alpha", 2, false),
		makeSearchRecord("beta", 0, true),
		makeSearchRecord("beta", 1, true),
		makeSearchRecord("beta", 2, true),
	}
	require.NoError(t, paragraphs.UpsertAll(ctx, records))

	embedder := mock.NewMockEmbedder()
	if withVectors {
		entries, err := index.NewEmbeddingBuilder(embedder).Build(ctx, records)
		require.NoError(t, err)
		require.NoError(t, vectors.Rebuild(ctx, entries))
	}

	retriever, err := NewRetriever(paragraphs, vectors, embedder)
	require.NoError(t, err)
	return retriever
}

func TestRetrieverSearch_SourceChannelRanksFirst(t *testing.T) {
	retriever := newRetrieverFixture(t, true)

	candidates, err := retriever.Search(context.Background(), "תוכן הפסקה beta_p0000", "alpha", 4)
	require.NoError(t, err)
	require.Len(t, candidates, 4)

	// Both valid alpha paragraphs come first even though the query matches
	// a beta paragraph exactly.
	assert.Equal(t, "alpha", candidates[0].SourceName)
	assert.Equal(t, "alpha", candidates[1].SourceName)
	assert.Equal(t, "beta", candidates[2].SourceName)
	assert.Equal(t, "beta_p0000", candidates[2].Id)
}

func TestRetrieverSearch_NoDuplicateIDs(t *testing.T) {
	retriever := newRetrieverFixture(t, true)

	candidates, err := retriever.Search(context.Background(), "שאילתה כלשהי על הקורפוס", "beta", 10)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	seen := make(map[string]bool)
	for _, c := range candidates {
		assert.False(t, seen[c.Id], "duplicate candidate %s", c.Id)
		seen[c.Id] = true
	}
}

func TestRetrieverSearch_TruncatesToN(t *testing.T) {
	retriever := newRetrieverFixture(t, true)

	candidates, err := retriever.Search(context.Background(), "שאילתה", "alpha", 2)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestRetrieverSearch_NoSourceUsesCorpusChannel(t *testing.T) {
	retriever := newRetrieverFixture(t, true)

	candidates, err := retriever.Search(context.Background(), "תוכן הפסקה beta_p0001", "", 3)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.Equal(t, "beta_p0001", candidates[0].Id)
	require.NotNil(t, candidates[0].Distance)
	assert.InDelta(t, 0.0, *candidates[0].Distance, 1e-5)
}

func TestRetrieverSearch_MetadataFallback(t *testing.T) {
	retriever := newRetrieverFixture(t, false)

	candidates, err := retriever.Search(context.Background(), "שאילתה", "alpha", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2) // invalid alpha_p0002 filtered out

	assert.Equal(t, "alpha_p0000", candidates[0].Id)
	assert.Equal(t, "alpha_p0001", candidates[1].Id)
	for _, c := range candidates {
		assert.Nil(t, c.Distance, "fallback candidates are unranked")
	}
}

func TestRetrieverSearch_FallbackWithoutSourceIsEmpty(t *testing.T) {
	retriever := newRetrieverFixture(t, false)

	candidates, err := retriever.Search(context.Background(), "שאילתה", "", 5)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestRetrieverSearch_EmptyQuery(t *testing.T) {
	retriever := newRetrieverFixture(t, true)

	_, err := retriever.Search(context.Background(), "", "alpha", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestNewRetriever_RequiresDependencies(t *testing.T) {
	paragraphs, err := sqlite.Open(filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	defer paragraphs.Close()

	vectors, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer vectors.Close()

	_, err = NewRetriever(nil, vectors, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrParagraphStoreRequired)

	_, err = NewRetriever(paragraphs, nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrVectorStoreRequired)

	_, err = NewRetriever(paragraphs, vectors, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
