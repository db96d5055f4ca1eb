package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/index"
	"github.com/poiesic/corpora/storage"
)

// DefaultCandidateCount is how many candidates a retrieval returns when the
// caller passes n <= 0.
const DefaultCandidateCount = 6

// Retriever finds candidate paragraphs for a query text.
type Retriever struct {
	paragraphs storage.ParagraphStore
	vectors    storage.VectorStore
	embedder   ai.Embedder
	logger     *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever over the given stores and embedder.
func NewRetriever(
	paragraphs storage.ParagraphStore,
	vectors storage.VectorStore,
	embedder ai.Embedder,
	opts ...Option,
) (*Retriever, error) {
	if paragraphs == nil {
		return nil, ErrParagraphStoreRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		paragraphs: paragraphs,
		vectors:    vectors,
		embedder:   embedder,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Search retrieves up to n candidates for the query. When sourceName is
// non-empty, candidates from that source are ranked ahead of corpus-wide
// matches; duplicates are dropped with the source channel winning. If vector
// search yields nothing, the metadata store's rows for the source are
// returned unranked. The result never contains duplicate IDs.
func (r *Retriever) Search(ctx context.Context, query, sourceName string, n int) ([]*core.Candidate, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if n <= 0 {
		n = DefaultCandidateCount
	}

	// Embed the query once; both channels share the vector.
	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	vector := index.NormalizeVector(embedding)

	var priority []*core.Candidate
	if sourceName != "" {
		priority, err = r.vectors.SearchBySource(ctx, vector, sourceName, n)
		if err != nil {
			r.logger.Error("error searching source channel", "source", sourceName, "err", err)
			return nil, err
		}
	}

	fill, err := r.vectors.Search(ctx, vector, n)
	if err != nil {
		r.logger.Error("error searching corpus channel", "err", err)
		return nil, err
	}

	merged := mergeCandidates(priority, fill, n)
	if len(merged) > 0 {
		return merged, nil
	}

	return r.metadataFallback(ctx, sourceName, n)
}

// mergeCandidates concatenates the priority and fill channels, keeping the
// first occurrence of each ID, and truncates to n.
func mergeCandidates(priority, fill []*core.Candidate, n int) []*core.Candidate {
	seen := make(map[string]bool, n)
	merged := make([]*core.Candidate, 0, n)
	for _, c := range append(priority, fill...) {
		if seen[c.Id] {
			continue
		}
		seen[c.Id] = true
		merged = append(merged, c)
		if len(merged) == n {
			break
		}
	}
	return merged
}

// metadataFallback serves candidates straight from the metadata store when
// the vector store has nothing, keeping retrieval usable before embeddings
// are built. Results carry no distance.
func (r *Retriever) metadataFallback(ctx context.Context, sourceName string, n int) ([]*core.Candidate, error) {
	if sourceName == "" {
		return nil, nil
	}

	r.logger.Debug("vector search empty, falling back to metadata rows", "source", sourceName)
	records, err := r.paragraphs.GetBySource(ctx, sourceName)
	if err != nil {
		return nil, err
	}

	candidates := make([]*core.Candidate, 0, n)
	for _, record := range records {
		if !record.Valid {
			continue
		}
		candidates = append(candidates, &core.Candidate{
			Id:              record.Id,
			SourceName:      record.SourceName,
			OpeningSentence: record.OpeningSentence,
			Text:            record.Text,
			ParagraphIndex:  record.ParagraphIndex,
			WordCount:       record.WordCount,
		})
		if len(candidates) == n {
			break
		}
	}
	return candidates, nil
}
