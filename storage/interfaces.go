package storage

import (
	"context"

	"github.com/poiesic/corpora/core"
)

// Default word-count and difficulty bounds for random sampling.
const (
	DefaultRandomMinWords = 50
	DefaultRandomMaxWords = 150
)

// RandomQuery bounds a random paragraph draw. The zero value is not usable;
// construct with NewRandomQuery and tighten the fields as needed.
type RandomQuery struct {
	MinWords      int
	MaxWords      int
	MinDifficulty float64
	MaxDifficulty float64
}

// NewRandomQuery returns a query with the default word-count window and a
// fully permissive difficulty range.
func NewRandomQuery() RandomQuery {
	return RandomQuery{
		MinWords:      DefaultRandomMinWords,
		MaxWords:      DefaultRandomMaxWords,
		MinDifficulty: 0.0,
		MaxDifficulty: 1.0,
	}
}

// Validate reports whether the query bounds are coherent.
func (q RandomQuery) Validate() error {
	if q.MinWords < 0 || q.MaxWords < q.MinWords {
		return ErrInvalidQuery
	}
	if q.MinDifficulty < 0 || q.MaxDifficulty > 1 || q.MaxDifficulty < q.MinDifficulty {
		return ErrInvalidQuery
	}
	return nil
}

// ParagraphStore provides operations for managing paragraph records.
// Implementations must be thread-safe and support concurrent access.
type ParagraphStore interface {
	// UpsertAll inserts or replaces paragraph records by ID.
	// Records that fail core.ValidateParagraphRecord are rejected.
	UpsertAll(ctx context.Context, records []*core.ParagraphRecord) error

	// GetByID retrieves a single paragraph record by its ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetByID(ctx context.Context, id string) (*core.ParagraphRecord, error)

	// GetBySource retrieves all paragraphs of one source document,
	// ordered by paragraph index.
	GetBySource(ctx context.Context, sourceName string) ([]*core.ParagraphRecord, error)

	// GetRandom draws one valid paragraph uniformly at random within the
	// query bounds. Paragraphs without a difficulty score count as 0.5.
	// If no paragraph matches the bounds, falls back to any valid
	// paragraph; returns ErrNotFound only when the store holds no valid
	// paragraphs at all.
	GetRandom(ctx context.Context, q RandomQuery) (*core.ParagraphRecord, error)

	// SearchText retrieves valid paragraphs whose text contains the given
	// substring, up to limit results.
	SearchText(ctx context.Context, substr string, limit int) ([]*core.ParagraphRecord, error)

	// ListSources returns the distinct source names, sorted.
	ListSources(ctx context.Context) ([]string, error)

	// Count returns the total number of stored paragraph records.
	Count(ctx context.Context) (int, error)

	// EnsureDifficultySchema makes the store ready to hold difficulty
	// scores. Safe to call repeatedly.
	EnsureDifficultySchema(ctx context.Context) error

	// UpdateDifficulty sets difficulty scores for the given paragraph IDs.
	// IDs not present in the store are ignored.
	UpdateDifficulty(ctx context.Context, scores map[string]float64) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// VectorStore provides nearest-neighbor operations over paragraph embeddings.
// Implementations must be thread-safe and support concurrent access.
type VectorStore interface {
	// Rebuild replaces the entire store contents with the given entries.
	// Entries must carry vectors of equal dimension.
	Rebuild(ctx context.Context, entries []*core.VectorEntry) error

	// Search finds the k entries nearest to the given vector across the
	// whole corpus, ordered by distance (closest first).
	Search(ctx context.Context, vector []float32, k int) ([]*core.Candidate, error)

	// SearchBySource is Search restricted to entries of one source document.
	SearchBySource(ctx context.Context, vector []float32, sourceName string, k int) ([]*core.Candidate, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
