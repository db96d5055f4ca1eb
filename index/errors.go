package index

import "errors"

var (
	// ErrEmbeddingCountMismatch indicates the embedder returned a different
	// number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrNoValidParagraphs indicates the corpus has nothing to index.
	ErrNoValidParagraphs = errors.New("no valid paragraphs to index")
)
