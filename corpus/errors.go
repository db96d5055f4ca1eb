package corpus

import "errors"

var (
	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrNoDocuments is returned when a build is started with no documents.
	ErrNoDocuments = errors.New("no source documents")

	// ErrNoExtractableText indicates a document yielded no usable text.
	ErrNoExtractableText = errors.New("no extractable text")
)
