package ingestion

import "errors"

var (
	// ErrSourceRequired is returned when a page source is not provided.
	ErrSourceRequired = errors.New("page source required")

	// ErrEmbedderRequired is returned when an embedding backfill is
	// requested without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrSinkRequired is returned when an embedding backfill is
	// requested without a destination for the vectors.
	ErrSinkRequired = errors.New("embedding sink required")

	// ErrInvalidMaxAttempts is returned when retry is configured with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmbeddingMismatch is returned when the embedder yields a
	// different number of vectors than texts submitted.
	ErrEmbeddingMismatch = errors.New("embedding count does not match text count")
)
