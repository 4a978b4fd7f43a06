package ai

import "context"

// Embedder generates dense vector embeddings from text. The engine
// treats the vectors as opaque: it only requires that chunk and query
// vectors share dimensionality and are comparable by cosine similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings
	// in a batch, returned in input order. Batch calls are cheaper than
	// repeated EmbedText calls.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AnswerRequest carries everything the answer generator receives: the
// question and the retrieved context, already truncated to the caller's
// character budget and tagged with its source page numbers so every
// answer can be traced back to pages.
type AnswerRequest struct {
	Question string
	Context  string
	Pages    []int
}

// AnswerGenerator produces a natural-language answer from retrieved
// context. Generation quality is outside the retrieval engine's
// responsibility; the engine only guarantees the context contract.
// Implementations must be thread-safe for concurrent use.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, req AnswerRequest) (string, error)
}

// Provider aggregates the AI services for convenient initialization
// and lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generator returns the answer generation service.
	Generator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	Close() error
}
