package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/index"
	"github.com/poiesic/docfind/semantic"
	"github.com/poiesic/docfind/source"
	"github.com/poiesic/docfind/storage"
	"github.com/poiesic/docfind/text"
)

const (
	// DefaultBatchSize is how many chunks are embedded per API call.
	DefaultBatchSize = 16

	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// EmbeddingSink receives embedding vectors as backfill batches complete.
// Implementations must tolerate vectors arriving in any order.
type EmbeddingSink interface {
	ApplyEmbeddings(ctx context.Context, vectors map[core.ChunkID][]float32) error
}

// Pipeline turns a page source into a searchable index and optionally
// backfills dense embeddings for its chunks in the background.
type Pipeline struct {
	embedder       ai.Embedder // nil means sparse-only operation
	cache          storage.VectorCache
	cacheModel     string
	pool           *ants.Pool
	chunkOpts      text.ChunkOptions
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	progress       *ProgressTracker
	logger         *slog.Logger

	wg sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for embedding backfill.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunkOptions overrides the chunking parameters.
func WithChunkOptions(opts text.ChunkOptions) Option {
	return func(p *Pipeline) error {
		p.chunkOpts = opts
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per API call.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry configures retry behavior for embedding API calls.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxRetries = maxAttempts
		p.retryBaseDelay = baseDelay
		return nil
	}
}

// WithCache attaches a persistent vector cache. Cached vectors are
// keyed by embedding model and chunk content, so cache hits skip the
// embedding API entirely. model names the embedding model in use.
func WithCache(cache storage.VectorCache, model string) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		p.cacheModel = model
		return nil
	}
}

// WithProgress attaches a progress tracker that is updated as backfill
// batches complete.
func WithProgress(tracker *ProgressTracker) Option {
	return func(p *Pipeline) error {
		p.progress = tracker
		return nil
	}
}

// NewPipeline creates an ingestion pipeline. embedder may be nil, in
// which case indexes are built sparse-only and Backfill returns
// ErrEmbedderRequired.
func NewPipeline(embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		embedder:       embedder,
		pool:           pool,
		chunkOpts:      text.DefaultChunkOptions(),
		batchSize:      DefaultBatchSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Load extracts pages from the source, chunks them, and builds a fresh
// index. A source with no pages yields an empty index, not an error;
// searches against it simply return nothing.
func (p *Pipeline) Load(ctx context.Context, src source.PageSource) (*core.Index, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}

	pages, err := src.Pages(ctx)
	if err != nil {
		return nil, err
	}

	var chunks []*core.Chunk
	for _, page := range pages {
		chunks = append(chunks, text.ChunkPage(page.Text, page.Number, p.chunkOpts)...)
	}

	if len(chunks) == 0 {
		p.logger.Warn("document produced no chunks", "pages", len(pages))
	}

	idx := index.Build(chunks)
	p.logger.Info("index built", "pages", len(pages), "chunks", len(chunks))
	return idx, nil
}

// Backfill generates embeddings for every chunk of idx and delivers
// them to sink in batches, using the worker pool. Cached vectors are
// applied without calling the embedder. Batch failures are logged and
// skipped; search degrades to sparse-only ranking for those chunks.
// Backfill returns once all batches are submitted; use Drain to wait
// for completion.
func (p *Pipeline) Backfill(ctx context.Context, idx *core.Index, sink EmbeddingSink) error {
	if p.embedder == nil {
		return ErrEmbedderRequired
	}
	if sink == nil {
		return ErrSinkRequired
	}

	chunks := idx.Chunks
	if p.progress != nil {
		p.progress.SetTotal(len(chunks))
		p.progress.Start()
	}

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		p.wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer p.wg.Done()
			if err := p.processBatch(ctx, batch, sink); err != nil {
				p.logger.Error("embedding batch failed", "chunks", len(batch), "err", err)
			}
			if p.progress != nil {
				p.progress.Increment(len(batch))
			}
		})
		if submitErr != nil {
			p.wg.Done()
			return submitErr
		}
	}

	return nil
}

// Drain blocks until all submitted backfill batches have completed.
func (p *Pipeline) Drain() {
	p.wg.Wait()
	if p.progress != nil {
		p.progress.Finish()
	}
}

// processBatch resolves embeddings for one batch of chunks, consulting
// the cache first, and delivers them to the sink.
func (p *Pipeline) processBatch(ctx context.Context, batch []*core.Chunk, sink EmbeddingSink) error {
	vectors := make(map[core.ChunkID][]float32, len(batch))

	var missTexts []string
	var missIDs []core.ChunkID
	var missKeys []core.ID

	for _, chunk := range batch {
		if p.cache != nil {
			key := storage.CacheKey(p.cacheModel, chunk.Text)
			vector, ok, err := p.cache.Get(ctx, key)
			if err != nil {
				return err
			}
			if ok {
				vectors[chunk.ID] = vector
				continue
			}
			missKeys = append(missKeys, key)
		}
		missTexts = append(missTexts, chunk.Text)
		missIDs = append(missIDs, chunk.ID)
	}

	if len(missTexts) > 0 {
		var embeddings [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			embeddings, embedErr = p.embedder.EmbedTexts(ctx, missTexts)
			return embedErr
		}, p.maxRetries, p.retryBaseDelay)
		if err != nil {
			return err
		}
		if len(embeddings) != len(missTexts) {
			return ErrEmbeddingMismatch
		}

		for i, id := range missIDs {
			vector := semantic.Normalize(embeddings[i])
			vectors[id] = vector

			if p.cache != nil {
				if cacheErr := p.cache.Put(ctx, missKeys[i], vector); cacheErr != nil {
					p.logger.Warn("failed to cache embedding", "err", cacheErr)
				}
			}
		}
	}

	return sink.ApplyEmbeddings(ctx, vectors)
}

// Release releases the worker pool. The pipeline should not be used
// after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
