package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/retrieve"
	"github.com/poiesic/docfind/source"
)

// DefaultPageTimeout bounds a single page-text fetch. A fetch that
// exceeds it yields an empty string, not an error; missing page text
// just means less context.
const DefaultPageTimeout = 20 * time.Second

// request is the closed set of messages the service loop understands.
type request interface {
	isRequest()
}

type initIndexRequest struct {
	index *core.Index
	src   source.PageSource
	reply chan error
}

type searchRequest struct {
	query       string
	queryVector []float32 // nil means sparse-only
	boosted     bool
	limit       int
	pageFilter  map[int]bool
	reply       chan searchReply
}

type searchReply struct {
	candidates []core.SearchCandidate
	err        error
}

type applyEmbeddingsRequest struct {
	vectors map[core.ChunkID][]float32
	reply   chan error
}

type pageTextRequest struct {
	number int
	reply  chan string
}

type statsRequest struct {
	reply chan Stats
}

func (initIndexRequest) isRequest()       {}
func (searchRequest) isRequest()          {}
func (applyEmbeddingsRequest) isRequest() {}
func (pageTextRequest) isRequest()        {}
func (statsRequest) isRequest()           {}

// Stats describes the state of the loaded index.
type Stats struct {
	Chunks   int
	Embedded int
}

// Service owns the document index on a dedicated goroutine. All access
// goes through request messages, so retrieval never blocks on, or races
// with, embedding backfill. Searches issued before an index is loaded
// return empty results rather than errors.
type Service struct {
	params      retrieve.Params
	pageTimeout time.Duration
	logger      *slog.Logger

	requests  chan request
	closed    chan struct{}
	closeOnce sync.Once
}

// ServiceOption configures a Service.
type ServiceOption func(*Service) error

// WithParams overrides the retrieval ranking parameters.
func WithParams(params retrieve.Params) ServiceOption {
	return func(s *Service) error {
		s.params = params
		return nil
	}
}

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPageTimeout bounds individual page-text fetches.
func WithPageTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) error {
		if timeout > 0 {
			s.pageTimeout = timeout
		}
		return nil
	}
}

// NewService starts the index service. An index and its page source
// are installed later via SetIndex.
func NewService(opts ...ServiceOption) (*Service, error) {
	s := &Service{
		params:      retrieve.DefaultParams(),
		pageTimeout: DefaultPageTimeout,
		logger:      slog.Default(),
		requests:    make(chan request),
		closed:      make(chan struct{}),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	go s.run()
	return s, nil
}

// run is the service loop. It is the only goroutine that touches the
// index, so chunk embedding updates never race with searches.
func (s *Service) run() {
	var idx *core.Index
	var src source.PageSource
	var retriever *retrieve.Retriever

	for {
		select {
		case <-s.closed:
			return
		case req := <-s.requests:
			switch r := req.(type) {
			case initIndexRequest:
				newRetriever, err := retrieve.NewRetriever(r.index,
					retrieve.WithParams(s.params),
					retrieve.WithLogger(s.logger))
				if err == nil {
					idx = r.index
					src = r.src
					retriever = newRetriever
				}
				r.reply <- err

			case searchRequest:
				if retriever == nil {
					r.reply <- searchReply{}
					continue
				}
				var candidates []core.SearchCandidate
				var err error
				switch {
				case r.queryVector != nil:
					candidates, err = retriever.FindHybridCandidates(r.query, r.queryVector, r.limit, r.pageFilter)
				case r.boosted:
					candidates, err = retriever.FindBoostedCandidates(r.query, r.limit, r.pageFilter)
				default:
					candidates, err = retriever.FindCandidates(r.query, r.limit, r.pageFilter)
				}
				r.reply <- searchReply{candidates: candidates, err: err}

			case applyEmbeddingsRequest:
				if idx == nil {
					r.reply <- nil
					continue
				}
				for id, vector := range r.vectors {
					if chunk, ok := idx.Chunk(id); ok {
						chunk.Embedding = vector
					}
				}
				r.reply <- nil

			case pageTextRequest:
				if src == nil {
					r.reply <- ""
					continue
				}
				// Fetched off-loop so a slow source cannot stall searches.
				go s.fetchPageText(src, r.number, r.reply)

			case statsRequest:
				stats := Stats{}
				if idx != nil {
					stats.Chunks = len(idx.Chunks)
					for _, chunk := range idx.Chunks {
						if chunk.HasEmbedding() {
							stats.Embedded++
						}
					}
				}
				r.reply <- stats
			}
		}
	}
}

func (s *Service) fetchPageText(src source.PageSource, number int, reply chan string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.pageTimeout)
	defer cancel()

	text, err := src.PageText(ctx, number)
	if err != nil {
		s.logger.Warn("page text fetch failed", "page", number, "err", err)
		text = ""
	}
	reply <- text
}

// send submits a request, honoring both the caller's context and
// service shutdown.
func (s *Service) send(ctx context.Context, req request) error {
	select {
	case s.requests <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return ErrServiceClosed
	}
}

// SetIndex installs a freshly built index and its page source,
// replacing any previous document. src may be nil, in which case
// PageText returns empty strings and neighbor-page expansion is
// skipped.
func (s *Service) SetIndex(ctx context.Context, idx *core.Index, src source.PageSource) error {
	req := initIndexRequest{index: idx, src: src, reply: make(chan error, 1)}
	if err := s.send(ctx, req); err != nil {
		return err
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Search runs a BM25 query against the loaded index.
func (s *Service) Search(ctx context.Context, query string, limit int, pageFilter map[int]bool) ([]core.SearchCandidate, error) {
	return s.search(ctx, searchRequest{query: query, limit: limit, pageFilter: pageFilter})
}

// SearchBoosted runs a phrase-boosted BM25 query.
func (s *Service) SearchBoosted(ctx context.Context, query string, limit int, pageFilter map[int]bool) ([]core.SearchCandidate, error) {
	return s.search(ctx, searchRequest{query: query, boosted: true, limit: limit, pageFilter: pageFilter})
}

// SearchHybrid runs a hybrid query, fusing BM25 and dense-vector
// rankings. A nil queryVector degrades to the boosted sparse path.
func (s *Service) SearchHybrid(ctx context.Context, query string, queryVector []float32, limit int, pageFilter map[int]bool) ([]core.SearchCandidate, error) {
	return s.search(ctx, searchRequest{query: query, queryVector: queryVector, boosted: true, limit: limit, pageFilter: pageFilter})
}

func (s *Service) search(ctx context.Context, req searchRequest) ([]core.SearchCandidate, error) {
	req.reply = make(chan searchReply, 1)
	if err := s.send(ctx, req); err != nil {
		return nil, err
	}
	select {
	case reply := <-req.reply:
		return reply.candidates, reply.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FindBoostedCandidates adapts the service to the evidence builder's
// retrieval dependency.
func (s *Service) FindBoostedCandidates(query string, limit int, pageFilter map[int]bool) ([]core.SearchCandidate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.pageTimeout)
	defer cancel()
	return s.SearchBoosted(ctx, query, limit, pageFilter)
}

// ApplyEmbeddings installs embedding vectors on their chunks. Vectors
// for unknown chunk ids are silently dropped; the index may have been
// replaced since the batch was submitted.
func (s *Service) ApplyEmbeddings(ctx context.Context, vectors map[core.ChunkID][]float32) error {
	req := applyEmbeddingsRequest{vectors: vectors, reply: make(chan error, 1)}
	if err := s.send(ctx, req); err != nil {
		return err
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PageText returns the raw text of a page, or an empty string if the
// page is unknown, the source is absent, or the fetch timed out.
func (s *Service) PageText(ctx context.Context, number int) string {
	req := pageTextRequest{number: number, reply: make(chan string, 1)}
	if err := s.send(ctx, req); err != nil {
		return ""
	}
	select {
	case text := <-req.reply:
		return text
	case <-ctx.Done():
		return ""
	}
}

// IndexStats reports chunk and embedding counts for the loaded index.
func (s *Service) IndexStats(ctx context.Context) (Stats, error) {
	req := statsRequest{reply: make(chan Stats, 1)}
	if err := s.send(ctx, req); err != nil {
		return Stats{}, err
	}
	select {
	case stats := <-req.reply:
		return stats, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Close shuts down the service loop. In-flight requests may be dropped.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}
