// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package docfind

import (
	"context"
	"log/slog"

	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/ai/openai"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/ingestion"
	"github.com/poiesic/docfind/search"
	"github.com/poiesic/docfind/source"
	"github.com/poiesic/docfind/storage"
	"github.com/poiesic/docfind/storage/badger"
)

// Engine is the top-level entry point: it owns the AI provider, the
// persistent embedding cache, the ingestion pipeline, and the search
// orchestrator for one document session.
type Engine struct {
	provider ai.Provider
	cache    storage.VectorCache
	service  *search.Service
	searcher *search.Searcher
	pipeline *ingestion.Pipeline
	session  *search.SessionCache
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig  *ai.Config
	provider  ai.Provider
	noAI      bool
	cachePath string
	memCache  bool
	progress  *ingestion.ProgressTracker
	logger    *slog.Logger
}

// WithAIConfig sets the AI host and model configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects an AI provider directly, bypassing the OpenAI
// client construction. Intended for tests.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithoutAI disables embedding and answer generation entirely. Search
// runs sparse-only and Ask returns context without generated text.
func WithoutAI() EngineOption {
	return func(o *engineOptions) {
		o.noAI = true
	}
}

// WithCachePath enables the persistent embedding cache at the given
// directory.
func WithCachePath(path string) EngineOption {
	return func(o *engineOptions) {
		o.cachePath = path
	}
}

// WithMemoryCache enables an in-memory embedding cache. Intended for tests.
func WithMemoryCache() EngineOption {
	return func(o *engineOptions) {
		o.memCache = true
	}
}

// WithProgress attaches a progress tracker that reports embedding
// backfill progress, e.g. to stderr in the CLI.
func WithProgress(tracker *ingestion.ProgressTracker) EngineOption {
	return func(o *engineOptions) {
		o.progress = tracker
	}
}

// WithEngineLogger sets a custom logger.
// Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine creates an engine ready to load a document.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	e := &Engine{logger: options.logger}

	// AI provider
	switch {
	case options.provider != nil:
		e.provider = options.provider
	case options.noAI:
		// sparse-only operation
	default:
		provider, err := openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
		e.provider = provider
	}

	// Embedding cache
	var err error
	switch {
	case options.memCache:
		e.cache, err = badger.NewMemoryCache()
	case options.cachePath != "":
		var backend *badger.Backend
		backend, err = badger.OpenBackend(options.cachePath, false)
		if err == nil {
			e.cache, err = badger.NewVectorCache(backend)
		}
	}
	if err != nil {
		e.closeProvider()
		return nil, err
	}

	// Index service
	e.service, err = search.NewService(search.WithServiceLogger(e.logger))
	if err != nil {
		e.closeCache()
		e.closeProvider()
		return nil, err
	}

	// Ingestion pipeline
	var pipelineOpts []ingestion.Option
	pipelineOpts = append(pipelineOpts, ingestion.WithLogger(e.logger))
	var embedder ai.Embedder
	if e.provider != nil {
		embedder = e.provider.Embedder()
	}
	if e.cache != nil {
		pipelineOpts = append(pipelineOpts, ingestion.WithCache(e.cache, options.aiConfig.EmbeddingModel))
	}
	if options.progress != nil {
		pipelineOpts = append(pipelineOpts, ingestion.WithProgress(options.progress))
	}
	e.pipeline, err = ingestion.NewPipeline(embedder, pipelineOpts...)
	if err != nil {
		e.service.Close()
		e.closeCache()
		e.closeProvider()
		return nil, err
	}

	// Searcher
	e.session = search.NewSessionCache(0)
	searcherOpts := []search.Option{
		search.WithLogger(e.logger),
		search.WithSessionCache(e.session),
	}
	if embedder != nil {
		searcherOpts = append(searcherOpts, search.WithEmbedder(embedder))
	}
	e.searcher, err = search.NewSearcher(e.service, searcherOpts...)
	if err != nil {
		e.pipeline.Release()
		e.service.Close()
		e.closeCache()
		e.closeProvider()
		return nil, err
	}

	return e, nil
}

// LoadPDF loads and indexes the PDF at path, replacing any previously
// loaded document. Embedding backfill starts in the background; search
// is usable immediately with sparse-only ranking.
func (e *Engine) LoadPDF(ctx context.Context, path string) error {
	return e.Load(ctx, source.NewPDF(path))
}

// LoadPages loads and indexes already-extracted pages.
func (e *Engine) LoadPages(ctx context.Context, pages []core.Page) error {
	return e.Load(ctx, source.NewSlice(pages))
}

// Load loads and indexes a document from any page source.
func (e *Engine) Load(ctx context.Context, src source.PageSource) error {
	idx, err := e.pipeline.Load(ctx, src)
	if err != nil {
		return err
	}
	if err := e.service.SetIndex(ctx, idx, src); err != nil {
		return err
	}
	e.session.Invalidate()

	if e.provider != nil {
		if err := e.pipeline.Backfill(ctx, idx, e.service); err != nil {
			// Search still works sparse-only.
			e.logger.Warn("embedding backfill not started", "err", err)
		}
	}
	return nil
}

// WaitForEmbeddings blocks until background embedding backfill for the
// current document completes.
func (e *Engine) WaitForEmbeddings() {
	e.pipeline.Drain()
}

// Search runs the multi-stage search for a question.
func (e *Engine) Search(ctx context.Context, q string, history []string, maxHits int) (*search.Result, error) {
	return e.searcher.Search(ctx, q, history, maxHits)
}

// SearchPages runs the multi-stage search restricted to the given pages.
func (e *Engine) SearchPages(ctx context.Context, q string, history []string, maxHits int, pages map[int]bool) (*search.Result, error) {
	return e.searcher.SearchPages(ctx, q, history, maxHits, pages)
}

// SearchWithMonitor runs the multi-stage search with stage callbacks.
func (e *Engine) SearchWithMonitor(ctx context.Context, q string, history []string, maxHits int, monitor search.SearchMonitor) (*search.Result, error) {
	return e.searcher.SearchWithMonitor(ctx, q, history, maxHits, monitor)
}

// Answer is a generated response with its supporting material.
type Answer struct {
	Text       string
	Pages      []int
	Confidence float64
	BestOption string // set for quiz questions
	Steps      []core.SearchStep
	FromCache  bool
}

const askMaxHits = 8

// Ask searches for a question and generates a natural-language answer
// from the assembled context. Without an AI provider the answer text is
// empty but the supporting pages and confidence are still returned.
func (e *Engine) Ask(ctx context.Context, q string, history []string) (*Answer, error) {
	result, err := e.searcher.Search(ctx, q, history, askMaxHits)
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Pages:      result.Pages,
		Confidence: result.Confidence,
		Steps:      result.Steps,
		FromCache:  result.FromCache,
	}
	if result.Evidence != nil {
		answer.BestOption = result.Evidence.BestOption
	}

	if e.provider != nil && result.Context != "" {
		text, err := e.provider.Generator().GenerateAnswer(ctx, ai.AnswerRequest{
			Question: q,
			Context:  result.Context,
			Pages:    result.Pages,
		})
		if err != nil {
			return nil, err
		}
		answer.Text = text
		e.session.RecordAnswer(q, text)
	}

	return answer, nil
}

// Stats reports chunk and embedding counts for the loaded document.
func (e *Engine) Stats(ctx context.Context) (search.Stats, error) {
	return e.service.IndexStats(ctx)
}

// Session exposes the session cache, e.g. to invalidate it when the
// conversation resets.
func (e *Engine) Session() *search.SessionCache {
	return e.session
}

// Close releases all engine resources.
func (e *Engine) Close() error {
	e.searcher.Release()
	e.pipeline.Drain()
	e.pipeline.Release()
	e.service.Close()

	if err := e.closeCache(); err != nil {
		e.logger.Error("error closing embedding cache", "err", err)
		return err
	}
	if err := e.closeProvider(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}

func (e *Engine) closeCache() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Close()
}

func (e *Engine) closeProvider() error {
	if e.provider == nil {
		return nil
	}
	return e.provider.Close()
}
