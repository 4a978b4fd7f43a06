package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/evidence"
	"github.com/poiesic/docfind/question"
	"github.com/poiesic/docfind/retrieve"
	"github.com/poiesic/docfind/semantic"
	"github.com/poiesic/docfind/text"
)

const (
	// DefaultSearchTimeout bounds one top-level search before it falls
	// back to a single-shot retrieval.
	DefaultSearchTimeout = 30 * time.Second

	// DefaultContextBudget caps assembled context length in characters.
	DefaultContextBudget = 4000

	// fallbackConfidencePenalty scales confidence when the decomposed
	// search timed out and a single-shot search answered instead.
	fallbackConfidencePenalty = 0.5

	// neighborCandidates is how many top candidates get ±1 page
	// expansion around them.
	neighborCandidates = 2

	// negationBoost and constraintBoost nudge candidates that carry
	// the question's negation words or constraint context above
	// otherwise equal passages.
	negationBoost   = 1.1
	constraintBoost = 1.1
)

// Searcher is the top-level orchestrator: it turns a user question into
// ranked candidates, assembled page context, and (for quiz questions)
// per-option evidence chains.
type Searcher struct {
	service       *Service
	embedder      ai.Embedder // nil means sparse-only
	cache         *SessionCache
	evidence      *evidence.Builder
	pool          *ants.Pool
	timeout       time.Duration
	contextBudget int
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEmbedder enables dense-vector query embedding for hybrid
// retrieval. Embedding failures degrade to sparse-only search.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(s *Searcher) error {
		s.embedder = embedder
		return nil
	}
}

// WithSessionCache attaches a session cache for follow-up questions.
func WithSessionCache(cache *SessionCache) Option {
	return func(s *Searcher) error {
		s.cache = cache
		return nil
	}
}

// WithTimeout bounds one top-level search.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout > 0 {
			s.timeout = timeout
		}
		return nil
	}
}

// WithContextBudget caps the assembled context's character length.
func WithContextBudget(budget int) Option {
	return func(s *Searcher) error {
		if budget > 0 {
			s.contextBudget = budget
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for the parallel sub-question
// gather. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// NewSearcher creates a searcher over the given index service.
func NewSearcher(service *Service, opts ...Option) (*Searcher, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		service:       service,
		pool:          pool,
		timeout:       DefaultSearchTimeout,
		contextBudget: DefaultContextBudget,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}

	builder, err := evidence.NewBuilder(service, evidence.WithLogger(s.logger))
	if err != nil {
		s.Release()
		return nil, err
	}
	s.evidence = builder

	return s, nil
}

// Result is the outcome of one top-level search.
type Result struct {
	Question   string
	Analysis   core.QuestionAnalysis
	Candidates []core.SearchCandidate
	Context    string // page-tagged excerpts, truncated to the budget
	Pages      []int  // ascending, unique
	Steps      []core.SearchStep
	Evidence   *evidence.Result // non-nil only for quiz questions
	Confidence float64          // 0..1
	FromCache  bool
}

// trace accumulates the thinking-step progress records emitted during a
// search. Safe for concurrent use; the gather goroutine may still be
// appending when a timeout fallback takes over.
type trace struct {
	mu      sync.Mutex
	steps   []core.SearchStep
	monitor SearchMonitor
}

func (t *trace) begin(label string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	step := core.SearchStep{Label: label, Status: core.StepActive}
	t.steps = append(t.steps, step)
	t.monitor.Step(step)
	return len(t.steps) - 1
}

func (t *trace) complete(i int, detail string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.steps[i].Status = core.StepComplete
	t.steps[i].Detail = detail
	t.monitor.Step(t.steps[i])
}

func (t *trace) snapshot() []core.SearchStep {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]core.SearchStep, len(t.steps))
	copy(out, t.steps)
	return out
}

// Search runs the full multi-stage search for a question.
// history, when non-empty, marks the question as a follow-up eligible
// for the session-cache fast path.
func (s *Searcher) Search(ctx context.Context, q string, history []string, maxHits int) (*Result, error) {
	return s.run(ctx, q, history, maxHits, nil, nil)
}

// SearchPages runs the full multi-stage search restricted to the given
// pages. Filtered searches bypass the session cache in both directions:
// a partial-document context must neither serve nor seed follow-ups.
func (s *Searcher) SearchPages(ctx context.Context, q string, history []string, maxHits int, pages map[int]bool) (*Result, error) {
	return s.run(ctx, q, history, maxHits, pages, nil)
}

// SearchWithMonitor runs the full multi-stage search with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, q string, history []string, maxHits int, monitor SearchMonitor) (*Result, error) {
	return s.run(ctx, q, history, maxHits, nil, monitor)
}

func (s *Searcher) run(ctx context.Context, q string, history []string, maxHits int, pageFilter map[int]bool, monitor SearchMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(q)

	tr := &trace{monitor: monitor}

	// Follow-up fast path: reuse the previous search's context.
	if len(history) > 0 && s.cache != nil && pageFilter == nil {
		if entry, ok := s.cache.Get(); ok {
			monitor.CacheHit(q)
			i := tr.begin("reuse session context")
			result := &Result{
				Question:   q,
				Candidates: entry.Candidates,
				Context:    entry.Context,
				Pages:      entry.Pages,
				Confidence: 0.8,
				FromCache:  true,
			}
			tr.complete(i, fmt.Sprintf("cached context from %q", entry.Question))
			result.Steps = tr.snapshot()
			monitor.Finish(result)
			return result, nil
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan *Result, 1)
	go func() {
		done <- s.gather(runCtx, q, maxHits, pageFilter, tr, monitor)
	}()

	var result *Result
	select {
	case result = <-done:
	case <-runCtx.Done():
		result = s.fallback(ctx, q, maxHits, pageFilter, tr, monitor)
	}

	result.Steps = tr.snapshot()

	if s.cache != nil && !result.FromCache && pageFilter == nil {
		s.cache.Put(SessionEntry{
			Question:   q,
			Context:    result.Context,
			Pages:      result.Pages,
			Candidates: result.Candidates,
		})
	}

	monitor.Finish(result)
	return result, nil
}

// gather is the decomposed search path: analyze, decompose, search all
// sub-questions and expansion queries concurrently, merge, rescore,
// assemble context, and build evidence chains for quiz questions.
// Individual sub-search failures are logged and contribute nothing.
func (s *Searcher) gather(ctx context.Context, q string, maxHits int, pageFilter map[int]bool, tr *trace, monitor SearchMonitor) *Result {
	i := tr.begin("analyze question")
	analysis := question.Analyze(q)
	tr.complete(i, string(analysis.Intent))

	quiz := question.DetectQuiz(q)

	i = tr.begin("decompose question")
	subs := question.Decompose(q)
	monitor.AfterDecompose(subs)
	tr.complete(i, fmt.Sprintf("%d sub-questions", len(subs)))

	queries := expandQueries(subs, analysis)

	var queryVector []float32
	if s.embedder != nil {
		i = tr.begin("embed query")
		vector, err := s.embedder.EmbedText(ctx, q)
		if err != nil {
			s.logger.Warn("query embedding failed, using sparse-only retrieval", "err", err)
			tr.complete(i, "unavailable")
		} else {
			queryVector = semantic.Normalize(vector)
			tr.complete(i, fmt.Sprintf("%d dims", len(queryVector)))
		}
	}

	i = tr.begin("gather passages")
	rankings := make([][]core.SearchCandidate, len(queries))
	var wg sync.WaitGroup
	for n, sub := range queries {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()

			var candidates []core.SearchCandidate
			var searchErr error
			if queryVector != nil {
				candidates, searchErr = s.service.SearchHybrid(ctx, sub, queryVector, maxHits, pageFilter)
			} else {
				candidates, searchErr = s.service.SearchBoosted(ctx, sub, maxHits, pageFilter)
			}
			if searchErr != nil {
				s.logger.Warn("sub-search failed", "query", sub, "err", searchErr)
				return
			}
			rankings[n] = candidates
			monitor.AfterSubSearch(sub, candidates)
		})
		if err != nil {
			wg.Done()
			s.logger.Warn("failed to submit sub-search", "query", sub, "err", err)
		}
	}
	wg.Wait()

	merged := retrieve.MergeByChunk(rankings...)
	tr.complete(i, fmt.Sprintf("%d candidates", len(merged)))

	i = tr.begin("score candidates")
	merged = s.rescore(merged, q, analysis)
	if len(merged) > maxHits {
		merged = merged[:maxHits]
	}
	monitor.AfterMerge(merged)
	tr.complete(i, fmt.Sprintf("top score %.0f", topScore(merged)))

	i = tr.begin("assemble context")
	contextText, pages := s.assembleContext(ctx, merged, pageFilter)
	tr.complete(i, fmt.Sprintf("%d pages", len(pages)))

	result := &Result{
		Question:   q,
		Analysis:   analysis,
		Candidates: merged,
		Context:    contextText,
		Pages:      pages,
		Confidence: math.Min(1, topScore(merged)/100),
	}

	if quiz != nil {
		i = tr.begin("build evidence chains")
		evidenceResult, err := s.evidence.Build(quiz.Stem, quiz.Options)
		if err != nil {
			s.logger.Warn("evidence building failed", "err", err)
			tr.complete(i, "unavailable")
		} else {
			result.Evidence = evidenceResult
			for _, chain := range evidenceResult.Chains {
				if chain.Option == evidenceResult.BestOption {
					result.Confidence = chain.Confidence
				}
			}
			tr.complete(i, fmt.Sprintf("best option %s", evidenceResult.BestOption))
		}
	}

	return result
}

// fallback is the timeout path: abandon the decomposed search and issue
// one single-shot retrieval, reporting a lower-confidence result rather
// than an error.
func (s *Searcher) fallback(ctx context.Context, q string, maxHits int, pageFilter map[int]bool, tr *trace, monitor SearchMonitor) *Result {
	monitor.Fallback("timeout")
	i := tr.begin("fallback single-shot search")

	fallbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	candidates, err := s.service.SearchBoosted(fallbackCtx, q, maxHits, pageFilter)
	if err != nil {
		s.logger.Warn("fallback search failed", "err", err)
		candidates = nil
	}

	analysis := question.Analyze(q)
	candidates = s.rescore(candidates, q, analysis)

	contextText, pages := s.assembleContext(fallbackCtx, candidates, pageFilter)
	tr.complete(i, fmt.Sprintf("%d candidates", len(candidates)))

	return &Result{
		Question:   q,
		Analysis:   analysis,
		Candidates: candidates,
		Context:    contextText,
		Pages:      pages,
		Confidence: math.Min(1, topScore(candidates)/100) * fallbackConfidencePenalty,
	}
}

// rescore re-evaluates every merged candidate against the full original
// question and nudges candidates that carry the question's negation
// words or constraint context. Candidates the full question scores at
// zero are dropped; retrieval may surface them for one sub-question or
// by embedding similarity alone.
func (s *Searcher) rescore(candidates []core.SearchCandidate, q string, analysis core.QuestionAnalysis) []core.SearchCandidate {
	kept := candidates[:0]
	for _, candidate := range candidates {
		scored := retrieve.ScoreCandidate(candidate.Text, q)
		if scored.Score <= 0 {
			continue
		}
		candidate.Score = applyAnalysis(scored.Score, candidate.Text, analysis)
		candidate.Match = scored.Match
		if scored.Excerpt != "" {
			candidate.Excerpt = scored.Excerpt
		}
		kept = append(kept, candidate)
	}
	retrieve.SortCandidates(kept)
	return kept
}

// expandQueries appends the analyzer's query-expansion signals to the
// decomposed sub-questions: each quoted focus phrase as its own query,
// plus one query joining the extracted key terms. Duplicates of queries
// already issued are skipped.
func expandQueries(subs []string, analysis core.QuestionAnalysis) []string {
	queries := make([]string, 0, len(subs)+len(analysis.FocusPhrases)+1)
	seen := make(map[string]bool, cap(queries))
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || seen[strings.ToLower(q)] {
			return
		}
		seen[strings.ToLower(q)] = true
		queries = append(queries, q)
	}

	for _, sub := range subs {
		add(sub)
	}
	for _, phrase := range analysis.FocusPhrases {
		add(phrase)
	}
	if len(analysis.KeyTerms) > 0 {
		add(strings.Join(analysis.KeyTerms, " "))
	}

	return queries
}

// applyAnalysis nudges a candidate's score upward when the passage
// carries the question's negation words or covers its constraint
// context. Zero-scored candidates stay zero.
func applyAnalysis(score float64, passage string, analysis core.QuestionAnalysis) float64 {
	if score <= 0 {
		return score
	}

	lowered := strings.ToLower(passage)
	if containsNegation(lowered, analysis.Negations) {
		score *= negationBoost
	}
	if coversConstraint(lowered, analysis.Constraints) {
		score *= constraintBoost
	}
	return math.Min(100, score)
}

// containsNegation reports whether any of the question's negation words
// appears as a whole word in the lowercased passage.
func containsNegation(lowered string, negations []string) bool {
	if len(negations) == 0 {
		return false
	}
	words := make(map[string]bool)
	for _, word := range strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[word] = true
	}
	for _, negation := range negations {
		if words[negation] {
			return true
		}
	}
	return false
}

// coversConstraint reports whether the lowercased passage contains at
// least half of some constraint snippet's content tokens.
func coversConstraint(lowered string, constraints []string) bool {
	for _, constraint := range constraints {
		tokens := text.Tokenize(constraint)
		if len(tokens) == 0 {
			continue
		}
		matched := 0
		for _, token := range tokens {
			if strings.Contains(lowered, token) {
				matched++
			}
		}
		if matched*2 >= len(tokens) {
			return true
		}
	}
	return false
}

// assembleContext builds the page-tagged context handed to answer
// generation, expanding ±1 neighboring pages around the top candidates
// for continuity. Neighbor expansion honors the page filter. Output is
// truncated to the context budget.
func (s *Searcher) assembleContext(ctx context.Context, candidates []core.SearchCandidate, pageFilter map[int]bool) (string, []int) {
	var b strings.Builder
	pageSet := make(map[int]bool)

	appendSection := func(page int, body string) bool {
		if body == "" {
			return true
		}
		section := fmt.Sprintf("[page %d] %s\n", page, body)
		if b.Len()+len(section) > s.contextBudget {
			return false
		}
		b.WriteString(section)
		pageSet[page] = true
		return true
	}

	for _, candidate := range candidates {
		body := candidate.Text
		if body == "" {
			body = candidate.Excerpt
		}
		if !appendSection(candidate.Page, body) {
			break
		}
	}

	// Neighbor expansion around the best hits. Missing or timed-out
	// page text contributes nothing.
	for n := 0; n < len(candidates) && n < neighborCandidates; n++ {
		for _, delta := range []int{-1, 1} {
			page := candidates[n].Page + delta
			if page < 1 || pageSet[page] {
				continue
			}
			if pageFilter != nil && !pageFilter[page] {
				continue
			}
			appendSection(page, s.service.PageText(ctx, page))
		}
	}

	pages := make([]int, 0, len(pageSet))
	for page := range pageSet {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	return strings.TrimRight(b.String(), "\n"), pages
}

func topScore(candidates []core.SearchCandidate) float64 {
	if len(candidates) == 0 {
		return 0
	}
	return candidates[0].Score
}

// Release releases the worker pool. The searcher should not be used
// after calling Release.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}
