package search

import (
	"github.com/poiesic/docfind/core"
)

// SearchMonitor provides hooks to observe the multi-stage search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(question string)
	Step(step core.SearchStep)
	CacheHit(question string)
	AfterDecompose(subQuestions []string)
	AfterSubSearch(query string, candidates []core.SearchCandidate)
	AfterMerge(candidates []core.SearchCandidate)
	Fallback(reason string)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                   {}
func (n *noopMonitor) Step(_ core.SearchStep)                           {}
func (n *noopMonitor) CacheHit(_ string)                                {}
func (n *noopMonitor) AfterDecompose(_ []string)                        {}
func (n *noopMonitor) AfterSubSearch(_ string, _ []core.SearchCandidate) {}
func (n *noopMonitor) AfterMerge(_ []core.SearchCandidate)              {}
func (n *noopMonitor) Fallback(_ string)                                {}
func (n *noopMonitor) Finish(_ *Result)                                 {}
