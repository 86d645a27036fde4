// Package hyperscan provides policy.MultiRegexEngine implementations: one
// backed by Hyperscan and a pure Go fallback.
package hyperscan

import (
	"sync"

	hs "github.com/flier/gohs/hyperscan"

	"regpolicy/policy"
)

// EngineFactory implements policy.MultiRegexEngineFactory using Hyperscan.
type EngineFactory struct {
}

// Engine implements policy.MultiRegexEngine using Hyperscan.
type Engine struct {
	// Hyperscan's compiled database of regexes
	db hs.BlockDatabase

	// Pre-allocated memory space that Hyperscan needs during evaluation.
	// Scratch space must not be used concurrently.
	scratch *hs.Scratch
	mu      sync.Mutex
}

// NewMultiRegexEngineFactory creates a Hyperscan-backed
// policy.MultiRegexEngineFactory.
func NewMultiRegexEngineFactory() policy.MultiRegexEngineFactory {
	return &EngineFactory{}
}

// NewMultiRegexEngine creates a policy.MultiRegexEngine.
func (f *EngineFactory) NewMultiRegexEngine(mm []policy.MultiRegexEnginePattern) (m policy.MultiRegexEngine, err error) {
	h := &Engine{}

	patterns := []*hs.Pattern{}
	for _, p := range mm {
		hp := hs.NewPattern(p.Expr, 0)
		hp.Id = p.ID

		// SingleMatch makes Hyperscan only return one match per regex. So if a regex is found multiple times, still only one match is recorded.
		hp.Flags = hs.SingleMatch

		patterns = append(patterns, hp)
	}

	h.db, err = hs.NewBlockDatabase(patterns...)
	if err != nil {
		return
	}

	h.scratch, err = hs.NewScratch(h.db)
	if err != nil {
		h.db.Close()
		return
	}

	m = h
	return
}

// Scan scans the given input for all patterns that this engine was
// initialized with.
func (h *Engine) Scan(input []byte) (matches []policy.MultiRegexEngineMatch, err error) {
	matches = []policy.MultiRegexEngineMatch{}
	handler := func(id uint, from, to uint64, flags uint, context interface{}) error {
		matches = append(matches, policy.MultiRegexEngineMatch{ID: int(id)})
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	err = h.db.Scan(input, h.scratch, handler, nil)
	return
}

// Close frees the Hyperscan database and scratch space.
func (h *Engine) Close() {
	h.scratch.Free()
	h.db.Close()
}
