package hyperscan

import (
	"fmt"
	"regexp"

	"regpolicy/policy"
)

type goPattern struct {
	id int
	re *regexp.Regexp
}

type goEngineFactory struct {
}

type goEngine struct {
	patterns []goPattern
}

// NewGoMultiRegexEngineFactory creates a policy.MultiRegexEngineFactory
// backed by the built in Go regexp engine. Slower than Hyperscan on large
// pattern sets, but needs no cgo and is the default.
func NewGoMultiRegexEngineFactory() policy.MultiRegexEngineFactory {
	return &goEngineFactory{}
}

// NewMultiRegexEngine creates a policy.MultiRegexEngine.
func (f *goEngineFactory) NewMultiRegexEngine(mm []policy.MultiRegexEnginePattern) (m policy.MultiRegexEngine, err error) {
	e := &goEngine{}

	for _, p := range mm {
		var re *regexp.Regexp
		re, err = regexp.Compile(p.Expr)
		if err != nil {
			err = fmt.Errorf("failed to compile Go regexp pattern %v. Error was: %v", p.Expr, err)
			return
		}

		e.patterns = append(e.patterns, goPattern{id: p.ID, re: re})
	}

	m = e
	return
}

// Scan scans the given input for all patterns that this engine was
// initialized with.
func (e *goEngine) Scan(input []byte) (matches []policy.MultiRegexEngineMatch, err error) {
	matches = []policy.MultiRegexEngineMatch{}
	for _, p := range e.patterns {
		if p.re.Match(input) {
			matches = append(matches, policy.MultiRegexEngineMatch{ID: p.id})
		}
	}
	return
}

// Close is a no-op for the Go engine.
func (e *goEngine) Close() {
}
