package policy

// MultiRegexEngineFactory is an interface to a factory that can create
// regex engines that can scan for multiple regexes at once, such as
// HyperScan or the built in Go regexp engine.
type MultiRegexEngineFactory interface {
	NewMultiRegexEngine(mm []MultiRegexEnginePattern) (m MultiRegexEngine, err error)
}

// MultiRegexEngine is an interface to a regex engine that can scan an input
// for multiple regexes at once. Scan must be safe for concurrent use.
type MultiRegexEngine interface {
	Scan(input []byte) (matches []MultiRegexEngineMatch, err error)
	Close()
}

// MultiRegexEnginePattern is used by the MultiRegexEngineFactory to tell it
// what to scan for.
type MultiRegexEnginePattern struct {
	ID   int
	Expr string
}

// MultiRegexEngineMatch is used by the MultiRegexEngine interface to
// communicate back which patterns were found.
type MultiRegexEngineMatch struct {
	ID int
}
