package rules

import (
	"errors"
	"regexp"

	"regpolicy/policy"
)

// mockMultiRegexEngineFactory compiles with the Go regexp engine so rule
// tests need no cgo matcher.
type mockMultiRegexEngineFactory struct {
	failCompile bool
}

type mockMultiRegexEngine struct {
	patterns map[int]*regexp.Regexp
	scanErr  error
}

func (f *mockMultiRegexEngineFactory) NewMultiRegexEngine(mm []policy.MultiRegexEnginePattern) (policy.MultiRegexEngine, error) {
	if f.failCompile {
		return nil, errors.New("mock compile failure")
	}

	e := &mockMultiRegexEngine{patterns: make(map[int]*regexp.Regexp)}
	for _, p := range mm {
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			return nil, err
		}
		e.patterns[p.ID] = re
	}
	return e, nil
}

func (e *mockMultiRegexEngine) Scan(input []byte) (matches []policy.MultiRegexEngineMatch, err error) {
	if e.scanErr != nil {
		err = e.scanErr
		return
	}

	for id, re := range e.patterns {
		if re.Match(input) {
			matches = append(matches, policy.MultiRegexEngineMatch{ID: id})
		}
	}
	return
}

func (e *mockMultiRegexEngine) Close() {
}

func metadataInput(metadata policy.ClientMetadata) policy.PolicyInput {
	return policy.PolicyInput{ClientMetadata: metadata}
}

func requesterInput(ip string, ua string) policy.PolicyInput {
	return policy.PolicyInput{
		ClientMetadata: policy.ClientMetadata{},
		Requester:      policy.Requester{IPAddress: ip, UserAgent: ua},
	}
}
