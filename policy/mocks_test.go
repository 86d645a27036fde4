package policy

import (
	"context"
	"time"
)

type mockRule struct {
	id     string
	result RuleResult
}

func (r *mockRule) RuleID() string { return r.id }

func (r *mockRule) Eval(input PolicyInput, rep ReputationSnapshot) RuleResult {
	return r.result
}

type panickingRule struct {
	id string
}

func (r *panickingRule) RuleID() string { return r.id }

func (r *panickingRule) Eval(input PolicyInput, rep ReputationSnapshot) RuleResult {
	panic("boom")
}

type countingRule struct {
	id        string
	seenCount int64
	seenKey   string
	seenErr   error
}

func (r *countingRule) RuleID() string { return r.id }

func (r *countingRule) Eval(input PolicyInput, rep ReputationSnapshot) RuleResult {
	r.seenCount = rep.Count
	r.seenKey = rep.Key
	r.seenErr = rep.Err
	return RuleResult{Outcome: Pass}
}

type mockReputationStore struct {
	count    int64
	err      error
	calls    int
	lastKey  string
	lastCtx  context.Context
}

func (s *mockReputationStore) IncrementAndCheck(ctx context.Context, key string, now time.Time) (int64, error) {
	s.calls++
	s.lastKey = key
	s.lastCtx = ctx
	if s.err != nil {
		return 0, s.err
	}
	s.count++
	return s.count, nil
}

type mockResultsLogger struct {
	triggered   []string
	actions     []string
	unavailable int
}

func (l *mockResultsLogger) RuleTriggered(input PolicyInput, ruleID string, action string, message string) {
	l.triggered = append(l.triggered, ruleID)
	l.actions = append(l.actions, action)
}

func (l *mockResultsLogger) EvaluationUnavailable(input PolicyInput, err error) {
	l.unavailable++
}
