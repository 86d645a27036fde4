package rules

import (
	"fmt"

	"regpolicy/config"
	"regpolicy/policy"
)

type userAgentRule struct {
	id       string
	fatal    bool
	matcher  policy.MultiRegexEngine
	patterns []string
}

// newUserAgentRule matches the requester's user agent against a set of
// blocklist patterns compiled into one multi-regex engine. Matches flag by
// default.
func newUserAgentRule(c config.Rule, mref policy.MultiRegexEngineFactory) (r policy.Rule, err error) {
	if len(c.Patterns) == 0 {
		err = fmt.Errorf("at least one pattern is required")
		return
	}

	mm := make([]policy.MultiRegexEnginePattern, 0, len(c.Patterns))
	for i, p := range c.Patterns {
		mm = append(mm, policy.MultiRegexEnginePattern{ID: i, Expr: p})
	}

	matcher, err := mref.NewMultiRegexEngine(mm)
	if err != nil {
		err = fmt.Errorf("failed to compile user agent patterns: %v", err)
		return
	}

	r = &userAgentRule{
		id:       c.ID,
		fatal:    fatalAction(c.Action, false),
		matcher:  matcher,
		patterns: c.Patterns,
	}
	return
}

func (r *userAgentRule) RuleID() string {
	return r.id
}

func (r *userAgentRule) Eval(input policy.PolicyInput, rep policy.ReputationSnapshot) policy.RuleResult {
	ua := input.Requester.UserAgent
	if ua == "" {
		return policy.RuleResult{Outcome: policy.Pass}
	}

	matches, err := r.matcher.Scan([]byte(ua))
	if err != nil {
		return policy.RuleResult{
			Outcome: policy.Warn,
			Message: "user agent matching unavailable",
		}
	}

	if len(matches) == 0 {
		return policy.RuleResult{Outcome: policy.Pass}
	}

	outcome := policy.Warn
	if r.fatal {
		outcome = policy.Reject
	}

	return policy.RuleResult{
		Outcome: outcome,
		Fatal:   r.fatal,
		Message: fmt.Sprintf("user agent %q matches blocked pattern %q", ua, r.patterns[matches[0].ID]),
	}
}
