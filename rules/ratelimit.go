package rules

import (
	"fmt"

	"regpolicy/config"
	"regpolicy/policy"
)

type rateLimitRule struct {
	id        string
	threshold int64
	failMode  policy.FailMode
}

// newRateLimitRule denies a requester whose attempt count within the
// current reputation window exceeds the threshold. An unavailable
// reputation store resolves per the configured fail mode.
func newRateLimitRule(c config.Rule, failMode policy.FailMode) (r policy.Rule, err error) {
	if c.Threshold <= 0 {
		err = fmt.Errorf("threshold must be positive")
		return
	}

	r = &rateLimitRule{
		id:        c.ID,
		threshold: c.Threshold,
		failMode:  failMode,
	}
	return
}

func (r *rateLimitRule) RuleID() string {
	return r.id
}

func (r *rateLimitRule) Eval(input policy.PolicyInput, rep policy.ReputationSnapshot) policy.RuleResult {
	if rep.Err != nil {
		if r.failMode == policy.FailOpen {
			return policy.RuleResult{Outcome: policy.Pass}
		}
		return policy.RuleResult{
			Outcome: policy.Reject,
			Fatal:   true,
			Message: "evaluation_unavailable",
		}
	}

	// The snapshot count includes the current attempt.
	if rep.Count > r.threshold {
		return policy.RuleResult{
			Outcome: policy.Reject,
			Fatal:   true,
			Message: fmt.Sprintf("requester exceeded %d registration attempts within the current window", r.threshold),
		}
	}

	return policy.RuleResult{Outcome: policy.Pass}
}
