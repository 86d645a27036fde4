package rules

import (
	"fmt"
	"strings"

	"regpolicy/config"
	"regpolicy/ipaddresses"
	"regpolicy/policy"
)

type specialPurposeIPRule struct {
	id    string
	fatal bool
}

// newSpecialPurposeIPRule flags requesters claiming an IPv4 source address
// from the IANA special-purpose ranges (private, loopback, documentation
// and similar): such an address did not come from a routable client.
func newSpecialPurposeIPRule(c config.Rule) policy.Rule {
	return &specialPurposeIPRule{
		id:    c.ID,
		fatal: fatalAction(c.Action, false),
	}
}

func (r *specialPurposeIPRule) RuleID() string {
	return r.id
}

func (r *specialPurposeIPRule) Eval(input policy.PolicyInput, rep policy.ReputationSnapshot) policy.RuleResult {
	ip := input.Requester.IPAddress
	if ip == "" || strings.Contains(ip, ":") {
		return policy.RuleResult{Outcome: policy.Pass}
	}

	special, err := ipaddresses.IsSpecialPurposeAddress(ip)
	if err != nil || !special {
		return policy.RuleResult{Outcome: policy.Pass}
	}

	outcome := policy.Warn
	if r.fatal {
		outcome = policy.Reject
	}

	return policy.RuleResult{
		Outcome: outcome,
		Fatal:   r.fatal,
		Message: fmt.Sprintf("requester address %v is in an IANA special-purpose range", ip),
	}
}
