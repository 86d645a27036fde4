package rules

import (
	"fmt"
	"strings"

	"regpolicy/config"
	"regpolicy/ipaddresses"
	"regpolicy/policy"
)

type cidrRange struct {
	notation string
	prefix   uint32
	mask     uint32
}

type ipDenylistRule struct {
	id     string
	fatal  bool
	ranges []cidrRange
}

// newIPDenylistRule rejects requesters whose IPv4 address falls inside any
// configured CIDR range. Unknown and IPv6 addresses never match. Violations
// deny by default.
func newIPDenylistRule(c config.Rule) (r policy.Rule, err error) {
	if len(c.CIDRs) == 0 {
		err = fmt.Errorf("at least one CIDR range is required")
		return
	}

	ranges := make([]cidrRange, 0, len(c.CIDRs))
	for _, cidr := range c.CIDRs {
		prefix, mask, parseErr := ipaddresses.ParseCIDR(cidr)
		if parseErr != nil {
			err = parseErr
			return
		}
		ranges = append(ranges, cidrRange{notation: cidr, prefix: prefix, mask: mask})
	}

	r = &ipDenylistRule{
		id:     c.ID,
		fatal:  fatalAction(c.Action, true),
		ranges: ranges,
	}
	return
}

func (r *ipDenylistRule) RuleID() string {
	return r.id
}

func (r *ipDenylistRule) Eval(input policy.PolicyInput, rep policy.ReputationSnapshot) policy.RuleResult {
	ip := input.Requester.IPAddress
	if ip == "" || strings.Contains(ip, ":") {
		return policy.RuleResult{Outcome: policy.Pass}
	}

	ipInt, err := ipaddresses.ParseIPAddress(ip)
	if err != nil {
		// The normalizer already rejected malformed literals.
		return policy.RuleResult{Outcome: policy.Pass}
	}

	for _, rng := range r.ranges {
		if ipInt&rng.mask == rng.prefix {
			return policy.RuleResult{
				Outcome: policy.Reject,
				Fatal:   r.fatal,
				Message: fmt.Sprintf("requester address is in denylisted range %v", rng.notation),
			}
		}
	}

	return policy.RuleResult{Outcome: policy.Pass}
}
