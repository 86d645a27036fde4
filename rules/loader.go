// Package rules holds the built-in registration policy rules and the
// loader that assembles an ordered rule set from configuration.
package rules

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"regpolicy/config"
	"regpolicy/policy"
)

// Rule type names accepted in configuration.
const (
	TypeRedirectURIScheme = "redirect_uri_scheme"
	TypeClientNameLength  = "client_name_length"
	TypeIPRateLimit       = "ip_rate_limit"
	TypeUserAgentPattern  = "blocked_user_agent_pattern"
	TypeIPDenylist        = "ip_denylist"
	TypeSpecialPurposeIP  = "special_purpose_ip"
)

// NewRules builds the rule set from config, ordered by priority. The order
// is fixed at startup; it affects only diagnostic ordering, never the final
// verdict.
func NewRules(logger zerolog.Logger, cc []config.Rule, mref policy.MultiRegexEngineFactory, failMode policy.FailMode) (rr []policy.Rule, err error) {
	// Priority determines the order of evaluation and of diagnostics.
	sorted := make([]config.Rule, len(cc))
	copy(sorted, cc)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	for _, c := range sorted {
		var r policy.Rule

		switch c.Type {
		case TypeRedirectURIScheme:
			r, err = newRedirectURISchemeRule(c)
		case TypeClientNameLength:
			r, err = newClientNameLengthRule(c)
		case TypeIPRateLimit:
			r, err = newRateLimitRule(c, failMode)
		case TypeUserAgentPattern:
			r, err = newUserAgentRule(c, mref)
		case TypeIPDenylist:
			r, err = newIPDenylistRule(c)
		case TypeSpecialPurposeIP:
			r = newSpecialPurposeIPRule(c)
		default:
			err = fmt.Errorf("unknown rule type %q", c.Type)
		}

		if err != nil {
			err = fmt.Errorf("failed to load rule %q: %v", c.ID, err)
			rr = nil
			return
		}

		rr = append(rr, r)
	}

	logger.Info().Int("ruleCount", len(rr)).Msg("Loaded registration policy rules")
	return
}

// fatalAction translates a configured action into the fatal bit, using the
// given default when the action is unset.
func fatalAction(action string, defaultFatal bool) bool {
	switch action {
	case "deny":
		return true
	case "flag":
		return false
	}
	return defaultFatal
}
