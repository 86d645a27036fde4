package rules

import (
	"fmt"
	"net/url"

	"regpolicy/config"
	"regpolicy/policy"
)

type redirectURISchemeRule struct {
	id      string
	fatal   bool
	schemes map[string]bool
}

// newRedirectURISchemeRule requires every redirect URI to use https or one
// of the configured custom schemes. Violations deny by default.
func newRedirectURISchemeRule(c config.Rule) (r policy.Rule, err error) {
	schemes := map[string]bool{"https": true}
	for _, s := range c.AllowedSchemes {
		if s == "" {
			err = fmt.Errorf("allowed_schemes entries must not be empty")
			return
		}
		schemes[s] = true
	}

	r = &redirectURISchemeRule{
		id:      c.ID,
		fatal:   fatalAction(c.Action, true),
		schemes: schemes,
	}
	return
}

func (r *redirectURISchemeRule) RuleID() string {
	return r.id
}

func (r *redirectURISchemeRule) Eval(input policy.PolicyInput, rep policy.ReputationSnapshot) policy.RuleResult {
	if _, present := input.ClientMetadata.Field("redirect_uris"); !present {
		return policy.RuleResult{Outcome: policy.Pass}
	}

	uris, ok := input.ClientMetadata.StringsField("redirect_uris")
	if !ok {
		return policy.RuleResult{
			Outcome: policy.Reject,
			Fatal:   r.fatal,
			Message: "redirect_uris must be an array of strings",
		}
	}

	for _, u := range uris {
		parsed, parseErr := url.Parse(u)
		if parseErr != nil || !r.schemes[parsed.Scheme] {
			return policy.RuleResult{
				Outcome: policy.Reject,
				Fatal:   r.fatal,
				Message: fmt.Sprintf("redirect URI %q does not use an allowed scheme", u),
			}
		}
	}

	return policy.RuleResult{Outcome: policy.Pass}
}
