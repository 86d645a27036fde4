package rules

import (
	"fmt"
	"unicode/utf8"

	"regpolicy/config"
	"regpolicy/policy"
)

const defaultMaxClientNameLength = 255

type clientNameLengthRule struct {
	id        string
	fatal     bool
	maxLength int
}

// newClientNameLengthRule bounds the length of client_name when present.
// Violations flag by default.
func newClientNameLengthRule(c config.Rule) (r policy.Rule, err error) {
	maxLength := c.MaxLength
	if maxLength == 0 {
		maxLength = defaultMaxClientNameLength
	}
	if maxLength < 0 {
		err = fmt.Errorf("max_length must be positive")
		return
	}

	r = &clientNameLengthRule{
		id:        c.ID,
		fatal:     fatalAction(c.Action, false),
		maxLength: maxLength,
	}
	return
}

func (r *clientNameLengthRule) RuleID() string {
	return r.id
}

func (r *clientNameLengthRule) Eval(input policy.PolicyInput, rep policy.ReputationSnapshot) policy.RuleResult {
	if _, present := input.ClientMetadata.Field("client_name"); !present {
		return policy.RuleResult{Outcome: policy.Pass}
	}

	name, ok := input.ClientMetadata.StringField("client_name")
	if !ok {
		return policy.RuleResult{
			Outcome: policy.Reject,
			Fatal:   r.fatal,
			Message: "client_name must be a string",
		}
	}

	if n := utf8.RuneCountInString(name); n > r.maxLength {
		return policy.RuleResult{
			Outcome: policy.Reject,
			Fatal:   r.fatal,
			Message: fmt.Sprintf("client_name is %d characters long, the limit is %d", n, r.maxLength),
		}
	}

	return policy.RuleResult{Outcome: policy.Pass}
}
