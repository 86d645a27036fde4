package policy

import "fmt"

// Verdict denotes the engine's overall response to a registration attempt.
type Verdict int

const (
	_ Verdict = iota

	// Allow means the attempt should be admitted.
	Allow

	// Flag means the attempt should be admitted but marked for audit.
	Flag

	// Deny means the attempt should be refused.
	Deny
)

func (v Verdict) String() string {
	switch v {
	case Allow:
		return "allow"
	case Flag:
		return "flag"
	case Deny:
		return "deny"
	}
	return "unknown"
}

// MarshalJSON emits the wire form of the verdict ("allow", "flag", "deny").
func (v Verdict) MarshalJSON() ([]byte, error) {
	switch v {
	case Allow, Flag, Deny:
		return []byte(`"` + v.String() + `"`), nil
	}
	return nil, fmt.Errorf("cannot marshal unknown verdict %d", int(v))
}

// RuleMessage is one diagnostic produced by a rule.
type RuleMessage struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Decision is the engine's verdict for one attempt plus ordered
// diagnostics. Violations and Warnings mirror rule registration order so
// logs and tests are reproducible.
type Decision struct {
	Verdict    Verdict       `json:"verdict"`
	Violations []RuleMessage `json:"violations"`
	Warnings   []RuleMessage `json:"warnings"`
}
