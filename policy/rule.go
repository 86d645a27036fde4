package policy

// Outcome classifies a single rule's result on one registration attempt.
type Outcome int

const (
	_ Outcome = iota

	// Pass means the rule found nothing wrong.
	Pass

	// Warn means the rule wants the attempt marked for audit but not denied.
	Warn

	// Reject means the rule considers the attempt a violation.
	Reject
)

// RuleResult is the outcome of one rule for one attempt. A fatal Reject
// guarantees the overall decision is a deny; a non-fatal Reject only flags
// the attempt.
type RuleResult struct {
	Outcome Outcome
	Fatal   bool
	Message string
}

// Rule is a named predicate over a registration attempt and a snapshot of
// requester reputation. Implementations must be deterministic for a given
// input and snapshot, and must not perform blocking calls.
type Rule interface {
	RuleID() string
	Eval(input PolicyInput, rep ReputationSnapshot) RuleResult
}
