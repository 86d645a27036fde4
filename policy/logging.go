package policy

// ResultsLogger is where the engine writes high level customer facing
// results, separate from the engine's own diagnostic logging.
type ResultsLogger interface {
	RuleTriggered(input PolicyInput, ruleID string, action string, message string)
	EvaluationUnavailable(input PolicyInput, err error)
}
