package logging

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"regpolicy/policy"
)

const operationName = "ClientRegistrationPolicyEvaluation"
const category = "ClientRegistrationPolicyLog"

// NewZerologResultsLogger creates a results logger that creates log
// messages like the ones we want to surface to the operator, but just
// outputs them to Zerolog.
func NewZerologResultsLogger(logger zerolog.Logger) policy.ResultsLogger {
	return &zerologResultsLogger{logger: logger}
}

type zerologResultsLogger struct {
	logger zerolog.Logger
}

func (l *zerologResultsLogger) RuleTriggered(input policy.PolicyInput, ruleID string, action string, message string) {
	c := &registrationPolicyLogEntry{
		OperationName: operationName,
		Category:      category,
		Properties: registrationPolicyLogEntryProperty{
			ClientIP:  input.Requester.IPAddress,
			UserAgent: input.Requester.UserAgent,
			RuleID:    ruleID,
			Message:   message,
			Action:    action,
		},
	}

	bb, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		l.logger.Error().Err(err).Msg("Error while marshaling JSON results log")
		return
	}

	l.logger.Info().Msgf("Customer facing log:\n%s\n", bb)
}

func (l *zerologResultsLogger) EvaluationUnavailable(input policy.PolicyInput, err error) {
	c := &registrationPolicyLogEntry{
		OperationName: operationName,
		Category:      category,
		Properties: registrationPolicyLogEntryProperty{
			ClientIP:  input.Requester.IPAddress,
			UserAgent: input.Requester.UserAgent,
			Message:   "Reputation store unavailable: " + err.Error(),
			Action:    "Errored",
		},
	}

	bb, marshalErr := json.MarshalIndent(c, "", "  ")
	if marshalErr != nil {
		l.logger.Error().Err(marshalErr).Msg("Error while marshaling JSON results log")
		return
	}

	l.logger.Info().Msgf("Customer facing log:\n%s\n", bb)
}
