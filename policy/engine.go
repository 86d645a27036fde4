package policy

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Engine is the top level interface to the registration policy engine.
// Every call terminates in a well-typed Decision; structural input
// validation happens upstream in the normalizer.
type Engine interface {
	Evaluate(ctx context.Context, input PolicyInput) Decision
}

type engineImpl struct {
	logger        zerolog.Logger
	rules         []Rule
	reputation    ReputationStore
	resultsLogger ResultsLogger
	keyScheme     KeyScheme
	storeTimeout  time.Duration
	evalSeq       uint64
}

// NewEngine creates an engine over a statically ordered rule set. The
// reputation store is the only shared mutable state; it is snapshotted via
// a single increment-and-check before any rule runs, bounded by
// storeTimeout when positive.
func NewEngine(logger zerolog.Logger, rules []Rule, store ReputationStore, resultsLogger ResultsLogger, keyScheme KeyScheme, storeTimeout time.Duration) Engine {
	return &engineImpl{
		logger:        logger,
		rules:         rules,
		reputation:    store,
		resultsLogger: resultsLogger,
		keyScheme:     keyScheme,
		storeTimeout:  storeTimeout,
	}
}

func (e *engineImpl) Evaluate(ctx context.Context, input PolicyInput) (decision Decision) {
	// Create a sub-logger with an evaluation ID
	logger := e.logger.With().Uint64("evalid", atomic.AddUint64(&e.evalSeq, 1)).Logger()

	if logger.Info() != nil {
		logger.Info().Str("clientIp", input.Requester.IPAddress).Msg("Policy engine got registration attempt")
		startTime := time.Now()
		defer func() {
			logger.Info().Dur("timeTaken", time.Since(startTime)).Str("verdict", decision.Verdict.String()).Msg("Policy engine completed registration attempt")
		}()
	}

	// A rule must never take the whole evaluator down with it.
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Recovered from panic during rule evaluation")
			decision = Decision{
				Verdict:    Deny,
				Violations: []RuleMessage{{Rule: "evaluator", Message: "internal error during evaluation"}},
				Warnings:   []RuleMessage{},
			}
		}
	}()

	snapshot := e.snapshotReputation(ctx, logger, input)

	outcomes := make([]ruleOutcome, 0, len(e.rules))
	for _, r := range e.rules {
		result := r.Eval(input, snapshot)
		outcomes = append(outcomes, ruleOutcome{id: r.RuleID(), result: result})

		if result.Outcome != Pass {
			logger.Debug().Str("ruleId", r.RuleID()).Bool("fatal", result.Fatal).Str("message", result.Message).Msg("Rule triggered")
		}
	}

	decision = aggregate(outcomes)
	e.logResults(input, decision)

	return
}

// snapshotReputation performs the single increment-and-check for this
// evaluation. A store failure is recorded in the snapshot and logged here;
// how it affects the verdict is up to the reputation-dependent rules.
func (e *engineImpl) snapshotReputation(ctx context.Context, logger zerolog.Logger, input PolicyInput) (snapshot ReputationSnapshot) {
	if e.reputation == nil {
		return
	}

	snapshot.Key = ReputationKey(input.Requester, e.keyScheme)

	if e.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.storeTimeout)
		defer cancel()
	}

	snapshot.Count, snapshot.Err = e.reputation.IncrementAndCheck(ctx, snapshot.Key, time.Now())
	if snapshot.Err != nil {
		logger.Error().Err(snapshot.Err).Str("reputationKey", snapshot.Key).Msg("Reputation store unavailable")
		if e.resultsLogger != nil {
			e.resultsLogger.EvaluationUnavailable(input, snapshot.Err)
		}
	}

	return
}

func (e *engineImpl) logResults(input PolicyInput, decision Decision) {
	if e.resultsLogger == nil {
		return
	}

	warnAction := "Logged"
	if decision.Verdict == Flag {
		warnAction = "Flagged"
	}

	for _, v := range decision.Violations {
		e.resultsLogger.RuleTriggered(input, v.Rule, "Blocked", v.Message)
	}
	for _, w := range decision.Warnings {
		e.resultsLogger.RuleTriggered(input, w.Rule, warnAction, w.Message)
	}
}
