package policy

// ruleOutcome pairs a rule ID with its result, in registration order.
type ruleOutcome struct {
	id     string
	result RuleResult
}

// aggregate reduces the per-rule results to one Decision. Any fatal Reject
// makes the verdict Deny and puts every Reject message (fatal or not) in
// the violations list. With no fatal Reject, any non-fatal Reject or Warn
// makes the verdict Flag and puts those messages in the warnings list.
// Otherwise the verdict is Allow with both lists empty. List ordering
// mirrors rule registration order.
func aggregate(outcomes []ruleOutcome) (d Decision) {
	d.Verdict = Allow
	d.Violations = []RuleMessage{}
	d.Warnings = []RuleMessage{}

	fatal := false
	for _, o := range outcomes {
		if o.result.Outcome == Reject && o.result.Fatal {
			fatal = true
			break
		}
	}

	for _, o := range outcomes {
		msg := RuleMessage{Rule: o.id, Message: o.result.Message}

		switch o.result.Outcome {
		case Reject:
			if fatal {
				d.Violations = append(d.Violations, msg)
			} else {
				d.Warnings = append(d.Warnings, msg)
			}
		case Warn:
			d.Warnings = append(d.Warnings, msg)
		}
	}

	if fatal {
		d.Verdict = Deny
	} else if len(d.Warnings) > 0 {
		d.Verdict = Flag
	}

	return
}
