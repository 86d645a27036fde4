package policy

import "fmt"

// InputError reports a structurally invalid registration request: a missing
// required key or a malformed ip_address. It rejects the call before any
// rule runs and is never conflated with a policy verdict.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid registration request: %s: %s", e.Field, e.Msg)
}
