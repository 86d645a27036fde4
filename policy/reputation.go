package policy

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// ReputationStore maintains short-lived per-requester attempt counters. It
// is the only mutable shared state in the system; rules consume it through
// the snapshot the engine takes, never by direct state manipulation.
//
// IncrementAndCheck records one attempt for key and returns the count
// within the current window, including the attempt just recorded.
// Concurrent callers must never lose an increment. Implementations backed
// by a remote store must honor ctx cancellation.
type ReputationStore interface {
	IncrementAndCheck(ctx context.Context, key string, now time.Time) (count int64, err error)
}

// ReputationSnapshot is the reputation state rules see during one
// evaluation. Every rule in an evaluation sees the same snapshot. Err is
// set when the store was unreachable; rules that depend on reputation
// resolve it per the configured fail mode.
type ReputationSnapshot struct {
	Key   string
	Count int64
	Err   error
}

// KeyScheme selects how requesters are bucketed for reputation counting.
type KeyScheme int

const (
	_ KeyScheme = iota

	// KeyByIP buckets by IP address literal.
	KeyByIP

	// KeyByIPUserAgent buckets by a hash of IP address plus user agent.
	KeyByIPUserAgent
)

// UnknownRequesterKey is the shared bucket for attempts without an IP
// address. It is distinct from every literal IP bucket.
const UnknownRequesterKey = "unknown"

// ReputationKey derives the reputation bucket for a requester.
func ReputationKey(r Requester, scheme KeyScheme) string {
	if r.IPAddress == "" {
		return UnknownRequesterKey
	}

	if scheme == KeyByIPUserAgent {
		hash := sha1.Sum([]byte(r.IPAddress + "\x00" + r.UserAgent))
		return "ipua:" + hex.EncodeToString(hash[:])
	}

	return "ip:" + r.IPAddress
}

// FailMode selects how reputation-dependent rules resolve a store failure.
type FailMode int

const (
	_ FailMode = iota

	// FailClosed treats a store failure as a deny. This is the default.
	FailClosed

	// FailOpen treats a store failure as a pass for the dependent rule.
	FailOpen
)
