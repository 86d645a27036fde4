package rules

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"regpolicy/config"
	"regpolicy/policy"
)

func TestIPDenylist(t *testing.T) {
	type testcase struct {
		ip       string
		cidrs    []string
		expected policy.Outcome
	}
	tests := []testcase{
		{"203.0.113.5", []string{"203.0.113.0/24"}, policy.Reject},
		{"203.0.114.5", []string{"203.0.113.0/24"}, policy.Pass},
		{"10.1.2.3", []string{"203.0.113.0/24", "10.0.0.0/8"}, policy.Reject},
		{"203.0.113.5", []string{"203.0.113.5/32"}, policy.Reject},
		{"203.0.113.6", []string{"203.0.113.5/32"}, policy.Pass},
		// Unknown and IPv6 addresses never match an IPv4 denylist.
		{"", []string{"0.0.0.0/0"}, policy.Pass},
		{"2001:db8::1", []string{"0.0.0.0/0"}, policy.Pass},
	}

	var b strings.Builder
	for i, test := range tests {
		// Arrange
		r, err := newIPDenylistRule(config.Rule{ID: "ip_denylist", CIDRs: test.cidrs})
		if err != nil {
			fmt.Fprintf(&b, "Test case %v: Got unexpected error: %s\n", i, err)
			continue
		}

		// Act
		result := r.Eval(requesterInput(test.ip, ""), policy.ReputationSnapshot{})

		// Assert
		if result.Outcome != test.expected {
			fmt.Fprintf(&b, "Test case %v: Got unexpected outcome: %v\n", i, result.Outcome)
		}
	}

	if b.Len() > 0 {
		t.Fatalf("\n%s", b.String())
	}
}

func TestIPDenylistRejectsFatallyByDefault(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	r, err := newIPDenylistRule(config.Rule{ID: "ip_denylist", CIDRs: []string{"203.0.113.0/24"}})
	assert.Nil(err)

	// Act
	result := r.Eval(requesterInput("203.0.113.5", ""), policy.ReputationSnapshot{})

	// Assert
	assert.Equal(policy.Reject, result.Outcome)
	assert.True(result.Fatal)
}

func TestIPDenylistRejectsBadCIDR(t *testing.T) {
	assert := assert.New(t)

	// Act
	_, err := newIPDenylistRule(config.Rule{ID: "ip_denylist", CIDRs: []string{"not-a-cidr"}})

	// Assert
	assert.Error(err)
}
