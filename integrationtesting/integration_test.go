package integrationtesting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"regpolicy/config"
	"regpolicy/hyperscan"
	"regpolicy/logging"
	"regpolicy/normalize"
	"regpolicy/policy"
	"regpolicy/reputation"
	"regpolicy/rules"
	"regpolicy/testutils"
)

const testConfig = `
fail_mode: closed
reputation:
  backend: memory
  window: 100ms
  key_by: ip
rules:
  - id: redirect_uri_scheme
    type: redirect_uri_scheme
    priority: 10
  - id: blocked_user_agent_pattern
    type: blocked_user_agent_pattern
    priority: 20
    patterns: ["^curl/", "python-requests"]
  - id: ip_rate_limit
    type: ip_rate_limit
    priority: 30
    threshold: 3
`

func newTestEngine(t *testing.T) policy.Engine {
	logger := testutils.NewTestLogger(t)

	c, err := config.Parse([]byte(testConfig))
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	mref := hyperscan.NewGoMultiRegexEngineFactory()
	rr, err := rules.NewRules(logger, c.Rules, mref, c.FailModePolicy())
	if err != nil {
		t.Fatalf("Failed to load rules: %v", err)
	}

	store := reputation.NewMemoryStore(time.Duration(c.Reputation.Window), time.Duration(c.Reputation.SweepInterval))
	resLog := logging.NewZerologResultsLogger(logger)

	return policy.NewEngine(logger, rr, store, resLog, c.Reputation.KeyScheme(), time.Duration(c.Reputation.StoreTimeout))
}

func TestScriptedUserAgentIsFlagged(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	engine := newTestEngine(t)
	raw := []byte(`{
		"client_metadata": {"redirect_uris": ["https://example.com/cb"]},
		"requester": {"ip_address": "203.0.113.5", "user_agent": "curl/8.0"}
	}`)

	// Act
	input, err := normalize.ParseRequest(raw)
	assert.Nil(err)
	d := engine.Evaluate(context.Background(), input)

	// Assert
	assert.Equal(policy.Flag, d.Verdict)
	assert.Equal(0, len(d.Violations))
	assert.Equal(1, len(d.Warnings))
	assert.Equal("blocked_user_agent_pattern", d.Warnings[0].Rule)
}

func TestCleanRequestIsAllowed(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	engine := newTestEngine(t)
	raw := []byte(`{
		"client_metadata": {"redirect_uris": ["https://example.com/cb"], "client_name": "My App"},
		"requester": {"ip_address": "198.51.100.7", "user_agent": "Mozilla/5.0"}
	}`)

	// Act
	input, err := normalize.ParseRequest(raw)
	assert.Nil(err)
	d := engine.Evaluate(context.Background(), input)

	// Assert
	assert.Equal(policy.Allow, d.Verdict)
	assert.Equal(0, len(d.Violations))
	assert.Equal(0, len(d.Warnings))
}

func TestInsecureRedirectURIIsDenied(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	engine := newTestEngine(t)
	raw := []byte(`{
		"client_metadata": {"redirect_uris": ["http://example.com/cb"]},
		"requester": {"ip_address": "198.51.100.7", "user_agent": "Mozilla/5.0"}
	}`)

	// Act
	input, err := normalize.ParseRequest(raw)
	assert.Nil(err)
	d := engine.Evaluate(context.Background(), input)

	// Assert
	assert.Equal(policy.Deny, d.Verdict)
	assert.Equal(1, len(d.Violations))
	assert.Equal("redirect_uri_scheme", d.Violations[0].Rule)
}

func TestRateLimitWindow(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	engine := newTestEngine(t)
	input := policy.PolicyInput{
		ClientMetadata: policy.ClientMetadata{},
		Requester:      policy.Requester{IPAddress: "192.0.2.77", UserAgent: "Mozilla/5.0"},
	}

	// Act / Assert: three attempts within the window are admitted.
	for i := 0; i < 3; i++ {
		d := engine.Evaluate(context.Background(), input)
		assert.Equal(policy.Allow, d.Verdict)
	}

	// The fourth attempt within the window is denied by the rate limit.
	d := engine.Evaluate(context.Background(), input)
	assert.Equal(policy.Deny, d.Verdict)
	assert.Equal(1, len(d.Violations))
	assert.Equal("ip_rate_limit", d.Violations[0].Rule)

	// Once the window elapses without further requests the counter is
	// evaluated as reset.
	time.Sleep(150 * time.Millisecond)
	d = engine.Evaluate(context.Background(), input)
	assert.Equal(policy.Allow, d.Verdict)
}

func TestEmptyRequesterCompletes(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	engine := newTestEngine(t)
	raw := []byte(`{"client_metadata": {}, "requester": {}}`)

	// Act
	input, err := normalize.ParseRequest(raw)
	assert.Nil(err)
	d := engine.Evaluate(context.Background(), input)

	// Assert
	assert.Equal(policy.Allow, d.Verdict)
}

func TestMalformedIPIsInputErrorNotDecision(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	raw := []byte(`{"client_metadata": {}, "requester": {"ip_address": "not-an-ip"}}`)

	// Act
	_, err := normalize.ParseRequest(raw)

	// Assert
	assert.Error(err)
	_, ok := err.(*policy.InputError)
	assert.True(ok)
}
