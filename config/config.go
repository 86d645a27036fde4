// Package config loads and validates the engine's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"regpolicy/policy"
)

// FileSystem is the interface the config loader reads files through.
type FileSystem interface {
	ReadFile(filename string) (string, error)
}

// FileSystemImpl is the real file system implementation.
type FileSystemImpl struct {
}

// ReadFile reads a file and returns its content as a string.
func (fs *FileSystemImpl) ReadFile(name string) (string, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Duration is a time.Duration that unmarshals from a YAML string such as
// "30s" or "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %v", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Redis holds the connection settings for the Redis reputation backend.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Reputation configures the requester reputation tracker.
type Reputation struct {
	Backend       string   `yaml:"backend"` // "memory" or "redis"
	Window        Duration `yaml:"window"`  // counting window per key
	SweepInterval Duration `yaml:"sweep_interval"`
	StoreTimeout  Duration `yaml:"store_timeout"`
	KeyBy         string   `yaml:"key_by"` // "ip" or "ip_ua"
	Redis         Redis    `yaml:"redis"`
}

// Rule is one rule definition. Type selects the implementation; the other
// fields are type-specific settings.
type Rule struct {
	ID             string   `yaml:"id"`
	Type           string   `yaml:"type"`
	Priority       int      `yaml:"priority"`
	Action         string   `yaml:"action"` // "deny" or "flag"
	AllowedSchemes []string `yaml:"allowed_schemes"`
	MaxLength      int      `yaml:"max_length"`
	Threshold      int64    `yaml:"threshold"`
	Patterns       []string `yaml:"patterns"`
	CIDRs          []string `yaml:"cidrs"`
}

// Main is the top level configuration.
type Main struct {
	FailMode   string     `yaml:"fail_mode"` // "closed" or "open"
	Matcher    string     `yaml:"matcher"`   // "go" or "hyperscan"
	Reputation Reputation `yaml:"reputation"`
	Rules      []Rule     `yaml:"rules"`
}

// Load reads the configuration from the given path, applies defaults and
// validates it.
func Load(fs FileSystem, path string) (c *Main, err error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file %v: %v", path, err)
		return
	}

	return Parse([]byte(content))
}

// Parse parses a configuration document, applies defaults and validates it.
func Parse(content []byte) (c *Main, err error) {
	c = &Main{}
	if err = yaml.UnmarshalStrict(content, c); err != nil {
		c = nil
		err = fmt.Errorf("failed to parse config: %v", err)
		return
	}

	c.applyDefaults()

	if err = c.validate(); err != nil {
		c = nil
		return
	}

	return
}

func (c *Main) applyDefaults() {
	if c.FailMode == "" {
		c.FailMode = "closed"
	}
	if c.Matcher == "" {
		c.Matcher = "go"
	}
	if c.Reputation.Backend == "" {
		c.Reputation.Backend = "memory"
	}
	if c.Reputation.Window == 0 {
		c.Reputation.Window = Duration(time.Minute)
	}
	if c.Reputation.SweepInterval == 0 {
		c.Reputation.SweepInterval = Duration(5 * time.Minute)
	}
	if c.Reputation.StoreTimeout == 0 {
		c.Reputation.StoreTimeout = Duration(500 * time.Millisecond)
	}
	if c.Reputation.KeyBy == "" {
		c.Reputation.KeyBy = "ip"
	}
}

func (c *Main) validate() (err error) {
	if c.FailMode != "closed" && c.FailMode != "open" {
		return fmt.Errorf("fail_mode must be \"closed\" or \"open\", got %q", c.FailMode)
	}
	if c.Matcher != "go" && c.Matcher != "hyperscan" {
		return fmt.Errorf("matcher must be \"go\" or \"hyperscan\", got %q", c.Matcher)
	}
	if c.Reputation.Backend != "memory" && c.Reputation.Backend != "redis" {
		return fmt.Errorf("reputation.backend must be \"memory\" or \"redis\", got %q", c.Reputation.Backend)
	}
	if c.Reputation.Backend == "redis" && c.Reputation.Redis.Addr == "" {
		return fmt.Errorf("reputation.redis.addr is required for the redis backend")
	}
	if c.Reputation.KeyBy != "ip" && c.Reputation.KeyBy != "ip_ua" {
		return fmt.Errorf("reputation.key_by must be \"ip\" or \"ip_ua\", got %q", c.Reputation.KeyBy)
	}

	seen := make(map[string]bool)
	for _, r := range c.Rules {
		if r.ID == "" {
			return fmt.Errorf("every rule needs an id")
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true

		if r.Action != "" && r.Action != "deny" && r.Action != "flag" {
			return fmt.Errorf("rule %q: action must be \"deny\" or \"flag\", got %q", r.ID, r.Action)
		}
	}

	return
}

// FailModePolicy returns the typed fail mode.
func (c *Main) FailModePolicy() policy.FailMode {
	if c.FailMode == "open" {
		return policy.FailOpen
	}
	return policy.FailClosed
}

// KeyScheme returns the typed requester keying scheme.
func (r *Reputation) KeyScheme() policy.KeyScheme {
	if r.KeyBy == "ip_ua" {
		return policy.KeyByIPUserAgent
	}
	return policy.KeyByIP
}
