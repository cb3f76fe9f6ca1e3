package target

import (
	"fmt"
	"strings"
)

const (
	// DefaultBaseURL is used by the direct strategy when no URL is supplied
	DefaultBaseURL = "http://localhost:8080"

	// LocalOrigin is the prefix the port strategy appends the port to
	LocalOrigin = "http://localhost:"
)

// Record is the configuration handed to the test engine before a run.
type Record struct {
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
}

// Inputs are the values a resolution is computed from. Empty fields are
// treated as absent.
type Inputs struct {
	// EnvName tags the active deployment environment. It is carried for
	// diagnostics only and never changes the result.
	EnvName    string
	BaseURL    string
	ServerPort string
}

// Strategy selects how a base URL is derived
type Strategy string

const (
	// StrategyDirect uses an explicit URL or falls back to DefaultBaseURL
	StrategyDirect Strategy = "direct"
	// StrategyPort builds a local URL from a required server port
	StrategyPort Strategy = "port"
)

// Strategies lists the supported strategy names
var Strategies = []Strategy{StrategyDirect, StrategyPort}

// ParseStrategy converts a strategy name. An empty name selects
// StrategyDirect.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "direct", "url":
		return StrategyDirect, nil
	case "port":
		return StrategyPort, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (expected direct or port)", name)
	}
}

func (s Strategy) String() string {
	return string(s)
}
