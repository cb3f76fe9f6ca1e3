package env

import (
	"fmt"
	neturl "net/url"
	"strconv"

	"github.com/abdul-hamid-achik/hitbase/packages/core/target"
)

// PropertyNames names the properties each resolver input is read from
type PropertyNames struct {
	BaseURL    string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	ServerPort string `json:"serverPort,omitempty" yaml:"serverPort,omitempty"`
	Env        string `json:"env,omitempty" yaml:"env,omitempty"`
}

func DefaultPropertyNames() PropertyNames {
	return PropertyNames{
		BaseURL:    "baseUrl",
		ServerPort: target.DefaultPortProperty,
		Env:        "env",
	}
}

// WithDefaults fills empty names from DefaultPropertyNames
func (n PropertyNames) WithDefaults() PropertyNames {
	d := DefaultPropertyNames()
	if n.BaseURL == "" {
		n.BaseURL = d.BaseURL
	}
	if n.ServerPort == "" {
		n.ServerPort = d.ServerPort
	}
	if n.Env == "" {
		n.Env = d.Env
	}
	return n
}

// InvalidPropertyError reports a property whose value failed validation
type InvalidPropertyError struct {
	Property string
	Value    string
	Reason   string
}

func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("invalid value %q for property %q: %s", e.Value, e.Property, e.Reason)
}

// Getter is satisfied by *Properties
type Getter interface {
	Get(name string) string
}

// ParseInputs reads the resolver inputs and validates them. Absent values
// stay empty; present values must be well formed. Valid values are passed
// through unchanged.
func ParseInputs(props Getter, names PropertyNames) (target.Inputs, error) {
	names = names.WithDefaults()
	in := target.Inputs{
		EnvName:    props.Get(names.Env),
		BaseURL:    props.Get(names.BaseURL),
		ServerPort: props.Get(names.ServerPort),
	}

	if in.BaseURL != "" {
		if reason := checkBaseURL(in.BaseURL); reason != "" {
			return target.Inputs{}, &InvalidPropertyError{Property: names.BaseURL, Value: in.BaseURL, Reason: reason}
		}
	}
	if in.ServerPort != "" {
		if reason := checkPort(in.ServerPort); reason != "" {
			return target.Inputs{}, &InvalidPropertyError{Property: names.ServerPort, Value: in.ServerPort, Reason: reason}
		}
	}

	return in, nil
}

func checkBaseURL(raw string) string {
	u, err := neturl.Parse(raw)
	if err != nil {
		return "not a URL"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "scheme must be http or https"
	}
	if u.Host == "" {
		return "host is required"
	}
	return ""
}

func checkPort(raw string) string {
	for _, r := range raw {
		if r < '0' || r > '9' {
			return "port must be a decimal number"
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 65535 {
		return "port must be between 1 and 65535"
	}
	return ""
}
