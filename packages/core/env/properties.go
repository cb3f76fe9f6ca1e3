package env

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

// DefaultPrefix is prepended to property env keys
const DefaultPrefix = "HITBASE_"

// Property sources, lowest precedence first
const (
	SourceNone       = ""
	SourceDotEnv     = "dotenv"
	SourceSystem     = "env"
	SourceAssignment = "flag"
)

// Properties is a layered, read-only property lookup. Assignments win over
// the process environment, which wins over the .env file. Empty values count
// as unset.
type Properties struct {
	prefix      string
	dotenv      map[string]string
	system      map[string]string
	assignments map[string]string
}

type PropertiesOption func(*Properties)

func NewProperties(prefix string, opts ...PropertiesOption) *Properties {
	p := &Properties{
		prefix:      prefix,
		dotenv:      make(map[string]string),
		system:      make(map[string]string),
		assignments: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithDotEnv adds values loaded from a .env file. Keys may be property
// names or env keys with or without the prefix.
func WithDotEnv(vars map[string]string) PropertiesOption {
	return func(p *Properties) {
		for k, v := range vars {
			p.dotenv[strings.TrimPrefix(k, p.prefix)] = v
		}
	}
}

// WithSystem adds process environment values already stripped of the prefix
func WithSystem(vars map[string]string) PropertiesOption {
	return func(p *Properties) {
		for k, v := range vars {
			p.system[k] = v
		}
	}
}

// WithAssignments adds explicit property assignments keyed by property name
func WithAssignments(vars map[string]string) PropertiesOption {
	return func(p *Properties) {
		for k, v := range vars {
			p.assignments[k] = v
		}
	}
}

// Lookup returns the value of a property and the source it came from
func (p *Properties) Lookup(name string) (string, string) {
	if v := p.assignments[name]; v != "" {
		return v, SourceAssignment
	}
	key := EnvKey(name)
	if v := p.system[key]; v != "" {
		return v, SourceSystem
	}
	if v := p.dotenv[key]; v != "" {
		return v, SourceDotEnv
	}
	if v := p.dotenv[name]; v != "" {
		return v, SourceDotEnv
	}
	return "", SourceNone
}

func (p *Properties) Get(name string) string {
	v, _ := p.Lookup(name)
	return v
}

// EnvName returns the full environment variable consulted for a property
func (p *Properties) EnvName(name string) string {
	return p.prefix + EnvKey(name)
}

// EnvKey converts a property name to its upper snake case env key:
// baseUrl -> BASE_URL, server.port -> SERVER_PORT.
func EnvKey(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '.' || r == '-':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// LoadSystemEnv returns process environment entries starting with prefix,
// keyed without the prefix.
func LoadSystemEnv(prefix string) map[string]string {
	result := make(map[string]string)
	for _, e := range os.Environ() {
		key, value, found := strings.Cut(e, "=")
		if !found {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			result[key[len(prefix):]] = value
		}
	}
	return result
}

// ParseAssignments parses key=value pairs as given to -D flags
func ParseAssignments(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid property assignment %q (expected key=value)", pair)
		}
		result[key] = value
	}
	return result, nil
}
