package target

// Directive keys understood by the HTTP engine
const (
	DirectiveConnectTimeout = "connectTimeout"
	DirectiveReadTimeout    = "readTimeout"
	DirectiveSSL            = "ssl"
)

const (
	// ConnectTimeoutMs bounds connection establishment, in milliseconds
	ConnectTimeoutMs = 5000
	// ReadTimeoutMs bounds waiting for a response, in milliseconds
	ReadTimeoutMs = 5000
)

// Directive is a single key/value option registered with the engine
type Directive struct {
	Key   string
	Value any
}

// Configurer is the configuration setter of a test-execution engine.
type Configurer interface {
	Configure(key string, value any) error
}

// ConfigurerFunc adapts a function to the Configurer interface
type ConfigurerFunc func(key string, value any) error

func (f ConfigurerFunc) Configure(key string, value any) error {
	return f(key, value)
}

// Directives returns the options registered after every successful
// resolution. The values do not depend on the inputs.
func Directives() []Directive {
	return []Directive{
		{Key: DirectiveConnectTimeout, Value: ConnectTimeoutMs},
		{Key: DirectiveReadTimeout, Value: ReadTimeoutMs},
		{Key: DirectiveSSL, Value: true},
	}
}
