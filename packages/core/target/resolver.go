package target

import "fmt"

// DefaultPortProperty is the property name reported when the port is missing
const DefaultPortProperty = "server.port"

// LogFunc receives diagnostic lines
type LogFunc func(format string, args ...any)

// Resolver computes records for one strategy and registers the engine
// directives. A Resolver holds only its settings, never per-call state.
type Resolver struct {
	strategy     Strategy
	portProperty string
	logFunc      LogFunc
}

type Option func(*Resolver)

func NewResolver(strategy Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		strategy:     strategy,
		portProperty: DefaultPortProperty,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithLogFunc sets where diagnostic lines are written
func WithLogFunc(fn LogFunc) Option {
	return func(r *Resolver) {
		r.logFunc = fn
	}
}

// WithPortProperty sets the property name used in MissingConfigurationError
func WithPortProperty(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.portProperty = name
		}
	}
}

func (r *Resolver) Strategy() Strategy {
	return r.strategy
}

func (r *Resolver) log(format string, args ...any) {
	if r.logFunc != nil {
		r.logFunc(format, args...)
	}
}

// Resolve computes the record without registering anything.
func (r *Resolver) Resolve(in Inputs) (Record, error) {
	switch r.strategy {
	case StrategyDirect, "":
		if in.BaseURL != "" {
			return Record{BaseURL: in.BaseURL}, nil
		}
		return Record{BaseURL: DefaultBaseURL}, nil

	case StrategyPort:
		if in.ServerPort == "" {
			return Record{}, &MissingConfigurationError{Property: r.portProperty}
		}
		return Record{BaseURL: LocalOrigin + in.ServerPort}, nil

	default:
		return Record{}, fmt.Errorf("unknown strategy %q", r.strategy)
	}
}

// Apply resolves the record and then registers Directives with the engine.
// The port strategy logs the port before checking it. Nothing is registered
// when resolution fails.
func (r *Resolver) Apply(in Inputs, engine Configurer) (Record, error) {
	if r.strategy == StrategyPort {
		r.log("Using port: %s", in.ServerPort)
	}

	rec, err := r.Resolve(in)
	if err != nil {
		return Record{}, err
	}

	if r.strategy == StrategyPort {
		r.log("Using baseUrl: %s", rec.BaseURL)
	}

	if engine != nil {
		for _, d := range Directives() {
			if err := engine.Configure(d.Key, d.Value); err != nil {
				return Record{}, fmt.Errorf("configure %s: %w", d.Key, err)
			}
		}
	}

	return rec, nil
}

// Resolve is a convenience for NewResolver(strategy).Resolve(in)
func Resolve(strategy Strategy, in Inputs) (Record, error) {
	return NewResolver(strategy).Resolve(in)
}
