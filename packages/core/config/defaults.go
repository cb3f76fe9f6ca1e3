package config

import (
	"github.com/abdul-hamid-achik/hitbase/packages/core/env"
	"github.com/abdul-hamid-achik/hitbase/packages/core/target"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Strategy:    string(target.StrategyDirect),
		Environment: "dev",
		EnvFile:     "",
		Properties:  env.DefaultPropertyNames(),
		Probe: ProbeConfig{
			Path:         "/",
			ExpectStatus: 200,
			Attempts:     1,
			Rate:         5,
			WaitTimeout:  0,
			Interval:     500, // half a second
		},
		Output: "console",
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	d := DefaultConfig()
	return c.Strategy == d.Strategy &&
		c.Environment == d.Environment &&
		c.EnvFile == d.EnvFile &&
		c.Properties == d.Properties &&
		c.Probe.Path == d.Probe.Path &&
		c.Probe.ExpectStatus == d.Probe.ExpectStatus &&
		c.Probe.Attempts == d.Probe.Attempts &&
		c.Probe.Rate == d.Probe.Rate &&
		c.Probe.WaitTimeout == d.Probe.WaitTimeout &&
		c.Probe.Interval == d.Probe.Interval &&
		len(c.Probe.Expect) == 0 &&
		len(c.Headers) == 0 &&
		c.History == d.History &&
		c.Output == d.Output &&
		c.Verbose == nil &&
		c.NoColor == nil
}
