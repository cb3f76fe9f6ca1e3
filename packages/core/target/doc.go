// Package target resolves the base URL an HTTP test suite runs against.
//
// It provides:
//   - Two resolution strategies: direct (explicit URL or a local fallback)
//     and port (a local URL built from a required server port)
//   - The fixed network directives registered with the HTTP engine
//     before a suite starts
//   - MissingConfigurationError for the fail-fast path of the port strategy
//
// Resolution is a pure function of its inputs; the resolver keeps no state
// between calls and can be invoked concurrently.
package target
