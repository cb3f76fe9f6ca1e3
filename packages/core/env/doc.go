// Package env gathers the raw properties a resolution reads and parses
// them into typed resolver inputs.
//
// It provides functionality for:
//   - Loading .env files (KEY=value, quoted values, comments)
//   - Reading prefixed process environment variables
//   - Parsing -D key=value assignments from the command line
//   - Layering those sources into a single property lookup
//   - Validating URL and port properties before they reach the resolver
package env
