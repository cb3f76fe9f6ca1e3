// Package cmd implements the hitbase CLI commands using Cobra.
//
// Available commands:
//   - resolve: Print the resolved base URL and engine directives
//   - check: Resolve, configure the HTTP engine and probe the target
//   - history: List recent resolutions and probe runs
//   - init: Create a .hitbase.yaml with the default settings
//   - version: Show hitbase version information
//
// Properties come from -D key=value flags, HITBASE_* environment variables
// and a .env file, in that order of precedence.
package cmd
