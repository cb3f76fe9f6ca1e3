// Package config handles configuration loading and management for hitbase.
//
// It provides functionality for:
//   - Loading .hitbase.yaml, .hitbase.yml or .hitbase.json files
//   - Validating documents against an embedded JSON Schema
//   - Default configuration values and merging of overrides
package config
