// Package output renders resolved targets and probe reports.
//
// Supported formats:
//   - Console: colored human-readable output
//   - JSON: the record plus its directives, for tools that read config as JSON
//   - YAML: the same document as YAML
//   - Shell: export lines that can be eval'd by a test script
package output
