package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is the JSON Schema config documents are validated against
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "strategy": {"type": "string", "enum": ["direct", "url", "port"]},
    "environment": {"type": "string"},
    "envFile": {"type": "string"},
    "properties": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "baseUrl": {"type": "string", "minLength": 1},
        "serverPort": {"type": "string", "minLength": 1},
        "env": {"type": "string", "minLength": 1}
      }
    },
    "probe": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "path": {"type": "string", "pattern": "^/"},
        "expectStatus": {"type": "integer", "minimum": 100, "maximum": 599},
        "attempts": {"type": "integer", "minimum": 1},
        "rate": {"type": "number", "exclusiveMinimum": 0},
        "waitTimeout": {"type": "integer", "minimum": 0},
        "interval": {"type": "integer", "minimum": 1},
        "expect": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["path", "equals"],
            "additionalProperties": false,
            "properties": {
              "path": {"type": "string", "minLength": 1},
              "equals": {}
            }
          }
        }
      }
    },
    "headers": {"type": "object", "additionalProperties": {"type": "string"}},
    "history": {"type": "string"},
    "output": {"type": "string", "enum": ["console", "json", "yaml", "shell"]},
    "verbose": {"type": "boolean"},
    "noColor": {"type": "boolean"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(Schema)

// Validate checks a JSON config document against Schema
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
