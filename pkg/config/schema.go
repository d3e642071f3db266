package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// configSchema rejects unknown top-level keys and wrong value shapes before
// unmarshalling, so a typo'd key fails loudly instead of silently doing
// nothing.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "targets":         {"type": "array", "items": {"type": "string"}},
    "exclude":         {"type": "array", "items": {"type": "string"}},
    "retain_patterns": {"type": "array", "items": {"type": "string"}},
    "entry_points":    {"type": "array", "items": {"type": "string"}},
    "report": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "format":           {"enum": ["terminal", "json", "sarif", "toon"]},
        "group_by":         {"enum": ["file", "code", "severity"]},
        "show_code":        {"type": "boolean"},
        "fail_on_findings": {"type": "boolean"}
      }
    },
    "detection": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "unused_class":       {"type": "boolean"},
        "write_only":         {"type": "boolean"},
        "unused_param":       {"type": "boolean"},
        "unused_enum_case":   {"type": "boolean"},
        "sealed_variant":     {"type": "boolean"},
        "redundant_override": {"type": "boolean"},
        "intent_extra":       {"type": "boolean"},
        "unused_resources":   {"type": "boolean"}
      }
    },
    "android": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "parse_manifest":         {"type": "boolean"},
        "parse_layouts":          {"type": "boolean"},
        "auto_retain_components": {"type": "boolean"},
        "component_patterns":     {"type": "array", "items": {"type": "string"}}
      }
    },
    "cache": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "dir":     {"type": "string"}
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
		if err != nil {
			schemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("deadwood://config.schema.json", doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("deadwood://config.schema.json")
	})
	return schema, schemaErr
}

// validate checks the raw config map against the schema.
func validate(raw map[string]any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	if err := s.Validate(normalize(raw)); err != nil {
		return err
	}
	return nil
}

// normalize converts koanf's raw tree into plain JSON types the validator
// accepts.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for key, val := range t {
			out[key] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return v
	}
}
