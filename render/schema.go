package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Raw author configs are JSON documents; they are validated against these
// schemas before decoding so a malformed config fails loudly at load time
// instead of producing half-rendered cards.

const listConfigSchema = `{
  "type": "object",
  "properties": {
    "source": {
      "type": "object",
      "properties": {"category": {"type": "string"}},
      "additionalProperties": false
    },
    "order": {
      "type": "object",
      "properties": {
        "field": {"type": "string"},
        "direction": {"enum": ["asc", "desc"]}
      },
      "required": ["field"],
      "additionalProperties": false
    },
    "limit": {"type": "integer", "minimum": 0},
    "display": {"$ref": "#/$defs/display"},
    "style": {"type": "object"}
  },
  "required": ["display"],
  "additionalProperties": false,
  "$defs": {
    "display": {
      "type": "object",
      "properties": {
        "thumbnail": {
          "type": "object",
          "properties": {"fallback": {"type": "string"}},
          "additionalProperties": false
        },
        "meta": {"type": "array", "items": {"$ref": "#/$defs/metaItem"}},
        "title": {"$ref": "#/$defs/valueBlock"},
        "excerpt": {
          "type": "object",
          "properties": {
            "value": {"type": "string"},
            "length": {"type": "integer", "minimum": 1}
          },
          "required": ["value"],
          "additionalProperties": false
        },
        "actions": {"type": "array", "items": {"$ref": "#/$defs/action"}}
      },
      "additionalProperties": false
    },
    "valueBlock": {
      "type": "object",
      "properties": {"value": {"type": "string"}},
      "required": ["value"],
      "additionalProperties": false
    },
    "metaItem": {
      "type": "object",
      "properties": {
        "type": {"enum": ["text", "date", "badge"]},
        "value": {"type": "string"},
        "icon": {"type": "string"},
        "format": {"type": "string"},
        "if": {"type": "string"}
      },
      "required": ["type", "value"],
      "additionalProperties": false
    },
    "action": {
      "type": "object",
      "properties": {
        "type": {"enum": ["like", "comment", "link", "externalLink"]},
        "label": {"type": "string"},
        "url": {"type": "string"},
        "if": {"type": "string"}
      },
      "required": ["type"],
      "additionalProperties": false
    }
  }
}`

const detailConfigSchema = `{
  "type": "object",
  "properties": {
    "display": {
      "type": "object",
      "properties": {
        "title": {"$ref": "#/$defs/valueBlock"},
        "meta": {"type": "array", "items": {"$ref": "#/$defs/metaItem"}},
        "content": {
          "type": "object",
          "properties": {
            "value": {"type": "string"},
            "markdown": {"type": "boolean"}
          },
          "required": ["value"],
          "additionalProperties": false
        },
        "attachments": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "if": {"type": "string"},
              "label": {"type": "string"},
              "src": {"type": "string"}
            },
            "required": ["src"],
            "additionalProperties": false
          }
        },
        "gallery": {
          "type": "object",
          "properties": {"value": {"type": "string"}},
          "additionalProperties": false
        },
        "actions": {"type": "array", "items": {"$ref": "#/$defs/action"}}
      },
      "additionalProperties": false
    },
    "video": {
      "type": "object",
      "properties": {"url": {"type": "string"}},
      "additionalProperties": false
    },
    "embed": {
      "type": "object",
      "properties": {
        "if": {"type": "string"},
        "src": {"type": "string"},
        "height": {"type": "integer", "minimum": 0}
      },
      "required": ["src"],
      "additionalProperties": false
    },
    "comment": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "placeholder": {"type": "string"}
      },
      "additionalProperties": false
    },
    "cta": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "if": {"type": "string"},
          "label": {"type": "string"},
          "href": {"type": "string"},
          "target": {"type": "string"},
          "external": {"type": "boolean"}
        },
        "required": ["label"],
        "additionalProperties": false
      }
    },
    "style": {"type": "object"}
  },
  "required": ["display"],
  "additionalProperties": false,
  "$defs": {
    "valueBlock": {
      "type": "object",
      "properties": {"value": {"type": "string"}},
      "required": ["value"],
      "additionalProperties": false
    },
    "metaItem": {
      "type": "object",
      "properties": {
        "type": {"enum": ["text", "date", "badge"]},
        "value": {"type": "string"},
        "icon": {"type": "string"},
        "format": {"type": "string"},
        "if": {"type": "string"}
      },
      "required": ["type", "value"],
      "additionalProperties": false
    },
    "action": {
      "type": "object",
      "properties": {
        "type": {"enum": ["like", "comment", "link", "externalLink"]},
        "label": {"type": "string"},
        "url": {"type": "string"},
        "if": {"type": "string"}
      },
      "required": ["type"],
      "additionalProperties": false
    }
  }
}`

// ConfigValidationError carries the individual schema violations found in an
// author config.
type ConfigValidationError struct {
	Issues []string
	Cause  error
}

func (e *ConfigValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrConfigInvalid.Error()
	}
	return strings.Join(e.Issues, "; ")
}

func (e *ConfigValidationError) Unwrap() error {
	return ErrConfigInvalid
}

// ParseListConfig validates raw JSON against the list config schema and
// decodes it.
func ParseListConfig(data []byte) (*ListConfig, error) {
	if err := validateAgainst(compiledListSchema, data); err != nil {
		return nil, err
	}
	var cfg ListConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("render: decode list config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return &cfg, nil
}

// ParseDetailConfig validates raw JSON against the detail config schema and
// decodes it.
func ParseDetailConfig(data []byte) (*DetailConfig, error) {
	if err := validateAgainst(compiledDetailSchema, data); err != nil {
		return nil, err
	}
	var cfg DetailConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("render: decode detail config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return &cfg, nil
}

// The schemas are constants, so each is compiled once and reused across
// every ParseListConfig/ParseDetailConfig call.
var (
	compiledListSchema   = sync.OnceValues(func() (*jsonschema.Schema, error) { return compileSchema(listConfigSchema) })
	compiledDetailSchema = sync.OnceValues(func() (*jsonschema.Schema, error) { return compileSchema(detailConfigSchema) })
)

func validateAgainst(compile func() (*jsonschema.Schema, error), data []byte) error {
	compiled, err := compile()
	if err != nil {
		return fmt.Errorf("render: compile config schema: %w", err)
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if err := compiled.Validate(payload); err != nil {
		return &ConfigValidationError{
			Issues: collectIssues(err),
			Cause:  err,
		}
	}
	return nil
}

func compileSchema(schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("config.json", bytes.NewReader([]byte(schema))); err != nil {
		return nil, err
	}
	return compiler.Compile("config.json")
}

func collectIssues(err error) []string {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}
	issues := []string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			}
			issues = append(issues, fmt.Sprintf("%s: %s", location, strings.TrimSpace(node.Message)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return issues
}
