// Package theme loads the optional `--theme` JSON document (SPEC_FULL
// "Gradient stops" feature): a small, schema-validated set of friendly
// names for `colorStart`/`colorEnd`. It never introduces a third
// gradient stop — only resolves names to the hex strings ColorSentence
// already accepts — keeping the single-linear-gradient restriction
// intact while giving the embedded JSON Schema document real work to
// validate. Grounded on core/types/validation.go's
// compile-resource-then-validate shape.
package theme

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaDoc = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "colors": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "string",
        "pattern": "^#?[0-9a-fA-F]{6}$"
      }
    }
  },
  "required": ["colors"]
}`

// Theme is a resolved map of friendly color names to hex color strings
// ("#RRGGBB" or "RRGGBB", as written in the document).
type Theme struct {
	Colors map[string]string
}

// schema is compiled once and shared by every Parse call.
var schema = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	const url = "schema://fractal-theme.json"
	if err := compiler.AddResource(url, strings.NewReader(schemaDoc)); err != nil {
		panic(fmt.Sprintf("theme: embedded schema is invalid: %v", err))
	}
	s, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("theme: embedded schema failed to compile: %v", err))
	}
	return s
}

// Parse validates raw JSON against the embedded schema and decodes it.
func Parse(raw []byte) (*Theme, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("theme: invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("theme: schema validation failed: %w", err)
	}

	var decoded struct {
		Colors map[string]string `json:"colors"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("theme: decode: %w", err)
	}
	return &Theme{Colors: decoded.Colors}, nil
}

// Resolve looks up name in the theme, returning its hex string (with
// or without a leading '#', as stored) and whether it was found.
func (t *Theme) Resolve(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	hex, ok := t.Colors[name]
	return hex, ok
}
