package tool

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	schemavalidator "github.com/santhosh-tekuri/jsonschema/v5"
)

// DeriveSchema reflects a JSON schema from the argument struct type T. Field
// names follow json tags; `jsonschema:"description=..."` tags carry the
// per-field descriptions shown to the model.
func DeriveSchema[T any]() map[string]any {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	var zero T
	s := r.Reflect(&zero)
	s.Version = "" // providers reject $schema in tool definitions

	b, err := json.Marshal(s)
	if err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return m
}

// compileSchema compiles a schema map into a validator.
func compileSchema(name string, schema map[string]any) (*schemavalidator.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema for %s: %w", name, err)
	}
	c := schemavalidator.NewCompiler()
	url := fmt.Sprintf("agentgraph://tool/%s/schema.json", name)
	if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource for %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", name, err)
	}
	return compiled, nil
}

// validateArgs checks raw arguments against the compiled schema. Empty
// arguments validate as an empty object.
func validateArgs(toolName string, compiled *schemavalidator.Schema, raw json.RawMessage) error {
	if compiled == nil {
		return nil
	}
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return &DecodeError{Tool: toolName, Cause: err}
	}
	if err := compiled.Validate(v); err != nil {
		return NewValidationError(toolName, "%v", err)
	}
	return nil
}
