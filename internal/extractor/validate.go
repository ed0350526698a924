package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidator checks extraction results against the response schema.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the response schema. The local copy accepts null
// for every non-root value because the prompt tells the model to emit null for
// absent fields.
func NewSchemaValidator() (*SchemaValidator, error) {
	b, err := json.Marshal(allowNulls(BuildResponseSchema(), true))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("medical_record.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("medical_record.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Validate reports whether data conforms to the response schema.
func (v *SchemaValidator) Validate(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

func allowNulls(node map[string]interface{}, root bool) map[string]interface{} {
	if !root {
		if t, ok := node["type"].(string); ok {
			node["type"] = []string{t, "null"}
		}
		if enum, ok := node["enum"].([]string); ok {
			values := make([]interface{}, 0, len(enum)+1)
			for _, e := range enum {
				values = append(values, e)
			}
			node["enum"] = append(values, nil)
		}
	}
	if props, ok := node["properties"].(map[string]interface{}); ok {
		for k, p := range props {
			props[k] = allowNulls(p.(map[string]interface{}), false)
		}
	}
	if items, ok := node["items"].(map[string]interface{}); ok {
		node["items"] = allowNulls(items, false)
	}
	return node
}
