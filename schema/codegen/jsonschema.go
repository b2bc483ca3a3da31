package codegen

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rrpc-dev/rrpc-go/schema"
)

// renderJSONSchemas emits one Draft 2020-12 document per type.
func renderJSONSchemas(doc *schema.Document) (map[string][]byte, error) {
	files := make(map[string][]byte, len(doc.Types))
	for _, t := range doc.Types {
		s := JSONSchemaForType(t)
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json schema for %s: %w", t.Name, err)
		}
		files[filepath.Join("jsonschema", t.Name+".schema.json")] = append(data, '\n')
	}
	return files, nil
}

// JSONSchemaForType builds the JSON Schema document for one MSL type.
// Non-optional fields are required; extra properties are rejected.
func JSONSchemaForType(t schema.TypeDef) *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	var required []string
	for _, f := range t.Fields {
		props.Set(f.Name, fieldSchema(f.Type))
		if !f.Type.Optional {
			required = append(required, f.Name)
		}
	}
	return &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                t.Name,
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func fieldSchema(t schema.FieldType) *jsonschema.Schema {
	base := &jsonschema.Schema{}
	switch t.Base {
	case schema.BaseUUID:
		base.Type = "string"
		base.Format = "uuid"
	case schema.BaseString:
		base.Type = "string"
	case schema.BaseF64:
		base.Type = "number"
	case schema.BaseAny:
		// No constraint: any JSON value.
	}

	if !t.Array {
		return base
	}

	arr := &jsonschema.Schema{Type: "array", Items: base}
	if t.FixedLen > 0 {
		n := uint64(t.FixedLen)
		arr.MinItems = &n
		arr.MaxItems = &n
	}
	return arr
}
