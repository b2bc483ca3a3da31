// Package schema models MSL documents: YAML files declaring the types whose
// serialized bytes cross the call boundary. The boundary itself never sees
// these structures, only the bytes the generated code produces.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Document is a parsed MSL schema. Type and field order follow the source
// document so generated output is deterministic.
type Document struct {
	Name  string    `validate:"-"`
	Types []TypeDef `validate:"min=1,dive"`
}

// TypeDef declares one named record type.
type TypeDef struct {
	Name   string     `validate:"required,identifier"`
	Fields []FieldDef `validate:"min=1,dive"`
}

// FieldDef declares one field of a record type.
type FieldDef struct {
	Name string `validate:"required,identifier"`
	Type FieldType
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validate is a package-level singleton; constructing a validator per call is
// expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag name.
	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierRe.MatchString(fl.Field().String())
	})
	return v
}

// Parse decodes an MSL document. Recognized top-level keys are "schema" (a
// name), "types" (an ordered mapping of type declarations) and "ui" (layout
// hints the generator ignores).
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse msl document: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("parse msl document: empty input")
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse msl document: top level must be a mapping, got %s", nodeKind(top))
	}

	doc := &Document{}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "schema":
			doc.Name = val.Value
		case "types":
			types, err := parseTypes(val)
			if err != nil {
				return nil, err
			}
			doc.Types = types
		case "ui":
			// Layout hints for editors; codegen does not consume them.
		default:
			return nil, fmt.Errorf("parse msl document: unknown top-level key %q (line %d)", key.Value, key.Line)
		}
	}
	return doc, nil
}

func parseTypes(node *yaml.Node) ([]TypeDef, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("types: expected a mapping, got %s (line %d)", nodeKind(node), node.Line)
	}

	var types []TypeDef
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		fields, err := parseFields(key.Value, val)
		if err != nil {
			return nil, err
		}
		types = append(types, TypeDef{Name: key.Value, Fields: fields})
	}
	return types, nil
}

func parseFields(typeName string, node *yaml.Node) ([]FieldDef, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("type %s: expected a mapping of fields, got %s (line %d)", typeName, nodeKind(node), node.Line)
	}

	var fields []FieldDef
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		spec, err := specString(val)
		if err != nil {
			return nil, fmt.Errorf("type %s, field %s: %w", typeName, key.Value, err)
		}
		ft, err := ParseFieldType(spec)
		if err != nil {
			return nil, fmt.Errorf("type %s, field %s: %w", typeName, key.Value, err)
		}
		fields = append(fields, FieldDef{Name: key.Value, Type: ft})
	}
	return fields, nil
}

// specString normalizes a field's type node to its string grammar. Scalars
// pass through; sequences like [f64, 4] collapse to "[f64;4]".
func specString(node *yaml.Node) (string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value, nil
	case yaml.SequenceNode:
		parts := make([]string, 0, len(node.Content))
		for _, el := range node.Content {
			if el.Kind != yaml.ScalarNode {
				return "", fmt.Errorf("sequence type spec elements must be scalars (line %d)", el.Line)
			}
			parts = append(parts, el.Value)
		}
		return "[" + strings.Join(parts, ";") + "]", nil
	default:
		return "", fmt.Errorf("type spec must be a scalar or a sequence, got %s (line %d)", nodeKind(node), node.Line)
	}
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// Validate checks structural rules the parser cannot express: at least one
// declared type, and identifier-shaped type and field names.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
