package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workspaceMSL = `
schema: workspace

types:
  Node:
    id: uuid
    title: string
    position: [f64, 4]
  HyperEdge:
    id: uuid
    nodes: [string]
    label: string?

ui:
  canvas:
    grid: true
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(workspaceMSL))
	require.NoError(t, err)

	assert.Equal(t, "workspace", doc.Name)
	require.Len(t, doc.Types, 2)

	node := doc.Types[0]
	assert.Equal(t, "Node", node.Name)
	require.Len(t, node.Fields, 3)
	assert.Equal(t, "id", node.Fields[0].Name)
	assert.Equal(t, BaseUUID, node.Fields[0].Type.Base)
	assert.Equal(t, "position", node.Fields[2].Name)
	assert.Equal(t, FieldType{Base: BaseF64, Array: true, FixedLen: 4}, node.Fields[2].Type)

	edge := doc.Types[1]
	assert.Equal(t, "HyperEdge", edge.Name)
	assert.Equal(t, FieldType{Base: BaseString, Array: true}, edge.Fields[1].Type)
	assert.Equal(t, FieldType{Base: BaseString, Optional: true}, edge.Fields[2].Type)
}

func TestParsePreservesDeclarationOrder(t *testing.T) {
	doc, err := Parse([]byte(`
types:
  Zebra:
    z: string
    a: string
    m: string
  Alpha:
    only: f64
`))
	require.NoError(t, err)

	require.Len(t, doc.Types, 2)
	assert.Equal(t, "Zebra", doc.Types[0].Name)
	assert.Equal(t, "Alpha", doc.Types[1].Name)

	names := make([]string, 0, 3)
	for _, f := range doc.Types[0].Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"z", "a", "m"}, names)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid yaml", "types: ["},
		{"empty input", ""},
		{"top level not a mapping", "- a\n- b"},
		{"unknown top-level key", "transport: http"},
		{"types not a mapping", "types: 42"},
		{"fields not a mapping", "types:\n  Node: 42"},
		{"bad fixed array length", "types:\n  Node:\n    position: [f64, zero]"},
		{"nested type spec", "types:\n  Node:\n    bad: {a: b}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	doc, err := Parse([]byte(workspaceMSL))
	require.NoError(t, err)
	assert.NoError(t, doc.Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{"no types", &Document{Name: "empty"}},
		{"bad type name", &Document{Types: []TypeDef{{Name: "9node", Fields: []FieldDef{{Name: "id"}}}}}},
		{"bad field name", &Document{Types: []TypeDef{{Name: "Node", Fields: []FieldDef{{Name: "my-field"}}}}}},
		{"no fields", &Document{Types: []TypeDef{{Name: "Node"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.doc.Validate())
		})
	}
}
