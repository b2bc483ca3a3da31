package codegen

import (
	"fmt"
	"strings"

	"github.com/rrpc-dev/rrpc-go/schema"
)

// RenderGo emits the Go artifact: one struct per type with json tags, plus
// Encode/Decode helpers so callers can produce boundary payloads directly.
func RenderGo(doc *schema.Document, pkg string) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("\npackage " + pkg + "\n\n")
	b.WriteString("import \"encoding/json\"\n")

	for _, t := range doc.Types {
		nameWidth, typeWidth := 0, 0
		for _, f := range t.Fields {
			if n := len(exportName(f.Name)); n > nameWidth {
				nameWidth = n
			}
			if n := len(goType(f.Type)); n > typeWidth {
				typeWidth = n
			}
		}

		fmt.Fprintf(&b, "\n// %s mirrors the MSL type %q.\ntype %s struct {\n", t.Name, t.Name, t.Name)
		for _, f := range t.Fields {
			tag := f.Name
			if f.Type.Optional {
				tag += ",omitempty"
			}
			fmt.Fprintf(&b, "\t%-*s %-*s `json:%q`\n", nameWidth, exportName(f.Name), typeWidth, goType(f.Type), tag)
		}
		b.WriteString("}\n")

		fmt.Fprintf(&b, "\n// Encode%s serializes v for transport across the call boundary.\n", t.Name)
		fmt.Fprintf(&b, "func Encode%s(v *%s) ([]byte, error) {\n\treturn json.Marshal(v)\n}\n", t.Name, t.Name)
		fmt.Fprintf(&b, "\n// Decode%s decodes payload bytes returned by the boundary.\n", t.Name)
		fmt.Fprintf(&b, "func Decode%s(data []byte) (*%s, error) {\n", t.Name, t.Name)
		fmt.Fprintf(&b, "\tvar v %s\n", t.Name)
		b.WriteString("\tif err := json.Unmarshal(data, &v); err != nil {\n\t\treturn nil, err\n\t}\n\treturn &v, nil\n}\n")
	}
	return []byte(b.String())
}

func goType(t schema.FieldType) string {
	base := map[schema.Base]string{
		schema.BaseUUID:   "string",
		schema.BaseString: "string",
		schema.BaseF64:    "float64",
		schema.BaseAny:    "any",
	}[t.Base]

	if t.Array {
		if t.FixedLen > 0 {
			return fmt.Sprintf("[%d]%s", t.FixedLen, base)
		}
		return "[]" + base
	}
	return base
}
