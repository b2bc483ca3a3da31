package codegen

import (
	"fmt"
	"strings"

	"github.com/rrpc-dev/rrpc-go/schema"
)

// RenderTypeScript emits exported interfaces. Optional fields render as
// `name?: T`; fixed arrays flatten to dynamic arrays since TypeScript has no
// fixed-length array type.
func RenderTypeScript(doc *schema.Document) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)

	for _, t := range doc.Types {
		fmt.Fprintf(&b, "\nexport interface %s {\n", t.Name)
		for _, f := range t.Fields {
			name := f.Name
			if f.Type.Optional {
				name += "?"
			}
			fmt.Fprintf(&b, "  %s: %s;\n", name, tsType(f.Type))
		}
		b.WriteString("}\n")
	}
	return []byte(b.String())
}

func tsType(t schema.FieldType) string {
	base := map[schema.Base]string{
		schema.BaseUUID:   "string",
		schema.BaseString: "string",
		schema.BaseF64:    "number",
		schema.BaseAny:    "unknown",
	}[t.Base]

	if t.Array {
		return base + "[]"
	}
	return base
}
