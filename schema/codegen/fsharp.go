package codegen

import (
	"fmt"
	"strings"

	"github.com/rrpc-dev/rrpc-go/schema"
)

// RenderFSharp emits [<CLIMutable>] records plus a Codec module over
// System.Text.Json, matching the shape the managed host consumes.
func RenderFSharp(doc *schema.Document) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("\nnamespace Schema\n\nopen System\nopen System.Text.Json\n")

	for _, t := range doc.Types {
		fmt.Fprintf(&b, "\n[<CLIMutable>]\ntype %s = {\n", t.Name)
		for _, f := range t.Fields {
			fmt.Fprintf(&b, "    %s: %s\n", exportName(f.Name), fsType(f.Type))
		}
		b.WriteString("}\n")
	}

	b.WriteString("\nmodule Codec =\n")
	b.WriteString("    let serialize<'T> (x: 'T) = JsonSerializer.SerializeToUtf8Bytes(x)\n")
	b.WriteString("    let deserialize<'T> (b: byte[]) : 'T = JsonSerializer.Deserialize<'T>(b)\n")
	return []byte(b.String())
}

func fsType(t schema.FieldType) string {
	base := map[schema.Base]string{
		schema.BaseUUID:   "Guid",
		schema.BaseString: "string",
		schema.BaseF64:    "float",
		schema.BaseAny:    "obj",
	}[t.Base]

	s := base
	if t.Array {
		s = base + "[]"
	}
	if t.Optional {
		s += " option"
	}
	return s
}
