package codegen

import (
	"fmt"
	"strings"

	"github.com/rrpc-dev/rrpc-go/schema"
)

// RenderRust emits serde-deriving Rust structs.
func RenderRust(doc *schema.Document) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("\nuse serde::{Deserialize, Serialize};\n")

	for _, t := range doc.Types {
		b.WriteString("\n#[derive(Debug, Clone, PartialEq, Serialize, Deserialize)]\n")
		fmt.Fprintf(&b, "pub struct %s {\n", t.Name)
		for _, f := range t.Fields {
			if f.Type.Optional {
				b.WriteString("    #[serde(skip_serializing_if = \"Option::is_none\")]\n")
			}
			fmt.Fprintf(&b, "    pub %s: %s,\n", strings.ToLower(f.Name), rustType(f.Type))
		}
		b.WriteString("}\n")
	}
	return []byte(b.String())
}

func rustType(t schema.FieldType) string {
	base := map[schema.Base]string{
		schema.BaseUUID:   "uuid::Uuid",
		schema.BaseString: "String",
		schema.BaseF64:    "f64",
		schema.BaseAny:    "serde_json::Value",
	}[t.Base]

	s := base
	if t.Array {
		if t.FixedLen > 0 {
			s = fmt.Sprintf("[%s; %d]", base, t.FixedLen)
		} else {
			s = fmt.Sprintf("Vec<%s>", base)
		}
	}
	if t.Optional {
		s = fmt.Sprintf("Option<%s>", s)
	}
	return s
}
