package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Base is the scalar kind a field type is built from.
type Base int

const (
	// BaseAny maps unknown bases to each language's any/object type.
	BaseAny Base = iota
	BaseUUID
	BaseString
	BaseF64
)

func (b Base) String() string {
	switch b {
	case BaseUUID:
		return "uuid"
	case BaseString:
		return "string"
	case BaseF64:
		return "f64"
	default:
		return "any"
	}
}

// FieldType is a parsed type spec. The grammar, per the MSL format:
//
//	uuid | string | f64    scalar bases (anything else is BaseAny)
//	T?                     optional
//	[T]                    dynamic array
//	[T;N]                  fixed array of N elements
type FieldType struct {
	Base     Base
	Optional bool
	Array    bool
	FixedLen int // >0 only for fixed arrays
}

// ParseFieldType parses the string form of a type spec.
func ParseFieldType(spec string) (FieldType, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return FieldType{}, fmt.Errorf("empty type spec")
	}

	var ft FieldType
	if strings.HasSuffix(s, "?") {
		ft.Optional = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "?"))
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		ft.Array = true
		inner := s[1 : len(s)-1]
		if base, n, found := strings.Cut(inner, ";"); found {
			count, err := strconv.Atoi(strings.TrimSpace(n))
			if err != nil || count <= 0 {
				return FieldType{}, fmt.Errorf("bad fixed array length %q in %q", strings.TrimSpace(n), spec)
			}
			ft.FixedLen = count
			inner = base
		}
		ft.Base = baseOf(strings.TrimSpace(inner))
		return ft, nil
	}

	ft.Base = baseOf(s)
	return ft, nil
}

func baseOf(s string) Base {
	switch s {
	case "uuid":
		return BaseUUID
	case "string":
		return BaseString
	case "f64":
		return BaseF64
	default:
		return BaseAny
	}
}

// String renders the canonical spec form.
func (t FieldType) String() string {
	s := t.Base.String()
	if t.Array {
		if t.FixedLen > 0 {
			s = fmt.Sprintf("[%s;%d]", s, t.FixedLen)
		} else {
			s = "[" + s + "]"
		}
	}
	if t.Optional {
		s += "?"
	}
	return s
}
