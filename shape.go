package recordkit

import (
	"fmt"
	"reflect"
	"strings"
)

// ShapeKind enumerates the closed set of structural categories the engine understands.
type ShapeKind uint8

const (
	ShapeScalar ShapeKind = iota + 1
	ShapeEnum
	ShapeLiteral
	ShapeOptional
	ShapeSequence
	ShapeMapping
	ShapeCodec
	ShapeRecord
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeScalar:
		return "scalar"
	case ShapeEnum:
		return "enum"
	case ShapeLiteral:
		return "literal"
	case ShapeOptional:
		return "optional"
	case ShapeSequence:
		return "sequence"
	case ShapeMapping:
		return "mapping"
	case ShapeCodec:
		return "codec"
	case ShapeRecord:
		return "record"
	default:
		return "invalid"
	}
}

// ScalarKind is the primitive kind of Scalar shapes and the backing kind of
// Enum and Literal shapes.
type ScalarKind uint8

const (
	String ScalarKind = iota + 1
	Int
	Float
	Bool
)

func (k ScalarKind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "integer"
	case Float:
		return "float"
	case Bool:
		return "boolean"
	default:
		return "invalid"
	}
}

// Shape describes the declared structure of a value.
//
// Only the fields relevant to Kind are set:
//   - Scalar: Scalar
//   - Enum: Scalar (backing kind), Members (canonical backing values)
//   - Literal: Scalar, Literals (canonical raw values)
//   - Optional, Sequence, Mapping: Elem
//   - Codec: Codec (registry id)
//   - Record: Record
//
// GoType is the declared Go type when the shape was resolved from a Go
// declaration; typed values are converted to it. Builder shapes leave it nil and
// use the canonical representation (string, int64, float64, bool).
type Shape struct {
	Kind     ShapeKind
	Scalar   ScalarKind
	Members  []EnumMember
	Literals []any
	Elem     *Shape
	Codec    string
	Record   *Descriptor
	GoType   reflect.Type
	name     string // enum type name, for messages
}

// NewScalar returns a Scalar shape.
func NewScalar(k ScalarKind) *Shape { return &Shape{Kind: ShapeScalar, Scalar: k} }

// NewEnum returns an Enum shape. Member values must all share one backing kind
// (string or integer); names and values must be unique.
func NewEnum(name string, members ...EnumMember) (*Shape, error) {
	if len(members) == 0 {
		return nil, schemaError(name, "enum declares no members")
	}
	s := &Shape{Kind: ShapeEnum, name: name}
	names := map[string]struct{}{}
	values := map[any]struct{}{}
	for _, m := range members {
		k := scalarKindOf(m.Value)
		if k != String && k != Int {
			return nil, schemaError(name, fmt.Sprintf("enum member %s has unsupported backing value %v", m.Name, m.Value))
		}
		if s.Scalar == 0 {
			s.Scalar = k
		} else if s.Scalar != k {
			return nil, schemaError(name, "enum members mix backing kinds")
		}
		raw, _ := canonicalScalar(k, m.Value)
		if _, dup := names[m.Name]; dup {
			return nil, schemaError(name, "duplicate enum member name "+m.Name)
		}
		if _, dup := values[raw]; dup {
			return nil, schemaError(name, fmt.Sprintf("duplicate enum value %v", raw))
		}
		names[m.Name] = struct{}{}
		values[raw] = struct{}{}
		s.Members = append(s.Members, EnumMember{Name: m.Name, Value: raw})
	}
	return s, nil
}

// NewLiteral returns a Literal shape accepting exactly the given raw values,
// which must share one scalar kind.
func NewLiteral(values ...any) (*Shape, error) {
	if len(values) == 0 {
		return nil, schemaError("literal", "literal declares no values")
	}
	s := &Shape{Kind: ShapeLiteral}
	for _, v := range values {
		k := scalarKindOf(v)
		if k == 0 {
			return nil, schemaError("literal", fmt.Sprintf("unsupported literal value %v", v))
		}
		if s.Scalar == 0 {
			s.Scalar = k
		} else if s.Scalar != k {
			return nil, schemaError("literal", "literal values mix kinds")
		}
		raw, _ := canonicalScalar(k, v)
		s.Literals = append(s.Literals, raw)
	}
	return s, nil
}

// NewOptional wraps elem so the field may be absent. Optional shapes do not nest.
func NewOptional(elem *Shape) *Shape {
	if elem != nil && elem.Kind == ShapeOptional {
		return elem
	}
	return &Shape{Kind: ShapeOptional, Elem: elem}
}

// NewSequence returns a Sequence shape of elem.
func NewSequence(elem *Shape) *Shape { return &Shape{Kind: ShapeSequence, Elem: elem} }

// NewMapping returns a string-keyed Mapping shape of elem.
func NewMapping(elem *Shape) *Shape { return &Shape{Kind: ShapeMapping, Elem: elem} }

// NewCodecShape returns a shape handled by the registered codec id.
func NewCodecShape(id string) *Shape { return &Shape{Kind: ShapeCodec, Codec: id} }

// NewRecordShape returns a nested record shape.
func NewRecordShape(d *Descriptor) *Shape { return &Shape{Kind: ShapeRecord, Record: d} }

// Base strips an Optional wrapper.
func (s *Shape) Base() *Shape {
	if s != nil && s.Kind == ShapeOptional {
		return s.Elem
	}
	return s
}

func (s *Shape) String() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Kind {
	case ShapeScalar:
		return s.Scalar.String()
	case ShapeEnum:
		if s.name != "" {
			return "enum " + s.name
		}
		return "enum<" + s.Scalar.String() + ">"
	case ShapeLiteral:
		parts := make([]string, len(s.Literals))
		for i, l := range s.Literals {
			parts[i] = fmt.Sprintf("%#v", l)
		}
		return "literal<" + strings.Join(parts, "|") + ">"
	case ShapeOptional, ShapeSequence, ShapeMapping:
		return s.Kind.String() + "<" + s.Elem.String() + ">"
	case ShapeCodec:
		return "codec " + s.Codec
	case ShapeRecord:
		if s.Record == nil {
			return "record"
		}
		return "record " + s.Record.Name()
	default:
		return s.Kind.String()
	}
}

// validate checks structural completeness of builder-made shapes.
func (s *Shape) validate() error {
	if s == nil {
		return schemaError("shape", "nil shape")
	}
	switch s.Kind {
	case ShapeScalar:
		if s.Scalar < String || s.Scalar > Bool {
			return schemaError("shape", "scalar kind is not set")
		}
	case ShapeEnum:
		if len(s.Members) == 0 {
			return schemaError("shape", "enum declares no members")
		}
	case ShapeLiteral:
		if len(s.Literals) == 0 {
			return schemaError("shape", "literal declares no values")
		}
	case ShapeOptional:
		if s.Elem != nil && s.Elem.Kind == ShapeOptional {
			return schemaError("shape", "optional of optional")
		}
		return s.Elem.validate()
	case ShapeSequence, ShapeMapping:
		return s.Elem.validate()
	case ShapeCodec:
		if _, ok := LookupCodec(s.Codec); !ok {
			return schemaError("shape", "codec "+s.Codec+" is not registered")
		}
	case ShapeRecord:
		if s.Record == nil {
			return schemaError("shape", "record shape without descriptor")
		}
	default:
		return schemaError("shape", "unknown shape kind")
	}
	return nil
}
