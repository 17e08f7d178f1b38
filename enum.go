package recordkit

import "reflect"

// Enumerated is implemented by named string or integer types whose values form
// a closed set. The resolver turns such types into Enum shapes.
//
//	type Level int
//
//	const (
//		Low Level = iota + 1
//		High
//	)
//
//	func (Level) EnumMembers() []recordkit.EnumMember {
//		return recordkit.Members(recordkit.Member("Low", Low), recordkit.Member("High", High))
//	}
type Enumerated interface {
	EnumMembers() []EnumMember
}

// EnumMember pairs a symbolic name with its backing raw value.
type EnumMember struct {
	Name  string
	Value any
}

// Member constructs an EnumMember.
func Member(name string, value any) EnumMember { return EnumMember{Name: name, Value: value} }

// Members is a readability helper for EnumMembers implementations.
func Members(ms ...EnumMember) []EnumMember { return ms }

var _enumeratedType = reflect.TypeOf((*Enumerated)(nil)).Elem()

// MemberName returns the symbolic name of v for Enum shapes.
func (s *Shape) MemberName(v any) (string, bool) {
	if s == nil || s.Kind != ShapeEnum {
		return "", false
	}
	raw, ok := canonicalScalar(s.Scalar, v)
	if !ok {
		return "", false
	}
	for _, m := range s.Members {
		if m.Value == raw {
			return m.Name, true
		}
	}
	return "", false
}
