package dsl

import (
	"github.com/reoring/recordkit"
)

// Shape is a field shape under construction. Errors (duplicate enum members,
// mixed literal kinds) are carried along and reported by Build.
type Shape struct {
	s   *recordkit.Shape
	err error
}

// Resolved exposes the underlying shape and any construction error.
func (s Shape) Resolved() (*recordkit.Shape, error) { return s.s, s.err }

func of(s *recordkit.Shape, err error) Shape { return Shape{s: s, err: err} }

// String returns a string scalar shape.
func String() Shape { return of(recordkit.NewScalar(recordkit.String), nil) }

// Int returns an integer scalar shape. Values are held as int64.
func Int() Shape { return of(recordkit.NewScalar(recordkit.Int), nil) }

// Float returns a float scalar shape. Values are held as float64.
func Float() Shape { return of(recordkit.NewScalar(recordkit.Float), nil) }

// Bool returns a boolean scalar shape.
func Bool() Shape { return of(recordkit.NewScalar(recordkit.Bool), nil) }

// Enum returns an enum shape over the given members, which must share one
// backing kind (string or integer).
func Enum(name string, members ...recordkit.EnumMember) Shape {
	return of(recordkit.NewEnum(name, members...))
}

// Literal returns a shape accepting exactly the given raw values.
func Literal(values ...any) Shape { return of(recordkit.NewLiteral(values...)) }

// Optional lets the field be absent.
func Optional(elem Shape) Shape {
	if elem.err != nil {
		return elem
	}
	return of(recordkit.NewOptional(elem.s), nil)
}

// SequenceOf returns an ordered list of elem.
func SequenceOf(elem Shape) Shape {
	if elem.err != nil {
		return elem
	}
	return of(recordkit.NewSequence(elem.s), nil)
}

// MappingOf returns a string-keyed map of elem.
func MappingOf(elem Shape) Shape {
	if elem.err != nil {
		return elem
	}
	return of(recordkit.NewMapping(elem.s), nil)
}

// Codec returns a shape handled by the registered codec id.
func Codec(id string) Shape { return of(recordkit.NewCodecShape(id), nil) }

// Nested embeds another record descriptor.
func Nested(d *recordkit.Descriptor) Shape { return of(recordkit.NewRecordShape(d), nil) }

// Of embeds the descriptor resolved from the Go struct T.
func Of[T any]() Shape {
	d, err := recordkit.ResolveOf[T]()
	if err != nil {
		return of(nil, err)
	}
	return Nested(d)
}
