package dsl

import (
	"github.com/reoring/recordkit"
)

type recordBuilder struct {
	name   string
	fields []recordkit.FieldDescriptor
	shapes []Shape
}

type fieldStep struct {
	b *recordBuilder
	i int
}

// Record creates a new record descriptor builder. Fields keep the order in
// which they are declared.
func Record(name string) *recordBuilder {
	return &recordBuilder{name: name}
}

// Field declares a field with its shape. Without Default or Optional the
// field is required.
func (b *recordBuilder) Field(name string, s Shape) *fieldStep {
	b.fields = append(b.fields, recordkit.FieldDescriptor{Name: name})
	b.shapes = append(b.shapes, s)
	return &fieldStep{b: b, i: len(b.fields) - 1}
}

// Default sets a raw default for the current field. It is validated against the
// field shape at Build and realized fresh on every construction.
func (f *fieldStep) Default(v any) *fieldStep {
	f.b.fields[f.i].Default = v
	f.b.fields[f.i].HasDefault = true
	return f
}

// Optional lets the current field be absent.
func (f *fieldStep) Optional() *fieldStep {
	f.b.shapes[f.i] = Optional(f.b.shapes[f.i])
	return f
}

func (f *fieldStep) Field(name string, s Shape) *fieldStep { return f.b.Field(name, s) }
func (f *fieldStep) Build() (*recordkit.Descriptor, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() *recordkit.Descriptor      { return f.b.MustBuild() }

// Fields appends already-built field descriptors.
func (b *recordBuilder) Fields(fs ...recordkit.FieldDescriptor) *recordBuilder {
	for _, fd := range fs {
		b.fields = append(b.fields, fd)
		b.shapes = append(b.shapes, of(fd.Shape, nil))
	}
	return b
}

// Build validates the declarations and returns the descriptor. Shape errors,
// duplicate names and defaults that do not fit their shape are ErrSchema.
func (b *recordBuilder) Build() (*recordkit.Descriptor, error) {
	fields := make([]recordkit.FieldDescriptor, len(b.fields))
	for i, fd := range b.fields {
		s, err := b.shapes[i].Resolved()
		if err != nil {
			return nil, err
		}
		fd.Shape = s
		fields[i] = fd
	}
	return recordkit.NewDescriptor(b.name, fields...)
}

// MustBuild is like Build but panics on error.
func (b *recordBuilder) MustBuild() *recordkit.Descriptor {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}
