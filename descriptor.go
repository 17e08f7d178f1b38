package recordkit

import (
	"reflect"
)

// FieldDescriptor is the resolved metadata of one declared field.
//
// Required is derived: a field is required iff it has no default and its shape
// is not Optional. NewDescriptor recomputes it, so callers may leave it unset.
type FieldDescriptor struct {
	Name       string
	Shape      *Shape
	Required   bool
	Default    any // raw value, realized fresh at construction time
	HasDefault bool

	index []int // struct field index for resolved declarations
}

// Descriptor is the immutable, ordered list of field descriptors of a record
// type. Descriptors are cached per Go type by the resolver.
type Descriptor struct {
	name       string
	goType     reflect.Type
	fields     []FieldDescriptor
	byName     map[string]int
	extraIndex []int
}

// NewDescriptor builds a descriptor from explicit field declarations, in
// order. Duplicate or empty names, malformed shapes and defaults that do not
// conform to their shape are reported as ErrSchema.
func NewDescriptor(name string, fields ...FieldDescriptor) (*Descriptor, error) {
	d := &Descriptor{name: name, byName: make(map[string]int, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			return nil, schemaError(name, "field name must not be empty")
		}
		if err := f.Shape.validate(); err != nil {
			return nil, schemaError(name, "field "+f.Name+": "+reasonOf(err))
		}
		if err := d.add(f); err != nil {
			return nil, err
		}
	}
	if err := d.checkDefaults(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Descriptor) add(f FieldDescriptor) error {
	if _, dup := d.byName[f.Name]; dup {
		return schemaError(d.name, "duplicate field name "+f.Name)
	}
	if f.HasDefault && f.Default == nil {
		if f.Shape.Kind != ShapeOptional {
			return schemaError(d.name, "field "+f.Name+" has a null default")
		}
		f.HasDefault = false
	}
	f.Required = !f.HasDefault && f.Shape.Kind != ShapeOptional
	d.byName[f.Name] = len(d.fields)
	d.fields = append(d.fields, f)
	return nil
}

// checkDefaults parses every declared default against its shape. It runs once
// the descriptor graph is complete so recursive records can be referenced.
func (d *Descriptor) checkDefaults() error {
	p := parser{}
	for _, f := range d.fields {
		if !f.HasDefault {
			continue
		}
		if _, err := p.value(f.Shape, f.Default, Root().Field(f.Name)); err != nil {
			return schemaError(d.name, "invalid default for "+f.Name+": "+reasonOf(err))
		}
	}
	return nil
}

// Name returns the record type name.
func (d *Descriptor) Name() string { return d.name }

// GoType returns the Go struct type the descriptor was resolved from, or nil
// for descriptors built explicitly.
func (d *Descriptor) GoType() reflect.Type { return d.goType }

// Fields returns a copy of the field descriptors in declaration order.
func (d *Descriptor) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(d.fields))
	copy(out, d.fields)
	return out
}

// Field looks up a field descriptor by name.
func (d *Descriptor) Field(name string) (FieldDescriptor, bool) {
	i, ok := d.byName[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return d.fields[i], true
}

// Len returns the number of declared fields.
func (d *Descriptor) Len() int { return len(d.fields) }

func (d *Descriptor) String() string { return "record " + d.name }

func (d *Descriptor) field(name string) (*FieldDescriptor, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return &d.fields[i], true
}

func sameDescriptor(a, b *Descriptor) bool {
	if a == b {
		return true
	}
	return a != nil && b != nil && a.goType != nil && a.goType == b.goType
}

// reasonOf extracts the bare message of an Issues error.
func reasonOf(err error) string {
	if iss, ok := AsIssues(err); ok {
		if it, ok := iss.First(); ok {
			if r, ok := it.Params["reason"].(string); ok {
				return r
			}
			if it.Path != "/" {
				return it.Path + ": " + it.Message
			}
			return it.Message
		}
	}
	return err.Error()
}
