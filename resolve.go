package recordkit

import (
	"fmt"
	"reflect"
	"sync"

	"gopkg.in/yaml.v3"
)

// _descriptors caches resolved descriptors per struct type for the process
// lifetime. Racing resolvers compute equal descriptors; the first stored wins.
var _descriptors sync.Map // reflect.Type -> *Descriptor

// Resolve derives the descriptor of a Go struct type (or pointer to struct).
//
// Declaration rules:
//   - key: recordkit:"name=..." > json:"name" > field name; "-" skips the field
//   - *T or recordkit:",optional" makes the field Optional
//   - default:"..." declares a default (verbatim for string-like shapes,
//     YAML flow syntax otherwise, e.g. default:"[1, 2]")
//   - const:"a|b" restricts a scalar field to the listed literal values
//   - types implementing Enumerated resolve to Enum shapes
//   - types with a registered codec resolve to Codec shapes
//   - slices and arrays are Sequences, map[string]V is a Mapping, structs nest
//   - a map[string]any field tagged recordkit:",extra" receives passthrough
//     keys in typed views
//
// Anything else (interfaces, channels, funcs, complex numbers, maps with
// non-string keys, **T) is an ErrSchema.
func Resolve(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, schemaError("<nil>", "cannot resolve a nil type")
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		t = t.Elem()
	}
	if d, ok := _descriptors.Load(t); ok {
		return d.(*Descriptor), nil
	}
	r := &resolver{inProgress: map[reflect.Type]*Descriptor{}}
	d, err := r.record(t)
	if err != nil {
		return nil, err
	}
	for _, nd := range r.built {
		if err := nd.checkDefaults(); err != nil {
			return nil, err
		}
	}
	for _, nd := range r.built {
		actual, loaded := _descriptors.LoadOrStore(nd.goType, nd)
		if nd == d {
			d = actual.(*Descriptor)
		}
		if !loaded {
			log().Debug().Str("type", nd.goType.String()).Int("fields", nd.Len()).Msg("descriptor resolved")
		}
	}
	return d, nil
}

// ResolveOf is the generic form of Resolve.
func ResolveOf[T any]() (*Descriptor, error) {
	return Resolve(reflect.TypeOf((*T)(nil)).Elem())
}

// MustResolve is like ResolveOf but panics on error. Schema errors are
// programming mistakes, so this suits package-level variables.
func MustResolve[T any]() *Descriptor {
	d, err := ResolveOf[T]()
	if err != nil {
		panic(err)
	}
	return d
}

type resolver struct {
	inProgress map[reflect.Type]*Descriptor
	built      []*Descriptor
}

func (r *resolver) record(t reflect.Type) (*Descriptor, error) {
	if d, ok := _descriptors.Load(t); ok {
		return d.(*Descriptor), nil
	}
	if d, ok := r.inProgress[t]; ok {
		return d, nil
	}
	if t.Kind() != reflect.Struct {
		return nil, schemaError(t.String(), "record types must be structs")
	}
	d := &Descriptor{name: t.Name(), goType: t, byName: map[string]int{}}
	if d.name == "" {
		d.name = t.String()
	}
	r.inProgress[t] = d
	r.built = append(r.built, d)

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key, opts := parseFieldTag(sf)
		if key == "-" {
			continue
		}
		where := t.Name() + "." + sf.Name
		if sf.Anonymous {
			return nil, schemaError(where, "embedded fields are not supported")
		}
		if opts.extra {
			if sf.Type != _extraType {
				return nil, schemaError(where, "extra field must be map[string]any")
			}
			d.extraIndex = sf.Index
			continue
		}
		lits, isLit := literalTag(sf)
		shape, err := r.shape(sf.Type, where, lits, isLit)
		if err != nil {
			return nil, err
		}
		if opts.optional {
			shape = NewOptional(shape)
		}
		fd := FieldDescriptor{Name: key, Shape: shape, index: sf.Index}
		if text, ok := sf.Tag.Lookup("default"); ok {
			v, err := defaultFromTag(shape, text)
			if err != nil {
				return nil, schemaError(where, "invalid default: "+err.Error())
			}
			fd.Default, fd.HasDefault = v, true
		}
		if err := d.add(fd); err != nil {
			return nil, err
		}
	}
	if len(d.fields) == 0 {
		return nil, schemaError(d.name, "struct declares no fields; register a codec for opaque types")
	}
	return d, nil
}

func (r *resolver) shape(t reflect.Type, where string, lits []string, isLit bool) (*Shape, error) {
	if c, ok := codecByType(t); ok {
		return &Shape{Kind: ShapeCodec, Codec: c.ID(), GoType: t}, nil
	}
	if t.Kind() == reflect.Pointer {
		if t.Elem().Kind() == reflect.Pointer {
			return nil, schemaError(where, "pointer to pointer is not supported")
		}
		inner, err := r.shape(t.Elem(), where, lits, isLit)
		if err != nil {
			return nil, err
		}
		return NewOptional(inner), nil
	}
	if t.Implements(_enumeratedType) {
		return enumShape(t, where)
	}
	if isLit {
		return literalShape(t, where, lits)
	}
	if k := scalarKindOfType(t); k != 0 {
		return &Shape{Kind: ShapeScalar, Scalar: k, GoType: t}, nil
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		elem, err := r.shape(t.Elem(), where+"[]", nil, false)
		if err != nil {
			return nil, err
		}
		return &Shape{Kind: ShapeSequence, Elem: elem, GoType: t}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, schemaError(where, "mapping keys must be strings, got "+t.Key().String())
		}
		elem, err := r.shape(t.Elem(), where+"{}", nil, false)
		if err != nil {
			return nil, err
		}
		return &Shape{Kind: ShapeMapping, Elem: elem, GoType: t}, nil
	case reflect.Struct:
		d, err := r.record(t)
		if err != nil {
			return nil, err
		}
		return &Shape{Kind: ShapeRecord, Record: d, GoType: t}, nil
	default:
		return nil, schemaError(where, "unsupported type "+t.String())
	}
}

func scalarKindOfType(t reflect.Type) ScalarKind {
	switch t.Kind() {
	case reflect.String:
		return String
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int
	case reflect.Float32, reflect.Float64:
		return Float
	default:
		return 0
	}
}

func enumShape(t reflect.Type, where string) (*Shape, error) {
	backing := scalarKindOfType(t)
	if backing != String && backing != Int {
		return nil, schemaError(where, "enum "+t.String()+" must have a string or integer underlying type")
	}
	members := reflect.Zero(t).Interface().(Enumerated).EnumMembers()
	s, err := NewEnum(t.Name(), members...)
	if err != nil {
		return nil, err
	}
	if s.Scalar != backing {
		return nil, schemaError(where, "enum "+t.String()+" members do not match its underlying type")
	}
	s.GoType = t
	return s, nil
}

func literalShape(t reflect.Type, where string, alts []string) (*Shape, error) {
	kind := scalarKindOfType(t)
	if kind == 0 {
		return nil, schemaError(where, "const tag requires a scalar field")
	}
	values := make([]any, 0, len(alts))
	for _, a := range alts {
		var v any = a
		if kind != String {
			if err := yaml.Unmarshal([]byte(a), &v); err != nil {
				return nil, schemaError(where, "invalid const value "+a)
			}
		}
		c, ok := canonicalScalar(kind, v)
		if !ok {
			return nil, schemaError(where, fmt.Sprintf("const value %s is not a %s", a, kind))
		}
		if _, ok := convertTo(c, t); !ok {
			return nil, schemaError(where, "const value "+a+" overflows "+t.String())
		}
		values = append(values, c)
	}
	s, err := NewLiteral(values...)
	if err != nil {
		return nil, err
	}
	s.GoType = t
	return s, nil
}

// defaultFromTag decodes a default:"..." tag for shape.
func defaultFromTag(shape *Shape, text string) (any, error) {
	base := shape.Base()
	switch {
	case base.Kind == ShapeCodec,
		base.Kind == ShapeScalar && base.Scalar == String,
		base.Kind == ShapeEnum && base.Scalar == String,
		base.Kind == ShapeLiteral && base.Scalar == String:
		return text, nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return normalizeYAML(v), nil
}
