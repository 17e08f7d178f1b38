package recordkit

import (
	"reflect"
	"sort"
)

// Field returns the value of a present field converted to T. Sequences,
// mappings and nested records are converted recursively, so
// Field[[]MyData](r, "my_list") works as well as Field[[]any].
func Field[T any](r *Record, name string) (T, error) {
	var out T
	v, err := r.Get(name)
	if err != nil {
		return out, err
	}
	f, _ := r.desc.field(name)
	if err := assignValue(reflect.ValueOf(&out).Elem(), f.Shape, v, Root().Field(name)); err != nil {
		return out, err
	}
	return out, nil
}

// As converts a record into the Go struct T (or *T). Unset fields keep their
// zero value, which for pointer fields is nil; passthrough keys land in the
// field tagged recordkit:",extra" when T declares one.
func As[T any](r *Record) (T, error) {
	var out T
	if r == nil {
		return out, failAt(Root(), CodeInvalidType, map[string]string{"expected": "record", "got": "null"})
	}
	dst := reflect.ValueOf(&out).Elem()
	if dst.Kind() == reflect.Pointer {
		dst.Set(reflect.New(dst.Type().Elem()))
		dst = dst.Elem()
	}
	if dst.Kind() != reflect.Struct {
		return out, schemaError(dst.Type().String(), "typed views require a struct type")
	}
	if err := assignRecord(dst, r, Root()); err != nil {
		return out, err
	}
	return out, nil
}

// FromStruct builds a record from a struct value of a resolvable type. Nil
// pointer fields and zero-valued fields tagged recordkit:",optional" are
// absent; every other field is present, zero or not.
func FromStruct(v any) (*Record, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, failAt(Root(), CodeInvalidType, map[string]string{"expected": "struct", "got": "null"})
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, failAt(Root(), CodeInvalidType, map[string]string{"expected": "struct", "got": "null"})
	}
	d, err := Resolve(rv.Type())
	if err != nil {
		return nil, err
	}
	return fromStruct(d, rv, Root())
}

func fromStruct(d *Descriptor, rv reflect.Value, at PathRef) (*Record, error) {
	p := parser{}
	r := Blank(d)
	for _, f := range d.fields {
		fat := at.Field(f.Name)
		fv := rv.FieldByIndex(f.index)
		var v any
		switch {
		case f.Shape.Kind != ShapeOptional:
			v = fv.Interface()
		case fv.Kind() == reflect.Pointer && f.Shape.Elem.GoType != fv.Type():
			if !fv.IsNil() {
				v = fv.Elem().Interface()
			}
		case !fv.IsZero():
			v = fv.Interface()
		}
		if v == nil {
			if f.Required {
				return nil, failAt(fat, CodeRequired, nil)
			}
			continue
		}
		tv, err := p.value(f.Shape, v, fat)
		if err != nil {
			return nil, err
		}
		r.values.Set(f.Name, tv)
	}
	if d.extraIndex != nil {
		extra, _ := rv.FieldByIndex(d.extraIndex).Interface().(map[string]any)
		keys := make([]string, 0, len(extra))
		for k := range extra {
			if _, declared := d.byName[k]; !declared {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			r.extra.Set(k, extra[k])
		}
	}
	return r, nil
}

func assignRecord(dst reflect.Value, r *Record, at PathRef) error {
	d, err := Resolve(dst.Type())
	if err != nil {
		return err
	}
	for _, f := range d.fields {
		v, ok := r.values.Get(f.Name)
		if !ok {
			continue
		}
		if err := assignValue(dst.FieldByIndex(f.index), f.Shape, v, at.Field(f.Name)); err != nil {
			return err
		}
	}
	if d.extraIndex != nil && r.extra.Len() > 0 {
		m := make(map[string]any, r.extra.Len())
		for p := r.extra.Oldest(); p != nil; p = p.Next() {
			m[p.Key] = p.Value
		}
		dst.FieldByIndex(d.extraIndex).Set(reflect.ValueOf(m))
	}
	return nil
}

// assignValue stores the typed value v into dst, converting containers and
// records recursively.
func assignValue(dst reflect.Value, s *Shape, v any, at PathRef) error {
	if v == nil {
		return nil
	}
	vv := reflect.ValueOf(v)
	if vv.Type().AssignableTo(dst.Type()) {
		dst.Set(vv)
		return nil
	}
	mismatch := func() error {
		return failAt(at, CodeInvalidType, map[string]string{"expected": dst.Type().String(), "got": describe(v)})
	}
	if dst.Kind() == reflect.Pointer {
		elem := reflect.New(dst.Type().Elem())
		if err := assignValue(elem.Elem(), s.Base(), v, at); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	s = s.Base()
	switch s.Kind {
	case ShapeRecord:
		rec, ok := v.(*Record)
		if !ok || dst.Kind() != reflect.Struct {
			return mismatch()
		}
		return assignRecord(dst, rec, at)
	case ShapeSequence:
		items, ok := v.([]any)
		if !ok {
			return mismatch()
		}
		switch dst.Kind() {
		case reflect.Slice:
			out := reflect.MakeSlice(dst.Type(), len(items), len(items))
			for i, it := range items {
				if err := assignValue(out.Index(i), s.Elem, it, at.Index(i)); err != nil {
					return err
				}
			}
			dst.Set(out)
		case reflect.Array:
			if len(items) > dst.Len() {
				return mismatch()
			}
			for i, it := range items {
				if err := assignValue(dst.Index(i), s.Elem, it, at.Index(i)); err != nil {
					return err
				}
			}
		default:
			return mismatch()
		}
		return nil
	case ShapeMapping:
		entries, ok := v.(map[string]any)
		if !ok || dst.Kind() != reflect.Map || dst.Type().Key().Kind() != reflect.String {
			return mismatch()
		}
		out := reflect.MakeMapWithSize(dst.Type(), len(entries))
		kt := dst.Type().Key()
		for k, e := range entries {
			ev := reflect.New(dst.Type().Elem()).Elem()
			if err := assignValue(ev, s.Elem, e, at.Field(k)); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(kt), ev)
		}
		dst.Set(out)
		return nil
	case ShapeScalar, ShapeEnum, ShapeLiteral:
		k := scalarKindOfType(dst.Type())
		if k == 0 {
			return mismatch()
		}
		c, ok := canonicalScalar(k, v)
		if !ok {
			return mismatch()
		}
		conv, ok := convertTo(c, dst.Type())
		if !ok {
			return mismatch()
		}
		dst.Set(reflect.ValueOf(conv))
		return nil
	default:
		return mismatch()
	}
}
