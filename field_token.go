package recordkit

import (
	"reflect"
	"strings"
)

// FieldRef is a typed accessor for one top-level field of a record, obtained
// via FieldOf so renaming the Go field breaks compilation instead of lookups.
type FieldRef[F any] struct {
	key string
}

// Key returns the field's external name.
func (f FieldRef[F]) Key() string { return f.key }

// Has reports whether the field is present on r.
func (f FieldRef[F]) Has(r *Record) bool { return r.Has(f.key) }

// Get returns the field value of r as F.
func (f FieldRef[F]) Get(r *Record) (F, error) { return Field[F](r, f.key) }

// Set validates and stores v on r. A nil pointer unsets an optional field.
func (f FieldRef[F]) Set(r *Record, v F) error {
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return r.Set(f.key, nil)
		}
		return r.Set(f.key, rv.Elem().Interface())
	}
	return r.Set(f.key, v)
}

// Path returns the field's location for building issues.
func (f FieldRef[F]) Path() PathRef { return Root().Field(f.key) }

// FieldOf builds a FieldRef for a top-level field of S.
// The selector must return the address of a top-level field, e.g.:
//
//	FieldOf(func(d *MyData) *int { return &d.Bar })
func FieldOf[S any, F any](selector func(*S) *F) FieldRef[F] {
	if selector == nil {
		panic("recordkit.FieldOf: selector must not be nil")
	}
	var zero S
	fp := reflect.ValueOf(selector(&zero)).Pointer()
	rv := reflect.ValueOf(&zero).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		fv := rv.Field(i)
		if !fv.CanAddr() || fv.Addr().Pointer() != fp {
			continue
		}
		name := ResolveStructKey(rt.Field(i))
		if name == "" || name == "-" || !rt.Field(i).IsExported() {
			panic("recordkit.FieldOf: selected field is not exported or disabled")
		}
		return FieldRef[F]{key: name}
	}
	panic("recordkit.FieldOf: selector must return address of a top-level field of S")
}

// FieldPath identifies a nested field through non-pointer struct fields.
// Produced by PathOf. Keys are top-level-first.
type FieldPath struct {
	keys []string
}

// Keys returns the key path segments.
func (p FieldPath) Keys() []string { return append([]string(nil), p.keys...) }

// Pointer renders the path as a JSON Pointer, matching Issue.Path.
func (p FieldPath) Pointer() string {
	ref := Root()
	for _, k := range p.keys {
		ref = ref.Field(k)
	}
	return ref.Pointer()
}

// Lookup follows the path through nested records of r.
func (p FieldPath) Lookup(r *Record) (any, bool) {
	var cur any = r
	for _, k := range p.keys {
		rec, ok := cur.(*Record)
		if !ok {
			return nil, false
		}
		if cur, ok = rec.Lookup(k); !ok {
			return nil, false
		}
	}
	return cur, true
}

func (p FieldPath) String() string { return strings.Join(p.keys, ".") }

// PathOf builds a FieldPath for an arbitrary nested field of S.
//
//	PathOf(func(o *Order) *string { return &o.User.UserID })
//
// Only descends through struct fields; pointer hops are not supported.
func PathOf[S any, F any](selector func(*S) *F) FieldPath {
	if selector == nil {
		panic("recordkit.PathOf: selector must not be nil")
	}
	var zero S
	target := reflect.ValueOf(selector(&zero)).Pointer()
	keys, ok := findPathKeys(reflect.ValueOf(&zero).Elem(), target, 0)
	if !ok || len(keys) == 0 {
		panic("recordkit.PathOf: selector must address a nested struct field (non-pointer)")
	}
	return FieldPath{keys: keys}
}

const _maxPathDepth = 32

func findPathKeys(v reflect.Value, target uintptr, depth int) ([]string, bool) {
	if depth > _maxPathDepth || v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := ResolveStructKey(sf)
		if name == "" || name == "-" {
			continue
		}
		fv := v.Field(i)
		if fv.CanAddr() && fv.Addr().Pointer() == target && fv.Kind() != reflect.Struct {
			return []string{name}, true
		}
		if fv.Kind() == reflect.Struct {
			if rest, ok := findPathKeys(fv, target, depth+1); ok {
				return append([]string{name}, rest...), true
			}
			if fv.CanAddr() && fv.Addr().Pointer() == target {
				return []string{name}, true
			}
		}
	}
	return nil, false
}
