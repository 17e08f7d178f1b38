package recordkit

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a record instance: the set of present declared fields of a
// Descriptor, kept in declaration order, plus passthrough data for keys the
// descriptor does not declare.
//
// Presence of a key is the only existence signal. Unset optional fields are
// missing keys, never nil entries.
type Record struct {
	desc   *Descriptor
	values *orderedmap.OrderedMap[string, any]
	extra  *orderedmap.OrderedMap[string, any]
}

// Values supplies field values for direct construction.
type Values map[string]any

// Blank returns an empty record for incremental construction. Call Validate
// before handing it out; serializing an incomplete record fails with
// ErrIncompleteInstance.
func Blank(d *Descriptor) *Record {
	return &Record{
		desc:   d,
		values: orderedmap.New[string, any](),
		extra:  orderedmap.New[string, any](),
	}
}

// New constructs a record from field values. Values may be typed or raw and are
// validated against their shapes. Every required field must be supplied
// (ErrMissingField); fields with defaults that are not supplied are set to a
// fresh copy of the default; unset optional fields stay absent.
func New(d *Descriptor, vals Values) (*Record, error) {
	if d == nil {
		return nil, schemaError("<nil>", "nil descriptor")
	}
	for name := range vals {
		if _, ok := d.byName[name]; !ok {
			return nil, failAt(Root().Field(name), CodeUnknownKey, nil)
		}
	}
	p := parser{}
	r := Blank(d)
	for _, f := range d.fields {
		at := Root().Field(f.Name)
		v, ok := vals[f.Name]
		if ok && v == nil && f.Shape.Kind == ShapeOptional {
			ok = false
		}
		if !ok {
			if f.Required {
				return nil, failAt(at, CodeRequired, nil)
			}
			continue
		}
		tv, err := p.value(f.Shape, v, at)
		if err != nil {
			return nil, err
		}
		r.values.Set(f.Name, tv)
	}
	if err := r.applyDefaults(); err != nil {
		return nil, err
	}
	return r, nil
}

// applyDefaults sets every absent field that declares a default to a freshly
// parsed copy of it.
func (r *Record) applyDefaults() error {
	p := parser{}
	for _, f := range r.desc.fields {
		if !f.HasDefault || r.Has(f.Name) {
			continue
		}
		tv, err := p.value(f.Shape, f.Default, Root().Field(f.Name))
		if err != nil {
			return err
		}
		r.put(f.Name, tv)
	}
	return nil
}

// Validate reports the first unset required field.
func (r *Record) Validate() error {
	for _, f := range r.desc.fields {
		if f.Required && !r.Has(f.Name) {
			return failAt(Root().Field(f.Name), CodeRequired, nil)
		}
	}
	return nil
}

// Descriptor returns the record's descriptor.
func (r *Record) Descriptor() *Descriptor { return r.desc }

// Has reports whether the declared field name is present. It is false for
// unset optional fields and for undeclared names.
func (r *Record) Has(name string) bool {
	_, ok := r.values.Get(name)
	return ok
}

// Get returns the typed value of a present field. It fails with
// ErrFieldNotPresent for unset declared fields and ErrUnknownField for names
// the descriptor does not declare.
func (r *Record) Get(name string) (any, error) {
	if v, ok := r.values.Get(name); ok {
		return v, nil
	}
	if _, ok := r.desc.byName[name]; !ok {
		return nil, failAt(Root().Field(name), CodeUnknownKey, nil)
	}
	return nil, failAt(Root().Field(name), CodeNotPresent, nil)
}

// Lookup is the comma-ok form of Get.
func (r *Record) Lookup(name string) (any, bool) {
	return r.values.Get(name)
}

// Set validates v against the field's shape and stores the typed result.
// Setting nil on an optional field unsets it.
func (r *Record) Set(name string, v any) error {
	f, ok := r.desc.field(name)
	if !ok {
		return failAt(Root().Field(name), CodeUnknownKey, nil)
	}
	if v == nil && f.Shape.Kind == ShapeOptional {
		r.values.Delete(name)
		return nil
	}
	tv, err := parser{}.value(f.Shape, v, Root().Field(name))
	if err != nil {
		return err
	}
	r.put(name, tv)
	return nil
}

// Delete unsets a field. Required fields cannot be removed (ErrMissingField).
func (r *Record) Delete(name string) error {
	f, ok := r.desc.field(name)
	if !ok {
		return failAt(Root().Field(name), CodeUnknownKey, nil)
	}
	if f.Required {
		return failAt(Root().Field(name), CodeRequired, nil)
	}
	r.values.Delete(name)
	return nil
}

// Keys returns the present field names in declaration order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.values.Len())
	for p := r.values.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Len returns the number of present fields.
func (r *Record) Len() int { return r.values.Len() }

// Range calls fn for each present field in declaration order until fn returns
// false.
func (r *Record) Range(fn func(name string, v any) bool) {
	for p := r.values.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Extra returns the passthrough value stored under key.
func (r *Record) Extra(key string) (any, bool) { return r.extra.Get(key) }

// ExtraKeys returns passthrough keys in insertion order.
func (r *Record) ExtraKeys() []string {
	keys := make([]string, 0, r.extra.Len())
	for p := r.extra.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// SetExtra stores a raw passthrough value. It is emitted verbatim on
// serialization unless the descriptor declares the same name.
func (r *Record) SetExtra(key string, raw any) { r.extra.Set(key, raw) }

// DeleteExtra drops a passthrough key.
func (r *Record) DeleteExtra(key string) { r.extra.Delete(key) }

// put stores v keeping the storage in declaration order.
func (r *Record) put(name string, v any) {
	if _, existed := r.values.Set(name, v); existed {
		return
	}
	i := r.desc.byName[name]
	for _, next := range r.desc.fields[i+1:] {
		if _, ok := r.values.Get(next.Name); ok {
			_ = r.values.MoveBefore(name, next.Name)
			return
		}
	}
}

// clone deep-copies the record, including nested records and passthrough trees.
func (r *Record) clone() *Record {
	out := Blank(r.desc)
	for p := r.values.Oldest(); p != nil; p = p.Next() {
		out.values.Set(p.Key, cloneValue(p.Value))
	}
	for p := r.extra.Oldest(); p != nil; p = p.Next() {
		out.extra.Set(p.Key, cloneValue(p.Value))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Record:
		if t == nil {
			return t
		}
		return t.clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case *orderedmap.OrderedMap[string, any]:
		if t == nil {
			return t
		}
		out := orderedmap.New[string, any]()
		for p := t.Oldest(); p != nil; p = p.Next() {
			out.Set(p.Key, cloneValue(p.Value))
		}
		return out
	default:
		return v
	}
}
