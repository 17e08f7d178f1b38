package recordkit

import (
	"reflect"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Parse builds a record of d from a raw value tree.
//
// Fields are walked in declaration order and the first mismatch aborts the
// call; no partial record is returned. Errors are Issues whose Path is a JSON
// Pointer to the offending value (for example /my_list/1/foo). Declared
// defaults are not injected unless ParseOpt.MaterializeDefaults is set, and
// keys the descriptor does not declare are handled per ParseOpt.Unknown
// (kept as passthrough by default, independently for every nested record).
//
// raw may be a map[string]any, an *orderedmap.OrderedMap[string, any], any Go
// map with string keys, a value of the descriptor's Go struct type, or a
// *Record of the same descriptor, which is copied.
func Parse(raw any, d *Descriptor, opts ...ParseOpt) (*Record, error) {
	if d == nil {
		return nil, schemaError("<nil>", "nil descriptor")
	}
	p := parser{opt: lastParseOpt(opts)}
	r, err := p.record(d, raw, Root())
	if err != nil {
		if it, ok := AsIssues(err); ok && len(it) > 0 {
			log().Debug().Str("record", d.Name()).Str("code", it[0].Code).Str("path", it[0].Path).Msg("payload rejected")
		}
		return nil, err
	}
	return r, nil
}

// ParseOf resolves T and parses raw into a record of it.
func ParseOf[T any](raw any, opts ...ParseOpt) (*Record, error) {
	d, err := ResolveOf[T]()
	if err != nil {
		return nil, err
	}
	return Parse(raw, d, opts...)
}

// Decode parses raw against T and returns the typed view.
func Decode[T any](raw any, opts ...ParseOpt) (T, error) {
	var zero T
	r, err := ParseOf[T](raw, opts...)
	if err != nil {
		return zero, err
	}
	return As[T](r)
}

type parser struct {
	opt ParseOpt
}

func (p parser) value(s *Shape, v any, at PathRef) (any, error) {
	switch s.Kind {
	case ShapeOptional:
		if v == nil {
			return nil, nil
		}
		return p.value(s.Elem, v, at)
	case ShapeScalar:
		c, ok := canonicalScalar(s.Scalar, v)
		if !ok {
			return nil, failAt(at, CodeInvalidType, map[string]string{"expected": s.Scalar.String(), "got": describe(v)})
		}
		tv, ok := convertTo(c, s.GoType)
		if !ok {
			return nil, failAt(at, CodeInvalidType, map[string]string{"expected": s.GoType.String(), "got": quote(c)})
		}
		return tv, nil
	case ShapeEnum:
		c, ok := canonicalScalar(s.Scalar, v)
		if ok {
			for _, m := range s.Members {
				if m.Value == c {
					tv, _ := convertTo(c, s.GoType)
					return tv, nil
				}
			}
		}
		return nil, failAt(at, CodeInvalidEnum, map[string]string{"got": quote(v), "enum": s.String()})
	case ShapeLiteral:
		c, ok := canonicalScalar(s.Scalar, v)
		if ok {
			for _, l := range s.Literals {
				if l == c {
					tv, _ := convertTo(c, s.GoType)
					return tv, nil
				}
			}
		}
		allowed := make([]string, len(s.Literals))
		for i, l := range s.Literals {
			allowed[i] = quote(l)
		}
		return nil, failAt(at, CodeInvalidLiteral, map[string]string{"got": quote(v), "allowed": strings.Join(allowed, ", ")})
	case ShapeSequence:
		return p.sequence(s, v, at)
	case ShapeMapping:
		return p.mapping(s, v, at)
	case ShapeCodec:
		return p.codec(s, v, at)
	case ShapeRecord:
		return p.record(s.Record, v, at)
	default:
		return nil, schemaError(s.String(), "unknown shape kind")
	}
}

func (p parser) sequence(s *Shape, v any, at PathRef) (any, error) {
	if items, ok := v.([]any); ok {
		out := make([]any, len(items))
		for i, it := range items {
			tv, err := p.value(s.Elem, it, at.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = tv
		}
		return out, nil
	}
	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, failAt(at, CodeInvalidType, map[string]string{"expected": "sequence", "got": describe(v)})
	}
	out := make([]any, rv.Len())
	for i := range out {
		tv, err := p.value(s.Elem, rv.Index(i).Interface(), at.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = tv
	}
	return out, nil
}

func (p parser) mapping(s *Shape, v any, at PathRef) (any, error) {
	keys, get, ok := entriesOf(v)
	if !ok {
		return nil, failAt(at, CodeInvalidType, map[string]string{"expected": "mapping", "got": describe(v)})
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		raw, _ := get(k)
		tv, err := p.value(s.Elem, raw, at.Field(k))
		if err != nil {
			return nil, err
		}
		out[k] = tv
	}
	return out, nil
}

func (p parser) codec(s *Shape, v any, at PathRef) (any, error) {
	c, ok := LookupCodec(s.Codec)
	if !ok {
		return nil, schemaError(s.Codec, "codec "+s.Codec+" is not registered")
	}
	var tv any
	var err error
	if t := c.Type(); t != nil && v != nil && reflect.TypeOf(v) == t {
		// typed values must encode, so a stored value always serializes
		tv = v
		_, err = c.Encode(v)
	} else {
		tv, err = c.Decode(v)
	}
	if err != nil {
		it := IssueAt(at, CodeInvalidFormat, map[string]string{"codec": s.Codec})
		it.Cause = err
		return nil, Issues{it}
	}
	return tv, nil
}

func (p parser) record(d *Descriptor, v any, at PathRef) (*Record, error) {
	switch t := v.(type) {
	case *Record:
		if t != nil && sameDescriptor(t.desc, d) {
			return t.clone(), nil
		}
		return nil, failAt(at, CodeInvalidType, map[string]string{"expected": d.String(), "got": describe(v)})
	}
	if d.goType != nil && v != nil {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.Type().Elem() == d.goType && !rv.IsNil() {
			rv = rv.Elem()
		}
		if rv.Type() == d.goType {
			return fromStruct(d, rv, at)
		}
	}
	keys, get, ok := entriesOf(v)
	if !ok {
		return nil, failAt(at, CodeInvalidType, map[string]string{"expected": "mapping", "got": describe(v)})
	}
	r := Blank(d)
	for _, f := range d.fields {
		fat := at.Field(f.Name)
		raw, present := get(f.Name)
		if present && raw == nil && f.Shape.Kind == ShapeOptional {
			present = false
		}
		if !present {
			if f.Required {
				return nil, failAt(fat, CodeRequired, nil)
			}
			continue
		}
		tv, err := p.value(f.Shape, raw, fat)
		if err != nil {
			return nil, err
		}
		r.values.Set(f.Name, tv)
	}
	for _, k := range keys {
		if _, declared := d.byName[k]; declared {
			continue
		}
		switch p.opt.Unknown {
		case UnknownStrict:
			return nil, failAt(at.Field(k), CodeUnknownKey, nil)
		case UnknownStrip:
		default:
			raw, _ := get(k)
			r.extra.Set(k, raw)
		}
	}
	if p.opt.MaterializeDefaults {
		if err := r.applyDefaults(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// entriesOf exposes a string-keyed mapping as its keys plus a lookup. Ordered
// maps keep their order; plain maps are walked in sorted key order.
func entriesOf(v any) ([]string, func(string) (any, bool), bool) {
	switch m := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, func(k string) (any, bool) {
			x, ok := m[k]
			return x, ok
		}, true
	case *orderedmap.OrderedMap[string, any]:
		if m == nil {
			return nil, nil, false
		}
		keys := make([]string, 0, m.Len())
		for p := m.Oldest(); p != nil; p = p.Next() {
			keys = append(keys, p.Key)
		}
		return keys, m.Get, true
	case Values:
		return entriesOf(map[string]any(m))
	}
	if v == nil {
		return nil, nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, nil, false
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	kt := rv.Type().Key()
	return keys, func(k string) (any, bool) {
		x := rv.MapIndex(reflect.ValueOf(k).Convert(kt))
		if !x.IsValid() {
			return nil, false
		}
		return x.Interface(), true
	}, true
}
