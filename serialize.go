package recordkit

import (
	"bytes"
	"reflect"
	"sort"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Serialize flattens r into a raw value tree: present declared fields
// (recursively), followed by passthrough keys the descriptor does not declare.
// Unset optional fields are omitted, never emitted as null. An unset required
// field fails with ErrIncompleteInstance.
func Serialize(r *Record, opts ...SerializeOpt) (map[string]any, error) {
	out, err := serializer{opt: lastSerializeOpt(opts)}.record(r, Root())
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

// SerializeOrdered is Serialize with ordered maps for records, keeping
// declaration order (passthrough keys last, in insertion order). Mapping values
// are emitted with sorted keys.
func SerializeOrdered(r *Record, opts ...SerializeOpt) (*orderedmap.OrderedMap[string, any], error) {
	out, err := serializer{opt: lastSerializeOpt(opts), ordered: true}.record(r, Root())
	if err != nil {
		return nil, err
	}
	return out.(*orderedmap.OrderedMap[string, any]), nil
}

// MarshalJSON encodes the record in declaration order.
func (r *Record) MarshalJSON() ([]byte, error) {
	om, err := SerializeOrdered(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(om)
}

// MarshalYAML implements yaml.Marshaler, keeping declaration order.
func (r *Record) MarshalYAML() (any, error) {
	return SerializeOrdered(r)
}

// Equal reports whether a and b serialize to the same canonical JSON
// (RFC 8785), passthrough data included.
func Equal(a, b *Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	ca, err := canonicalJSON(a)
	if err != nil {
		return false
	}
	cb, err := canonicalJSON(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

func canonicalJSON(r *Record) ([]byte, error) {
	tree, err := Serialize(r)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	return jsoncanonicalizer.Transform(raw)
}

type serializer struct {
	opt     SerializeOpt
	ordered bool
}

func (s serializer) record(r *Record, at PathRef) (any, error) {
	if r == nil {
		return nil, failAt(at, CodeIncomplete, nil)
	}
	om := orderedmap.New[string, any]()
	for _, f := range r.desc.fields {
		v, ok := r.values.Get(f.Name)
		if !ok {
			if f.Required {
				return nil, failAt(at.Field(f.Name), CodeIncomplete, nil)
			}
			continue
		}
		raw, err := s.value(f.Shape, v, at.Field(f.Name))
		if err != nil {
			return nil, err
		}
		om.Set(f.Name, raw)
	}
	if !s.opt.OmitPassthrough {
		for p := r.extra.Oldest(); p != nil; p = p.Next() {
			if _, declared := r.desc.byName[p.Key]; declared {
				continue
			}
			om.Set(p.Key, p.Value)
		}
	}
	if s.ordered {
		return om, nil
	}
	out := make(map[string]any, om.Len())
	for p := om.Oldest(); p != nil; p = p.Next() {
		out[p.Key] = p.Value
	}
	return out, nil
}

func (s serializer) value(sh *Shape, v any, at PathRef) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch sh.Kind {
	case ShapeOptional:
		return s.value(sh.Elem, v, at)
	case ShapeScalar, ShapeEnum, ShapeLiteral:
		return rawScalar(v), nil
	case ShapeSequence:
		items, ok := v.([]any)
		if !ok {
			rv := reflect.ValueOf(v)
			if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
				return nil, failAt(at, CodeInvalidType, map[string]string{"expected": "sequence", "got": describe(v)})
			}
			items = make([]any, rv.Len())
			for i := range items {
				items[i] = rv.Index(i).Interface()
			}
		}
		out := make([]any, len(items))
		for i, it := range items {
			raw, err := s.value(sh.Elem, it, at.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = raw
		}
		return out, nil
	case ShapeMapping:
		entries, ok := v.(map[string]any)
		if !ok {
			return nil, failAt(at, CodeInvalidType, map[string]string{"expected": "mapping", "got": describe(v)})
		}
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if s.ordered {
			om := orderedmap.New[string, any]()
			for _, k := range keys {
				raw, err := s.value(sh.Elem, entries[k], at.Field(k))
				if err != nil {
					return nil, err
				}
				om.Set(k, raw)
			}
			return om, nil
		}
		out := make(map[string]any, len(entries))
		for _, k := range keys {
			raw, err := s.value(sh.Elem, entries[k], at.Field(k))
			if err != nil {
				return nil, err
			}
			out[k] = raw
		}
		return out, nil
	case ShapeCodec:
		c, ok := LookupCodec(sh.Codec)
		if !ok {
			return nil, schemaError(sh.Codec, "codec "+sh.Codec+" is not registered")
		}
		raw, err := c.Encode(v)
		if err != nil {
			it := IssueAt(at, CodeInvalidFormat, map[string]string{"codec": sh.Codec})
			it.Cause = err
			return nil, Issues{it}
		}
		return raw, nil
	case ShapeRecord:
		rec, ok := v.(*Record)
		if !ok {
			return nil, failAt(at, CodeInvalidType, map[string]string{"expected": sh.String(), "got": describe(v)})
		}
		return s.record(rec, at)
	default:
		return nil, schemaError(sh.String(), "unknown shape kind")
	}
}
