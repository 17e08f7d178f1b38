package recordkit

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ParseJSON decodes a JSON document and parses it into a record of d.
//
// Objects are read into ordered maps so passthrough keys re-serialize in input
// order. Integers decode as int64 (uint64 above math.MaxInt64), other numbers
// as float64. Syntax errors and duplicate object keys are reported as ErrMalformedInput.
func ParseJSON(data []byte, d *Descriptor, opts ...ParseOpt) (*Record, error) {
	tree, err := readJSON(data)
	if err != nil {
		return nil, err
	}
	return Parse(tree, d, opts...)
}

func readJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return readJSONValue(dec, Root())
}

func readJSONValue(dec *json.Decoder, at PathRef) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, at.Pointer(), err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			om := orderedmap.New[string, any]()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, at.Pointer(), err)
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("%w: %s: object key is not a string", ErrMalformedInput, at.Pointer())
				}
				if _, dup := om.Get(key); dup {
					return nil, fmt.Errorf("%w: %s: duplicate key", ErrMalformedInput, at.Field(key).Pointer())
				}
				v, err := readJSONValue(dec, at.Field(key))
				if err != nil {
					return nil, err
				}
				om.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, at.Pointer(), err)
			}
			return om, nil
		case '[':
			items := []any{}
			for i := 0; dec.More(); i++ {
				v, err := readJSONValue(dec, at.Index(i))
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, at.Pointer(), err)
			}
			return items, nil
		default:
			return nil, fmt.Errorf("%w: %s: unexpected %v", ErrMalformedInput, at.Pointer(), t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(string(t), 10, 64); err == nil {
			return u, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, at.Pointer(), err)
		}
		return f, nil
	default:
		return t, nil
	}
}
