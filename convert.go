package recordkit

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// scalarKindOf classifies a Go value by its primitive kind. It returns 0 when
// v is not a scalar.
func scalarKindOf(v any) ScalarKind {
	if n, ok := v.(json.Number); ok {
		if _, err := n.Int64(); err == nil {
			return Int
		}
		if _, err := strconv.ParseUint(string(n), 10, 64); err == nil {
			return Int
		}
		return Float
	}
	if v == nil {
		return 0
	}
	switch reflect.TypeOf(v).Kind() {
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

// canonicalScalar converts v to the canonical representation of kind
// (string, int64, float64, bool). Integers above math.MaxInt64 are kept as
// uint64. Named types are unwrapped. Integer kinds accept
// integral floats and float kinds accept integers; nothing else is coerced.
func canonicalScalar(kind ScalarKind, v any) (any, bool) {
	if n, ok := v.(json.Number); ok {
		switch kind {
		case Int:
			if i, err := n.Int64(); err == nil {
				return i, true
			}
			if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
				return u, true
			}
			f, err := n.Float64()
			if err != nil {
				return nil, false
			}
			return integralFloat(f)
		case Float:
			f, err := n.Float64()
			if err != nil {
				return nil, false
			}
			return f, true
		default:
			return nil, false
		}
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch kind {
	case String:
		if rv.Kind() == reflect.String {
			return rv.String(), true
		}
	case Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), true
		}
	case Int:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int(), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u := rv.Uint()
			if u > math.MaxInt64 {
				return u, true
			}
			return int64(u), true
		case reflect.Float32, reflect.Float64:
			return integralFloat(rv.Float())
		}
	case Float:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), true
		case reflect.Float32:
			return widenFloat32(float32(rv.Float())), true
		case reflect.Float64:
			return rv.Float(), true
		}
	}
	return nil, false
}

func integralFloat(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	if f < math.MinInt64 || f >= math.MaxUint64 {
		return nil, false
	}
	if f >= math.MaxInt64 {
		return uint64(f), true
	}
	return int64(f), true
}

// widenFloat32 keeps the shortest decimal form of f, so float32(1.1) becomes
// 1.1 and not 1.100000023841858.
func widenFloat32(f float32) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return out
}

// convertTo turns a canonical scalar into a value of t. ok is false when the
// value overflows t.
func convertTo(canonical any, t reflect.Type) (any, bool) {
	if t == nil {
		return canonical, true
	}
	out := reflect.New(t).Elem()
	switch c := canonical.(type) {
	case string:
		if t.Kind() != reflect.String {
			return nil, false
		}
		out.SetString(c)
	case bool:
		if t.Kind() != reflect.Bool {
			return nil, false
		}
		out.SetBool(c)
	case int64:
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if out.OverflowInt(c) {
				return nil, false
			}
			out.SetInt(c)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if c < 0 || out.OverflowUint(uint64(c)) {
				return nil, false
			}
			out.SetUint(uint64(c))
		default:
			return nil, false
		}
	case uint64:
		switch t.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if out.OverflowUint(c) {
				return nil, false
			}
			out.SetUint(c)
		default:
			return nil, false
		}
	case float64:
		switch t.Kind() {
		case reflect.Float32, reflect.Float64:
			if out.OverflowFloat(c) {
				return nil, false
			}
			out.SetFloat(c)
		default:
			return nil, false
		}
	default:
		return nil, false
	}
	return out.Interface(), true
}

// rawScalar renders a typed scalar, enum or literal value in its raw form.
func rawScalar(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u > math.MaxInt64 {
			return u
		}
		return int64(rv.Uint())
	case reflect.Float32:
		return widenFloat32(float32(rv.Float()))
	case reflect.Float64:
		return rv.Float()
	default:
		return v
	}
}

// describe names the raw kind of v for mismatch messages.
func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case json.Number:
		return "number"
	case *Record:
		if t == nil {
			return "null"
		}
		return "record " + t.desc.Name()
	case *orderedmap.OrderedMap[string, any]:
		return "mapping"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Slice, reflect.Array:
		return "sequence"
	case reflect.Map:
		return "mapping"
	case reflect.Struct:
		return "struct " + reflect.TypeOf(v).String()
	default:
		return fmt.Sprintf("%T", v)
	}
}

// quote renders v for literal and enum messages.
func quote(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(v)
}
