package recordkit

import (
	"reflect"
	"strings"
)

// ResolveStructKey applies the package-wide rule to resolve a struct field's
// external key.
// Priority: recordkit:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	key, _ := parseFieldTag(sf)
	return key
}

type fieldTag struct {
	optional bool // recordkit:",optional"
	extra    bool // recordkit:",extra" receives passthrough keys
}

func parseFieldTag(sf reflect.StructField) (string, fieldTag) {
	var opts fieldTag
	key := ""
	if rt, ok := sf.Tag.Lookup("recordkit"); ok {
		if rt == "-" {
			return "-", opts
		}
		for i, p := range strings.Split(rt, ",") {
			p = strings.TrimSpace(p)
			switch {
			case strings.HasPrefix(p, "name="):
				key = strings.TrimPrefix(p, "name=")
			case p == "optional":
				opts.optional = true
			case p == "extra":
				opts.extra = true
			case i == 0 && p != "":
				key = p
			}
		}
	}
	if key != "" {
		return key, opts
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-", opts
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			jt = jt[:i]
		}
		if jt != "" {
			return jt, opts
		}
	}
	return sf.Name, opts
}

// literalTag splits a const:"a|b" tag into its alternatives.
func literalTag(sf reflect.StructField) ([]string, bool) {
	ct, ok := sf.Tag.Lookup("const")
	if !ok {
		return nil, false
	}
	return strings.Split(ct, "|"), true
}

var _extraType = reflect.TypeOf(map[string]any(nil))
