// Package recordkit converts between loosely-typed value trees and records
// described by a declared schema.
//
// A schema is a Descriptor: an ordered list of fields, each with a Shape
// (scalar, enum, literal, optional, sequence, mapping, codec or nested record)
// and either a required flag or a default. Descriptors come from Go struct
// declarations through Resolve, or from the dsl subpackage.
//
// Design policy:
//   - Keep public APIs in the root package; built-in codecs live under codec/
//     and the explicit schema builder under dsl/.
//   - Parsing and construction are fail-fast. Errors are Issues carrying a JSON
//     Pointer, a code and a message, matched with errors.Is against the Err*
//     sentinels.
//   - Records keep declaration order and retain unknown keys as passthrough.
//
// Typical usage:
//
//	type MyData struct {
//		Foo string   `json:"foo"`
//		Bar int      `json:"bar" default:"0"`
//		Baz *float64 `json:"baz"`
//	}
//
//	r, err := recordkit.ParseOf[MyData](map[string]any{"foo": "asdf", "bar": 1})
//	foo, err := recordkit.Field[string](r, "foo")
//	r.Has("baz") // false
//	tree, err := recordkit.Serialize(r) // {"foo": "asdf", "bar": 1}
//
//	d := recordkit.MustResolve[MyData]()
//	r, err = recordkit.New(d, recordkit.Values{"foo": "asdf"}) // bar realized as 0
package recordkit
