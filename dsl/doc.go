// Package dsl builds record descriptors explicitly, for schemas that have no
// Go struct behind them.
//
// Entry points
//   - Record(name): start a builder; chain Field/Default/Optional, then Build or MustBuild.
//   - String/Int/Float/Bool, Enum, Literal: scalar-like shapes.
//   - Optional, SequenceOf, MappingOf: wrappers and containers.
//   - Codec(id): a registered codec (for example codec.DateTimeID).
//   - Nested(d), Of[T](): nested records.
//
// Records built here hold canonical values (string, int64, float64, bool) for
// scalars and backing values for enums.
//
// Example
//
//	myData := dsl.Record("MyData").
//	    Field("foo", dsl.String()).
//	    Field("bar", dsl.Int()).Default(0).
//	    Field("baz", dsl.Float()).Optional().
//	    MustBuild()
//
//	r, err := recordkit.Parse(map[string]any{"foo": "asdf", "bar": 1}, myData)
package dsl
