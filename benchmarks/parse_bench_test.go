package benchmarks_test

import (
	"bytes"
	"fmt"
	"strconv"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/dsl"
)

// ---- Helpers ----

type smallUser struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

func smallUserJSON() []byte {
	return []byte(`{"id":"u_1","name":"alice"}`)
}

type hugeItem struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Age    int            `json:"age"`
	Active bool           `json:"active"`
	Meta   map[string]int `json:"meta"`
}

// generateHugeJSONArray returns a JSON array of objects of the form:
// [{"id":"obj_0","name":"n0","age":0,"active":true,"meta":{"score":0},"k0":"v0",...}, ...]
func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		fmt.Fprintf(&buf, "\"id\":\"obj_%d\",", i)
		fmt.Fprintf(&buf, "\"name\":\"n%d\",", i)
		fmt.Fprintf(&buf, "\"age\":%d,", i)
		if i%2 == 0 {
			buf.WriteString("\"active\":true,")
		} else {
			buf.WriteString("\"active\":false,")
		}
		fmt.Fprintf(&buf, "\"meta\":{\"score\":%d}", i)
		for k := 0; k < extraFields; k++ {
			buf.WriteString(",\"k")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\":\"v")
			buf.WriteString(strconv.Itoa(i))
			buf.WriteString("_")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\"")
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// hugeBatch wraps the generated array so it can be parsed as one record.
func hugeBatch(tb testing.TB, numObjects, extraFields int) ([]byte, *recordkit.Descriptor) {
	tb.Helper()
	item, err := recordkit.ResolveOf[hugeItem]()
	if err != nil {
		tb.Fatalf("resolve failed: %v", err)
	}
	d, err := dsl.Record("Batch").
		Field("items", dsl.SequenceOf(dsl.Nested(item))).
		Build()
	if err != nil {
		tb.Fatalf("descriptor build failed: %v", err)
	}
	var buf bytes.Buffer
	buf.WriteString(`{"items":`)
	buf.Write(generateHugeJSONArray(numObjects, extraFields))
	buf.WriteByte('}')
	return buf.Bytes(), d
}

// ---- Micro benchmarks (small inputs) ----

func Benchmark_ParseJSON_Small_Strict(b *testing.B) {
	d := recordkit.MustResolve[smallUser]()
	data := smallUserJSON()
	opt := recordkit.ParseOpt{Unknown: recordkit.UnknownStrict}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := recordkit.ParseJSON(data, d, opt); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Parse_Small_Tree(b *testing.B) {
	d := recordkit.MustResolve[smallUser]()
	tree := map[string]any{"id": "u_1", "name": "alice"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := recordkit.Parse(tree, d); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Decode_Small_Typed(b *testing.B) {
	tree := map[string]any{"id": "u_1", "name": "alice"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := recordkit.Decode[smallUser](tree); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_MarshalJSON_Small(b *testing.B) {
	r, err := recordkit.ParseJSON(smallUserJSON(), recordkit.MustResolve[smallUser]())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(r); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Macro benchmarks (huge JSON) ----

// 10k objects with 8 extra fields each
const (
	hugeObjects   = 10000
	hugeExtraKeys = 8
)

func Benchmark_ParseJSON_HugeArray_Passthrough(b *testing.B) {
	data, d := hugeBatch(b, hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := recordkit.ParseJSON(data, d); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseJSON_HugeArray_Strip(b *testing.B) {
	data, d := hugeBatch(b, hugeObjects, hugeExtraKeys)
	opt := recordkit.ParseOpt{Unknown: recordkit.UnknownStrip}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := recordkit.ParseJSON(data, d, opt); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Serialize_HugeArray(b *testing.B) {
	data, d := hugeBatch(b, hugeObjects, hugeExtraKeys)
	r, err := recordkit.ParseJSON(data, d)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := recordkit.Serialize(r); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Baseline: goccy/go-json ----

func Benchmark_goJSON_Unmarshal_SmallObject(b *testing.B) {
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_goJSON_Unmarshal_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func TestHugeBatch_RoundTrip(t *testing.T) {
	data, d := hugeBatch(t, 3, 2)
	r, err := recordkit.ParseJSON(data, d)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := recordkit.Serialize(r)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	items, ok := out["items"].([]any)
	if !ok || len(items) != 3 {
		t.Fatalf("unexpected items: %#v", out["items"])
	}
	first := items[0].(map[string]any)
	if first["k1"] != "v0_1" || first["active"] != true {
		t.Fatalf("unexpected first item: %#v", first)
	}
}
