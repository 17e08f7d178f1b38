package recordkit_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/codec"
)

func TestSerialize_OmitsUnsetOptional(t *testing.T) {
	r, err := recordkit.New(recordkit.MustResolve[MyData](), recordkit.Values{"foo": "a", "bar": 2})
	require.NoError(t, err)
	out, err := recordkit.Serialize(r)
	require.NoError(t, err)
	_, hasBaz := out["baz"]
	require.False(t, hasBaz)
}

func TestSerialize_Passthrough(t *testing.T) {
	src := map[string]any{"foo": "a", "bar": 1, "x-extra": []any{"keep", 1}}
	r, err := recordkit.ParseOf[MyData](src)
	require.NoError(t, err)

	out, err := recordkit.Serialize(r)
	require.NoError(t, err)
	if diff := cmp.Diff(map[string]any{"foo": "a", "bar": int64(1), "x-extra": []any{"keep", 1}}, out); diff != "" {
		t.Fatalf("passthrough mismatch (-want +got):\n%s", diff)
	}

	out, err = recordkit.Serialize(r, recordkit.SerializeOpt{OmitPassthrough: true})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"foo": "a", "bar": int64(1)}, out)
}

func TestSerialize_DeclaredFieldWinsOverPassthrough(t *testing.T) {
	r, err := recordkit.ParseOf[MyData](map[string]any{"foo": "a"})
	require.NoError(t, err)
	r.SetExtra("foo", "shadow")
	r.SetExtra("other", true)

	out, err := recordkit.Serialize(r)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"foo": "a", "other": true}, out)

	r.DeleteExtra("other")
	out, err = recordkit.Serialize(r)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"foo": "a"}, out)
}

func TestSerialize_IncompleteBlank(t *testing.T) {
	r := recordkit.Blank(recordkit.MustResolve[MyData]())
	_, err := recordkit.Serialize(r)
	it := firstIssue(t, err)
	require.Equal(t, recordkit.CodeIncomplete, it.Code)
	require.Equal(t, "/foo", it.Path)
	require.ErrorIs(t, err, recordkit.ErrIncompleteInstance)
	require.ErrorIs(t, r.Validate(), recordkit.ErrMissingField)

	require.NoError(t, r.Set("foo", "a"))
	require.NoError(t, r.Validate())
	out, err := recordkit.Serialize(r)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"foo": "a"}, out)
}

func TestSerialize_OrderedFollowsDeclaration(t *testing.T) {
	d := recordkit.MustResolve[MyData]()
	r := recordkit.Blank(d)
	require.NoError(t, r.Set("baz", 1.5))
	require.NoError(t, r.Set("foo", "a"))
	require.NoError(t, r.Set("bar", 7))
	r.SetExtra("z", 1)
	r.SetExtra("a", 2)

	om, err := recordkit.SerializeOrdered(r)
	require.NoError(t, err)
	var keys []string
	for p := om.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	require.Equal(t, []string{"foo", "bar", "baz", "z", "a"}, keys)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	require.Equal(t, `{"foo":"a","bar":7,"baz":1.5,"z":1,"a":2}`, string(b))
}

func TestSerialize_MappingsSorted(t *testing.T) {
	r, err := recordkit.ParseOf[NestedStructures](map[string]any{
		"my_list": []any{},
		"my_dict": map[string]any{"b": 2.5, "a": 1.5},
	})
	require.NoError(t, err)
	b, err := json.Marshal(r)
	require.NoError(t, err)
	require.Equal(t, `{"my_list":[],"my_dict":{"a":1.5,"b":2.5}}`, string(b))
}

func TestSerialize_YAML(t *testing.T) {
	r, err := recordkit.ParseOf[MyData](map[string]any{"foo": "asdf", "bar": 1})
	require.NoError(t, err)
	b, err := yaml.Marshal(r)
	require.NoError(t, err)
	require.Equal(t, "foo: asdf\nbar: 1\n", string(b))
}

func TestSet_RejectsUnencodableCodecValue(t *testing.T) {
	d := recordkit.MustResolve[Features]()
	r := recordkit.Blank(d)
	require.NoError(t, r.Set("int_enum", IntValue1))
	require.NoError(t, r.Set("str_enum", StrValue1))
	require.NoError(t, r.Set("my_duration", codec.NewDuration("0:00:01")))
	require.NoError(t, r.Set("my_literal", "Must be this string"))

	for _, bad := range []codec.DateTime{{}, codec.NewDateTime("yesterday")} {
		err := r.Set("t_start", bad)
		it := firstIssue(t, err)
		require.Equal(t, "/t_start", it.Path)
		require.ErrorIs(t, err, recordkit.ErrCodec)
	}
	require.False(t, r.Has("t_start"))

	src := featuresSource()
	delete(src, "unrecognized_fields")
	src["t_start"] = codec.DateTime{}
	_, err := recordkit.New(d, recordkit.Values(src))
	require.ErrorIs(t, err, recordkit.ErrCodec)

	require.NoError(t, r.Set("t_start", codec.NewDateTime("2022-01-01T00:00:00Z")))
	out, err := recordkit.Serialize(r)
	require.NoError(t, err)
	require.Equal(t, "2022-01-01T00:00:00Z", out["t_start"])
}

func TestEqual(t *testing.T) {
	a, err := recordkit.ParseOf[MyData](map[string]any{"foo": "a", "baz": 1})
	require.NoError(t, err)
	b, err := recordkit.ParseOf[MyData](map[string]any{"baz": 1.0, "foo": "a"})
	require.NoError(t, err)
	require.True(t, recordkit.Equal(a, b))

	b.SetExtra("note", "x")
	require.False(t, recordkit.Equal(a, b))

	require.True(t, recordkit.Equal(nil, nil))
	require.False(t, recordkit.Equal(a, nil))
}
