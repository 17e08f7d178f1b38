package recordkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/recordkit"
)

func TestRecord_SetAndDelete(t *testing.T) {
	d := recordkit.MustResolve[MyData]()
	r, err := recordkit.New(d, recordkit.Values{"foo": "a"})
	require.NoError(t, err)
	require.Equal(t, []string{"foo", "bar"}, r.Keys())
	require.Equal(t, 2, r.Len())

	require.NoError(t, r.Set("baz", 2.5))
	require.Equal(t, []string{"foo", "bar", "baz"}, r.Keys())

	// nil unsets an optional field
	require.NoError(t, r.Set("baz", nil))
	require.False(t, r.Has("baz"))

	require.ErrorIs(t, r.Set("foo", 1), recordkit.ErrValueMismatch)
	require.ErrorIs(t, r.Set("foo", nil), recordkit.ErrValueMismatch)
	require.ErrorIs(t, r.Set("nope", 1), recordkit.ErrUnknownField)

	require.ErrorIs(t, r.Delete("foo"), recordkit.ErrMissingField)
	require.NoError(t, r.Delete("bar"))
	require.Equal(t, []string{"foo"}, r.Keys())
	require.ErrorIs(t, r.Delete("nope"), recordkit.ErrUnknownField)

	require.NoError(t, r.Set("bar", 4))
	require.Equal(t, []string{"foo", "bar"}, r.Keys())
}

func TestRecord_Get(t *testing.T) {
	r, err := recordkit.ParseOf[MyData](map[string]any{"foo": "a"})
	require.NoError(t, err)

	_, err = r.Get("bar")
	require.ErrorIs(t, err, recordkit.ErrFieldNotPresent)
	_, err = r.Get("nope")
	require.ErrorIs(t, err, recordkit.ErrUnknownField)

	v, ok := r.Lookup("foo")
	require.True(t, ok)
	require.Equal(t, "a", v)
	_, ok = r.Lookup("bar")
	require.False(t, ok)

	require.Equal(t, "MyData", r.Descriptor().Name())
}

func TestRecord_Range(t *testing.T) {
	r, err := recordkit.New(recordkit.MustResolve[MyData](), recordkit.Values{"foo": "a", "baz": 1.0})
	require.NoError(t, err)

	var seen []string
	r.Range(func(name string, _ any) bool {
		seen = append(seen, name)
		return true
	})
	require.Equal(t, []string{"foo", "bar", "baz"}, seen)

	seen = nil
	r.Range(func(name string, _ any) bool {
		seen = append(seen, name)
		return false
	})
	require.Equal(t, []string{"foo"}, seen)
}

func TestNew_Validation(t *testing.T) {
	d := recordkit.MustResolve[MyData]()

	_, err := recordkit.New(d, recordkit.Values{"foo": "a", "nope": 1})
	it := firstIssue(t, err)
	require.Equal(t, "/nope", it.Path)
	require.ErrorIs(t, err, recordkit.ErrUnknownField)

	_, err = recordkit.New(d, recordkit.Values{"foo": "a", "bar": "x"})
	require.ErrorIs(t, err, recordkit.ErrValueMismatch)

	r, err := recordkit.New(d, recordkit.Values{"foo": "a", "baz": nil})
	require.NoError(t, err)
	require.False(t, r.Has("baz"))

	_, err = recordkit.New(nil, nil)
	require.ErrorIs(t, err, recordkit.ErrSchema)
}

func TestNew_NestedTypedValues(t *testing.T) {
	d := recordkit.MustResolve[NestedStructures]()
	r, err := recordkit.New(d, recordkit.Values{
		"my_list": []MyData{{Foo: "a"}, {Foo: "b", Bar: 2}},
		"my_dict": map[string]float64{"x": 1},
	})
	require.NoError(t, err)

	list, err := recordkit.Field[[]MyData](r, "my_list")
	require.NoError(t, err)
	require.Equal(t, []MyData{{Foo: "a"}, {Foo: "b", Bar: 2}}, list)

	out, err := recordkit.Serialize(r)
	require.NoError(t, err)
	require.Equal(t, []any{
		map[string]any{"foo": "a", "bar": int64(0)},
		map[string]any{"foo": "b", "bar": int64(2)},
	}, out["my_list"])
	require.Equal(t, map[string]any{"x": 1.0}, out["my_dict"])
}

func TestNew_CopiesNestedRecords(t *testing.T) {
	item, err := recordkit.ParseOf[MyData](map[string]any{"foo": "a"})
	require.NoError(t, err)

	r, err := recordkit.New(recordkit.MustResolve[NestedStructures](), recordkit.Values{
		"my_list": []any{item},
		"my_dict": map[string]any{},
	})
	require.NoError(t, err)
	require.NoError(t, item.Set("foo", "changed"))

	list, err := recordkit.Field[[]MyData](r, "my_list")
	require.NoError(t, err)
	require.Equal(t, "a", list[0].Foo)
}
