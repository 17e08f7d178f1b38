package recordkit_test

import (
	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/codec"
)

type MyData struct {
	Foo string   `json:"foo"`
	Bar int      `json:"bar" default:"0"`
	Baz *float64 `json:"baz"`
}

type MyIntEnum int

const (
	IntValue1 MyIntEnum = iota + 1
	IntValue2
	IntValue3
)

func (MyIntEnum) EnumMembers() []recordkit.EnumMember {
	return recordkit.Members(
		recordkit.Member("Value1", IntValue1),
		recordkit.Member("Value2", IntValue2),
		recordkit.Member("Value3", IntValue3),
	)
}

type MyStrEnum string

const (
	StrValue1 MyStrEnum = "foo"
	StrValue2 MyStrEnum = "bar"
	StrValue3 MyStrEnum = "baz"
)

func (MyStrEnum) EnumMembers() []recordkit.EnumMember {
	return recordkit.Members(
		recordkit.Member("Value1", StrValue1),
		recordkit.Member("Value2", StrValue2),
		recordkit.Member("Value3", StrValue3),
	)
}

type Features struct {
	IntEnum    MyIntEnum      `json:"int_enum"`
	StrEnum    MyStrEnum      `json:"str_enum"`
	TStart     codec.DateTime `json:"t_start"`
	MyDuration codec.Duration `json:"my_duration"`
	MyLiteral  string         `json:"my_literal" const:"Must be this string"`
	Nested     *MyData        `json:"nested"`
}

type NestedStructures struct {
	MyList []MyData            `json:"my_list"`
	MyDict map[string]float64  `json:"my_dict"`
	Groups map[string][]MyData `json:"groups" recordkit:",optional"`
}

func ptr[T any](v T) *T { return &v }
