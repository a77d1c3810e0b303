/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: value_test.go
Description: Tests for value construction, comparison and canonical strings.
*/

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedFunc string

func (f namedFunc) Call(args []Value) Value { return None }
func (f namedFunc) Name() string            { return string(f) }

// TestString tests canonical serialization
func TestString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"int", Int(-3), "-3"},
		{"bool", Bool(true), "true"},
		{"list", ListOf(1, -2, 3), "[1,-2,3]"},
		{"empty list", List(nil), "[]"},
		{"func", FuncValue(namedFunc("+(1)")), "<+(1)>"},
		{"none", None, "None"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
	assert.Equal(t, "[1,[2],None]", ListString([]Value{Int(1), ListOf(2), None}))
}

// TestEqual tests structural equality
func TestEqual(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Bool(true)))
	assert.True(t, ListOf(1, 2).Equal(List([]int{1, 2})))
	assert.False(t, ListOf(1, 2).Equal(ListOf(1)))
	assert.True(t, None.Equal(Value{}))
	assert.True(t, FuncValue(namedFunc("f")).Equal(FuncValue(namedFunc("f"))))
	assert.False(t, FuncValue(namedFunc("f")).Equal(FuncValue(namedFunc("g"))))

	assert.True(t, EqualLists([]Value{Int(1), None}, []Value{Int(1), None}))
	assert.False(t, EqualLists([]Value{Int(1)}, []Value{Int(1), Int(2)}))
}

// TestImmutability tests that lists never alias caller slices
func TestImmutability(t *testing.T) {
	src := []int{1, 2}
	v := List(src)
	src[0] = 9
	assert.Equal(t, []int{1, 2}, v.AsList())

	out := v.AsList()
	out[1] = 7
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, "[1,2]", v.String())
}

// TestAccessors tests type checks on accessors
func TestAccessors(t *testing.T) {
	assert.True(t, None.IsNone())
	assert.Equal(t, TypeList, ListOf().Type())
	assert.Panics(t, func() { Int(1).AsList() })
	assert.Panics(t, func() { ListOf(1).AsInt() })
	assert.Panics(t, func() { None.AsBool() })

	typ, ok := ParseType("List")
	assert.True(t, ok)
	assert.Equal(t, TypeList, typ)
	_, ok = ParseType("tree")
	assert.False(t, ok)
	assert.Equal(t, "func", TypeFunc.String())
}
