/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: value.go
Description: Runtime values of the synthesis DSL. A Value is a small tagged union over
integers, integer lists, booleans, first-class functions and the None sentinel. Values
compare structurally and serialize to a canonical string used as cache and dedup key.
*/

package value

import (
	"strconv"
	"strings"
)

// Type is the static type of a value or grammar symbol.
type Type int

const (
	TypeNone Type = iota
	TypeInt
	TypeList
	TypeBool
	TypeFunc
)

// String returns the name of the type as used in grammar files.
func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeList:
		return "list"
	case TypeBool:
		return "bool"
	case TypeFunc:
		return "func"
	default:
		return "none"
	}
}

// ParseType converts a grammar file type name into a Type.
func ParseType(name string) (Type, bool) {
	switch strings.ToLower(name) {
	case "int":
		return TypeInt, true
	case "list":
		return TypeList, true
	case "bool":
		return TypeBool, true
	case "func", "semantics":
		return TypeFunc, true
	case "none":
		return TypeNone, true
	}
	return TypeNone, false
}

// Func is a first-class function value. Implemented by semantics.
type Func interface {
	// Call applies the function to the remaining arguments.
	Call(args []Value) Value
	// Name is the canonical name of the function, including bound arguments.
	Name() string
}

// Value is an immutable runtime value.
// The zero Value is None.
type Value struct {
	kind Type
	i    int
	b    bool
	list []int
	fn   Func
}

// None is the propagating undefined sentinel.
var None = Value{}

// Int creates an integer value.
func Int(i int) Value {
	return Value{kind: TypeInt, i: i}
}

// Bool creates a boolean value.
func Bool(b bool) Value {
	return Value{kind: TypeBool, b: b}
}

// List creates a list value. The slice is copied.
func List(elems []int) Value {
	cp := make([]int, len(elems))
	copy(cp, elems)
	return Value{kind: TypeList, list: cp}
}

// ListOf creates a list value from its arguments.
func ListOf(elems ...int) Value {
	return List(elems)
}

// FuncValue wraps a function.
func FuncValue(f Func) Value {
	return Value{kind: TypeFunc, fn: f}
}

// Type returns the dynamic type of the value.
func (v Value) Type() Type { return v.kind }

// IsNone reports whether v is the None sentinel.
func (v Value) IsNone() bool { return v.kind == TypeNone }

// AsInt returns the integer payload. Panics on a type mismatch.
func (v Value) AsInt() int {
	if v.kind != TypeInt {
		panic("value: AsInt on " + v.kind.String())
	}
	return v.i
}

// AsBool returns the boolean payload. Panics on a type mismatch.
func (v Value) AsBool() bool {
	if v.kind != TypeBool {
		panic("value: AsBool on " + v.kind.String())
	}
	return v.b
}

// AsList returns a copy of the list payload. Panics on a type mismatch.
func (v Value) AsList() []int {
	if v.kind != TypeList {
		panic("value: AsList on " + v.kind.String())
	}
	cp := make([]int, len(v.list))
	copy(cp, v.list)
	return cp
}

// Len returns the length of a list value.
func (v Value) Len() int {
	if v.kind != TypeList {
		panic("value: Len on " + v.kind.String())
	}
	return len(v.list)
}

// AsFunc returns the function payload. Panics on a type mismatch.
func (v Value) AsFunc() Func {
	if v.kind != TypeFunc {
		panic("value: AsFunc on " + v.kind.String())
	}
	return v.fn
}

// Equal compares two values structurally.
// Functions are equal when their canonical names are.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case TypeInt:
		return v.i == o.i
	case TypeBool:
		return v.b == o.b
	case TypeList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	case TypeFunc:
		return v.fn.Name() == o.fn.Name()
	}
	return true
}

// String returns the canonical serialization of the value.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case TypeInt:
		sb.WriteString(strconv.Itoa(v.i))
	case TypeBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case TypeList:
		sb.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(e))
		}
		sb.WriteByte(']')
	case TypeFunc:
		sb.WriteByte('<')
		sb.WriteString(v.fn.Name())
		sb.WriteByte('>')
	default:
		sb.WriteString("None")
	}
}

// ListString serializes a value list as [v1,v2,...].
func ListString(vs []Value) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			sb.WriteByte(',')
		}
		v.write(&sb)
	}
	sb.WriteByte(']')
	return sb.String()
}

// EqualLists compares two value lists element-wise.
func EqualLists(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
