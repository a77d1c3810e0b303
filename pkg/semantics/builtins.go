/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: builtins.go
Description: Library of builtin list and integer operators with a lookup registry.
Arithmetic saturates into the configured value range, empty reductions fall back to
the configured default and None propagates through every strict argument.
*/

package semantics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kleascm/relish/pkg/value"
)

// ErrUnknownSemantics is returned when an operator name is not in the registry.
var ErrUnknownSemantics = errors.New("unknown semantics")

var (
	tInt  = value.TypeInt
	tList = value.TypeList
	tBool = value.TypeBool
	tFunc = value.TypeFunc
)

var registry = map[string]*Builtin{}

func register(name string, in []value.Type, out value.Type, fn Function) *Builtin {
	if _, exists := registry[name]; exists {
		panic("semantics: duplicate builtin " + name)
	}
	b := &Builtin{name: name, in: in, out: out, fn: fn}
	registry[name] = b
	return b
}

// Lookup returns the builtin operator with the given name.
func Lookup(name string) (Semantics, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSemantics, name)
	}
	return b, nil
}

// MustLookup is Lookup that panics on unknown names.
func MustLookup(name string) Semantics {
	s, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Names returns the sorted names of all builtin operators.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// callInt applies f and extracts an integer. ok is false when f yields None.
func callInt(f value.Func, args ...value.Value) (int, bool) {
	r := f.Call(args)
	if r.IsNone() {
		return 0, false
	}
	return r.AsInt(), true
}

func callBool(f value.Func, args ...value.Value) (bool, bool) {
	r := f.Call(args)
	if r.IsNone() {
		return false, false
	}
	return r.AsBool(), true
}

// normIndex maps negative positions to offsets from the end.
func normIndex(pos, n int) int {
	if pos < 0 {
		return pos + n
	}
	return pos
}

func init() {
	// List structure
	register("++", []value.Type{tList, tList}, tList, func(a []value.Value, env *Env) value.Value {
		return value.List(append(a[0].AsList(), a[1].AsList()...))
	})
	register("head", []value.Type{tList}, tInt, func(a []value.Value, env *Env) value.Value {
		l := a[0].AsList()
		if len(l) == 0 {
			return value.None
		}
		return value.Int(l[0])
	})
	register("last", []value.Type{tList}, tInt, func(a []value.Value, env *Env) value.Value {
		l := a[0].AsList()
		if len(l) == 0 {
			return value.None
		}
		return value.Int(l[len(l)-1])
	})
	register("take", []value.Type{tInt, tList}, tList, func(a []value.Value, env *Env) value.Value {
		l := a[1].AsList()
		pos := normIndex(a[0].AsInt(), len(l))
		if pos < 0 {
			pos = 0
		}
		if pos > len(l) {
			pos = len(l)
		}
		return value.List(l[:pos])
	})
	register("drop", []value.Type{tInt, tList}, tList, func(a []value.Value, env *Env) value.Value {
		l := a[1].AsList()
		pos := normIndex(a[0].AsInt(), len(l))
		if pos < 0 {
			pos = 0
		}
		if pos > len(l) {
			pos = len(l)
		}
		return value.List(l[pos:])
	})
	register("access", []value.Type{tInt, tList}, tInt, func(a []value.Value, env *Env) value.Value {
		l := a[1].AsList()
		pos := normIndex(a[0].AsInt(), len(l))
		if pos < 0 || pos >= len(l) {
			return value.None
		}
		return value.Int(l[pos])
	})
	register("rev", []value.Type{tList}, tList, func(a []value.Value, env *Env) value.Value {
		l := a[0].AsList()
		for i, j := 0, len(l)-1; i < j; i, j = i+1, j-1 {
			l[i], l[j] = l[j], l[i]
		}
		return value.List(l)
	})
	register("sort", []value.Type{tList}, tList, func(a []value.Value, env *Env) value.Value {
		l := a[0].AsList()
		sort.Ints(l)
		return value.List(l)
	})
	register("[]", []value.Type{tInt}, tList, func(a []value.Value, env *Env) value.Value {
		return value.ListOf(a[0].AsInt())
	})
	register("cons", []value.Type{tInt, tList}, tList, func(a []value.Value, env *Env) value.Value {
		return value.List(append([]int{a[0].AsInt()}, a[1].AsList()...))
	})
	register("append", []value.Type{tList, tInt}, tList, func(a []value.Value, env *Env) value.Value {
		return value.List(append(a[0].AsList(), a[1].AsInt()))
	})
	register("tail", []value.Type{tList}, tList, func(a []value.Value, env *Env) value.Value {
		l := a[0].AsList()
		if len(l) == 0 {
			return value.List(nil)
		}
		return value.List(l[1:])
	})
	register("len", []value.Type{tList}, tInt, func(a []value.Value, env *Env) value.Value {
		return value.Int(a[0].Len())
	})

	// Reductions
	register("minimum", []value.Type{tList}, tInt, func(a []value.Value, env *Env) value.Value {
		res := env.Config.DefaultValue
		for _, x := range a[0].AsList() {
			res = min(res, x)
		}
		return value.Int(res)
	})
	register("maximum", []value.Type{tList}, tInt, func(a []value.Value, env *Env) value.Value {
		res := -env.Config.DefaultValue
		for _, x := range a[0].AsList() {
			res = max(res, x)
		}
		return value.Int(res)
	})
	register("sum", []value.Type{tList}, tInt, func(a []value.Value, env *Env) value.Value {
		var total int64
		for _, x := range a[0].AsList() {
			total += int64(x)
		}
		return value.Int(env.Config.Clamp(total))
	})

	// Higher order
	register("map", []value.Type{tFunc, tList}, tList, func(a []value.Value, env *Env) value.Value {
		f, l := a[0].AsFunc(), a[1].AsList()
		for i, x := range l {
			y, ok := callInt(f, value.Int(x))
			if !ok {
				return value.None
			}
			l[i] = y
		}
		return value.List(l)
	})
	register("filter", []value.Type{tFunc, tList}, tList, func(a []value.Value, env *Env) value.Value {
		f := a[0].AsFunc()
		var res []int
		for _, x := range a[1].AsList() {
			keep, ok := callBool(f, value.Int(x))
			if !ok {
				return value.None
			}
			if keep {
				res = append(res, x)
			}
		}
		return value.List(res)
	})
	register("count", []value.Type{tFunc, tList}, tInt, func(a []value.Value, env *Env) value.Value {
		f := a[0].AsFunc()
		n := 0
		for _, x := range a[1].AsList() {
			hit, ok := callBool(f, value.Int(x))
			if !ok {
				return value.None
			}
			if hit {
				n++
			}
		}
		return value.Int(n)
	})
	register("filter_index", []value.Type{tFunc, tList}, tList, func(a []value.Value, env *Env) value.Value {
		f := a[0].AsFunc()
		var res []int
		for i, x := range a[1].AsList() {
			keep, ok := callBool(f, value.Int(x))
			if !ok {
				return value.None
			}
			if keep {
				res = append(res, i)
			}
		}
		return value.List(res)
	})
	register("zipwith", []value.Type{tFunc, tList, tList}, tList, func(a []value.Value, env *Env) value.Value {
		f, l, r := a[0].AsFunc(), a[1].AsList(), a[2].AsList()
		n := min(len(l), len(r))
		res := make([]int, n)
		for i := 0; i < n; i++ {
			y, ok := callInt(f, value.Int(l[i]), value.Int(r[i]))
			if !ok {
				return value.None
			}
			res[i] = y
		}
		return value.List(res)
	})
	register("scanl", []value.Type{tFunc, tList}, tList, func(a []value.Value, env *Env) value.Value {
		f, l := a[0].AsFunc(), a[1].AsList()
		for i := 1; i < len(l); i++ {
			y, ok := callInt(f, value.Int(l[i-1]), value.Int(l[i]))
			if !ok {
				return value.None
			}
			l[i] = y
		}
		return value.List(l)
	})
	register("scanr", []value.Type{tFunc, tList}, tList, func(a []value.Value, env *Env) value.Value {
		f, l := a[0].AsFunc(), a[1].AsList()
		for i := len(l) - 2; i >= 0; i-- {
			y, ok := callInt(f, value.Int(l[i+1]), value.Int(l[i]))
			if !ok {
				return value.None
			}
			l[i] = y
		}
		return value.List(l)
	})
	register("apply2", []value.Type{tFunc, tInt, tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		return a[0].AsFunc().Call([]value.Value{a[1], a[2]})
	})

	// Arithmetic
	register("+", []value.Type{tInt, tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		return value.Int(env.Config.Clamp(int64(a[0].AsInt()) + int64(a[1].AsInt())))
	})
	register("-", []value.Type{tInt, tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		return value.Int(env.Config.Clamp(int64(a[0].AsInt()) - int64(a[1].AsInt())))
	})
	register("*", []value.Type{tInt, tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		return value.Int(env.Config.Clamp(int64(a[0].AsInt()) * int64(a[1].AsInt())))
	})
	register("min", []value.Type{tInt, tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		return value.Int(min(a[0].AsInt(), a[1].AsInt()))
	})
	register("max", []value.Type{tInt, tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		return value.Int(max(a[0].AsInt(), a[1].AsInt()))
	})
	register("square", []value.Type{tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		x := int64(a[0].AsInt())
		return value.Int(env.Config.Clamp(x * x))
	})
	register("neg", []value.Type{tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		return value.Int(-a[0].AsInt())
	})
	register("int", []value.Type{tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		return a[0]
	})
	register("pow", []value.Type{tInt, tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		base, exp := int64(a[0].AsInt()), a[1].AsInt()
		if base < 0 || exp < 0 {
			return value.None
		}
		res := int64(1)
		for i := 0; i < exp; i++ {
			res *= base
			if res >= int64(env.Config.DefaultValue) {
				return value.None
			}
			if res == 0 || res == 1 {
				break
			}
		}
		return value.Int(int(res))
	})

	// Predicates
	register("<", []value.Type{tInt, tInt}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsInt() < a[1].AsInt())
	})
	register(">", []value.Type{tInt, tInt}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsInt() > a[1].AsInt())
	})
	register("<=", []value.Type{tInt, tInt}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsInt() <= a[1].AsInt())
	})
	register("=", []value.Type{tInt, tInt}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsInt() == a[1].AsInt())
	})
	register("!=", []value.Type{tInt, tInt}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsInt() != a[1].AsInt())
	})
	register("even", []value.Type{tInt}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsInt()%2 == 0)
	})
	register("odd", []value.Type{tInt}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsInt()%2 != 0)
	})
	register("lt_zero", []value.Type{tInt}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsInt() < 0)
	})
	register("gt_zero", []value.Type{tInt}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsInt() > 0)
	})
	register("not", []value.Type{tBool}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(!a[0].AsBool())
	})
	register("and", []value.Type{tBool, tBool}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsBool() && a[1].AsBool())
	})
	register("or", []value.Type{tBool, tBool}, tBool, func(a []value.Value, env *Env) value.Value {
		return value.Bool(a[0].AsBool() || a[1].AsBool())
	})

	// ite only forces the branch it selects.
	ite := register("ite", []value.Type{tBool, tInt, tInt}, tInt, func(a []value.Value, env *Env) value.Value {
		if a[0].AsBool() {
			return a[1]
		}
		return a[2]
	})
	ite.lazy = []bool{false, true, true}
}
