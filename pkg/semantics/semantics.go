/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: semantics.go
Description: Typed operators of the synthesis DSL. A Semantics is a named, arity and type
annotated pure function over values. The set of implementations is closed: builtin
operators, parameter placeholders, anonymous closures, constants and curried applications.
*/

package semantics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/value"
)

// Env is the evaluation environment shared by every node of one program run.
type Env struct {
	Config *config.Config // Value range and defaults
	Inputs []value.Value  // Values bound to Param(i)
}

// NewEnv creates an environment, falling back to the default config.
func NewEnv(cfg *config.Config, inputs []value.Value) *Env {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Env{Config: cfg, Inputs: inputs}
}

// Semantics defines the contract for DSL operators.
type Semantics interface {
	// Name returns the canonical operator name used in program serialization.
	Name() string
	// InputTypes returns the ordered argument types.
	InputTypes() []value.Type
	// OutputType returns the result type.
	OutputType() value.Type
	// Run applies the operator to fully evaluated arguments.
	Run(args []value.Value, env *Env) value.Value
}

// Param is the placeholder for the i-th program input.
type Param struct {
	Index int
	Typ   value.Type
}

// NewParam creates a parameter placeholder.
func NewParam(index int, typ value.Type) *Param {
	return &Param{Index: index, Typ: typ}
}

// Name returns Param<i>.
func (p *Param) Name() string { return "Param" + strconv.Itoa(p.Index) }

// InputTypes returns no inputs.
func (p *Param) InputTypes() []value.Type { return nil }

// OutputType returns the declared parameter type.
func (p *Param) OutputType() value.Type { return p.Typ }

// Run returns the bound input.
func (p *Param) Run(args []value.Value, env *Env) value.Value {
	if p.Index >= len(env.Inputs) {
		panic(fmt.Sprintf("semantics: Param%d used with %d inputs", p.Index, len(env.Inputs)))
	}
	return env.Inputs[p.Index]
}

// Constant is a nullary operator returning a fixed value.
type Constant struct {
	Value value.Value
}

// NewConstant creates a constant operator.
func NewConstant(v value.Value) *Constant {
	return &Constant{Value: v}
}

// Name returns the canonical string of the constant.
func (c *Constant) Name() string { return c.Value.String() }

// InputTypes returns no inputs.
func (c *Constant) InputTypes() []value.Type { return nil }

// OutputType returns the type of the constant.
func (c *Constant) OutputType() value.Type { return c.Value.Type() }

// Run returns the constant.
func (c *Constant) Run(args []value.Value, env *Env) value.Value { return c.Value }

// Function is the body of builtin and anonymous operators.
type Function func(args []value.Value, env *Env) value.Value

// Anonymous wraps a user supplied closure, typically a task target or helper.
type Anonymous struct {
	name string
	in   []value.Type
	out  value.Type
	fn   Function
}

// NewAnonymous creates an anonymous operator. Anonymous operators are not strict:
// the closure sees None arguments and decides itself.
func NewAnonymous(name string, in []value.Type, out value.Type, fn Function) *Anonymous {
	return &Anonymous{name: name, in: in, out: out, fn: fn}
}

// Name returns the operator name.
func (a *Anonymous) Name() string { return a.name }

// InputTypes returns the argument types.
func (a *Anonymous) InputTypes() []value.Type { return a.in }

// OutputType returns the result type.
func (a *Anonymous) OutputType() value.Type { return a.out }

// Run applies the closure.
func (a *Anonymous) Run(args []value.Value, env *Env) value.Value { return a.fn(args, env) }

// Builtin is a library operator looked up by name.
type Builtin struct {
	name string
	in   []value.Type
	out  value.Type
	fn   Function
	lazy []bool // argument positions that may be None without forcing None
}

// Name returns the operator name.
func (b *Builtin) Name() string { return b.name }

// InputTypes returns the argument types.
func (b *Builtin) InputTypes() []value.Type { return b.in }

// OutputType returns the result type.
func (b *Builtin) OutputType() value.Type { return b.out }

// Run applies the operator. None in a strict position yields None.
func (b *Builtin) Run(args []value.Value, env *Env) value.Value {
	for i, a := range args {
		if a.IsNone() && (b.lazy == nil || !b.lazy[i]) {
			return value.None
		}
	}
	return b.fn(args, env)
}

// Curried is a partially applied operator. It is a first-class function value.
type Curried struct {
	Base  Semantics
	Bound []value.Value
	env   *Env
}

// Curry binds a prefix of the arguments of s and returns a function value.
// Panics if more arguments than s accepts are supplied.
func Curry(s Semantics, bound []value.Value, env *Env) value.Value {
	if len(bound) > len(s.InputTypes()) {
		panic(fmt.Sprintf("semantics: cannot bind %d arguments to %s/%d", len(bound), s.Name(), len(s.InputTypes())))
	}
	cp := make([]value.Value, len(bound))
	copy(cp, bound)
	return value.FuncValue(&Curried{Base: s, Bound: cp, env: env})
}

// Call applies the curried operator to the remaining arguments.
func (c *Curried) Call(args []value.Value) value.Value {
	full := make([]value.Value, 0, len(c.Bound)+len(args))
	full = append(full, c.Bound...)
	full = append(full, args...)
	if len(full) < len(c.Base.InputTypes()) {
		return Curry(c.Base, full, c.env)
	}
	return c.Base.Run(full, c.env)
}

// Name returns name or name(b1,b2,...).
func (c *Curried) Name() string {
	if len(c.Bound) == 0 {
		return c.Base.Name()
	}
	parts := make([]string, len(c.Bound))
	for i, b := range c.Bound {
		parts[i] = b.String()
	}
	return c.Base.Name() + "(" + strings.Join(parts, ",") + ")"
}

// Arity returns the number of arguments still expected.
func (c *Curried) Arity() int {
	return len(c.Base.InputTypes()) - len(c.Bound)
}

// IsParam reports whether s is a parameter placeholder.
func IsParam(s Semantics) bool {
	_, ok := s.(*Param)
	return ok
}

// IsConstant reports whether s is a constant.
func IsConstant(s Semantics) bool {
	_, ok := s.(*Constant)
	return ok
}
