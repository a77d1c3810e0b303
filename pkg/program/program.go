/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: program.go
Description: Immutable program trees over DSL semantics. Provides size, canonical
serialization, bottom-up evaluation with currying of partial applications and
parameter substitution.
*/

package program

import (
	"fmt"
	"strings"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/semantics"
	"github.com/kleascm/relish/pkg/value"
)

// Program is an immutable node of a program tree.
type Program struct {
	Semantics semantics.Semantics
	Sub       []*Program
}

// New creates a program node. Panics if more sub-programs than the arity are given.
func New(s semantics.Semantics, sub ...*Program) *Program {
	if len(sub) > len(s.InputTypes()) {
		panic(fmt.Sprintf("program: %s takes %d arguments, got %d", s.Name(), len(s.InputTypes()), len(sub)))
	}
	return &Program{Semantics: s, Sub: sub}
}

// Size returns the number of nodes in the tree.
func (p *Program) Size() int {
	n := 1
	for _, s := range p.Sub {
		n += s.Size()
	}
	return n
}

// String returns the canonical serialization name(s1,s2,...).
func (p *Program) String() string {
	var sb strings.Builder
	p.write(&sb)
	return sb.String()
}

func (p *Program) write(sb *strings.Builder) {
	sb.WriteString(p.Semantics.Name())
	if len(p.Sub) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, s := range p.Sub {
		if i > 0 {
			sb.WriteByte(',')
		}
		s.write(sb)
	}
	sb.WriteByte(')')
}

// Equal reports structural identity by canonical name at every node.
func (p *Program) Equal(o *Program) bool {
	if p.Semantics.Name() != o.Semantics.Name() || len(p.Sub) != len(o.Sub) {
		return false
	}
	for i := range p.Sub {
		if !p.Sub[i].Equal(o.Sub[i]) {
			return false
		}
	}
	return true
}

// Run evaluates the program on the given inputs.
func (p *Program) Run(inputs []value.Value, cfg *config.Config) value.Value {
	return p.Eval(semantics.NewEnv(cfg, inputs))
}

// Eval evaluates the program bottom-up in env. A node with fewer sub-programs than
// its arity yields a curried function value.
func (p *Program) Eval(env *semantics.Env) value.Value {
	args := make([]value.Value, len(p.Sub))
	for i, s := range p.Sub {
		args[i] = s.Eval(env)
	}
	if len(args) < len(p.Semantics.InputTypes()) {
		return semantics.Curry(p.Semantics, args, env)
	}
	return p.Semantics.Run(args, env)
}

// Replacer substitutes parameter leaves. Returning nil keeps the leaf.
type Replacer interface {
	Replace(param *semantics.Param) *Program
}

// ReplacerFunc adapts a function to the Replacer interface.
type ReplacerFunc func(param *semantics.Param) *Program

// Replace implements Replacer.
func (f ReplacerFunc) Replace(param *semantics.Param) *Program { return f(param) }

// Replace returns a copy of p with parameter leaves substituted by r.
func (p *Program) Replace(r Replacer) *Program {
	if param, ok := p.Semantics.(*semantics.Param); ok {
		if sub := r.Replace(param); sub != nil {
			return sub
		}
		return p
	}
	if len(p.Sub) == 0 {
		return p
	}
	sub := make([]*Program, len(p.Sub))
	for i, s := range p.Sub {
		sub[i] = s.Replace(r)
	}
	return &Program{Semantics: p.Semantics, Sub: sub}
}

// ReplaceParams substitutes Param(i) by subs[i]. Parameters beyond subs are kept.
func (p *Program) ReplaceParams(subs []*Program) *Program {
	return p.Replace(ReplacerFunc(func(param *semantics.Param) *Program {
		if param.Index < len(subs) {
			return subs[param.Index]
		}
		return nil
	}))
}

// Strings serializes a program list as [p1,p2,...].
func Strings(ps []*Program) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}
