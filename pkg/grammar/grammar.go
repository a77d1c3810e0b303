/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: grammar.go
Description: Typed DSL grammars for program synthesis. Symbols are addressed by their
index in the grammar, rules reference parameter symbols by id, rule insertion is
deduplicated and task specific extensions are inserted ahead of the base rules.
*/

package grammar

import (
	"fmt"
	"strings"

	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/semantics"
	"github.com/kleascm/relish/pkg/value"
)

// NonTerminal is a typed grammar symbol
type NonTerminal struct {
	ID    int
	Name  string
	Type  value.Type
	Rules []*Rule
}

// Rule produces a symbol from a semantics applied to parameter symbols
type Rule struct {
	Semantics semantics.Semantics
	Params    []int // Symbol ids
}

// Grammar owns an ordered list of symbols and a start symbol.
// It must not be modified once handed to an enumerator or solver.
type Grammar struct {
	Symbols []*NonTerminal
	Start   int
	index   map[string]int
}

// New creates an empty grammar without a start symbol
func New() *Grammar {
	return &Grammar{Start: -1, index: make(map[string]int)}
}

// DefaultSymbolName returns the conventional symbol name for a type
func DefaultSymbolName(t value.Type) string {
	return t.String() + "_expr"
}

// AddSymbol returns the symbol with the given name, creating it if needed.
// Panics if the symbol exists with another type.
func (g *Grammar) AddSymbol(name string, typ value.Type) *NonTerminal {
	if id, ok := g.index[name]; ok {
		nt := g.Symbols[id]
		if nt.Type != typ {
			panic(fmt.Sprintf("grammar: symbol %s redeclared as %s, was %s", name, typ, nt.Type))
		}
		return nt
	}
	nt := &NonTerminal{ID: len(g.Symbols), Name: name, Type: typ}
	g.Symbols = append(g.Symbols, nt)
	g.index[name] = nt.ID
	return nt
}

// Symbol looks a symbol up by name
func (g *Grammar) Symbol(name string) (*NonTerminal, bool) {
	id, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.Symbols[id], true
}

// MustSymbol is Symbol that panics on unknown names
func (g *Grammar) MustSymbol(name string) *NonTerminal {
	nt, ok := g.Symbol(name)
	if !ok {
		panic("grammar: unknown symbol " + name)
	}
	return nt
}

// SetStart sets the start symbol. Panics on unknown names.
func (g *Grammar) SetStart(name string) {
	g.Start = g.MustSymbol(name).ID
}

// StartSymbol returns the start symbol
func (g *Grammar) StartSymbol() *NonTerminal {
	if g.Start < 0 || g.Start >= len(g.Symbols) {
		panic("grammar: start symbol not set")
	}
	return g.Symbols[g.Start]
}

// AddRule appends a rule to a symbol. Parameters are symbol names.
// Returns false if an identical rule exists. Panics on type errors.
func (g *Grammar) AddRule(symbol string, sem semantics.Semantics, params ...string) bool {
	return g.insertRule(symbol, sem, params, false)
}

// PrependRule inserts a rule in front of the existing rules of a symbol.
func (g *Grammar) PrependRule(symbol string, sem semantics.Semantics, params ...string) bool {
	return g.insertRule(symbol, sem, params, true)
}

func (g *Grammar) insertRule(symbol string, sem semantics.Semantics, params []string, front bool) bool {
	added, err := g.tryInsertRule(symbol, sem, params, front)
	if err != nil {
		panic(err)
	}
	return added
}

func (g *Grammar) tryInsertRule(symbol string, sem semantics.Semantics, params []string, front bool) (bool, error) {
	nt, ok := g.Symbol(symbol)
	if !ok {
		return false, fmt.Errorf("grammar: unknown symbol %s", symbol)
	}
	rule := &Rule{Semantics: sem, Params: make([]int, len(params))}
	for i, name := range params {
		p, ok := g.Symbol(name)
		if !ok {
			return false, fmt.Errorf("grammar: rule %s of %s references unknown symbol %s", sem.Name(), symbol, name)
		}
		rule.Params[i] = p.ID
	}
	if err := g.checkRule(nt, rule); err != nil {
		return false, err
	}
	for _, r := range nt.Rules {
		if g.sameRule(r, rule) {
			return false, nil
		}
	}
	if front {
		nt.Rules = append([]*Rule{rule}, nt.Rules...)
	} else {
		nt.Rules = append(nt.Rules, rule)
	}
	return true, nil
}

func (g *Grammar) sameRule(a, b *Rule) bool {
	if a.Semantics.Name() != b.Semantics.Name() || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if g.Symbols[a.Params[i]].Name != g.Symbols[b.Params[i]].Name {
			return false
		}
	}
	return true
}

func (g *Grammar) checkRule(nt *NonTerminal, r *Rule) error {
	in := r.Semantics.InputTypes()
	for _, p := range r.Params {
		if p < 0 || p >= len(g.Symbols) {
			return fmt.Errorf("grammar: rule %s of %s references symbol %d", r.Semantics.Name(), nt.Name, p)
		}
	}
	if nt.Type == value.TypeFunc {
		if len(r.Params) > len(in) {
			return fmt.Errorf("grammar: rule %s of %s binds %d of %d arguments", r.Semantics.Name(), nt.Name, len(r.Params), len(in))
		}
	} else {
		if len(r.Params) != len(in) {
			return fmt.Errorf("grammar: rule %s of %s has %d parameters, semantics takes %d", r.Semantics.Name(), nt.Name, len(r.Params), len(in))
		}
		if r.Semantics.OutputType() != nt.Type {
			return fmt.Errorf("grammar: rule %s of %s returns %s", r.Semantics.Name(), nt.Name, r.Semantics.OutputType())
		}
	}
	for i, p := range r.Params {
		if g.Symbols[p].Type != in[i] {
			return fmt.Errorf("grammar: rule %s of %s expects %s at %d, got symbol %s of type %s",
				r.Semantics.Name(), nt.Name, in[i], i, g.Symbols[p].Name, g.Symbols[p].Type)
		}
	}
	return nil
}

// Validate checks every rule and the start symbol
func (g *Grammar) Validate() error {
	if g.Start < 0 || g.Start >= len(g.Symbols) {
		return fmt.Errorf("grammar: start symbol not set")
	}
	for i, nt := range g.Symbols {
		if nt.ID != i {
			return fmt.Errorf("grammar: symbol %s has id %d at index %d", nt.Name, nt.ID, i)
		}
		for _, r := range nt.Rules {
			if err := g.checkRule(nt, r); err != nil {
				return err
			}
		}
	}
	return nil
}

// MustValidate panics if the grammar is inconsistent
func (g *Grammar) MustValidate() {
	if err := g.Validate(); err != nil {
		panic(err)
	}
}

// AddParam adds Param(i) of types[i] to the default symbol of that type,
// ahead of the existing rules.
func (g *Grammar) AddParam(types ...value.Type) {
	for i, t := range types {
		name := DefaultSymbolName(t)
		g.AddSymbol(name, t)
		g.PrependRule(name, semantics.NewParam(i, t))
	}
}

// Extend inserts extra semantics, creating missing symbols
func (g *Grammar) Extend(extras ...interfaces.ExtraSemantics) {
	for _, extra := range extras {
		sem := extra.Semantics
		in := sem.InputTypes()
		out := extra.Output
		if out == "" {
			out = DefaultSymbolName(sem.OutputType())
		}
		nt, ok := g.Symbol(out)
		if !ok {
			nt = g.AddSymbol(out, sem.OutputType())
		}
		// Function symbols bind only the named prefix.
		n := len(in)
		if nt.Type == value.TypeFunc {
			n = min(n, len(extra.Inputs))
		}
		params := make([]string, n)
		for i := 0; i < n; i++ {
			if i < len(extra.Inputs) && extra.Inputs[i] != "" {
				params[i] = extra.Inputs[i]
			} else {
				params[i] = DefaultSymbolName(in[i])
			}
			g.AddSymbol(params[i], in[i])
		}
		g.PrependRule(out, sem, params...)
	}
}

// Clone returns a copy that can be extended without affecting g
func (g *Grammar) Clone() *Grammar {
	c := New()
	c.Start = g.Start
	for _, nt := range g.Symbols {
		cp := &NonTerminal{ID: nt.ID, Name: nt.Name, Type: nt.Type, Rules: make([]*Rule, len(nt.Rules))}
		for i, r := range nt.Rules {
			cp.Rules[i] = &Rule{Semantics: r.Semantics, Params: append([]int(nil), r.Params...)}
		}
		c.Symbols = append(c.Symbols, cp)
		c.index[nt.Name] = nt.ID
	}
	return c
}

// ParamTypes returns the parameter types used by Param rules, indexed by parameter
func (g *Grammar) ParamTypes() []value.Type {
	var types []value.Type
	for _, nt := range g.Symbols {
		for _, r := range nt.Rules {
			if p, ok := r.Semantics.(*semantics.Param); ok {
				for len(types) <= p.Index {
					types = append(types, value.TypeNone)
				}
				types[p.Index] = p.Typ
			}
		}
	}
	return types
}

// Resolve implements program.Resolver over the rules of the grammar,
// falling back to literals and builtins.
func (g *Grammar) Resolve(name string) (semantics.Semantics, error) {
	for _, nt := range g.Symbols {
		for _, r := range nt.Rules {
			if r.Semantics.Name() == name {
				return r.Semantics, nil
			}
		}
	}
	return program.NewResolver(g.ParamTypes()).Resolve(name)
}

// String prints the grammar one rule per line
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, nt := range g.Symbols {
		marker := ""
		if nt.ID == g.Start {
			marker = " (start)"
		}
		fmt.Fprintf(&sb, "%s: %s%s\n", nt.Name, nt.Type, marker)
		for _, r := range nt.Rules {
			sb.WriteString("  ")
			sb.WriteString(r.Semantics.Name())
			if len(r.Params) > 0 {
				names := make([]string, len(r.Params))
				for i, p := range r.Params {
					names[i] = g.Symbols[p].Name
				}
				sb.WriteString("(" + strings.Join(names, ",") + ")")
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// SplitSize returns every way to pick one size per parameter from pools,
// in pool order, such that the sizes sum to total.
func SplitSize(total int, pools [][]int) [][]int {
	var result [][]int
	scheme := make([]int, 0, len(pools))
	var walk func(pos, rem int)
	walk = func(pos, rem int) {
		if pos == len(pools) {
			if rem == 0 {
				cp := make([]int, len(scheme))
				copy(cp, scheme)
				result = append(result, cp)
			}
			return
		}
		for _, v := range pools[pos] {
			if v <= rem {
				scheme = append(scheme, v)
				walk(pos+1, rem-v)
				scheme = scheme[:len(scheme)-1]
			}
		}
	}
	walk(0, total)
	return result
}
