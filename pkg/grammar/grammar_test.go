/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: grammar_test.go
Description: Tests for grammar construction, rule deduplication, extension, validation,
size splitting and YAML loading.
*/

package grammar_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/relish/pkg/grammar"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/semantics"
	"github.com/kleascm/relish/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleNames(nt *grammar.NonTerminal) []string {
	names := make([]string, len(nt.Rules))
	for i, r := range nt.Rules {
		names[i] = r.Semantics.Name()
	}
	return names
}

// TestAddRuleDedup tests that identical rules are inserted once
func TestAddRuleDedup(t *testing.T) {
	g := grammar.New()
	g.AddSymbol("int_expr", value.TypeInt)
	g.AddSymbol("list_expr", value.TypeList)
	g.SetStart("int_expr")

	assert.True(t, g.AddRule("int_expr", semantics.MustLookup("sum"), "list_expr"))
	assert.False(t, g.AddRule("int_expr", semantics.MustLookup("sum"), "list_expr"))
	assert.True(t, g.AddRule("int_expr", semantics.MustLookup("head"), "list_expr"))
	assert.True(t, g.PrependRule("int_expr", semantics.NewConstant(value.Int(0))))
	assert.Equal(t, []string{"0", "sum", "head"}, ruleNames(g.MustSymbol("int_expr")))

	require.NoError(t, g.Validate())
	assert.Equal(t, 0, g.MustSymbol("int_expr").ID)
	assert.Equal(t, 1, g.MustSymbol("list_expr").ID)
}

// TestTypeChecks tests that ill-typed rules are rejected
func TestTypeChecks(t *testing.T) {
	g := grammar.New()
	g.AddSymbol("int_expr", value.TypeInt)
	g.AddSymbol("list_expr", value.TypeList)
	g.AddSymbol("f", value.TypeFunc)

	assert.Panics(t, func() { g.AddRule("int_expr", semantics.MustLookup("sum"), "int_expr") })
	assert.Panics(t, func() { g.AddRule("list_expr", semantics.MustLookup("sum"), "list_expr") })
	assert.Panics(t, func() { g.AddRule("int_expr", semantics.MustLookup("+"), "int_expr") })
	assert.Panics(t, func() { g.AddRule("missing", semantics.MustLookup("sum"), "list_expr") })
	assert.Panics(t, func() { g.AddSymbol("int_expr", value.TypeList) })

	// Function symbols bind a prefix.
	assert.True(t, g.AddRule("f", semantics.MustLookup("+"), "int_expr"))
	assert.True(t, g.AddRule("f", semantics.MustLookup("max")))
	assert.Panics(t, func() { g.AddRule("f", semantics.MustLookup("neg"), "int_expr", "int_expr") })

	assert.Error(t, g.Validate(), "start symbol not set")
}

// TestAddParamAndExtend tests parameter injection and extra semantics
func TestAddParamAndExtend(t *testing.T) {
	g := grammar.DeepCoder()
	g.AddParam(value.TypeList)
	lists := g.MustSymbol("list_expr")
	assert.Equal(t, "Param0", lists.Rules[0].Semantics.Name())
	assert.Equal(t, []value.Type{value.TypeList}, g.ParamTypes())

	div := semantics.NewAnonymous("div", []value.Type{value.TypeInt, value.TypeInt}, value.TypeInt,
		func(args []value.Value, env *semantics.Env) value.Value {
			if args[1].AsInt() == 0 {
				return value.Int(env.Config.IntMax)
			}
			return value.Int(args[0].AsInt() / args[1].AsInt())
		})
	g.Extend(
		interfaces.ExtraSemantics{Semantics: div},
		interfaces.ExtraSemantics{Semantics: div},
		interfaces.ExtraSemantics{Semantics: semantics.MustLookup("max"), Output: "agg", Inputs: []string{}},
		interfaces.ExtraSemantics{Semantics: semantics.MustLookup("len"), Output: "size_expr"},
	)
	ints := g.MustSymbol("int_expr")
	assert.Equal(t, "div", ints.Rules[0].Semantics.Name())
	assert.Equal(t, 1, countRule(ints, "div"))

	size := g.MustSymbol("size_expr")
	assert.Equal(t, value.TypeInt, size.Type)
	assert.Equal(t, []int{lists.ID}, size.Rules[0].Params)

	agg := g.MustSymbol("agg")
	assert.Equal(t, value.TypeInt, agg.Type)
	require.NoError(t, g.Validate())
}

func countRule(nt *grammar.NonTerminal, name string) int {
	n := 0
	for _, r := range nt.Rules {
		if r.Semantics.Name() == name {
			n++
		}
	}
	return n
}

// TestSplitSize tests exact partitions over per-parameter pools
func TestSplitSize(t *testing.T) {
	assert.Equal(t, [][]int{{1, 3}, {2, 2}, {3, 1}}, grammar.SplitSize(4, [][]int{{1, 2, 3}, {1, 2, 3}}))
	assert.Equal(t, [][]int{{1, 3}}, grammar.SplitSize(4, [][]int{{1, 2, 3}, {3}}))
	assert.Nil(t, grammar.SplitSize(4, [][]int{{1}, {1}}))
	assert.Equal(t, [][]int{{}}, grammar.SplitSize(0, nil))
	assert.Nil(t, grammar.SplitSize(1, nil))
	assert.Nil(t, grammar.SplitSize(3, [][]int{{}}))
}

// TestLoadBuiltin tests the embedded grammar catalogue
func TestLoadBuiltin(t *testing.T) {
	assert.Equal(t, []string{"arith", "deepcoder"}, grammar.Available())

	g, err := grammar.Load("arith")
	require.NoError(t, err)
	assert.Equal(t, "int_expr", g.StartSymbol().Name)
	assert.Len(t, g.StartSymbol().Rules, 5)

	dc := grammar.DeepCoder()
	assert.Equal(t, "list_expr", dc.StartSymbol().Name)
	assert.Equal(t, value.TypeFunc, dc.MustSymbol("bin_func").Type)

	_, err = grammar.Load("nope")
	assert.Error(t, err)

	// Each load is independent.
	dc.AddParam(value.TypeList)
	assert.NotEqual(t, "Param0", grammar.DeepCoder().MustSymbol("list_expr").Rules[0].Semantics.Name())
}

// TestParseErrors tests YAML validation
func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "symbols: [",
		"unknown type":   "start: a\nsymbols:\n  - {name: a, type: str}\n",
		"unknown op":     "start: a\nsymbols:\n  - name: a\n    type: int\n    rules:\n      - {op: nope}\n",
		"two kinds":      "start: a\nsymbols:\n  - name: a\n    type: int\n    rules:\n      - {op: neg, const: 1}\n",
		"unknown param":  "start: a\nsymbols:\n  - name: a\n    type: int\n    rules:\n      - {op: neg, params: [b]}\n",
		"type mismatch":  "start: a\nsymbols:\n  - name: a\n    type: int\n    rules:\n      - {op: sum, params: [a]}\n",
		"no start":       "symbols:\n  - {name: a, type: int}\n",
		"bad start":      "start: b\nsymbols:\n  - {name: a, type: int}\n",
		"duplicate":      "start: a\nsymbols:\n  - {name: a, type: int}\n  - {name: a, type: int}\n",
		"negative param": "start: a\nsymbols:\n  - name: a\n    type: int\n    rules:\n      - {param: -1}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := grammar.Parse([]byte(src))
			assert.Error(t, err)
		})
	}
}

// TestLoadFile tests reading a grammar from disk and resolving names through it
func TestLoadFile(t *testing.T) {
	src := `
name: tiny
start: list_expr
symbols:
  - name: list_expr
    type: list
    rules:
      - {param: 0}
      - {op: sort, params: [list_expr]}
`
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	g, err := grammar.LoadFile(path)
	require.NoError(t, err)
	assert.Contains(t, g.String(), "list_expr: list (start)")
	assert.Contains(t, g.String(), "  sort(list_expr)")

	s, err := g.Resolve("Param0")
	require.NoError(t, err)
	assert.Equal(t, value.TypeList, s.OutputType())
	s, err = g.Resolve("rev")
	require.NoError(t, err)
	assert.Equal(t, "rev", s.Name())

	_, err = grammar.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestClone tests that clones are independent
func TestClone(t *testing.T) {
	g := grammar.MustLoad("arith")
	c := g.Clone()
	c.AddRule("int_expr", semantics.MustLookup("neg"), "int_expr")
	assert.Len(t, g.StartSymbol().Rules, 5)
	assert.Len(t, c.StartSymbol().Rules, 6)
	assert.Equal(t, g.Start, c.Start)
}
