/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fta_test.go
Description: Tests for automaton construction, product merging and minimal extraction.
*/

package fta_test

import (
	"testing"

	"github.com/kleascm/relish/pkg/enumerator"
	"github.com/kleascm/relish/pkg/fta"
	"github.com/kleascm/relish/pkg/grammar"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func equalTo(want ...value.Value) func([]value.Value) bool {
	return func(outputs []value.Value) bool { return value.EqualLists(outputs, want) }
}

// TestConstructSingleInput tests cells and deduplication on one input
func TestConstructSingleInput(t *testing.T) {
	g := grammar.MustLoad("arith")
	a := fta.Construct(g, 3, value.Int(2), nil)

	assert.Len(t, a.Cell(1, g.Start), 3)
	assert.Empty(t, a.Cell(2, g.Start))

	seen := map[string]bool{}
	for _, id := range a.Cell(3, g.Start) {
		key := value.ListString(a.Node(id).Outputs)
		assert.False(t, seen[key], "duplicate output %s", key)
		seen[key] = true
	}
	// 0..4 from sums plus 0, 1, 2, 4 from products, deduplicated.
	assert.Len(t, seen, 5)

	p, ok := a.Extract(equalTo(value.Int(4)))
	require.True(t, ok)
	assert.Equal(t, "+(Param0,Param0)", p.String())

	_, ok = a.Extract(equalTo(value.Int(100)))
	assert.False(t, ok)
}

// TestMergeSoundness tests that every accepting state reconstructs to a program
// producing the state's outputs on every input
func TestMergeSoundness(t *testing.T) {
	g := grammar.MustLoad("arith")
	inputs := []value.Value{value.Int(2), value.Int(3), value.Int(-1)}
	a := fta.ConstructAll(g, 5, inputs, nil)
	require.NotEmpty(t, a.Finals)
	require.Len(t, a.Inputs, 3)

	for _, id := range a.Finals {
		n := a.Node(id)
		p := a.MinimalProgram(id)
		assert.Equal(t, n.Size, p.Size())
		for i, inp := range inputs {
			assert.Equal(t, n.Outputs[i], p.Run([]value.Value{inp}, nil), "program %s on %s", p, inp)
		}
	}
}

// TestMergeHalves tests that merged states project onto states of both operands
func TestMergeHalves(t *testing.T) {
	g := grammar.MustLoad("arith")
	l := fta.ConstructAll(g, 5, []value.Value{value.Int(1), value.Int(4)}, nil)
	r := fta.Construct(g, 5, value.Int(-2), nil)
	m := fta.Merge(l, r, 5)
	require.Len(t, m.Inputs, 3)

	for size := 1; size <= 5; size++ {
		left := map[string]bool{}
		for _, id := range l.Cell(size, g.Start) {
			left[value.ListString(l.Node(id).Outputs)] = true
		}
		right := map[string]bool{}
		for _, id := range r.Cell(size, g.Start) {
			right[value.ListString(r.Node(id).Outputs)] = true
		}
		for _, id := range m.Cell(size, g.Start) {
			out := m.Node(id).Outputs
			assert.True(t, left[value.ListString(out[:2])])
			assert.True(t, right[value.ListString(out[2:])])
		}
	}
}

// TestMinimalityAgainstEnumeration tests extraction against exhaustive search
func TestMinimalityAgainstEnumeration(t *testing.T) {
	g := grammar.MustLoad("arith")
	inputs := []value.Value{value.Int(2), value.Int(3)}
	targets := [][]value.Value{
		{value.Int(5), value.Int(10)},
		{value.Int(4), value.Int(6)},
		{value.Int(1), value.Int(1)},
		{value.Int(6), value.Int(12)},
	}
	a := fta.ConstructAll(g, 7, inputs, nil)

	for _, want := range targets {
		p, ok := a.Extract(equalTo(want...))
		require.True(t, ok, "no program for %s", value.ListString(want))

		v := interfaces.VerifierFunc(func(q *program.Program) bool {
			for i, inp := range inputs {
				if !q.Run([]value.Value{inp}, nil).Equal(want[i]) {
					return false
				}
			}
			return true
		})
		brute := enumerator.New(g, enumerator.WithVerifier(v), enumerator.WithSizeUpperBound(7)).Enumerate(1)
		require.Len(t, brute, 1)
		assert.Equal(t, brute[0].Size(), p.Size(), "target %s", value.ListString(want))
	}
}

// TestFunctionSymbols tests automata over a grammar with function-typed symbols
func TestFunctionSymbols(t *testing.T) {
	g := grammar.DeepCoder()
	g.AddParam(value.TypeList)
	inputs := []value.Value{value.ListOf(1, 2), value.ListOf(0, 5)}
	a := fta.ConstructAll(g, 4, inputs, nil)

	p, ok := a.Extract(equalTo(value.ListOf(2, 3), value.ListOf(1, 6)))
	require.True(t, ok)
	assert.LessOrEqual(t, p.Size(), 4)
	for i, want := range []value.Value{value.ListOf(2, 3), value.ListOf(1, 6)} {
		assert.Equal(t, want, p.Run([]value.Value{inputs[i]}, nil))
	}
}

// TestValidity tests the block validity predicate
func TestValidity(t *testing.T) {
	i := value.Int
	tests := []struct {
		name    string
		k       int
		outputs []value.Value
		want    bool
	}{
		{"single block differs", 1, []value.Value{i(1), i(2)}, true},
		{"single block equal", 1, []value.Value{i(1), i(1)}, false},
		{"pair differs in one component", 2, []value.Value{i(1), i(2), i(1), i(3)}, true},
		{"pair equal", 2, []value.Value{i(1), i(2), i(1), i(2)}, false},
		{"second block equal", 1, []value.Value{i(1), i(5), i(2), i(5)}, false},
		{"all blocks differ", 1, []value.Value{i(1), i(5), i(2), i(6)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fta.Validity{K: tt.k}.Valid(tt.outputs))
		})
	}
	assert.Panics(t, func() { fta.Validity{K: 2}.Valid([]value.Value{i(1), i(2)}) })
}

// TestDeterminism tests that repeated construction yields identical automata
func TestDeterminism(t *testing.T) {
	g := grammar.DeepCoder()
	g.AddParam(value.TypeList)
	inputs := []value.Value{value.ListOf(3, -1), value.ListOf(0, 2, 2)}

	render := func() []string {
		a := fta.ConstructAll(g, 4, inputs, nil)
		var out []string
		for _, id := range a.Finals {
			out = append(out, a.MinimalProgram(id).String()+"="+value.ListString(a.Node(id).Outputs))
		}
		return out
	}
	first := render()
	require.NotEmpty(t, first)
	assert.Equal(t, first, render())
}
