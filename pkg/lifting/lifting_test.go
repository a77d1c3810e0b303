/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: lifting_test.go
Description: Tests for example spaces, the lifting oracle and the benchmark catalogue.
*/

package lifting_test

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/core"
	"github.com/kleascm/relish/pkg/grammar"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/lifting"
	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/value"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Examples.Count = 300
	cfg.Examples.MaxLength = 4
	return cfg
}

func parse(t *testing.T, s string) *program.Program {
	t.Helper()
	p, err := program.Parse(s, program.NewResolver([]value.Type{value.TypeList}))
	require.NoError(t, err)
	return p
}

func newTask(t *testing.T, name string, kind lifting.Kind) *lifting.Task {
	t.Helper()
	b, err := lifting.Lookup(name)
	require.NoError(t, err)
	task, err := b.NewTask(smallConfig(), kind)
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	task.SetLogger(logger)
	return task
}

// TestSample tests determinism and ranges of sampled examples
func TestSample(t *testing.T) {
	cfg := smallConfig().Examples
	a, err := lifting.Sample(lifting.KindTree, cfg)
	require.NoError(t, err)
	b, err := lifting.Sample(lifting.KindTree, cfg)
	require.NoError(t, err)
	require.Len(t, a, cfg.Count)
	assert.Equal(t, a, b)

	for _, ex := range a {
		require.Len(t, ex, 2)
		for _, part := range ex {
			l := part.AsList()
			assert.GreaterOrEqual(t, len(l), cfg.MinLength)
			assert.LessOrEqual(t, len(l), cfg.MaxLength)
			for _, v := range l {
				assert.GreaterOrEqual(t, v, cfg.IntMin)
				assert.LessOrEqual(t, v, cfg.IntMax)
			}
		}
	}

	cfg.Seed = 2
	c, err := lifting.Sample(lifting.KindTree, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	list, err := lifting.Sample(lifting.KindList, cfg)
	require.NoError(t, err)
	assert.Equal(t, value.TypeInt, list[0][0].Type())
	assert.Equal(t, value.TypeList, list[0][1].Type())

	cfg.MaxLength = 0
	_, err = lifting.Sample(lifting.KindTree, cfg)
	assert.Error(t, err)
}

// TestVerifySum tests counterexamples for the sum benchmark
func TestVerifySum(t *testing.T) {
	task := newTask(t, "sum", "")

	ex, err := task.Verify(nil)
	require.NoError(t, err)
	require.NotNil(t, ex)
	assert.False(t, task.Evaluate(nil, *ex))

	length := []*program.Program{parse(t, "len(Param0)")}
	ex, err = task.Verify(length)
	require.NoError(t, err)
	require.NotNil(t, ex)
	assert.False(t, task.Evaluate(length, *ex))
	assert.Equal(t, task.Execute(length[0], ex.A), task.Execute(length[0], ex.B))

	sum := []*program.Program{parse(t, "sum(Param0)")}
	ex, err = task.Verify(sum)
	require.NoError(t, err)
	assert.Nil(t, ex)
	assert.Equal(t, 2, task.CacheSize())
}

// TestVerifyNeedsAuxiliary tests a target that is not a function of itself on the parts
func TestVerifyNeedsAuxiliary(t *testing.T) {
	task := newTask(t, "mps", "")
	alone := []*program.Program{parse(t, "maximum(scanl(+,Param0))")}
	ex, err := task.Verify(alone)
	require.NoError(t, err)
	assert.NotNil(t, ex)
}

// TestEvaluateList tests the list task kind
func TestEvaluateList(t *testing.T) {
	task := newTask(t, "sum", lifting.KindList)
	sum := parse(t, "sum(Param0)")

	pair := func(c1 int, x1 []int, c2 int, x2 []int) interfaces.Counterexample {
		return interfaces.Counterexample{
			A: interfaces.Example{value.Int(c1), value.List(x1)},
			B: interfaces.Example{value.Int(c2), value.List(x2)},
		}
	}
	assert.Equal(t, []value.Value{value.Int(3)}, task.Execute(sum, interfaces.Example{value.Int(9), value.ListOf(1, 2)}))
	// Different heads are never in conflict.
	assert.True(t, task.Evaluate([]*program.Program{sum}, pair(1, []int{2}, 2, []int{2})))
	// Same head and same sum give the same target.
	assert.True(t, task.Evaluate([]*program.Program{sum}, pair(1, []int{2, 0}, 1, []int{1, 1})))

	length := parse(t, "len(Param0)")
	assert.False(t, task.Evaluate([]*program.Program{length}, pair(1, []int{2}, 1, []int{3})))
	assert.True(t, task.Evaluate([]*program.Program{length, sum}, pair(1, []int{2}, 1, []int{3})))

	ex, err := task.Verify([]*program.Program{sum})
	require.NoError(t, err)
	assert.Nil(t, ex)
}

// TestNoneOutputs tests that failing candidates keep None as their output
func TestNoneOutputs(t *testing.T) {
	task := newTask(t, "sum", "")
	access := parse(t, "access(10,Param0)")
	out := task.Execute(access, interfaces.Example{value.ListOf(1), value.ListOf(2)})
	assert.Equal(t, []value.Value{value.None, value.None}, out)

	minimum := parse(t, "minimum(Param0)")
	out = task.Execute(minimum, interfaces.Example{value.ListOf(), value.ListOf(2)})
	assert.Equal(t, []value.Value{value.Int(1000000000), value.Int(2)}, out)
}

// TestNoneSeparatesDefault tests that a None output and the default value are
// different features
func TestNoneSeparatesDefault(t *testing.T) {
	task := newTask(t, "mss", "")
	p := parse(t, "minimum(take(access(1,Param0),Param0))")
	ex := interfaces.Counterexample{
		A: interfaces.Example{value.ListOf(-2, 0), value.ListOf(-3, 3, -2, 1, -1)},
		B: interfaces.Example{value.ListOf(-2), value.ListOf(-3, -2, 4, 5, -4)},
	}

	a := task.Execute(p, ex.A)
	b := task.Execute(p, ex.B)
	assert.Equal(t, []value.Value{value.Int(1000000000), value.Int(-3)}, a)
	assert.Equal(t, []value.Value{value.None, value.Int(-3)}, b)
	assert.True(t, task.Evaluate([]*program.Program{p}, ex))
}

// TestTargets tests the benchmark target functions
func TestTargets(t *testing.T) {
	tests := []struct {
		name string
		list []int
		want int
	}{
		{"sum", []int{1, -2, 3}, 2},
		{"min", []int{3, -1, 2}, -1},
		{"max", []int{3, -1, 2}, 3},
		{"average", []int{1, 2, 3, 4}, 2},
		{"length", []int{4, 4, 4}, 3},
		{"2nd-min", []int{3, 1, 2}, 2},
		{"mps", []int{1, -2, 3}, 2},
		{"mts", []int{1, -2, 3}, 3},
		{"mss", []int{2, -5, 1, 2}, 3},
		{"mps_p", []int{1, -2, 3}, 2},
		{"mts_p", []int{1, -2, 3}, 1},
		{"is_sorted", []int{1, 2, 5}, 1},
		{"is_sorted", []int{1, 1, 5}, 0},
		{"atoi", []int{1, 2, 3}, 123},
		{"dropwhile", []int{0, 0, 1}, 2},
		{"balanced", []int{1, -1, -1, 1}, 0},
		{"balanced", []int{1, -1, 1}, 1},
		{"0*1*", []int{1, 1, 0, 0}, 1},
		{"0*1*", []int{0, 1}, 0},
		{"cnt_1s", []int{1, 1, 0, 1}, 2},
		{"line_sight", []int{1, 3, 2}, 0},
		{"line_sight", []int{1, 2, 3}, 1},
		{"max_len_1s", []int{1, 1, 0, 1, 1, 1}, 3},
		{"0after1", []int{0, 1, 0}, 1},
		{"0after1", []int{0, 0, 1}, 0},
		{"count1(0+)", []int{1, 0, 0, 1, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := lifting.Lookup(tt.name)
			require.NoError(t, err)
			got := b.TargetProgram().Run([]value.Value{value.List(tt.list)}, nil)
			assert.Equal(t, value.Int(tt.want), got)
		})
	}
}

// TestCatalogue tests lookup and listing
func TestCatalogue(t *testing.T) {
	names := lifting.Names()
	assert.Len(t, names, 21)
	assert.Contains(t, names, "mss")
	assert.IsNonDecreasing(t, names)

	_, err := lifting.Lookup("nope")
	assert.ErrorIs(t, err, lifting.ErrUnknownBenchmark)

	b, err := lifting.Lookup("atoi")
	require.NoError(t, err)
	space := b.ExampleSpace(config.Default())
	assert.Equal(t, 0, space.IntMin)
	assert.Equal(t, 9, space.IntMax)
	assert.Equal(t, 4, space.MaxLength)

	task, err := b.NewTask(smallConfig(), "")
	require.NoError(t, err)
	require.Len(t, task.ExtraSemantics(), 2)
	assert.Equal(t, "pow10", task.ExtraSemantics()[0].Semantics.Name())
	assert.Equal(t, lifting.KindTree, task.Kind())

	_, err = lifting.ParseKind("graph")
	assert.Error(t, err)
}

// TestSolveSum runs the solver end to end on the sum benchmark
func TestSolveSum(t *testing.T) {
	task := newTask(t, "sum", "")
	solver := core.NewSolver(task, core.BuildDSL(task, grammar.DeepCoder()), smallConfig())
	logger, _ := test.NewNullLogger()
	solver.SetLogger(logger)

	res, err := solver.Synthesize()
	require.NoError(t, err)
	require.NotEmpty(t, res.Programs)

	ex, err := task.Verify(res.Programs)
	require.NoError(t, err)
	assert.Nil(t, ex)
	for _, known := range res.Counterexamples {
		assert.True(t, task.Evaluate(res.Programs, known))
	}
}

// TestSolveMss runs the solver on a benchmark whose candidates can return None
func TestSolveMss(t *testing.T) {
	if testing.Short() {
		t.Skip("long synthesis run")
	}
	cfg := smallConfig()
	cfg.MaxSizeLimit = 7
	b, err := lifting.Lookup("mss")
	require.NoError(t, err)
	task, err := b.NewTask(cfg, "")
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	task.SetLogger(logger)

	solver := core.NewSolver(task, core.BuildDSL(task, grammar.DeepCoder()), cfg)
	solver.SetLogger(logger)
	res, err := solver.Synthesize()
	require.False(t, errors.Is(err, core.ErrInconsistentCandidate), "%v", err)
	if err != nil {
		assert.ErrorIs(t, err, core.ErrSizeLimitExceeded)
		return
	}

	ex, err := task.Verify(res.Programs)
	require.NoError(t, err)
	assert.Nil(t, ex)
	for _, known := range res.Counterexamples {
		assert.True(t, task.Evaluate(res.Programs, known))
	}
}
