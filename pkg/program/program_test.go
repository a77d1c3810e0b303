/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: program_test.go
Description: Tests for program trees. Covers size, serialization round trips, evaluation,
currying of partial applications and parameter substitution.
*/

package program_test

import (
	"testing"

	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/semantics"
	"github.com/kleascm/relish/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resolver = program.NewResolver([]value.Type{value.TypeList, value.TypeInt})

// TestRoundTrip tests that Parse inverts String
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"Param0",
		"-3",
		"sum(Param0)",
		"+(sum(Param0),Param1)",
		"map(+(1),Param0)",
		"cons(head(Param0),[](-1))",
		"ite(<(Param1,0),neg(Param1),Param1)",
		"zipwith(max,Param0,rev(Param0))",
		"++([1,2],Param0)",
		"-(Param1,-2)",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			p, err := program.Parse(in, resolver)
			require.NoError(t, err)
			assert.Equal(t, in, p.String())

			again, err := program.Parse(p.String(), resolver)
			require.NoError(t, err)
			assert.True(t, p.Equal(again))
		})
	}
}

// TestParseErrors tests malformed and unresolvable input
func TestParseErrors(t *testing.T) {
	_, err := program.Parse("sum(Param0", resolver)
	assert.ErrorIs(t, err, program.ErrSyntax)

	_, err = program.Parse("sum(Param0))", resolver)
	assert.ErrorIs(t, err, program.ErrSyntax)

	_, err = program.Parse("neg(1,2)", resolver)
	assert.ErrorIs(t, err, program.ErrSyntax)

	_, err = program.Parse("frobnicate(Param0)", resolver)
	assert.ErrorIs(t, err, semantics.ErrUnknownSemantics)

	_, err = program.Parse("Param7", resolver)
	assert.ErrorIs(t, err, semantics.ErrUnknownSemantics)

	assert.Panics(t, func() { program.MustParse("", resolver) })
}

// TestSizeAndRun tests size counting and evaluation
func TestSizeAndRun(t *testing.T) {
	p := program.MustParse("+(sum(Param0),Param1)", resolver)
	assert.Equal(t, 4, p.Size())

	out := p.Run([]value.Value{value.ListOf(1, 2, 3), value.Int(10)}, nil)
	assert.Equal(t, value.Int(16), out)

	sat := program.MustParse("+(999999999,999999999)", resolver)
	assert.Equal(t, value.Int(100000000), sat.Run(nil, nil))
}

// TestPartialApplication tests that under-applied nodes evaluate to functions
func TestPartialApplication(t *testing.T) {
	p := program.MustParse("+(1)", resolver)
	out := p.Run(nil, nil)
	require.Equal(t, value.TypeFunc, out.Type())
	assert.Equal(t, "<+(1)>", out.String())
	assert.Equal(t, value.Int(5), out.AsFunc().Call([]value.Value{value.Int(4)}))

	m := program.MustParse("map(+(1),Param0)", resolver)
	assert.True(t, value.ListOf(2, 3).Equal(m.Run([]value.Value{value.ListOf(1, 2), value.Int(0)}, nil)))
}

// TestReplace tests parameter substitution
func TestReplace(t *testing.T) {
	p := program.MustParse("+(sum(Param0),Param1)", resolver)
	l := program.MustParse("rev(Param0)", resolver)
	r := p.ReplaceParams([]*program.Program{l})
	assert.Equal(t, "+(sum(rev(Param0)),Param1)", r.String())
	assert.Equal(t, "+(sum(Param0),Param1)", p.String())

	swapped := p.Replace(program.ReplacerFunc(func(param *semantics.Param) *program.Program {
		return program.New(semantics.NewParam(1-param.Index, param.Typ))
	}))
	assert.Equal(t, "+(sum(Param1),Param0)", swapped.String())
	assert.Equal(t, "[+(sum(Param0),Param1),rev(Param0)]", program.Strings([]*program.Program{p, l}))
}

// TestNewArity tests that New rejects over-application
func TestNewArity(t *testing.T) {
	assert.Panics(t, func() {
		program.New(semantics.MustLookup("neg"), program.New(semantics.NewConstant(value.Int(1))), program.New(semantics.NewConstant(value.Int(2))))
	})
}
