/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces for Relish. Defines the oracle boundary between the
synthesis core and task layers so that grammar, enumerator and solver packages do not
depend on any concrete task implementation.
*/

package interfaces

import (
	"strings"

	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/semantics"
	"github.com/kleascm/relish/pkg/value"
)

// Example is one concrete assignment to a task's variables
type Example []value.Value

// String returns the canonical serialization of the example
func (e Example) String() string {
	return value.ListString(e)
}

// Lists returns the list-typed components in order
func (e Example) Lists() []value.Value {
	var result []value.Value
	for _, v := range e {
		if v.Type() == value.TypeList {
			result = append(result, v)
		}
	}
	return result
}

// Counterexample is a pair of examples the target separates but the current
// candidates do not
type Counterexample struct {
	A Example
	B Example
}

// String returns a readable form of the pair
func (c Counterexample) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(c.A.String())
	sb.WriteString(", ")
	sb.WriteString(c.B.String())
	sb.WriteString(")")
	return sb.String()
}

// ExtraSemantics injects an additional rule into a grammar before search.
// Empty symbol names default to the symbol for the corresponding type.
type ExtraSemantics struct {
	Semantics semantics.Semantics
	Output    string   // Symbol the rule is added to
	Inputs    []string // Symbols of the rule parameters
}

// Task is the oracle consulted by solvers
type Task interface {
	// Verify checks candidates against the whole example space and returns a
	// distinguishing pair, or nil when the candidates are sufficient.
	Verify(candidates []*program.Program) (*Counterexample, error)
	// Evaluate reports whether the candidates are consistent with one pair.
	Evaluate(candidates []*program.Program, ex Counterexample) bool
	// Execute runs a candidate on the program-facing parts of one example.
	Execute(p *program.Program, ex Example) []value.Value
	// ExtraSemantics returns the task specific grammar extensions.
	ExtraSemantics() []ExtraSemantics
}

// Verifier accepts or rejects enumerated start-symbol programs
type Verifier interface {
	Verify(p *program.Program) bool
}

// VerifierFunc adapts a function to the Verifier interface
type VerifierFunc func(p *program.Program) bool

// Verify implements Verifier
func (f VerifierFunc) Verify(p *program.Program) bool { return f(p) }

// AcceptAll is the Verifier that accepts every program
type AcceptAll struct{}

// Verify implements Verifier
func (AcceptAll) Verify(*program.Program) bool { return true }
