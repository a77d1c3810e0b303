/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dsl.go
Description: Grammar construction for lifting tasks and decomposition of extracted
candidates into their component programs.
*/

package core

import (
	"github.com/kleascm/relish/pkg/grammar"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/semantics"
	"github.com/kleascm/relish/pkg/value"
)

// StartSymbol is the name of the symbol producing candidate tuples
const StartSymbol = "start"

// BuildDSL derives the search grammar of a task from a base grammar. The base is
// not modified. The start symbol produces a non-empty list of integer programs
// over one list parameter, built as a []/cons spine.
func BuildDSL(task interfaces.Task, base *grammar.Grammar) *grammar.Grammar {
	g := base.Clone()
	g.AddParam(value.TypeList)
	g.Extend(task.ExtraSemantics()...)

	intSymbol := grammar.DefaultSymbolName(value.TypeInt)
	g.AddSymbol(intSymbol, value.TypeInt)
	g.AddSymbol(StartSymbol, value.TypeList)
	g.AddRule(StartSymbol, semantics.MustLookup("[]"), intSymbol)
	g.AddRule(StartSymbol, semantics.MustLookup("cons"), intSymbol, StartSymbol)
	g.SetStart(StartSymbol)
	g.MustValidate()
	return g
}

// Decompose flattens a []/cons spine into its component programs. A candidate
// consisting of a single constant yields no programs.
func Decompose(p *program.Program) []*program.Program {
	var result []*program.Program
	cur := p
	for cur.Semantics.Name() == "cons" {
		result = append(result, cur.Sub[0])
		cur = cur.Sub[1]
	}
	if cur.Semantics.Name() == "[]" {
		result = append(result, cur.Sub[0])
	} else {
		result = append(result, cur)
	}
	if len(result) == 1 && semantics.IsConstant(result[0].Semantics) {
		return nil
	}
	return result
}
