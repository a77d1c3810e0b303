/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extract.go
Description: Minimal program extraction from tree automata and the block validity
predicate used to select accepting states of a product automaton.
*/

package fta

import (
	"fmt"

	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/value"
)

const unknownSize = 0

// Validity checks output vectors of a product automaton built over two sides of
// counterexample pairs. Each side holds one block of K outputs per pair.
type Validity struct {
	K int
}

// Valid reports whether every left block differs from the matching right block
func (v Validity) Valid(outputs []value.Value) bool {
	if v.K <= 0 || len(outputs)%(2*v.K) != 0 {
		panic(fmt.Sprintf("fta: %d outputs cannot be split into blocks of %d", len(outputs), v.K))
	}
	half := len(outputs) / 2
	for start := 0; start < half; start += v.K {
		if value.EqualLists(outputs[start:start+v.K], outputs[half+start:half+start+v.K]) {
			return false
		}
	}
	return true
}

// MinimalSize returns the size of the smallest program accepted at node id
func (a *Automaton) MinimalSize(id int) int {
	n := &a.Nodes[id]
	if n.tag != unknownSize {
		return n.tag
	}
	best := -1
	for _, e := range n.Edges {
		size := 1
		for _, c := range e.Children {
			size += a.MinimalSize(c)
		}
		if best < 0 || size < best {
			best = size
		}
	}
	n.tag = best
	return best
}

// MinimalProgram rebuilds the smallest program accepted at node id.
// Ties are broken by the first edge.
func (a *Automaton) MinimalProgram(id int) *program.Program {
	target := a.MinimalSize(id)
	for _, e := range a.Nodes[id].Edges {
		size := 1
		for _, c := range e.Children {
			size += a.MinimalSize(c)
		}
		if size != target {
			continue
		}
		sub := make([]*program.Program, len(e.Children))
		for i, c := range e.Children {
			sub[i] = a.MinimalProgram(c)
		}
		return program.New(e.Semantics, sub...)
	}
	panic(fmt.Sprintf("fta: node %d has no edge of size %d", id, target))
}

// Extract returns the smallest program among the accepting nodes whose outputs
// satisfy valid. The first minimal node wins. A nil valid accepts every node.
func (a *Automaton) Extract(valid func(outputs []value.Value) bool) (*program.Program, bool) {
	best, bestSize := -1, 0
	for _, id := range a.Finals {
		if valid != nil && !valid(a.Nodes[id].Outputs) {
			continue
		}
		if size := a.MinimalSize(id); best < 0 || size < bestSize {
			best, bestSize = id, size
		}
	}
	if best < 0 {
		return nil, false
	}
	return a.MinimalProgram(best), true
}
