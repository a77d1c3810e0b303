/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: automaton.go
Description: Finite tree automata over program outputs. States are grouped in cells keyed
by (size, symbol) and deduplicated by their output vector; edges record the rule that
produced a state from child states. Automata over several inputs are built as products
of single-input automata.
*/

package fta

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/grammar"
	"github.com/kleascm/relish/pkg/monitoring"
	"github.com/kleascm/relish/pkg/semantics"
	"github.com/kleascm/relish/pkg/value"
)

// Node is an automaton state
type Node struct {
	Symbol  int           // Grammar symbol id
	Size    int           // Size of the programs it accepts
	Outputs []value.Value // One output per automaton input
	Edges   []Edge

	tag int // Liveness mark, then memoized minimal size
}

// Edge derives a node from child nodes through a rule semantics
type Edge struct {
	Semantics semantics.Semantics
	Children  []int // Node ids
}

type cellKey struct {
	size   int
	symbol int
}

// Automaton owns its nodes in an arena addressed by node id.
// Removed nodes stay in the arena but are no longer referenced by any cell.
type Automaton struct {
	Grammar *grammar.Grammar
	Inputs  []value.Value
	Limit   int
	Nodes   []Node
	Finals  []int // Accepting nodes, in construction order

	cells  map[cellKey][]int
	config *config.Config
}

func newAutomaton(g *grammar.Grammar, inputs []value.Value, limit int, cfg *config.Config) *Automaton {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Automaton{
		Grammar: g,
		Inputs:  inputs,
		Limit:   limit,
		cells:   make(map[cellKey][]int),
		config:  cfg,
	}
}

// Cell returns the node ids of a (size, symbol) cell in construction order
func (a *Automaton) Cell(size, symbol int) []int {
	return a.cells[cellKey{size, symbol}]
}

// NodeCount returns the number of live nodes
func (a *Automaton) NodeCount() int {
	n := 0
	for _, c := range a.cells {
		n += len(c)
	}
	return n
}

// Node returns the node with the given id
func (a *Automaton) Node(id int) *Node {
	return &a.Nodes[id]
}

// cellBuilder collects the nodes of one cell in insertion order
type cellBuilder struct {
	ids   []int
	index map[string]int
}

func (a *Automaton) addNode(b *cellBuilder, key string, n Node) int {
	if key != "" {
		if id, ok := b.index[key]; ok {
			a.Nodes[id].Edges = append(a.Nodes[id].Edges, n.Edges...)
			return id
		}
	}
	id := len(a.Nodes)
	a.Nodes = append(a.Nodes, n)
	b.ids = append(b.ids, id)
	if key != "" {
		b.index[key] = id
	}
	return id
}

// schemes calls fn for every assignment of child nodes to the parameters of rule
// producing a node of the given size.
func (a *Automaton) schemes(rule *grammar.Rule, size int, fn func(children []int)) {
	pools := make([][]int, len(rule.Params))
	for i, p := range rule.Params {
		for j := 1; j < size; j++ {
			if len(a.cells[cellKey{j, p}]) > 0 {
				pools[i] = append(pools[i], j)
			}
		}
	}
	for _, split := range grammar.SplitSize(size-1, pools) {
		lists := make([][]int, len(split))
		for i, sz := range split {
			lists[i] = a.cells[cellKey{sz, rule.Params[i]}]
		}
		children := make([]int, len(lists))
		var walk func(pos int)
		walk = func(pos int) {
			if pos == len(lists) {
				cp := make([]int, len(children))
				copy(cp, children)
				fn(cp)
				return
			}
			for _, id := range lists[pos] {
				children[pos] = id
				walk(pos + 1)
			}
		}
		walk(0)
	}
}

func (a *Automaton) childOutputs(children []int, input int) []value.Value {
	args := make([]value.Value, len(children))
	for i, c := range children {
		args[i] = a.Nodes[c].Outputs[input]
	}
	return args
}

// Construct builds the automaton of all programs up to size limit over one input
func Construct(g *grammar.Grammar, limit int, input value.Value, cfg *config.Config) *Automaton {
	g.MustValidate()
	started := time.Now()
	a := newAutomaton(g, []value.Value{input}, limit, cfg)
	env := semantics.NewEnv(a.config, a.Inputs)
	fresh := 0

	for size := 1; size <= limit; size++ {
		for _, nt := range g.Symbols {
			b := &cellBuilder{index: make(map[string]int)}
			for _, rule := range nt.Rules {
				a.schemes(rule, size, func(children []int) {
					args := a.childOutputs(children, 0)
					var out value.Value
					var key string
					if nt.Type == value.TypeFunc {
						out = semantics.Curry(rule.Semantics, args, env)
						fresh++
						key = "#" + strconv.Itoa(fresh)
					} else {
						out = rule.Semantics.Run(args, env)
						key = out.String()
					}
					a.addNode(b, key, Node{
						Symbol:  nt.ID,
						Size:    size,
						Outputs: []value.Value{out},
						Edges:   []Edge{{Semantics: rule.Semantics, Children: children}},
					})
				})
			}
			if len(b.ids) > 0 {
				a.cells[cellKey{size, nt.ID}] = b.ids
			}
		}
	}
	a.finish()
	monitoring.RecordAutomaton(monitoring.StageConstruct, a.NodeCount(), time.Since(started))
	return a
}

// ConstructAll builds the product automaton over several inputs
func ConstructAll(g *grammar.Grammar, limit int, inputs []value.Value, cfg *config.Config) *Automaton {
	if len(inputs) == 0 {
		panic("fta: ConstructAll needs at least one input")
	}
	res := Construct(g, limit, inputs[0], cfg)
	for _, inp := range inputs[1:] {
		res = Merge(res, Construct(g, limit, inp, cfg), limit)
	}
	return res
}

// Merge builds the product of l and r over the concatenation of their inputs.
// A state is admitted only when its outputs over l's inputs label a state of l and
// its outputs over r's inputs label a state of r in the same cell.
func Merge(l, r *Automaton, limit int) *Automaton {
	if l.Grammar != r.Grammar {
		panic("fta: merging automata of different grammars")
	}
	started := time.Now()
	g := l.Grammar
	inputs := make([]value.Value, 0, len(l.Inputs)+len(r.Inputs))
	inputs = append(inputs, l.Inputs...)
	inputs = append(inputs, r.Inputs...)
	a := newAutomaton(g, inputs, limit, l.config)
	split := len(l.Inputs)

	envs := make([]*semantics.Env, len(inputs))
	for i, inp := range inputs {
		envs[i] = semantics.NewEnv(a.config, []value.Value{inp})
	}

	for size := 1; size <= limit; size++ {
		for _, nt := range g.Symbols {
			key := cellKey{size, nt.ID}
			lCell, rCell := l.cells[key], r.cells[key]
			if len(lCell) == 0 || len(rCell) == 0 {
				continue
			}
			lValid := l.outputSet(lCell)
			rValid := r.outputSet(rCell)

			b := &cellBuilder{index: make(map[string]int)}
			for _, rule := range nt.Rules {
				a.schemes(rule, size, func(children []int) {
					outputs := make([]value.Value, len(inputs))
					if nt.Type == value.TypeFunc {
						for i := range inputs {
							outputs[i] = semantics.Curry(rule.Semantics, a.childOutputs(children, i), envs[i])
						}
						a.addNode(b, "", Node{
							Symbol:  nt.ID,
							Size:    size,
							Outputs: outputs,
							Edges:   []Edge{{Semantics: rule.Semantics, Children: children}},
						})
						return
					}
					for i := range inputs {
						outputs[i] = rule.Semantics.Run(a.childOutputs(children, i), envs[i])
					}
					if _, ok := lValid[value.ListString(outputs[:split])]; !ok {
						return
					}
					if _, ok := rValid[value.ListString(outputs[split:])]; !ok {
						return
					}
					a.addNode(b, value.ListString(outputs), Node{
						Symbol:  nt.ID,
						Size:    size,
						Outputs: outputs,
						Edges:   []Edge{{Semantics: rule.Semantics, Children: children}},
					})
				})
			}
			if len(b.ids) > 0 {
				a.cells[key] = b.ids
			}
		}
	}
	a.finish()
	monitoring.RecordAutomaton(monitoring.StageMerge, a.NodeCount(), time.Since(started))
	return a
}

func (a *Automaton) outputSet(cell []int) map[string]struct{} {
	set := make(map[string]struct{}, len(cell))
	for _, id := range cell {
		set[value.ListString(a.Nodes[id].Outputs)] = struct{}{}
	}
	return set
}

// finish collects the accepting nodes and prunes useless states
func (a *Automaton) finish() {
	a.Finals = a.Finals[:0]
	for size := 1; size <= a.Limit; size++ {
		a.Finals = append(a.Finals, a.cells[cellKey{size, a.Grammar.Start}]...)
	}
	a.RemoveUseless()
}

// RemoveUseless drops every node not reachable from an accepting node
func (a *Automaton) RemoveUseless() {
	for i := range a.Nodes {
		a.Nodes[i].tag = 0
	}
	queue := make([]int, 0, len(a.Finals))
	for _, id := range a.Finals {
		if a.Nodes[id].tag == 0 {
			a.Nodes[id].tag = 1
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range a.Nodes[id].Edges {
			for _, c := range e.Children {
				if a.Nodes[c].tag == 0 {
					a.Nodes[c].tag = 1
					queue = append(queue, c)
				}
			}
		}
	}
	for key, cell := range a.cells {
		live := cell[:0]
		for _, id := range cell {
			if a.Nodes[id].tag == 1 {
				live = append(live, id)
			}
		}
		if len(live) == 0 {
			delete(a.cells, key)
		} else {
			a.cells[key] = live
		}
	}
	for i := range a.Nodes {
		a.Nodes[i].tag = 0
	}
}

// String summarizes the automaton
func (a *Automaton) String() string {
	return fmt.Sprintf("FTA{inputs=%d limit=%d nodes=%d finals=%d}", len(a.Inputs), a.Limit, a.NodeCount(), len(a.Finals))
}
