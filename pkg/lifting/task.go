/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: task.go
Description: Reference lifting oracle. A task holds a target program over lists and a
sampled example space; candidate programs are sufficient when the target value of every
recombined example is determined by the candidate outputs on its parts.
*/

package lifting

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/value"
)

// Task is a lifting problem over a fixed example space. It implements interfaces.Task.
type Task struct {
	name     string
	kind     Kind
	target   *program.Program
	examples []interfaces.Example
	targets  []value.Value // Target output per example
	extras   []interfaces.ExtraSemantics
	config   *config.Config
	logger   *logrus.Logger

	cache map[string][][]value.Value // Candidate outputs per example, by program string
}

// NewTask creates a task. The target takes the recombined list as Param0.
func NewTask(name string, kind Kind, target *program.Program, examples []interfaces.Example, extras []interfaces.ExtraSemantics, cfg *config.Config) *Task {
	if cfg == nil {
		cfg = config.Default()
	}
	t := &Task{
		name:     name,
		kind:     kind,
		target:   target,
		examples: examples,
		extras:   extras,
		config:   cfg,
		logger:   logrus.New(),
		cache:    make(map[string][][]value.Value),
	}
	t.targets = make([]value.Value, len(examples))
	for i, ex := range examples {
		t.targets[i] = t.targetOutput(ex)
	}
	return t
}

// SetLogger sets the logger used by the task
func (t *Task) SetLogger(logger *logrus.Logger) {
	t.logger = logger
}

// Name returns the task name
func (t *Task) Name() string { return t.name }

// Kind returns the task kind
func (t *Task) Kind() Kind { return t.kind }

// Target returns the target program
func (t *Task) Target() *program.Program { return t.target }

// Examples returns the example space
func (t *Task) Examples() []interfaces.Example { return t.examples }

// CacheSize returns the number of cached candidate evaluations
func (t *Task) CacheSize() int { return len(t.cache) }

// combined recombines the parts of an example into the target input
func (t *Task) combined(ex interfaces.Example) value.Value {
	if t.kind == KindList {
		return value.List(append([]int{ex[0].AsInt()}, ex[1].AsList()...))
	}
	return value.List(append(ex[0].AsList(), ex[1].AsList()...))
}

// parts returns the example components candidates are run on
func (t *Task) parts(ex interfaces.Example) []value.Value {
	if t.kind == KindList {
		return ex[1:]
	}
	return ex
}

// fixed returns the components that must be equal for two examples to be compared
func (t *Task) fixed(ex interfaces.Example) []value.Value {
	if t.kind == KindList {
		return ex[:1]
	}
	return nil
}

func (t *Task) targetOutput(ex interfaces.Example) value.Value {
	return t.run(t.target, t.combined(ex))
}

// run evaluates p on one list. None stays a distinct output, as in the automata.
func (t *Task) run(p *program.Program, input value.Value) value.Value {
	return p.Run([]value.Value{input}, t.config)
}

// Execute runs p on every part of ex
func (t *Task) Execute(p *program.Program, ex interfaces.Example) []value.Value {
	parts := t.parts(ex)
	result := make([]value.Value, len(parts))
	for i, part := range parts {
		result[i] = t.run(p, part)
	}
	return result
}

func (t *Task) outputs(p *program.Program) [][]value.Value {
	key := p.String()
	if cached, ok := t.cache[key]; ok {
		return cached
	}
	result := make([][]value.Value, len(t.examples))
	for i, ex := range t.examples {
		result[i] = t.Execute(p, ex)
	}
	t.cache[key] = result
	return result
}

// Verify returns two examples that agree on every candidate output but not on
// the target, or nil when the candidates determine the target.
func (t *Task) Verify(candidates []*program.Program) (*interfaces.Counterexample, error) {
	outputs := make([][][]value.Value, len(candidates))
	for i, p := range candidates {
		outputs[i] = t.outputs(p)
	}

	groups := make(map[string]int)
	var sb strings.Builder
	for i, ex := range t.examples {
		sb.Reset()
		sb.WriteString(value.ListString(t.fixed(ex)))
		for _, out := range outputs {
			sb.WriteByte('|')
			sb.WriteString(value.ListString(out[i]))
		}
		key := sb.String()
		first, ok := groups[key]
		if !ok {
			groups[key] = i
			continue
		}
		if !t.targets[first].Equal(t.targets[i]) {
			t.logger.WithFields(logrus.Fields{
				"task":       t.name,
				"candidates": program.Strings(candidates),
				"groups":     len(groups),
			}).Debug("Counterexample found")
			return &interfaces.Counterexample{A: t.examples[first], B: ex}, nil
		}
	}
	t.logger.WithFields(logrus.Fields{
		"task":       t.name,
		"candidates": program.Strings(candidates),
		"groups":     len(groups),
	}).Debug("Candidates verified")
	return nil, nil
}

// Evaluate reports whether some candidate separates the pair or the pair has
// equal targets
func (t *Task) Evaluate(candidates []*program.Program, ex interfaces.Counterexample) bool {
	for _, p := range candidates {
		if t.evaluate(p, ex) {
			return true
		}
	}
	return false
}

func (t *Task) evaluate(p *program.Program, ex interfaces.Counterexample) bool {
	if !value.EqualLists(t.fixed(ex.A), t.fixed(ex.B)) {
		return true
	}
	if !value.EqualLists(t.Execute(p, ex.A), t.Execute(p, ex.B)) {
		return true
	}
	return t.targetOutput(ex.A).Equal(t.targetOutput(ex.B))
}

// ExtraSemantics returns the task specific grammar extensions
func (t *Task) ExtraSemantics() []interfaces.ExtraSemantics {
	return t.extras
}
