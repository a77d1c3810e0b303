/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: enumerator.go
Description: Bottom-up, size-indexed program enumeration. Programs of each symbol are
stored per size; a program of size n is assembled from a rule and sub-programs whose
sizes partition n-1. The observational-equivalence variant keeps one program per
distinct output vector on a sample of inputs.
*/

package enumerator

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/grammar"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/monitoring"
	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/value"
)

// ErrSearchExhausted is returned when the size upper bound is passed without a result
var ErrSearchExhausted = errors.New("search exhausted")

// Option configures an enumerator
type Option func(*options)

type options struct {
	verifier       interfaces.Verifier
	sizeUpperBound int
	logger         *logrus.Logger
	config         *config.Config
}

// WithVerifier sets the verifier applied to start-symbol programs
func WithVerifier(v interfaces.Verifier) Option {
	return func(o *options) { o.verifier = v }
}

// WithSizeUpperBound stops the search after programs of size n. 0 means unbounded.
func WithSizeUpperBound(n int) Option {
	return func(o *options) { o.sizeUpperBound = n }
}

// WithLogger sets the logger
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConfig sets the configuration used to run programs
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.config = cfg }
}

func buildOptions(opts []Option) options {
	o := options{verifier: interfaces.AcceptAll{}, logger: logrus.New(), config: config.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// storage holds the programs of every symbol indexed by size. Index 0 is unused.
type storage [][][]*program.Program

func newStorage(g *grammar.Grammar) storage {
	s := make(storage, len(g.Symbols))
	for i := range s {
		s[i] = [][]*program.Program{nil}
	}
	return s
}

// candidates calls emit for every program of the given rule and size, in rule,
// partition and cross-product order.
func (s storage) candidates(rule *grammar.Rule, size int, emit func(*program.Program) bool) bool {
	pools := make([][]int, len(rule.Params))
	for i, p := range rule.Params {
		for j := 1; j < size; j++ {
			if len(s[p][j]) > 0 {
				pools[i] = append(pools[i], j)
			}
		}
	}
	for _, split := range grammar.SplitSize(size-1, pools) {
		lists := make([][]*program.Program, len(split))
		for i, sz := range split {
			lists[i] = s[rule.Params[i]][sz]
		}
		sub := make([]*program.Program, len(lists))
		var walk func(pos int) bool
		walk = func(pos int) bool {
			if pos == len(lists) {
				cp := make([]*program.Program, len(sub))
				copy(cp, sub)
				return emit(&program.Program{Semantics: rule.Semantics, Sub: cp})
			}
			for _, p := range lists[pos] {
				sub[pos] = p
				if !walk(pos + 1) {
					return false
				}
			}
			return true
		}
		if !walk(0) {
			return false
		}
	}
	return true
}

// Enumerator lists programs of the start symbol in order of size
type Enumerator struct {
	grammar *grammar.Grammar
	options
}

// New creates an exhaustive enumerator. The grammar must not change afterwards.
func New(g *grammar.Grammar, opts ...Option) *Enumerator {
	g.MustValidate()
	return &Enumerator{grammar: g, options: buildOptions(opts)}
}

// Enumerate returns up to limit verified start-symbol programs in size order.
// Without a size upper bound it does not return until limit programs are found.
func (e *Enumerator) Enumerate(limit int) []*program.Program {
	var result []*program.Program
	if limit <= 0 {
		return result
	}
	s := newStorage(e.grammar)
	start := e.grammar.Start
	built := 0
	defer func() { monitoring.RecordEnumerated("exhaustive", built) }()

	for size := 1; e.sizeUpperBound == 0 || size <= e.sizeUpperBound; size++ {
		for _, nt := range e.grammar.Symbols {
			s[nt.ID] = append(s[nt.ID], nil)
			for _, rule := range nt.Rules {
				done := !s.candidates(rule, size, func(p *program.Program) bool {
					built++
					s[nt.ID][size] = append(s[nt.ID][size], p)
					if nt.ID == start && e.verifier.Verify(p) {
						result = append(result, p)
						return len(result) < limit
					}
					return true
				})
				if done {
					e.logger.WithFields(logrus.Fields{"size": size, "results": len(result)}).Debug("Enumeration limit reached")
					return result
				}
			}
		}
		e.logger.WithFields(logrus.Fields{"size": size, "programs": built, "results": len(result)}).Debug("Enumerated size")
	}
	return result
}

// OEEnumerator enumerates modulo observational equivalence on sample inputs
type OEEnumerator struct {
	grammar *grammar.Grammar
	inputs  [][]value.Value
	options

	features map[string]struct{}
	pruned   int
}

// NewOE creates an observational-equivalence enumerator. Each input is the
// argument list of one program run.
func NewOE(g *grammar.Grammar, v interfaces.Verifier, inputs [][]value.Value, opts ...Option) *OEEnumerator {
	g.MustValidate()
	o := buildOptions(opts)
	if v != nil {
		o.verifier = v
	}
	return &OEEnumerator{grammar: g, inputs: inputs, options: o, features: make(map[string]struct{})}
}

// Pruned returns the number of programs dropped as equivalent by the last search
func (e *OEEnumerator) Pruned() int { return e.pruned }

// Feature returns the equivalence key of p as a program of nt
func (e *OEEnumerator) Feature(p *program.Program, nt *grammar.NonTerminal) string {
	outputs := make([]value.Value, len(e.inputs))
	for i, inp := range e.inputs {
		outputs[i] = p.Run(inp, e.config)
	}
	return nt.Name + "@" + value.ListString(outputs)
}

func (e *OEEnumerator) admit(p *program.Program, nt *grammar.NonTerminal) bool {
	if nt.Type == value.TypeFunc {
		return true
	}
	key := e.Feature(p, nt)
	if _, seen := e.features[key]; seen {
		e.pruned++
		return false
	}
	e.features[key] = struct{}{}
	return true
}

// Synthesize returns the first verified start-symbol program. Each call starts a
// fresh search. Without a size upper bound it does not return when no program of
// the grammar is accepted.
func (e *OEEnumerator) Synthesize() (*program.Program, error) {
	e.features = make(map[string]struct{})
	e.pruned = 0
	s := newStorage(e.grammar)
	start := e.grammar.Start
	var found *program.Program
	built := 0
	defer func() {
		monitoring.RecordEnumerated("observational", built)
		monitoring.RecordPruned(e.pruned)
	}()

	for size := 1; e.sizeUpperBound == 0 || size <= e.sizeUpperBound; size++ {
		for _, nt := range e.grammar.Symbols {
			s[nt.ID] = append(s[nt.ID], nil)
			for _, rule := range nt.Rules {
				s.candidates(rule, size, func(p *program.Program) bool {
					built++
					if !e.admit(p, nt) {
						return true
					}
					s[nt.ID][size] = append(s[nt.ID][size], p)
					if nt.ID == start && e.verifier.Verify(p) {
						found = p
						return false
					}
					return true
				})
				if found != nil {
					e.logger.WithFields(logrus.Fields{
						"size":    size,
						"program": found.String(),
						"pruned":  e.pruned,
					}).Debug("Observational enumeration found program")
					return found, nil
				}
			}
		}
		e.logger.WithFields(logrus.Fields{"size": size, "programs": built, "pruned": e.pruned}).Debug("Enumerated size")
	}
	return nil, fmt.Errorf("%w: no program up to size %d", ErrSearchExhausted, e.sizeUpperBound)
}
