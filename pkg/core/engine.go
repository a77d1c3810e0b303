/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine.go
Description: Counterexample-guided solver. Keeps one product automaton per side of the
accumulated counterexample pairs, extracts the smallest candidate separating every pair,
and asks the task oracle for a new pair until the candidate is accepted. The size limit
grows whenever no candidate exists.
*/

package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/fta"
	"github.com/kleascm/relish/pkg/grammar"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/monitoring"
	"github.com/kleascm/relish/pkg/program"
)

// Solver runs the refinement loop for one task. A Solver is single use and not
// safe for concurrent use.
type Solver struct {
	task    interfaces.Task
	grammar *grammar.Grammar
	config  *config.Config
	logger  *logrus.Logger

	state     SolverState
	limit     int
	k         int // List components per example
	examples  []interfaces.Counterexample
	hfta      *HFTA
	stats     SolverStats
	reporters []Reporter
}

// NewSolver creates a solver searching g, typically built by BuildDSL
func NewSolver(task interfaces.Task, g *grammar.Grammar, cfg *config.Config) *Solver {
	if cfg == nil {
		cfg = config.Default()
	}
	g.MustValidate()
	return &Solver{
		task:    task,
		grammar: g,
		config:  cfg,
		logger:  logrus.New(),
		state:   StateInit,
		limit:   cfg.InitialSizeLimit,
	}
}

// SetLogger sets the logger used by the solver
func (s *Solver) SetLogger(logger *logrus.Logger) {
	s.logger = logger
}

// AddReporter registers a reporter
func (s *Solver) AddReporter(r Reporter) {
	s.reporters = append(s.reporters, r)
}

// State returns the current state of the refinement loop
func (s *Solver) State() SolverState {
	return s.state
}

// Stats returns a copy of the run statistics
func (s *Solver) Stats() SolverStats {
	return s.stats
}

// SizeLimit returns the current automaton size limit
func (s *Solver) SizeLimit() int {
	return s.limit
}

// HFTA returns the automata of the current examples, nil before the first one
func (s *Solver) HFTA() *HFTA {
	return s.hfta
}

func (s *Solver) setState(to SolverState) {
	from := s.state
	s.state = to
	for _, r := range s.reporters {
		r.OnStateChange(from, to)
	}
}

// Synthesize runs the refinement loop. It returns an empty solution when the
// task accepts no programs at all. Without Config.MaxSizeLimit it does not
// return while no program of the grammar satisfies the task.
func (s *Solver) Synthesize() (*Result, error) {
	started := time.Now()
	s.stats.StartTime = started
	result, err := s.run()
	elapsed := time.Since(started)
	if err != nil {
		for _, r := range s.reporters {
			r.OnFailure(err, elapsed)
		}
		return nil, err
	}
	result.Duration = elapsed
	result.Stats = s.stats
	result.Resources = monitoring.Snapshot()
	for _, r := range s.reporters {
		r.OnResult(result)
	}
	return result, nil
}

func (s *Solver) run() (*Result, error) {
	s.setState(StateInit)
	ex, err := s.task.Verify(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to verify empty candidate: %w", err)
	}
	if ex == nil {
		s.setState(StateDone)
		return s.newResult(nil, nil), nil
	}
	s.setState(StateHasExample)
	s.addExample(*ex)

	for {
		s.setState(StateExtracting)
		candidate, ok := s.extract()
		if !ok {
			s.setState(StateNotFound)
			if err := s.increaseSize(); err != nil {
				return nil, err
			}
			continue
		}

		s.setState(StateFound)
		programs := Decompose(candidate)
		for i, known := range s.examples {
			if !s.task.Evaluate(programs, known) {
				return nil, fmt.Errorf("%w: %s fails counterexample %d %s",
					ErrInconsistentCandidate, candidate, i, known)
			}
		}

		s.setState(StateVerifying)
		s.stats.Rounds++
		s.stats.LastRoundTime = time.Now()
		for _, r := range s.reporters {
			r.OnCandidate(s.stats.Rounds, candidate, programs)
		}
		ex, err := s.task.Verify(programs)
		if err != nil {
			return nil, fmt.Errorf("failed to verify candidate %s: %w", candidate, err)
		}
		if ex == nil {
			s.setState(StateDone)
			return s.newResult(candidate, programs), nil
		}
		s.setState(StateHasExample)
		s.addExample(*ex)
	}
}

func (s *Solver) newResult(candidate *program.Program, programs []*program.Program) *Result {
	r := &Result{
		RunID:           uuid.New(),
		Programs:        programs,
		Solution:        make([]string, 0, len(programs)),
		SizeLimit:       s.limit,
		Counterexamples: s.examples,
		Examples:        make([]string, 0, len(s.examples)),
	}
	if candidate != nil {
		r.Candidate = candidate.String()
	}
	for _, p := range programs {
		r.Solution = append(r.Solution, p.String())
	}
	for _, ex := range s.examples {
		r.Examples = append(r.Examples, ex.String())
	}
	return r
}

// addExample records a counterexample and folds its automata into the HFTA
func (s *Solver) addExample(ex interfaces.Counterexample) {
	s.stats.Counterexamples++
	for _, r := range s.reporters {
		r.OnCounterexample(&ex)
	}
	s.examples = append(s.examples, ex)
	s.insertExample(ex)
}

func (s *Solver) insertExample(ex interfaces.Counterexample) {
	a, b := ex.A.Lists(), ex.B.Lists()
	if len(a) != len(b) || len(a) == 0 {
		panic(fmt.Sprintf("core: counterexample %s has unbalanced list components", ex))
	}
	if s.k == 0 {
		s.k = len(a)
	} else if s.k != len(a) {
		panic(fmt.Sprintf("core: counterexample %s has %d list components, expected %d", ex, len(a), s.k))
	}

	next := &HFTA{
		L: fta.ConstructAll(s.grammar, s.limit, a, s.config),
		R: fta.ConstructAll(s.grammar, s.limit, b, s.config),
	}
	if s.hfta == nil {
		s.hfta = next
	} else {
		s.hfta = &HFTA{
			L: fta.Merge(s.hfta.L, next.L, s.limit),
			R: fta.Merge(s.hfta.R, next.R, s.limit),
		}
	}
	s.logger.WithFields(logrus.Fields{
		"examples": len(s.examples),
		"limit":    s.limit,
		"left":     s.hfta.L.NodeCount(),
		"right":    s.hfta.R.NodeCount(),
	}).Debug("Example automata merged")
}

// extract returns the smallest start program separating every counterexample
func (s *Solver) extract() (*program.Program, bool) {
	s.stats.Extractions++
	product := fta.Merge(s.hfta.L, s.hfta.R, s.limit)
	p, ok := product.Extract(fta.Validity{K: s.k}.Valid)
	s.logger.WithFields(logrus.Fields{
		"limit":  s.limit,
		"nodes":  product.NodeCount(),
		"finals": len(product.Finals),
		"found":  ok,
	}).Debug("Extraction finished")
	return p, ok
}

// increaseSize raises the limit and rebuilds the automata from all examples
func (s *Solver) increaseSize() error {
	s.setState(StateSizeIncrease)
	if s.config.MaxSizeLimit > 0 && s.limit >= s.config.MaxSizeLimit {
		return fmt.Errorf("%w: no candidate up to size %d", ErrSizeLimitExceeded, s.limit)
	}
	s.limit++
	s.stats.SizeIncreases++
	for _, r := range s.reporters {
		r.OnSizeIncrease(s.limit)
	}
	s.hfta = nil
	for _, ex := range s.examples {
		s.insertExample(ex)
	}
	return nil
}
