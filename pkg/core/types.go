/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Core types for the Relish solver. Defines the refinement loop states, the
paired automata kept per side of the counterexamples, solver statistics and the result
returned by a synthesis run.
*/

package core

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kleascm/relish/pkg/fta"
	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/monitoring"
	"github.com/kleascm/relish/pkg/program"
)

var (
	// ErrSizeLimitExceeded is returned when no candidate exists below the configured maximum size
	ErrSizeLimitExceeded = errors.New("size limit exceeded")
	// ErrInconsistentCandidate is returned when an extracted candidate fails a known counterexample
	ErrInconsistentCandidate = errors.New("candidate inconsistent with counterexample")
)

// SolverState is the position of a solver in the refinement loop
type SolverState int

const (
	StateInit SolverState = iota
	StateHasExample
	StateExtracting
	StateFound
	StateNotFound
	StateSizeIncrease
	StateVerifying
	StateDone
)

// String returns the state name
func (s SolverState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateHasExample:
		return "has_example"
	case StateExtracting:
		return "extracting"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not_found"
	case StateSizeIncrease:
		return "size_increase"
	case StateVerifying:
		return "verifying"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// HFTA pairs the automata built over the first and second examples of every
// counterexample seen so far
type HFTA struct {
	L *fta.Automaton
	R *fta.Automaton
}

// SolverStats tracks the progress of one synthesis run
type SolverStats struct {
	Rounds          int       `json:"rounds"`          // Candidates sent to the oracle
	Counterexamples int       `json:"counterexamples"` // Counterexamples received
	SizeIncreases   int       `json:"size_increases"`  // Times the size limit was raised
	Extractions     int       `json:"extractions"`     // Product automata built for extraction
	StartTime       time.Time `json:"start_time"`      // When the run started
	LastRoundTime   time.Time `json:"last_round_time"` // When the last candidate was verified
}

// Result describes a finished synthesis run
type Result struct {
	RunID           uuid.UUID                   `json:"run_id"`
	Programs        []*program.Program          `json:"-"`
	Solution        []string                    `json:"solution"`   // Canonical strings of Programs
	Candidate       string                      `json:"candidate"`  // Extracted program before decomposition
	SizeLimit       int                         `json:"size_limit"` // Limit at which the solution was found
	Counterexamples []interfaces.Counterexample `json:"-"`
	Examples        []string                    `json:"counterexamples"`
	Stats           SolverStats                 `json:"stats"`
	Duration        time.Duration               `json:"duration"`
	Resources       monitoring.ResourceMetrics  `json:"resources"`
}

// Size returns the total size of the solution programs
func (r *Result) Size() int {
	n := 0
	for _, p := range r.Programs {
		n += p.Size()
	}
	return n
}
