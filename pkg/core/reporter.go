/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter interface and implementations for solver telemetry. Reporters are
notified of state changes, candidates, counterexamples and results of the refinement loop.
*/

package core

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/relish/pkg/interfaces"
	"github.com/kleascm/relish/pkg/monitoring"
	"github.com/kleascm/relish/pkg/program"
)

// Reporter defines the hooks called by a Solver
type Reporter interface {
	// OnStateChange is called on every transition of the refinement loop.
	OnStateChange(from, to SolverState)
	// OnCandidate is called before a decomposed candidate is verified.
	OnCandidate(round int, candidate *program.Program, programs []*program.Program)
	// OnCounterexample is called for every counterexample returned by the task.
	OnCounterexample(ex *interfaces.Counterexample)
	// OnSizeIncrease is called after the size limit was raised.
	OnSizeIncrease(limit int)
	// OnResult is called once when the run succeeds.
	OnResult(result *Result)
	// OnFailure is called once when the run stops with an error.
	OnFailure(err error, elapsed time.Duration)
}

// LoggerReporter logs solver events
type LoggerReporter struct {
	logger  *logrus.Logger
	verbose bool
}

// NewLoggerReporter creates a new LoggerReporter. Verbose reporters log every
// candidate and counterexample at info level.
func NewLoggerReporter(logger *logrus.Logger, verbose bool) *LoggerReporter {
	return &LoggerReporter{logger: logger, verbose: verbose}
}

// OnStateChange logs transitions at trace level
func (r *LoggerReporter) OnStateChange(from, to SolverState) {
	r.logger.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Trace("Solver state changed")
}

// OnCandidate logs the candidate of a round
func (r *LoggerReporter) OnCandidate(round int, candidate *program.Program, programs []*program.Program) {
	entry := r.logger.WithFields(logrus.Fields{
		"round":     round,
		"candidate": candidate.String(),
		"programs":  program.Strings(programs),
	})
	if r.verbose {
		entry.Info("Candidate extracted")
	} else {
		entry.Debug("Candidate extracted")
	}
}

// OnCounterexample logs a new counterexample
func (r *LoggerReporter) OnCounterexample(ex *interfaces.Counterexample) {
	entry := r.logger.WithField("counterexample", ex.String())
	if r.verbose {
		entry.Info("Counterexample found")
	} else {
		entry.Debug("Counterexample found")
	}
}

// OnSizeIncrease logs a raised size limit
func (r *LoggerReporter) OnSizeIncrease(limit int) {
	r.logger.WithField("limit", limit).Info("Size limit increased")
}

// OnResult logs the final solution
func (r *LoggerReporter) OnResult(result *Result) {
	r.logger.WithFields(logrus.Fields{
		"run_id":          result.RunID.String(),
		"solution":        program.Strings(result.Programs),
		"rounds":          result.Stats.Rounds,
		"counterexamples": len(result.Counterexamples),
		"duration":        result.Duration,
	}).Info("Synthesis finished")
}

// OnFailure logs the error that stopped the run
func (r *LoggerReporter) OnFailure(err error, elapsed time.Duration) {
	r.logger.WithError(err).WithField("duration", elapsed).Error("Synthesis failed")
}

// MetricsReporter exports solver events to Prometheus
type MetricsReporter struct{}

// NewMetricsReporter creates a new MetricsReporter
func NewMetricsReporter() *MetricsReporter {
	return &MetricsReporter{}
}

// OnStateChange is a no-op
func (r *MetricsReporter) OnStateChange(from, to SolverState) {}

// OnCandidate counts a refinement round
func (r *MetricsReporter) OnCandidate(round int, candidate *program.Program, programs []*program.Program) {
	monitoring.RecordRound()
}

// OnCounterexample counts a counterexample
func (r *MetricsReporter) OnCounterexample(ex *interfaces.Counterexample) {
	monitoring.RecordCounterexample()
}

// OnSizeIncrease publishes the new limit
func (r *MetricsReporter) OnSizeIncrease(limit int) {
	monitoring.SetSizeLimit(limit)
}

// OnResult records the run outcome
func (r *MetricsReporter) OnResult(result *Result) {
	monitoring.RecordResult("found", result.Duration)
}

// OnFailure records the failure outcome
func (r *MetricsReporter) OnFailure(err error, elapsed time.Duration) {
	outcome := "error"
	switch {
	case errors.Is(err, ErrSizeLimitExceeded):
		outcome = "size_limit"
	case errors.Is(err, ErrInconsistentCandidate):
		outcome = "inconsistent"
	}
	monitoring.RecordResult(outcome, elapsed)
}
