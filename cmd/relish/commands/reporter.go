/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Solver reporter used by the synth command. Round, candidate and size limit
events go through the run logger helpers; the remaining events are logged by the core
logging reporter.
*/

package commands

import (
	"github.com/kleascm/relish/pkg/core"
	"github.com/kleascm/relish/pkg/logging"
	"github.com/kleascm/relish/pkg/program"
)

// runReporter logs solver events of one synthesis job
type runReporter struct {
	*core.LoggerReporter
	logger  *logging.Logger
	verbose bool
}

func newRunReporter(logger *logging.Logger, verbose bool) *runReporter {
	return &runReporter{
		LoggerReporter: core.NewLoggerReporter(logger.GetLogger(), verbose),
		logger:         logger,
		verbose:        verbose,
	}
}

// OnCandidate logs the extracted candidate, and the round when verbose
func (r *runReporter) OnCandidate(round int, candidate *program.Program, programs []*program.Program) {
	r.logger.LogCandidate(candidate.Size(), candidate.String())
	if r.verbose {
		names := make([]string, len(programs))
		for i, p := range programs {
			names[i] = p.String()
		}
		r.logger.LogRound(round, candidate.String(), names)
	}
}

// OnSizeIncrease logs the raised size limit
func (r *runReporter) OnSizeIncrease(limit int) {
	r.logger.LogSizeIncrease(limit)
}
