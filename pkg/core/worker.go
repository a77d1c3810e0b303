/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: worker.go
Description: Worker pool running independent synthesis jobs in parallel. Every job owns
its solver, grammar and task, so solvers never share state across workers. Results are
returned in job order.
*/

package core

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job describes one synthesis run. Build is called on the worker goroutine.
type Job struct {
	Name  string
	Build func() (*Solver, error)
}

// JobResult is the outcome of one job
type JobResult struct {
	Name     string        `json:"name"`
	Worker   int           `json:"worker"`
	Result   *Result       `json:"result,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Worker runs jobs taken from a shared queue
type Worker struct {
	ID     int
	logger *logrus.Logger

	completed int
	failed    int
}

// NewWorker creates a new worker instance
func NewWorker(id int, logger *logrus.Logger) *Worker {
	return &Worker{ID: id, logger: logger}
}

// Run executes a single job
func (w *Worker) Run(job Job) JobResult {
	started := time.Now()
	res := JobResult{Name: job.Name, Worker: w.ID}

	solver, err := job.Build()
	if err == nil {
		res.Result, err = solver.Synthesize()
	}
	res.Duration = time.Since(started)
	if err != nil {
		w.failed++
		res.Err = fmt.Errorf("job %s: %w", job.Name, err)
		res.Error = res.Err.Error()
		w.logger.WithFields(logrus.Fields{"worker": w.ID, "job": job.Name}).WithError(err).Warn("Job failed")
		return res
	}
	w.completed++
	w.logger.WithFields(logrus.Fields{
		"worker":   w.ID,
		"job":      job.Name,
		"duration": res.Duration,
	}).Debug("Job finished")
	return res
}

// Stats returns the number of completed and failed jobs
func (w *Worker) Stats() (completed, failed int) {
	return w.completed, w.failed
}

// RunBatch runs jobs on up to workers goroutines. workers <= 0 uses GOMAXPROCS.
// Jobs not started before ctx is cancelled report ctx.Err().
func RunBatch(ctx context.Context, jobs []Job, workers int, logger *logrus.Logger) []JobResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	results := make([]JobResult, len(jobs))
	queue := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		w := NewWorker(i, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				results[idx] = w.Run(jobs[idx])
			}
		}()
	}

	next := 0
dispatch:
	for ; next < len(jobs); next++ {
		select {
		case queue <- next:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(queue)
	wg.Wait()

	for i := next; i < len(jobs); i++ {
		results[i] = JobResult{Name: jobs[i].Name, Worker: -1, Err: ctx.Err(), Error: ctx.Err().Error()}
	}
	return results
}
