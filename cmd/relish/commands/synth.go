/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: synth.go
Description: Synth command. Builds one solver per selected benchmark, runs them on the
worker pool and prints the synthesized lifting functions. Optionally writes JSON reports
and serves Prometheus metrics while running.
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/core"
	"github.com/kleascm/relish/pkg/grammar"
	"github.com/kleascm/relish/pkg/lifting"
	"github.com/kleascm/relish/pkg/logging"
	"github.com/kleascm/relish/pkg/reporting"
	"github.com/kleascm/relish/pkg/utils"
)

// RunSynth executes the synth command
func RunSynth(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	logger, err := SetupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.GetLogger()

	names, err := selectBenchmarks(args)
	if err != nil {
		return err
	}
	var kind lifting.Kind
	if k := viper.GetString("synth.kind"); k != "" {
		if kind, err = lifting.ParseKind(k); err != nil {
			return err
		}
	}
	base, err := loadGrammar(viper.GetString("synth.grammar"))
	if err != nil {
		return err
	}

	if addr := viper.GetString("synth.metrics_addr"); addr != "" {
		server := serveMetrics(addr, log)
		defer server.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"benchmarks": len(names),
		"grammar":    viper.GetString("synth.grammar"),
		"examples":   cfg.Examples.Count,
		"size_limit": cfg.InitialSizeLimit,
	}).Info("Starting synthesis")

	jobs := buildJobs(names, kind, base, cfg, logger)
	started := time.Now()
	results := core.RunBatch(ctx, jobs, viper.GetInt("synth.workers"), log)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("%-12s FAILED  %v\n", res.Name, res.Err)
			continue
		}
		logger.LogResult(res.Name, res.Result.Solution, res.Result.Stats.Rounds, res.Duration)
		fmt.Printf("%-12s %-8s %s\n", res.Name, res.Duration.Round(time.Millisecond), formatSolution(res.Result.Solution))
	}

	if dir := viper.GetString("synth.report_dir"); dir != "" {
		for _, res := range results {
			path, err := utils.WriteReport(dir, res.Name, Version, res)
			if err != nil {
				return fmt.Errorf("failed to write report for %s: %w", res.Name, err)
			}
			log.WithFields(logrus.Fields{"benchmark": res.Name, "path": path}).Debug("Report written")
		}
	}

	if dir := viper.GetString("synth.dashboard_dir"); dir != "" {
		data := reporting.NewDashboardData("Relish synthesis", Version, results)
		if _, err := reporting.NewDashboardGenerator(dir, log).GenerateDashboard(data); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{
		"benchmarks": len(results),
		"failed":     failed,
		"duration":   time.Since(started),
	}).Info("Synthesis batch finished")

	if failed > 0 {
		return fmt.Errorf("%d of %d benchmarks failed", failed, len(results))
	}
	return nil
}

// selectBenchmarks resolves the benchmark arguments. No arguments or "all"
// select the whole catalogue.
func selectBenchmarks(args []string) ([]string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "all") {
		return lifting.Names(), nil
	}
	for _, name := range args {
		if _, err := lifting.Lookup(name); err != nil {
			return nil, err
		}
	}
	return args, nil
}

// buildJobs creates one job per benchmark. The base grammar is only read by the jobs.
func buildJobs(names []string, kind lifting.Kind, base *grammar.Grammar, cfg *config.Config, logger *logging.Logger) []core.Job {
	log := logger.GetLogger()
	jobs := make([]core.Job, len(names))
	for i, name := range names {
		jobs[i] = core.Job{
			Name: name,
			Build: func() (*core.Solver, error) {
				bench, err := lifting.Lookup(name)
				if err != nil {
					return nil, err
				}
				task, err := bench.NewTask(cfg, kind)
				if err != nil {
					return nil, err
				}
				task.SetLogger(log)
				solver := core.NewSolver(task, core.BuildDSL(task, base), cfg)
				solver.SetLogger(log)
				solver.AddReporter(newRunReporter(logger, cfg.Verbose))
				solver.AddReporter(core.NewMetricsReporter())
				return solver, nil
			},
		}
	}
	return jobs
}

// serveMetrics exposes the Prometheus registry on addr until the server is closed
func serveMetrics(addr string, log *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server failed")
		}
	}()
	log.WithField("addr", addr).Info("Serving metrics")
	return server
}

func formatSolution(solution []string) string {
	if len(solution) == 0 {
		return "(no auxiliary function needed)"
	}
	return strings.Join(solution, "; ")
}
