/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard.go
Description: HTML dashboard for Relish synthesis batches. Summarizes every benchmark of a
run with its solution, refinement statistics and the counterexamples that shaped it,
plus a chart of rounds and wall time per benchmark.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/relish/pkg/core"
)

// DashboardGenerator renders batch results into an HTML page
type DashboardGenerator struct {
	outputDir string
	logger    *logrus.Logger
	templates *template.Template
}

// DashboardData contains all data for dashboard generation
type DashboardData struct {
	Title       string           `json:"title"`
	GeneratedAt time.Time        `json:"generated_at"`
	Version     string           `json:"version"`
	SessionID   string           `json:"session_id"`
	Summary     BatchSummary     `json:"summary"`
	Benchmarks  []BenchmarkEntry `json:"benchmarks"`
	ChartJSON   template.JS      `json:"-"`
}

// BatchSummary aggregates a batch
type BatchSummary struct {
	Total           int           `json:"total"`
	Solved          int           `json:"solved"`
	Failed          int           `json:"failed"`
	Rounds          int           `json:"rounds"`
	Counterexamples int           `json:"counterexamples"`
	TotalTime       time.Duration `json:"total_time"`
	Slowest         string        `json:"slowest"`
}

// BenchmarkEntry is one row of the dashboard
type BenchmarkEntry struct {
	Name            string        `json:"name"`
	Solved          bool          `json:"solved"`
	Error           string        `json:"error,omitempty"`
	Solution        []string      `json:"solution"`
	Candidate       string        `json:"candidate"`
	SizeLimit       int           `json:"size_limit"`
	Rounds          int           `json:"rounds"`
	SizeIncreases   int           `json:"size_increases"`
	Counterexamples []string      `json:"counterexamples"`
	Duration        time.Duration `json:"duration"`
	Worker          int           `json:"worker"`
}

// ChartConfig contains chart configuration
type ChartConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewDashboardGenerator creates a new dashboard generator
func NewDashboardGenerator(outputDir string, logger *logrus.Logger) *DashboardGenerator {
	return &DashboardGenerator{
		outputDir: outputDir,
		logger:    logger,
		templates: template.Must(template.New("dashboard").Funcs(templateFuncs).Parse(dashboardTemplate)),
	}
}

// NewDashboardData builds dashboard data from batch results in job order
func NewDashboardData(title, version string, results []core.JobResult) *DashboardData {
	data := &DashboardData{
		Title:       title,
		GeneratedAt: time.Now(),
		Version:     version,
		SessionID:   uuid.NewString(),
	}

	var slowest time.Duration
	for _, res := range results {
		entry := BenchmarkEntry{
			Name:     res.Name,
			Error:    res.Error,
			Duration: res.Duration,
			Worker:   res.Worker,
		}
		if res.Err == nil && res.Result != nil {
			r := res.Result
			entry.Solved = true
			entry.Solution = r.Solution
			entry.Candidate = r.Candidate
			entry.SizeLimit = r.SizeLimit
			entry.Rounds = r.Stats.Rounds
			entry.SizeIncreases = r.Stats.SizeIncreases
			entry.Counterexamples = r.Examples
			data.Summary.Solved++
			data.Summary.Rounds += r.Stats.Rounds
			data.Summary.Counterexamples += r.Stats.Counterexamples
		} else {
			data.Summary.Failed++
		}
		data.Summary.Total++
		data.Summary.TotalTime += res.Duration
		if res.Duration > slowest {
			slowest = res.Duration
			data.Summary.Slowest = res.Name
		}
		data.Benchmarks = append(data.Benchmarks, entry)
	}
	return data
}

// GenerateDashboard writes index.html and data.json to the output directory
// and returns the path of the page
func (dg *DashboardGenerator) GenerateDashboard(data *DashboardData) (string, error) {
	if err := os.MkdirAll(dg.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	chart, err := json.Marshal(dg.createRoundsChart(data))
	if err != nil {
		return "", fmt.Errorf("failed to marshal chart data: %w", err)
	}
	data.ChartJSON = template.JS(chart)

	outputFile := filepath.Join(dg.outputDir, "index.html")
	file, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := dg.templates.Execute(file, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dashboard data: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dg.outputDir, "data.json"), raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write dashboard data: %w", err)
	}

	dg.logger.WithFields(logrus.Fields{
		"path":       outputFile,
		"benchmarks": data.Summary.Total,
		"solved":     data.Summary.Solved,
	}).Info("Dashboard generated")
	return outputFile, nil
}

// createRoundsChart charts rounds and wall time per benchmark
func (dg *DashboardGenerator) createRoundsChart(data *DashboardData) *ChartConfig {
	labels := make([]string, len(data.Benchmarks))
	rounds := make([]int, len(data.Benchmarks))
	millis := make([]int64, len(data.Benchmarks))
	for i, b := range data.Benchmarks {
		labels[i] = b.Name
		rounds[i] = b.Rounds
		millis[i] = b.Duration.Milliseconds()
	}
	return &ChartConfig{
		Type: "bar",
		Data: map[string]interface{}{
			"labels": labels,
			"datasets": []map[string]interface{}{
				{"label": "Rounds", "data": rounds, "yAxisID": "rounds", "backgroundColor": "#7c3aed"},
				{"label": "Time (ms)", "data": millis, "yAxisID": "time", "backgroundColor": "#10b981"},
			},
		},
	}
}

var templateFuncs = template.FuncMap{
	"duration": func(d time.Duration) string { return d.Round(time.Millisecond).String() },
}
