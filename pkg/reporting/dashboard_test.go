/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard_test.go
Description: Tests for the batch dashboard.
*/

package reporting

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/relish/pkg/core"
)

func sampleResults() []core.JobResult {
	failure := errors.New("job 2nd-min: size limit exceeded")
	return []core.JobResult{
		{
			Name:   "mss",
			Worker: 0,
			Result: &core.Result{
				Solution:  []string{"maximum(scanl(+,Param0))", "sum(Param0)"},
				Candidate: "cons(maximum(scanl(+,Param0)),[](sum(Param0)))",
				SizeLimit: 6,
				Examples:  []string{"([1], [-1])"},
				Stats:     core.SolverStats{Rounds: 4, Counterexamples: 3, SizeIncreases: 2},
			},
			Duration: 2 * time.Second,
		},
		{Name: "sum", Worker: 1, Result: &core.Result{Solution: []string{"sum(Param0)"}, Stats: core.SolverStats{Rounds: 1, Counterexamples: 1}}, Duration: time.Second},
		{Name: "2nd-min", Worker: 1, Err: failure, Error: failure.Error(), Duration: 3 * time.Second},
	}
}

// TestNewDashboardData tests batch aggregation
func TestNewDashboardData(t *testing.T) {
	data := NewDashboardData("Nightly", "1.0.0", sampleResults())
	assert.Equal(t, 3, data.Summary.Total)
	assert.Equal(t, 2, data.Summary.Solved)
	assert.Equal(t, 1, data.Summary.Failed)
	assert.Equal(t, 5, data.Summary.Rounds)
	assert.Equal(t, 4, data.Summary.Counterexamples)
	assert.Equal(t, 6*time.Second, data.Summary.TotalTime)
	assert.Equal(t, "2nd-min", data.Summary.Slowest)

	require.Len(t, data.Benchmarks, 3)
	assert.True(t, data.Benchmarks[0].Solved)
	assert.Equal(t, 2, data.Benchmarks[0].SizeIncreases)
	assert.False(t, data.Benchmarks[2].Solved)
	assert.NotEmpty(t, data.SessionID)
}

// TestGenerateDashboard tests the rendered page
func TestGenerateDashboard(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dashboard")
	logger, hook := test.NewNullLogger()
	dg := NewDashboardGenerator(dir, logger)

	path, err := dg.GenerateDashboard(NewDashboardData("Nightly <run>", "1.0.0", sampleResults()))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.html"), path)

	page, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(page)
	assert.Contains(t, html, "Nightly &lt;run&gt;")
	assert.Contains(t, html, "maximum(scanl(&#43;,Param0))")
	assert.Contains(t, html, "size limit exceeded")
	assert.Contains(t, html, `"labels":["mss","sum","2nd-min"]`)
	assert.True(t, strings.Contains(html, "1 counterexamples"))

	assert.FileExists(t, filepath.Join(dir, "data.json"))
	assert.Equal(t, "Dashboard generated", hook.LastEntry().Message)
}
