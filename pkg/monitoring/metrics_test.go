/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics_test.go
Description: Tests for search metrics and resource snapshots.
*/

package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// TestCounters tests that recording helpers update the collectors
func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(enumeratedPrograms.WithLabelValues("test"))
	RecordEnumerated("test", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(enumeratedPrograms.WithLabelValues("test")))

	rounds := testutil.ToFloat64(cegisRounds)
	RecordRound()
	assert.Equal(t, rounds+1, testutil.ToFloat64(cegisRounds))

	SetSizeLimit(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(sizeLimit))

	done := testutil.ToFloat64(synthesisResults.WithLabelValues("found"))
	RecordResult("found", time.Millisecond)
	assert.Equal(t, done+1, testutil.ToFloat64(synthesisResults.WithLabelValues("found")))

	RecordAutomaton(StageMerge, 12, time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(ftaNodes))
}

// TestSnapshot tests resource snapshots
func TestSnapshot(t *testing.T) {
	s := Snapshot()
	assert.False(t, s.Timestamp.IsZero())
	assert.Greater(t, s.GoRoutines, 0)
	assert.Greater(t, s.TotalAlloc, uint64(0))
}
