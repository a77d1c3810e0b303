/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_writer_test.go
Description: Tests for the JSON report writer.
*/

package utils

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteReport tests writing and reading back a report
func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	payload := map[string]interface{}{"solution": []string{"sum(Param0)"}}

	path, err := WriteReport(dir, "0*1*", "1.0.0", payload)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.Contains(filepath.Base(path), "_0_1__"))
	assert.True(t, strings.HasSuffix(path, ".json"))

	report, err := ReadReport(path)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, "0*1*", report.Name)
	assert.Equal(t, "1.0.0", report.Version)

	var got map[string][]string
	require.NoError(t, json.Unmarshal(report.Payload, &got))
	assert.Equal(t, []string{"sum(Param0)"}, got["solution"])
}

// TestWriteReportUniqueNames tests that reports of the same run never collide
func TestWriteReportUniqueNames(t *testing.T) {
	dir := t.TempDir()
	a, err := WriteReport(dir, "sum", "1.0.0", 1)
	require.NoError(t, err)
	b, err := WriteReport(dir, "sum", "1.0.0", 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = ReadReport(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

// TestSanitize tests file name mapping
func TestSanitize(t *testing.T) {
	assert.Equal(t, "count1_0__", sanitize("count1(0+)"))
	assert.Equal(t, "2nd-min", sanitize("2nd-min"))
	assert.Equal(t, "report", sanitize(""))
}
