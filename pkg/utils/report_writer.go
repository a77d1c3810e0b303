/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_writer.go
Description: Utility for writing synthesis reports to a report directory.
Handles timestamped, per-run file naming, ensures directories exist and writes JSON
files for later analysis.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Report wraps a payload with the metadata of the run that produced it
type Report struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Version   string      `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	Payload   interface{} `json:"payload"`
}

// StoredReport is a report read back from disk
type StoredReport struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// WriteReport writes payload to dir as a JSON report and returns the file path.
// File names look like 2024-06-11_01-30-00_mss_1b4e28ba.json.
func WriteReport(dir, name, version string, payload interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	report := Report{
		ID:        uuid.New(),
		Name:      name,
		Version:   version,
		CreatedAt: time.Now(),
		Payload:   payload,
	}

	timestamp := report.CreatedAt.Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_%s.json", timestamp, sanitize(name), report.ID.String()[:8])
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

// ReadReport loads a report written by WriteReport
func ReadReport(path string) (*StoredReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var report StoredReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &report, nil
}

// sanitize maps benchmark names such as "0*1*" to file name safe strings
func sanitize(name string) string {
	if name == "" {
		return "report"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
