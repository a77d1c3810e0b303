/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter.go
Description: Custom log formatter for Relish. Prints level, optional timestamp and caller,
a short tag derived from the message and the structured fields in key order.
*/

package logging

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CustomFormatter provides compact, structured logging output
type CustomFormatter struct {
	Timestamp bool
	Caller    bool
	Colors    bool
	Prefixes  bool // Tag messages of known synthesis events
}

// Format formats a log entry
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var output strings.Builder

	if f.Timestamp {
		output.WriteString(f.paint(36, entry.Time.Format("2006-01-02 15:04:05.000")))
		output.WriteByte(' ')
	}

	output.WriteString(f.paint(f.getLevelColor(entry.Level), fmt.Sprintf("%-5s", strings.ToUpper(entry.Level.String()))))
	output.WriteByte(' ')

	if f.Prefixes {
		if prefix := messagePrefix(entry.Message); prefix != "" {
			output.WriteString(f.paint(35, "["+prefix+"]"))
			output.WriteByte(' ')
		}
	}

	if f.Caller && entry.HasCaller() {
		output.WriteString(f.paint(33, fmt.Sprintf("[%s:%d]", entry.Caller.File, entry.Caller.Line)))
		output.WriteByte(' ')
	}

	output.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		output.WriteByte(' ')
		output.WriteString(f.formatFields(entry.Data))
	}

	output.WriteByte('\n')
	return []byte(output.String()), nil
}

func (f *CustomFormatter) paint(color int, s string) string {
	if !f.Colors {
		return s
	}
	return fmt.Sprintf("\033[%dm%s\033[0m", color, s)
}

// getLevelColor returns the ANSI color code for a log level
func (f *CustomFormatter) getLevelColor(level logrus.Level) int {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return 37 // White
	case logrus.InfoLevel:
		return 32 // Green
	case logrus.WarnLevel:
		return 33 // Yellow
	case logrus.ErrorLevel:
		return 31 // Red
	default:
		return 35 // Magenta
	}
}

// messagePrefix returns a tag for the messages logged by solvers and enumerators
func messagePrefix(message string) string {
	switch {
	case strings.Contains(message, "Counterexample"):
		return "CEX"
	case strings.Contains(message, "Candidate"), strings.Contains(message, "Round"):
		return "ROUND"
	case strings.Contains(message, "Size limit"):
		return "SIZE"
	case strings.Contains(message, "Enumerat"):
		return "ENUM"
	case strings.Contains(message, "Synthesis"):
		return "RESULT"
	case strings.Contains(message, "automata"), strings.Contains(message, "Extraction"):
		return "FTA"
	case strings.Contains(message, "Job"):
		return "WORKER"
	default:
		return ""
	}
}

// formatFields formats structured fields sorted by key
func (f *CustomFormatter) formatFields(fields logrus.Fields) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if f.Colors {
			parts = append(parts, fmt.Sprintf("\033[34m%s\033[0m=\033[32m%s\033[0m", key, formatValue(key, fields[key])))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", key, formatValue(key, fields[key])))
		}
	}
	return strings.Join(parts, " ")
}

// formatValue formats a field value appropriately
func formatValue(key string, value interface{}) string {
	switch v := value.(type) {
	case time.Duration:
		return v.Round(time.Microsecond).String()
	case time.Time:
		return v.Format("15:04:05.000")
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	case string:
		if key == "run_id" && len(v) > 8 {
			return v[:8]
		}
		if len(v) > 120 {
			return fmt.Sprintf("%s...", v[:120])
		}
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}
