/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Log directory maintenance for Relish. Compresses old run logs, removes the
oldest ones beyond a retention count and reports directory statistics.
*/

package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogManager maintains a directory of run logs
type LogManager struct {
	logDir   string
	maxFiles int
	compress bool
}

// LogStats summarizes a log directory
type LogStats struct {
	Files      int       `json:"files"`
	Compressed int       `json:"compressed"`
	TotalSize  int64     `json:"total_size"`
	Oldest     time.Time `json:"oldest"`
	Newest     time.Time `json:"newest"`
}

// NewLogManager creates a new log manager. maxFiles <= 0 keeps every log.
func NewLogManager(logDir string, maxFiles int, compress bool) *LogManager {
	return &LogManager{
		logDir:   logDir,
		maxFiles: maxFiles,
		compress: compress,
	}
}

type logFile struct {
	path    string
	modTime time.Time
	size    int64
}

// files returns the run logs sorted from newest to oldest
func (lm *LogManager) files() ([]logFile, error) {
	matches, err := filepath.Glob(filepath.Join(lm.logDir, "relish_*.log*"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob log files: %w", err)
	}
	files := make([]logFile, 0, len(matches))
	for _, path := range matches {
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		files = append(files, logFile{path: path, modTime: stat.ModTime(), size: stat.Size()})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path > files[j].path
		}
		return files[i].modTime.After(files[j].modTime)
	})
	return files, nil
}

// Cleanup compresses every log except active and the newest one, then removes
// logs beyond the retention count. It returns the number of removed files.
func (lm *LogManager) Cleanup(active string) (int, error) {
	files, err := lm.files()
	if err != nil {
		return 0, err
	}

	removed := 0
	for i, f := range files {
		if f.path == active {
			continue
		}
		if lm.maxFiles > 0 && i >= lm.maxFiles {
			if err := os.Remove(f.path); err != nil {
				return removed, fmt.Errorf("failed to remove %s: %w", f.path, err)
			}
			removed++
			continue
		}
		if lm.compress && i > 0 && !strings.HasSuffix(f.path, ".gz") {
			if err := compressFile(f.path); err != nil {
				return removed, fmt.Errorf("failed to compress %s: %w", f.path, err)
			}
		}
	}
	return removed, nil
}

// compressFile replaces path with path.gz
func compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		dst.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

// Stats returns statistics about the log directory
func (lm *LogManager) Stats() (LogStats, error) {
	files, err := lm.files()
	if err != nil {
		return LogStats{}, err
	}
	var stats LogStats
	for _, f := range files {
		stats.Files++
		stats.TotalSize += f.size
		if strings.HasSuffix(f.path, ".gz") {
			stats.Compressed++
		}
		if stats.Oldest.IsZero() || f.modTime.Before(stats.Oldest) {
			stats.Oldest = f.modTime
		}
		if f.modTime.After(stats.Newest) {
			stats.Newest = f.modTime
		}
	}
	return stats, nil
}
