package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/strata-vc/strata/pkg/object"
)

// appendLog appends one record to .strata/logs/HEAD:
//
//	commit <digest>
//	[parent <digest>]
//	message <text>
//	timestamp <unix-seconds>
//	---
//
// No structural parsing is required beyond line-wise echo; the log command
// just prints the file verbatim.
func (r *Repo) appendLog(commitHash, parentHash object.Hash, message string, timestamp int64) error {
	logPath := filepath.Join(r.StrataDir, "logs", "HEAD")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("append log: mkdir: %w", err)
	}

	var record string
	record += fmt.Sprintf("commit %s\n", commitHash)
	if parentHash != "" {
		record += fmt.Sprintf("parent %s\n", parentHash)
	}
	record += fmt.Sprintf("message %s\n", message)
	record += fmt.Sprintf("timestamp %d\n", timestamp)
	record += "---\n"

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("append log: open: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(record); err != nil {
		return fmt.Errorf("append log: write: %w", err)
	}
	return nil
}

// ReadLog returns the verbatim contents of .strata/logs/HEAD. A missing log
// file (no commits yet) returns an empty string, not an error.
func (r *Repo) ReadLog() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.StrataDir, "logs", "HEAD"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log: %w", err)
	}
	return string(data), nil
}
