// Package logging builds the process logger: zerolog-rendered console
// output, a per-session log file, the OTel bridge and Graylog.
package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// LogFilePath returns logsDir/<name>.<YYYYMMDD_HHMMSS>.log for a session.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", name, sessionStart.Format("20060102_150405")),
	)
}
