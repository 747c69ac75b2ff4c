package session

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// logExt is the file extension of conversation logs.
const logExt = ".jsonl"

// EncodeProjectPath derives the log-folder key for a working directory by
// replacing every path separator with a hyphen. The encoding matches the
// external agent tool's own convention; it is one-way and collisions
// between differently-separated paths are accepted, not worked around.
func EncodeProjectPath(cwd string) string {
	if cwd == "" {
		return ""
	}
	return strings.ReplaceAll(filepath.Clean(cwd), string(filepath.Separator), "-")
}

// LocateLatestLog returns the most recently modified log file for the given
// working directory, or "" if the project folder does not exist or holds no
// logs. Missing directories and permission errors are expected absences,
// never errors.
func LocateLatestLog(logsRoot, cwd string) string {
	dir := filepath.Join(logsRoot, EncodeProjectPath(cwd))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var latest string
	var latestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), logExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = filepath.Join(dir, entry.Name())
			latestMod = info.ModTime()
		}
	}
	return latest
}
