package procs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ResolveCwd maps a PID to its current working directory, or "" if it
// cannot be determined. An empty result is an expected outcome (process
// exited, permission denied), not an error.
//
// On systems with a /proc tree the cwd symlink is read directly; otherwise
// it falls back to lsof's file-descriptor table, bounded by timeout.
func ResolveCwd(ctx context.Context, pid int, timeout time.Duration) string {
	if cwd, err := os.Readlink(fmt.Sprintf("/proc/%d/cwd", pid)); err == nil {
		return cwd
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "lsof", "-a", "-p", strconv.Itoa(pid), "-d", "cwd").Output()
	if err != nil {
		return ""
	}
	return parseLsofCwd(string(out))
}

// parseLsofCwd extracts the directory path from the cwd row of lsof output.
// Columns are COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME; the path
// is the trailing NAME column, which may itself contain spaces.
func parseLsofCwd(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 9 {
			continue
		}
		if fields[3] != "cwd" {
			continue
		}
		return strings.Join(fields[8:], " ")
	}
	return ""
}
