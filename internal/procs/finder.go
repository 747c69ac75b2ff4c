package procs

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// FindAgentProcesses lists the OS process table and returns processes whose
// command line contains signature and none of the exclude markers. The
// listing call is bounded by timeout. Any failure (command missing, timeout,
// parse trouble) yields an empty list; callers treat empty and error
// identically.
func FindAgentProcesses(ctx context.Context, signature string, excludes []string, timeout time.Duration) []Process {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "ps", "aux").Output()
	if err != nil {
		return nil
	}
	return filterProcesses(parsePS(string(out)), signature, excludes)
}

// parsePS parses `ps aux` output positionally: field 2 = PID, field 3 = CPU%,
// field 6 = RSS in KB, fields 11 onward joined = command line. Lines that do
// not fit are skipped.
func parsePS(out string) []Process {
	lines := strings.Split(out, "\n")
	if len(lines) > 0 {
		// Drop the header row.
		lines = lines[1:]
	}

	var procs []Process
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 11 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		cpu, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		rss, err := strconv.ParseInt(fields[5], 10, 64)
		if err != nil {
			continue
		}
		procs = append(procs, Process{
			PID:         pid,
			CPUPercent:  cpu,
			MemoryKB:    rss,
			CommandLine: strings.Join(fields[10:], " "),
		})
	}
	return procs
}

// filterProcesses keeps processes matching signature, dropping any that
// carry an exclude marker (MCP bridges and similar helpers that match the
// signature but are not agent sessions).
func filterProcesses(procs []Process, signature string, excludes []string) []Process {
	var matched []Process
	for _, p := range procs {
		if !strings.Contains(p.CommandLine, signature) {
			continue
		}
		excluded := false
		for _, marker := range excludes {
			if strings.Contains(p.CommandLine, marker) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}
