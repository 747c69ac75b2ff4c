// Package procs discovers agent CLI processes in the host process table
// and resolves their working directories.
package procs

// Process is one discovered agent process, sampled at scan time.
// CommandLine is raw process-table output used only for filtering and is
// never serialized.
type Process struct {
	PID         int     `json:"pid"`
	CPUPercent  float64 `json:"cpuPercent"`
	MemoryKB    int64   `json:"memoryKb"`
	CommandLine string  `json:"-"`
}
