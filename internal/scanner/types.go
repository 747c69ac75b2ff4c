package scanner

import (
	"github.com/blackwell-systems/agentscan/internal/procs"
	"github.com/blackwell-systems/agentscan/internal/session"
)

// Agent is the merged view of one discovered process and, when a log could
// be located, the digest of its current session. Project is the basename of
// the working directory, used as a human label.
type Agent struct {
	procs.Process
	Cwd     string `json:"cwd"`
	Project string `json:"project"`
	session.Snapshot
}

// Summary is the lightweight polling view over one scan. Active counts
// agents whose CPU% is strictly above the configured threshold.
type Summary struct {
	Count  int            `json:"count"`
	Active int            `json:"active"`
	Agents []SummaryAgent `json:"agents"`
}

// SummaryAgent is the stripped-down projection of one Agent, in the same
// order as the full scan.
type SummaryAgent struct {
	PID        int              `json:"pid"`
	Project    string           `json:"project"`
	Activity   session.Activity `json:"activity"`
	CPUPercent float64          `json:"cpuPercent"`
}
