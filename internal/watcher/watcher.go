// Package watcher polls the scanner at a fixed interval and emits alerts
// when agent activity changes between consecutive scans.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/agentscan/internal/scanner"
	"github.com/blackwell-systems/agentscan/internal/session"
)

// State captures one scan keyed by PID for comparison against the next.
type State struct {
	TakenAt time.Time
	Agents  map[int]AgentState
}

// AgentState is the slice of an agent the watcher compares across scans.
type AgentState struct {
	Project    string
	Activity   session.Activity
	CPUPercent float64
}

// Alert represents a notable event detected between two scans.
type Alert struct {
	Level   string // "info", "warning"
	Title   string
	Message string
	Time    time.Time
}

// HighCPUThreshold is the CPU% above which a sustained-load warning fires.
const HighCPUThreshold = 80.0

// Watcher compares consecutive scans and reports changes through alertFn.
type Watcher struct {
	scanner  *scanner.Scanner
	interval time.Duration
	alertFn  func(Alert)
	previous *State
}

// New creates a Watcher around the given scanner.
func New(sc *scanner.Scanner, interval time.Duration, alertFn func(Alert)) *Watcher {
	return &Watcher{
		scanner:  sc,
		interval: interval,
		alertFn:  alertFn,
	}
}

// Snapshot runs one scan and converts it to a comparable State.
func (w *Watcher) Snapshot(ctx context.Context) *State {
	agents := w.scanner.Scan(ctx)
	state := &State{
		TakenAt: time.Now(),
		Agents:  make(map[int]AgentState, len(agents)),
	}
	for _, a := range agents {
		state.Agents[a.PID] = AgentState{
			Project:    a.Project,
			Activity:   a.Activity,
			CPUPercent: a.CPUPercent,
		}
	}
	return state
}

// Run takes an initial snapshot, then re-scans at every interval and emits
// alerts for the differences. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.previous = w.Snapshot(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			current := w.Snapshot(ctx)
			for _, alert := range Diff(w.previous, current) {
				w.alertFn(alert)
			}
			w.previous = current
		}
	}
}

// Diff compares two states and returns the alerts the transition warrants:
// agents appearing or exiting, activity transitions, and high CPU load.
func Diff(prev, curr *State) []Alert {
	var alerts []Alert
	now := curr.TakenAt

	for pid, c := range curr.Agents {
		p, existed := prev.Agents[pid]
		if !existed {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   "Agent started",
				Message: fmt.Sprintf("%s (pid %d) is now running", c.Project, pid),
				Time:    now,
			})
			continue
		}
		if p.Activity != c.Activity {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   "Activity changed",
				Message: fmt.Sprintf("%s (pid %d): %s → %s", c.Project, pid, p.Activity, c.Activity),
				Time:    now,
			})
		}
		if c.CPUPercent > HighCPUThreshold && p.CPUPercent > HighCPUThreshold {
			alerts = append(alerts, Alert{
				Level:   "warning",
				Title:   "High CPU",
				Message: fmt.Sprintf("%s (pid %d) at %.1f%% CPU across two checks", c.Project, pid, c.CPUPercent),
				Time:    now,
			})
		}
	}

	for pid, p := range prev.Agents {
		if _, still := curr.Agents[pid]; !still {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   "Agent exited",
				Message: fmt.Sprintf("%s (pid %d) is gone", p.Project, pid),
				Time:    now,
			})
		}
	}

	return alerts
}
