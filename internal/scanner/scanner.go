// Package scanner composes process discovery, working-directory resolution,
// and log digestion into point-in-time snapshots of external agent activity.
package scanner

import (
	"context"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/agentscan/internal/config"
	"github.com/blackwell-systems/agentscan/internal/procs"
	"github.com/blackwell-systems/agentscan/internal/session"
)

// Scanner runs stateless scans over OS state and third-party log files.
// The lookup functions are fields so tests can substitute fakes; New wires
// the real implementations.
type Scanner struct {
	Find       func(ctx context.Context) []procs.Process
	ResolveCwd func(ctx context.Context, pid int) string
	LocateLog  func(cwd string) string
	ParseLog   func(path string) session.Snapshot

	// Parallelism caps concurrent per-process lookups. Values below 1 mean
	// sequential.
	Parallelism int

	// ActiveCPU is the strict lower bound for counting an agent as active
	// in Summarize.
	ActiveCPU float64
}

// New builds a Scanner wired to the host OS and the configured logs root.
func New(cfg *config.Config) *Scanner {
	opts := session.ParseOptions{
		WindowThreshold: cfg.Window.Threshold,
		WindowHead:      cfg.Window.Head,
		WindowTail:      cfg.Window.Tail,
		TaskMaxLen:      cfg.Truncate.Task,
		StatusMaxLen:    cfg.Truncate.Status,
	}
	return &Scanner{
		Find: func(ctx context.Context) []procs.Process {
			return procs.FindAgentProcesses(ctx, cfg.Signature, cfg.Excludes, cfg.CallTimeout)
		},
		ResolveCwd: func(ctx context.Context, pid int) string {
			return procs.ResolveCwd(ctx, pid, cfg.CallTimeout)
		},
		LocateLog: func(cwd string) string {
			return session.LocateLatestLog(cfg.LogsRoot, cwd)
		},
		ParseLog: func(path string) session.Snapshot {
			return session.ParseLog(path, opts)
		},
		Parallelism: cfg.Parallelism,
		ActiveCPU:   cfg.ActiveCPU,
	}
}

// Scan produces the full agent list for this instant. Per-process lookups
// are independent and read-only, so they fan out concurrently; the result
// is sorted by CPU% descending, ties keeping discovery order. A process
// whose cwd cannot be resolved is unobservable and is dropped. A process
// with no log still appears, with an unknown-activity snapshot, since the
// process itself is a true positive.
func (s *Scanner) Scan(ctx context.Context) []Agent {
	found := s.Find(ctx)
	if len(found) == 0 {
		return nil
	}

	results := make([]*Agent, len(found))

	g, gctx := errgroup.WithContext(ctx)
	if s.Parallelism > 0 {
		g.SetLimit(s.Parallelism)
	}
	for i, p := range found {
		g.Go(func() error {
			cwd := s.ResolveCwd(gctx, p.PID)
			if cwd == "" {
				return nil
			}
			agent := Agent{
				Process: p,
				Cwd:     cwd,
				Project: filepath.Base(cwd),
			}
			if path := s.LocateLog(cwd); path != "" {
				agent.Snapshot = s.ParseLog(path)
			} else {
				agent.Snapshot = session.Snapshot{Activity: session.ActivityUnknown}
			}
			results[i] = &agent
			return nil
		})
	}
	// Workers never return errors; sub-lookup failures degrade per entry.
	_ = g.Wait()

	agents := make([]Agent, 0, len(results))
	for _, a := range results {
		if a != nil {
			agents = append(agents, *a)
		}
	}

	sort.SliceStable(agents, func(i, j int) bool {
		return agents[i].CPUPercent > agents[j].CPUPercent
	})
	return agents
}

// Summarize runs a scan and projects it into the lightweight polling view.
func (s *Scanner) Summarize(ctx context.Context) Summary {
	agents := s.Scan(ctx)
	return Summarize(agents, s.ActiveCPU)
}

// Summarize derives the summary view from an already-sorted agent list.
func Summarize(agents []Agent, activeCPU float64) Summary {
	summary := Summary{
		Count:  len(agents),
		Agents: make([]SummaryAgent, 0, len(agents)),
	}
	for _, a := range agents {
		if a.CPUPercent > activeCPU {
			summary.Active++
		}
		summary.Agents = append(summary.Agents, SummaryAgent{
			PID:        a.PID,
			Project:    a.Project,
			Activity:   a.Activity,
			CPUPercent: a.CPUPercent,
		})
	}
	return summary
}
