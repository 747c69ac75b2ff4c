package watcher

import (
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/agentscan/internal/session"
)

func state(agents map[int]AgentState) *State {
	return &State{TakenAt: time.Now(), Agents: agents}
}

func titles(alerts []Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Title
	}
	return out
}

func hasTitle(alerts []Alert, title string) bool {
	for _, a := range alerts {
		if a.Title == title {
			return true
		}
	}
	return false
}

func TestDiff_NoChanges(t *testing.T) {
	s := map[int]AgentState{
		1: {Project: "alpha", Activity: session.ActivityIdle, CPUPercent: 2.0},
	}
	if alerts := Diff(state(s), state(s)); len(alerts) != 0 {
		t.Errorf("expected no alerts, got %v", titles(alerts))
	}
}

func TestDiff_AgentStarted(t *testing.T) {
	prev := state(map[int]AgentState{})
	curr := state(map[int]AgentState{
		9: {Project: "beta", Activity: session.ActivityToolUse, CPUPercent: 30.0},
	})

	alerts := Diff(prev, curr)
	if len(alerts) != 1 || alerts[0].Title != "Agent started" {
		t.Fatalf("alerts = %v", titles(alerts))
	}
	if !strings.Contains(alerts[0].Message, "beta") {
		t.Errorf("message = %q", alerts[0].Message)
	}
}

func TestDiff_AgentExited(t *testing.T) {
	prev := state(map[int]AgentState{
		9: {Project: "beta", Activity: session.ActivityIdle},
	})
	curr := state(map[int]AgentState{})

	alerts := Diff(prev, curr)
	if len(alerts) != 1 || alerts[0].Title != "Agent exited" {
		t.Fatalf("alerts = %v", titles(alerts))
	}
}

func TestDiff_ActivityChanged(t *testing.T) {
	prev := state(map[int]AgentState{
		1: {Project: "alpha", Activity: session.ActivityThinking, CPUPercent: 10.0},
	})
	curr := state(map[int]AgentState{
		1: {Project: "alpha", Activity: session.ActivityIdle, CPUPercent: 10.0},
	})

	alerts := Diff(prev, curr)
	if !hasTitle(alerts, "Activity changed") {
		t.Fatalf("alerts = %v", titles(alerts))
	}
	if !strings.Contains(alerts[0].Message, "thinking") || !strings.Contains(alerts[0].Message, "idle") {
		t.Errorf("message = %q", alerts[0].Message)
	}
}

func TestDiff_HighCPURequiresTwoChecks(t *testing.T) {
	low := map[int]AgentState{1: {Project: "alpha", Activity: session.ActivityToolUse, CPUPercent: 20.0}}
	high := map[int]AgentState{1: {Project: "alpha", Activity: session.ActivityToolUse, CPUPercent: 95.0}}

	// First spike: no alert yet.
	if alerts := Diff(state(low), state(high)); hasTitle(alerts, "High CPU") {
		t.Errorf("single spike should not alert: %v", titles(alerts))
	}

	// Sustained across two checks: alert.
	alerts := Diff(state(high), state(high))
	if !hasTitle(alerts, "High CPU") {
		t.Errorf("sustained load should alert: %v", titles(alerts))
	}
}
