// Package session locates and digests agent conversation logs. Logs are
// append-only JSONL files the scanner reads but never owns or writes.
package session

import "time"

// Activity classifies what a session is currently doing, derived from the
// most recent records of its log.
type Activity string

const (
	ActivityIdle     Activity = "idle"
	ActivityThinking Activity = "thinking"
	ActivityToolUse  Activity = "tool-use"
	ActivityUnknown  Activity = "unknown"
)

// Snapshot is a point-in-time digest of one conversation log. It is
// recomputed on every scan and never cached.
//
// MessageCount counts role-bearing records in the parsed window only, not
// the full file; large logs are read as a bounded head+tail window.
// CurrentTool is set only when Activity is ActivityToolUse.
type Snapshot struct {
	SessionID      string    `json:"sessionId,omitempty"`
	Task           string    `json:"task,omitempty"`
	StatusText     string    `json:"statusText,omitempty"`
	Activity       Activity  `json:"activity"`
	CurrentTool    string    `json:"currentTool,omitempty"`
	StartedAt      time.Time `json:"startedAt,omitzero"`
	LastActivityAt time.Time `json:"lastActivityAt,omitzero"`
	MessageCount   int       `json:"messageCount"`
	Model          string    `json:"model,omitempty"`
}
