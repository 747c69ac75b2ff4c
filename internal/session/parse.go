package session

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

// ParseOptions bounds the cost and payload size of ParseLog.
type ParseOptions struct {
	// WindowThreshold is the record count above which only the head+tail
	// window is parsed. Head records capture session-start metadata, tail
	// records capture current state; the middle is never read.
	WindowThreshold int
	WindowHead      int
	WindowTail      int

	// TaskMaxLen and StatusMaxLen cap extracted text at the point of
	// extraction, not at render time.
	TaskMaxLen   int
	StatusMaxLen int
}

// DefaultParseOptions returns the standard window and truncation limits.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		WindowThreshold: 100,
		WindowHead:      10,
		WindowTail:      50,
		TaskMaxLen:      200,
		StatusMaxLen:    300,
	}
}

// logRecord is the top-level structure of one JSONL line.
type logRecord struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	SessionID string          `json:"sessionId"`
	Message   json.RawMessage `json:"message"`
}

// logMessage is the message payload of a user or assistant record. Content
// is raw because the external tool writes it as either a plain string or an
// array of content blocks.
type logMessage struct {
	Role    string          `json:"role"`
	Model   string          `json:"model"`
	Content json.RawMessage `json:"content"`
}

// contentBlock is a single content item (text, thinking, tool_use,
// tool_result).
type contentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Name     string `json:"name"`
	Thinking string `json:"thinking"`
}

// recordKind marks what the most recent relevant record represents; it
// drives the activity classification.
type recordKind int

const (
	kindNone recordKind = iota
	kindThinking
	kindTool
	kindTurn
)

// ParseLog reads the log at path and digests it into a Snapshot. A file
// that cannot be read yields a Snapshot with ActivityUnknown and zero
// MessageCount; malformed lines within a readable file are skipped so one
// corrupt record never aborts the scan.
func ParseLog(path string, opts ParseOptions) Snapshot {
	snap := Snapshot{Activity: ActivityUnknown}

	data, err := os.ReadFile(path)
	if err != nil {
		return snap
	}

	lines := splitRecords(string(data))
	window := applyWindow(lines, opts)

	lastKind := kindNone
	for _, line := range window {
		var rec logRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}

		if snap.SessionID == "" && rec.SessionID != "" {
			snap.SessionID = rec.SessionID
		}

		if ts := parseTimestamp(rec.Timestamp); !ts.IsZero() {
			if snap.StartedAt.IsZero() {
				snap.StartedAt = ts
			}
			snap.LastActivityAt = ts
		}

		if rec.Type != "user" && rec.Type != "assistant" {
			continue
		}

		var msg logMessage
		if rec.Message == nil || json.Unmarshal(rec.Message, &msg) != nil {
			continue
		}
		role := msg.Role
		if role == "" {
			role = rec.Type
		}

		snap.MessageCount++

		if snap.Model == "" && msg.Model != "" {
			snap.Model = msg.Model
		}

		text, tool, kind := digestContent(msg.Content)

		switch role {
		case "user":
			if text != "" && snap.Task == "" {
				snap.Task = truncate(text, opts.TaskMaxLen)
			}
		case "assistant":
			if text != "" {
				snap.StatusText = truncate(text, opts.StatusMaxLen)
			}
		}

		if tool != "" {
			snap.CurrentTool = tool
		}
		if kind != kindNone {
			lastKind = kind
		}
	}

	snap.Activity = classify(lastKind, snap.CurrentTool)
	if snap.Activity != ActivityToolUse {
		// CurrentTool is meaningful only mid tool call.
		snap.CurrentTool = ""
	}
	return snap
}

// classify applies the precedence rules: a trailing thinking block wins,
// then an in-flight tool call, then a completed turn.
func classify(last recordKind, tool string) Activity {
	switch {
	case last == kindThinking:
		return ActivityThinking
	case tool != "" && last != kindTurn:
		return ActivityToolUse
	case last == kindTurn:
		return ActivityIdle
	default:
		return ActivityUnknown
	}
}

// digestContent extracts the concatenable text, the last tool name, and the
// record kind from a message content payload. The kind reflects the final
// meaningful block: a record that calls a tool after some prose is still a
// tool record, while a record ending in plain text is a completed turn.
func digestContent(raw json.RawMessage) (text, tool string, kind recordKind) {
	if raw == nil {
		return "", "", kindNone
	}

	// Plain-string content is a completed turn.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return "", "", kindNone
		}
		return s, "", kindTurn
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return "", "", kindNone
	}

	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text != "" {
				text = b.Text
				kind = kindTurn
			}
		case "thinking":
			kind = kindThinking
		case "tool_use":
			if b.Name != "" {
				tool = b.Name
			}
			kind = kindTool
		case "tool_result":
			// A result flowing back does not complete the turn; the
			// classification keeps whatever came before.
		}
	}
	return text, tool, kind
}

// splitRecords splits file content into non-empty newline-delimited records.
func splitRecords(data string) []string {
	var records []string
	for _, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, line)
	}
	return records
}

// applyWindow bounds the records actually parsed: past the threshold, only
// the first head records and last tail records are kept.
func applyWindow(records []string, opts ParseOptions) []string {
	if opts.WindowThreshold <= 0 || len(records) <= opts.WindowThreshold {
		return records
	}
	head := opts.WindowHead
	tail := opts.WindowTail
	if head+tail >= len(records) {
		return records
	}
	window := make([]string, 0, head+tail)
	window = append(window, records[:head]...)
	window = append(window, records[len(records)-tail:]...)
	return window
}

// truncate caps s at max bytes.
func truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// parseTimestamp parses an ISO 8601 timestamp. It tries RFC3339Nano,
// RFC3339, and a plain datetime without timezone, returning the zero time
// when nothing matches.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			t, err = time.Parse("2006-01-02T15:04:05", s)
			if err != nil {
				return time.Time{}
			}
		}
	}
	return t
}
