package store

import (
	"time"

	"github.com/blackwell-systems/agentscan/internal/scanner"
)

// ScanRow is one recorded scan summary.
type ScanRow struct {
	ID          int64     `json:"id"`
	TakenAt     time.Time `json:"takenAt"`
	AgentCount  int       `json:"agentCount"`
	ActiveCount int       `json:"activeCount"`
}

// ScanAgentRow is one agent as recorded at scan time.
type ScanAgentRow struct {
	ID         int64   `json:"id"`
	ScanID     int64   `json:"scanId"`
	PID        int     `json:"pid"`
	Project    string  `json:"project"`
	Activity   string  `json:"activity"`
	CPUPercent float64 `json:"cpuPercent"`
	MemoryKB   int64   `json:"memoryKb"`
	SessionID  string  `json:"sessionId,omitempty"`
	Model      string  `json:"model,omitempty"`
	Task       string  `json:"task,omitempty"`
}

// RecordScan inserts one scan and its agents in a single transaction and
// returns the scan ID.
func (db *DB) RecordScan(agents []scanner.Agent, activeCPU float64) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	active := 0
	for _, a := range agents {
		if a.CPUPercent > activeCPU {
			active++
		}
	}

	result, err := tx.Exec(
		"INSERT INTO scans (taken_at, agent_count, active_count) VALUES (?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), len(agents), active,
	)
	if err != nil {
		return 0, err
	}
	scanID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, a := range agents {
		if _, err := tx.Exec(
			`INSERT INTO scan_agents
			(scan_id, pid, project, activity, cpu_percent, memory_kb, session_id, model, task)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			scanID, a.PID, a.Project, string(a.Activity), a.CPUPercent, a.MemoryKB,
			a.SessionID, a.Model, a.Task,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return scanID, nil
}

// ListScans returns the most recent scans, newest first.
func (db *DB) ListScans(limit int) ([]ScanRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(
		"SELECT id, taken_at, agent_count, active_count FROM scans ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []ScanRow
	for rows.Next() {
		var r ScanRow
		var takenAt string
		if err := rows.Scan(&r.ID, &takenAt, &r.AgentCount, &r.ActiveCount); err != nil {
			return nil, err
		}
		r.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ScanAgents returns the agents recorded for one scan, in recorded order.
func (db *DB) ScanAgents(scanID int64) ([]ScanAgentRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, scan_id, pid, project, activity, cpu_percent, memory_kb,
		        COALESCE(session_id, ''), COALESCE(model, ''), COALESCE(task, '')
		 FROM scan_agents WHERE scan_id = ? ORDER BY id`,
		scanID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []ScanAgentRow
	for rows.Next() {
		var r ScanAgentRow
		if err := rows.Scan(&r.ID, &r.ScanID, &r.PID, &r.Project, &r.Activity,
			&r.CPUPercent, &r.MemoryKB, &r.SessionID, &r.Model, &r.Task); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
