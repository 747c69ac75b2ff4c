// Package config provides configuration loading and defaults for agentscan.
package config

import "time"

// DefaultSignature is the command-line substring that identifies an agent
// CLI process in the process table.
const DefaultSignature = "claude"

// DefaultExcludes are command-line substrings that disqualify a matching
// process. MCP bridge helpers match the primary signature but are not
// themselves agent sessions.
var DefaultExcludes = []string{"mcp serve", "mcp-server"}

// DefaultLogsRoot is the root directory holding per-project session logs,
// keyed by hyphen-encoded working directory.
const DefaultLogsRoot = "~/.claude/projects"

// DefaultConfigDir is the default location for agentscan configuration.
const DefaultConfigDir = "~/.config/agentscan"

// DefaultDBName is the filename for the scan-history SQLite database.
const DefaultDBName = "agentscan.db"

// DefaultCallTimeout bounds each external OS call (process listing, cwd
// lookup) so one hung call cannot stall a whole scan.
const DefaultCallTimeout = 3 * time.Second

// DefaultParallelism caps concurrent per-process lookups during a scan.
const DefaultParallelism = 8

// DefaultActiveCPU is the CPU% threshold above which an agent counts as
// active in the summary view. Strictly greater-than.
const DefaultActiveCPU = 5.0

// DefaultServeAddr is the listen address for the HTTP surface.
const DefaultServeAddr = "127.0.0.1:8787"

// Log window defaults. Files with more records than the threshold are
// parsed as head + tail only, so scan cost stays bounded on large logs.
const (
	DefaultWindowThreshold = 100
	DefaultWindowHead      = 10
	DefaultWindowTail      = 50
)

// Display truncation limits, applied at extraction time.
const (
	DefaultTaskMaxLen   = 200
	DefaultStatusMaxLen = 300
)
