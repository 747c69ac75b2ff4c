package procs

import (
	"context"
	"testing"
	"time"
)

const lsofFixture = `COMMAND  PID  USER   FD   TYPE DEVICE SIZE/OFF    NODE NAME
claude  4242 alice  cwd    DIR  259,2     4096 1048578 /home/alice/projects/gateway
`

func TestParseLsofCwd(t *testing.T) {
	got := parseLsofCwd(lsofFixture)
	if got != "/home/alice/projects/gateway" {
		t.Errorf("cwd = %q, want /home/alice/projects/gateway", got)
	}
}

func TestParseLsofCwd_PathWithSpaces(t *testing.T) {
	out := "COMMAND  PID  USER   FD   TYPE DEVICE SIZE/OFF    NODE NAME\n" +
		"claude  4242 alice  cwd    DIR  259,2     4096 1048578 /home/alice/My Projects/demo\n"
	got := parseLsofCwd(out)
	if got != "/home/alice/My Projects/demo" {
		t.Errorf("cwd = %q", got)
	}
}

func TestParseLsofCwd_NoCwdRow(t *testing.T) {
	out := "COMMAND  PID  USER   FD   TYPE DEVICE SIZE/OFF    NODE NAME\n" +
		"claude  4242 alice  txt    REG  259,2  1234567 1048579 /usr/local/bin/claude\n"
	if got := parseLsofCwd(out); got != "" {
		t.Errorf("expected empty cwd, got %q", got)
	}
}

func TestResolveCwd_UnknownPID(t *testing.T) {
	// PID that cannot exist: expect the quiet empty-string failure mode.
	got := ResolveCwd(context.Background(), 1<<30, 100*time.Millisecond)
	if got != "" {
		t.Errorf("expected empty cwd for bogus pid, got %q", got)
	}
}
