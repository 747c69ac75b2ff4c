package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEncodeProjectPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"empty", "", ""},
		{"absolute path", "/home/alice/projects/gateway", "-home-alice-projects-gateway"},
		{"trailing slash", "/home/alice/gateway/", "-home-alice-gateway"},
		{"root", "/", "-"},
		{"relative", "work/demo", "work-demo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EncodeProjectPath(tc.input); got != tc.expect {
				t.Errorf("EncodeProjectPath(%q) = %q, want %q", tc.input, got, tc.expect)
			}
		})
	}
}

func TestLocateLatestLog_PicksNewest(t *testing.T) {
	root := t.TempDir()
	cwd := "/home/u/proj"
	dir := filepath.Join(root, EncodeProjectPath(cwd))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	older := filepath.Join(dir, "aaa.jsonl")
	newer := filepath.Join(dir, "bbb.jsonl")
	for _, p := range []string{older, newer} {
		if err := os.WriteFile(p, []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Force a clear mtime ordering.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got := LocateLatestLog(root, cwd)
	if got != newer {
		t.Errorf("LocateLatestLog = %q, want %q", got, newer)
	}
}

func TestLocateLatestLog_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	cwd := "/home/u/proj"
	dir := filepath.Join(root, EncodeProjectPath(cwd))
	if err := os.MkdirAll(filepath.Join(dir, "nested.jsonl"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := LocateLatestLog(root, cwd); got != "" {
		t.Errorf("expected no log, got %q", got)
	}
}

func TestLocateLatestLog_MissingFolder(t *testing.T) {
	if got := LocateLatestLog(t.TempDir(), "/no/such/project"); got != "" {
		t.Errorf("expected empty path for missing folder, got %q", got)
	}
}
