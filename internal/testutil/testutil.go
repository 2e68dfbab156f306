// Package testutil provides helpers shared across tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// RequirePOSIXShell skips the test unless sh and the usual POSIX utilities
// (true, false, sleep) are available.
func RequirePOSIXShell(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell not available on Windows")
	}
	for _, tool := range []string{"sh", "true", "false", "sleep"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not available: %v", tool, err)
		}
	}
}

// WriteFile writes content to dir/name with the given permissions and returns
// the file's path.
func WriteFile(t *testing.T, dir, name, content string, perm os.FileMode) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	// WriteFile only applies perm to new files
	if err := os.Chmod(path, perm); err != nil {
		t.Fatalf("Failed to chmod %s: %v", path, err)
	}
	return path
}

// WriteScript writes an executable POSIX shell script and returns its path.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	return WriteFile(t, dir, name, "#!/bin/sh\n"+body+"\n", 0o755)
}
