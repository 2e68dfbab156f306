package framework

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

const (
	dirPerm  = 0755
	filePerm = 0600

	configFileName = ".commandspec.yml"
)

type TestEnvironment struct {
	t       *testing.T
	tmpDir  string
	binary  string
	cleanup []func()
}

// Result is the outcome of one CLI invocation
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns stdout followed by stderr
func (r Result) Output() string {
	return r.Stdout + r.Stderr
}

func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	tmpDir := t.TempDir()
	env := &TestEnvironment{
		t:       t,
		tmpDir:  tmpDir,
		cleanup: []func(){},
	}

	env.buildBinary()

	return env
}

func (e *TestEnvironment) buildBinary() {
	e.t.Helper()

	binary := filepath.Join(e.tmpDir, "commandspec")
	if override := os.Getenv("COMMANDSPEC_E2E_BINARY"); override != "" {
		binary = override
		if _, err := os.Stat(binary); err != nil {
			e.t.Fatalf("Specified commandspec binary not found: %s", binary)
		}
	} else {
		projectRoot := e.findProjectRoot()
		cmd := exec.Command("go", "build", "-o", binary, "./cmd/commandspec")
		cmd.Dir = projectRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			e.t.Fatalf("Failed to build commandspec binary: %v\nOutput: %s", err, output)
		}
	}

	binary = filepath.Clean(binary)
	if !filepath.IsAbs(binary) {
		absPath, err := filepath.Abs(binary)
		if err != nil {
			e.t.Fatalf("Failed to get absolute path for binary: %v", err)
		}
		binary = absPath
	}

	e.binary = binary
}

func (e *TestEnvironment) findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		e.t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			e.t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}

// CreateWorkspace creates an empty directory to run the CLI in
func (e *TestEnvironment) CreateWorkspace(name string) *Workspace {
	e.t.Helper()

	dir := filepath.Join(e.tmpDir, name)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory: %v", err)
	}

	return &Workspace{
		env:  e,
		path: dir,
	}
}

func (e *TestEnvironment) writeFile(path, content string) {
	e.t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// Run invokes the binary from the environment's temp directory
func (e *TestEnvironment) Run(args ...string) Result {
	e.t.Helper()
	return e.run(e.tmpDir, args...)
}

func (e *TestEnvironment) run(dir string, args ...string) Result {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+e.tmpDir, "NO_COLOR=1")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		e.t.Fatalf("Failed to run commandspec %v: %v", args, err)
	}
	return res
}

// Start launches the binary without waiting for it
func (e *TestEnvironment) Start(dir string, args ...string) (*exec.Cmd, *bytes.Buffer) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1")

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Start(); err != nil {
		e.t.Fatalf("Failed to start commandspec: %v", err)
	}
	e.cleanup = append(e.cleanup, func() {
		if cmd.ProcessState == nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}
	})
	return cmd, &output
}

func (e *TestEnvironment) TmpDir() string {
	return e.tmpDir
}

func (e *TestEnvironment) Cleanup() {
	for _, fn := range e.cleanup {
		fn()
	}
}

type Workspace struct {
	env  *TestEnvironment
	path string
}

// Run invokes the binary inside the workspace
func (w *Workspace) Run(args ...string) Result {
	w.env.t.Helper()
	return w.env.run(w.path, args...)
}

func (w *Workspace) Start(args ...string) (*exec.Cmd, *bytes.Buffer) {
	w.env.t.Helper()
	return w.env.Start(w.path, args...)
}

func (w *Workspace) Path() string {
	return w.path
}

func (w *Workspace) WriteConfig(content string) {
	w.env.writeFile(filepath.Join(w.path, configFileName), content)
}

func (w *Workspace) WriteFile(path, content string) {
	w.env.writeFile(filepath.Join(w.path, path), content)
}

func (w *Workspace) HasFile(path string) bool {
	_, err := os.Stat(filepath.Join(w.path, path))
	return err == nil
}

func (w *Workspace) ReadFile(path string) string {
	content, err := os.ReadFile(filepath.Join(w.path, path))
	if err != nil {
		w.env.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// WaitForFile polls until path exists in the workspace or the timeout expires
func (w *Workspace) WaitForFile(path string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if w.HasFile(path) {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}
