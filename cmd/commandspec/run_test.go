package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SirJson/commandspec/internal/command"
	"github.com/SirJson/commandspec/internal/testutil"
)

func TestNewRunCommand(t *testing.T) {
	cmd := NewRunCommand()

	assert.Equal(t, "run", cmd.Name)
	assert.NotNil(t, cmd.Action)
	names := map[string]bool{}
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"template", "shell", "elevated", "set", "list", "unset", "env-file", "dry-run"} {
		assert.True(t, names[want], want)
	}
}

func TestRunCommand_Task(t *testing.T) {
	t.Run("should run the task with its default bindings", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)
		path := writeTaskFile(t, buildTasks)

		res := runApp(t, "--config", path, "run", "build")

		require.Equal(t, 0, res.code, res.stderr)
		require.Len(t, mock.executed, 1)
		require.Len(t, mock.executed[0], 1)
		cmd := mock.executed[0][0]
		assert.Equal(t, "cargo", cmd.Name)
		assert.Equal(t, []string{"run", "--bin", "binary", "--", "arg1", "arg2"}, cmd.Args)
		assert.Equal(t, "/src/project", cmd.WorkDir)
		assert.Equal(t, map[string]string{"RUST_LOG": "full"}, cmd.Env)
	})

	t.Run("should apply command-line overrides", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)
		path := writeTaskFile(t, buildTasks)

		res := runApp(t, "--config", path, "run",
			"--set", "release_flag=--release",
			"--list", `args=one "two words"`,
			"build")

		require.Equal(t, 0, res.code, res.stderr)
		require.Len(t, mock.executed, 1)
		assert.Equal(t,
			[]string{"run", "--release", "--bin", "binary", "--", "one", "two words"},
			mock.executed[0][0].Args)
	})

	t.Run("should run every step in order", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)
		path := writeTaskFile(t, buildTasks)

		res := runApp(t, "--config", path, "run", "--list", "filter=", "release")

		require.Equal(t, 0, res.code, res.stderr)
		require.Len(t, mock.executed, 1)
		require.Len(t, mock.executed[0], 2)
		assert.Equal(t, []string{"build", "--release"}, mock.executed[0][0].Args)
		assert.Equal(t, []string{"test"}, mock.executed[0][1].Args)
	})
}

func useWorkingDir(t *testing.T, dir string) {
	t.Helper()
	prev := osGetwd
	t.Cleanup(func() { osGetwd = prev })
	osGetwd = func() (string, error) { return dir, nil }
}

func TestRunCommand_DefaultConfig(t *testing.T) {
	t.Run("should load .commandspec.yml from the working directory", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)
		path := writeTaskFile(t, buildTasks)
		useWorkingDir(t, filepath.Dir(path))

		res := runApp(t, "run", "build")

		require.Equal(t, 0, res.code, res.stderr)
		require.Len(t, mock.executed, 1)
		assert.Equal(t, "cargo", mock.executed[0][0].Name)
	})

	t.Run("should treat a missing default file as having no tasks", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)
		useWorkingDir(t, t.TempDir())

		res := runApp(t, "run", "build")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "task 'build' not found")
		assert.Contains(t, res.stderr, "No tasks found.")
		assert.NotContains(t, res.stderr, "failed to load configuration")
		assert.Empty(t, mock.executed)
	})

	t.Run("should name the default path when the file is invalid", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)
		path := writeTaskFile(t, "tasks:\n  broken:\n    template: run {unterminated\n")
		useWorkingDir(t, filepath.Dir(path))

		res := runApp(t, "run", "broken")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "failed to load configuration from '"+path+"'")
		assert.Empty(t, mock.executed)
	})
}

func TestRunCommand_Failures(t *testing.T) {
	t.Run("should mirror the child's exit code", func(t *testing.T) {
		mock := &mockCommandExecutor{err: &command.Error{
			Kind:    command.KindExitCode,
			Program: "cargo",
			Args:    []string{"run"},
			Code:    2,
		}}
		useMockExecutor(t, mock)
		path := writeTaskFile(t, buildTasks)

		res := runApp(t, "--config", path, "run", "build")

		assert.Equal(t, 2, res.code)
		assert.Contains(t, res.stderr, "Error: command 'cargo' failed")
		assert.Contains(t, res.stderr, "Exit code: 2")
	})

	t.Run("should not spawn when a placeholder is unbound", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)
		path := writeTaskFile(t, buildTasks)

		res := runApp(t, "--config", path, "run", "release")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "no value bound to placeholder '{filter}'")
		assert.Empty(t, mock.executed)
	})

	t.Run("should report unknown tasks", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)
		path := writeTaskFile(t, buildTasks)

		res := runApp(t, "--config", path, "run", "deploy")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "task 'deploy' not found")
		assert.Contains(t, res.stderr, "• build")
		assert.Empty(t, mock.executed)
	})

	t.Run("should require a task or template", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)

		res := runApp(t, "run")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "task name or --template is required")
	})

	t.Run("should report template parse errors", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)

		res := runApp(t, "run", "--template", "echo {oops")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "failed to parse template from --template")
		assert.Empty(t, mock.executed)
	})

	t.Run("should report a missing config file", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)

		res := runApp(t, "--config", filepath.Join(t.TempDir(), "absent.yml"), "run", "build")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "failed to load configuration")
		assert.Contains(t, res.stderr, "does not exist")
	})

	t.Run("should reject malformed --set values", func(t *testing.T) {
		mock := &mockCommandExecutor{}
		useMockExecutor(t, mock)

		res := runApp(t, "run", "--template", "echo {x}", "--set", "novalue")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "invalid --set value: 'novalue'")
	})
}

func TestRunCommand_DryRun(t *testing.T) {
	mock := &mockCommandExecutor{}
	useMockExecutor(t, mock)
	path := writeTaskFile(t, buildTasks)

	res := runApp(t, "--config", path, "run", "--dry-run", "build")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "cd /src/project && RUST_LOG=full cargo run --bin binary -- arg1 arg2\n", res.stdout)
	assert.Empty(t, mock.executed)
}

func TestRunCommand_DebugLogging(t *testing.T) {
	mock := &mockCommandExecutor{}
	useMockExecutor(t, mock)

	res := runApp(t, "--debug", "--log-format", "json", "run", "--template", "echo {msg}", "--set", "msg=hi there")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, `"message":"rendered command"`)
	assert.Contains(t, res.stderr, `"command":"echo 'hi there'"`)
	assert.Contains(t, res.stderr, `"message":"command succeeded"`)
}

func TestRunCommand_RealProcess(t *testing.T) {
	testutil.RequirePOSIXShell(t)

	t.Run("should stream output from the child", func(t *testing.T) {
		res := runApp(t, "run", "--template", `printf "%s|" {words}`, "--list", `words=a "b c"`)

		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "a|b c|", res.stdout)
	})

	t.Run("should exit with the child's status", func(t *testing.T) {
		res := runApp(t, "run", "--template", "sh -c {script}", "--set", "script=exit 3")

		assert.Equal(t, 3, res.code)
		assert.Contains(t, res.stderr, "Exit code: 3")
	})

	t.Run("should run a script template through sh", func(t *testing.T) {
		dir := t.TempDir()
		marker := filepath.Join(dir, "out.txt")

		res := runApp(t, "run", "--shell", "--template", "echo {msg} > {file}", "--set", "msg=it's here", "--set", "file="+marker)

		require.Equal(t, 0, res.code, res.stderr)
		data, err := os.ReadFile(marker)
		require.NoError(t, err)
		assert.Equal(t, "it's here\n", string(data))
	})

	t.Run("should report a program that does not exist", func(t *testing.T) {
		res := runApp(t, "run", "--template", "definitely-not-a-real-program-4242")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "Program or working directory not found")
	})
}
