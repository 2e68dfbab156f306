package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommand(t *testing.T) {
	t.Run("should render an ad hoc template", func(t *testing.T) {
		res := runApp(t, "render",
			"--template", "cargo run {release_flag} --bin {bin_name} -- {args}",
			"--unset", "release_flag",
			"--set", "bin_name=binary",
			"--list", "args=arg1 arg2")

		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "cargo run --bin binary -- arg1 arg2\n", res.stdout)
	})

	t.Run("should print one line per step", func(t *testing.T) {
		path := writeTaskFile(t, buildTasks)

		res := runApp(t, "--config", path, "render", "--set", "filter=integration", "release")

		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "cargo build --release\ncargo test integration\n", res.stdout)
	})

	t.Run("should quote values for display", func(t *testing.T) {
		res := runApp(t, "render", "--template", "cd {dir}\nexport MSG={msg}\necho {msg}",
			"--set", "dir=/tmp/my dir", "--set", "msg=hello world")

		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "cd '/tmp/my dir' && MSG='hello world' echo 'hello world'\n", res.stdout)
	})

	t.Run("should render script templates", func(t *testing.T) {
		res := runApp(t, "render", "--elevated", "--template", "rm -rf {path}", "--set", "path=/opt/old app")

		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stdout, "pkexec sh -c")
		assert.Contains(t, res.stdout, "/opt/old app")
		assert.Contains(t, res.stdout, "set -e")
	})
}

func TestRenderCommand_BindingPrecedence(t *testing.T) {
	// Given: every source binds the same names
	envFile := filepath.Join(t.TempDir(), "bindings.env")
	require.NoError(t, os.WriteFile(envFile, []byte("a=env\nb=env\nc=env\nd=env\n"), 0o600))
	path := writeTaskFile(t, `tasks:
  show:
    template: echo {a} {b} {c} {d} {e}
    bindings:
      a: task
      b: task
      c: task
      d: task
      e: task
`)

	// When: layering env file, --set, --list and --unset
	res := runApp(t, "--config", path, "render",
		"--env-file", envFile,
		"--set", "b=set", "--set", "c=set", "--set", "d=set",
		"--list", "c=l1 l2", "--list", "d=x",
		"--unset", "d",
		"show")

	// Then: later sources win
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "echo env set l1 l2 task\n", res.stdout)
}
