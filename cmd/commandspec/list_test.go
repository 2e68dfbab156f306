package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SirJson/commandspec/internal/config"
)

func TestNewListCommand(t *testing.T) {
	cmd := NewListCommand()

	assert.Equal(t, "list", cmd.Name)
	assert.Equal(t, []string{"ls"}, cmd.Aliases)
	assert.NotNil(t, cmd.Action)
}

func TestListTasks(t *testing.T) {
	t.Run("should align names and describe tasks", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &config.Config{Tasks: map[string]config.Task{
			"build":   {Description: "Build the binary", Template: "cargo build"},
			"install": {Elevated: true, Template: "install {pkg}"},
			"ci":      {Shell: true, Steps: []string{"a", "b", "c"}},
		}}

		require.NoError(t, listTasks(&buf, cfg))

		assert.Equal(t,
			"build    Build the binary\n"+
				"ci       [script] (3 steps)\n"+
				"install  [elevated script]\n",
			buf.String())
	})

	t.Run("should hint at init when empty", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, listTasks(&buf, &config.Config{}))

		assert.Contains(t, buf.String(), "No tasks found")
		assert.Contains(t, buf.String(), "commandspec init")
	})
}

func TestListCommand(t *testing.T) {
	path := writeTaskFile(t, buildTasks)

	res := runApp(t, "--config", path, "list")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "build    Build the binary")
	assert.Contains(t, res.stdout, "release  (2 steps)")
}
