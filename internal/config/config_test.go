package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/SirJson/commandspec/internal/template"
	"github.com/SirJson/commandspec/internal/value"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	config, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, config.Version)
	assert.Empty(t, config.Tasks)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `version: "1.0"
tasks:
  build:
    description: Build the binary
    template: |
      cd {path}
      export RUST_LOG=full
      cargo run {release_flag} --bin {bin_name} -- {args}
    bindings:
      path: .
      release_flag: null
      bin_name: binary
      args: [arg1, arg2]
  deploy:
    shell: true
    steps:
      - echo {target}
      - echo done
    bindings:
      target: {optional: prod}
      port: 8080
      verbose: true
      nothing: ~
      empty: []
`)

	config, err := LoadConfig(tempDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"build", "deploy"}, config.TaskNames())

	build, ok := config.Task("build")
	require.True(t, ok)
	assert.Equal(t, "Build the binary", build.Description)
	assert.False(t, build.IsShell())
	assert.Equal(t, value.Literal("."), build.Bindings["path"])
	assert.Equal(t, value.None(), build.Bindings["release_flag"])
	assert.Equal(t, value.Literal("binary"), build.Bindings["bin_name"])
	assert.Equal(t, value.List("arg1", "arg2"), build.Bindings["args"])

	deploy, ok := config.Task("deploy")
	require.True(t, ok)
	assert.True(t, deploy.IsShell())
	assert.Equal(t, []string{"echo {target}", "echo done"}, deploy.Templates())
	assert.Equal(t, value.Some("prod"), deploy.Bindings["target"])
	assert.Equal(t, value.Literal("8080"), deploy.Bindings["port"])
	assert.Equal(t, value.Literal("true"), deploy.Bindings["verbose"])
	assert.True(t, deploy.Bindings["nothing"].IsAbsent())
	assert.Equal(t, value.KindList, deploy.Bindings["empty"].Kind())
	assert.True(t, deploy.Bindings["empty"].IsAbsent())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{
			name:     "invalid yaml",
			content:  "tasks:\n  build: [unclosed\n",
			contains: "failed to parse config file",
		},
		{
			name:     "task without template",
			content:  "tasks:\n  empty:\n    description: nothing\n",
			contains: "task requires 'template' or 'steps'",
		},
		{
			name:     "template parse error",
			content:  "tasks:\n  broken:\n    template: run {unterminated\n",
			contains: `task "broken"`,
		},
		{
			name:     "step parse error",
			content:  "tasks:\n  broken:\n    steps: [ok, 'cd a b']\n",
			contains: "step 2",
		},
		{
			name:     "nested list element",
			content:  "tasks:\n  t:\n    template: run\n    bindings:\n      x: [[a]]\n",
			contains: "list element 1 must be a string",
		},
		{
			name:     "unknown mapping key",
			content:  "tasks:\n  t:\n    template: run\n    bindings:\n      x: {value: a}\n",
			contains: `exactly one "optional" key`,
		},
		{
			name:     "invalid binding name",
			content:  "tasks:\n  t:\n    template: run\n    bindings:\n      bad-name: a\n",
			contains: `invalid binding name "bad-name"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			writeConfig(t, tempDir, tt.content)

			_, err := LoadConfig(tempDir)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadConfig_ParseErrorIsInspectable(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "tasks:\n  broken:\n    template: run {unterminated\n")

	_, err := LoadConfig(tempDir)

	var parseErr *template.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.ErrorIs(t, err, template.ErrUnterminatedPlaceholder)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadFile_SkipsTemplateValidation(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "tasks:\n  broken:\n    template: run {unterminated\n")

	config, err := ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, config.Version)
	_, err = config.Tasks["broken"].Parse()
	assert.ErrorIs(t, err, template.ErrUnterminatedPlaceholder)
}

func TestTask_Parse(t *testing.T) {
	t.Run("should parse script steps with pkexec when elevated", func(t *testing.T) {
		task := Task{Elevated: true, Template: "apt-get install {pkg}"}

		parsed, err := task.Parse()

		require.NoError(t, err)
		require.Len(t, parsed, 1)
		assert.Equal(t, "pkexec", parsed[0].Program.Literal())
	})

	t.Run("should run template before steps", func(t *testing.T) {
		task := Task{Template: "first", Steps: []string{"second", "third"}}

		parsed, err := task.Parse()

		require.NoError(t, err)
		require.Len(t, parsed, 3)
		assert.Equal(t, "first", parsed[0].Program.Literal())
		assert.Equal(t, "third", parsed[2].Program.Literal())
	})
}

func TestBindings_Values(t *testing.T) {
	b := Bindings{"a": value.Literal("1")}

	values := b.Values()
	values["a"] = value.Literal("changed")

	assert.Equal(t, value.Literal("1"), b["a"])
}

func TestBindings_Alias(t *testing.T) {
	var task Task
	err := yaml.Unmarshal([]byte(`
template: run {a} {b}
bindings:
  a: &shared [x, y]
  b: *shared
`), &task)

	require.NoError(t, err)
	assert.Equal(t, value.List("x", "y"), task.Bindings["b"])
}

func TestSampleConfig(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, SampleConfig)

	config, err := LoadConfig(tempDir)

	require.NoError(t, err)
	assert.Equal(t, []string{"build", "hello", "tidy"}, config.TaskNames())
	assert.True(t, config.Tasks["build"].Bindings["release_flag"].IsAbsent())
}
