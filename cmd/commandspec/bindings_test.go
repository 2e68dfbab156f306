package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SirJson/commandspec/internal/render"
	"github.com/SirJson/commandspec/internal/value"
)

func TestBindingOverrides_Apply(t *testing.T) {
	t.Run("should leave the base untouched", func(t *testing.T) {
		base := render.Bindings{"a": value.Literal("1")}

		out, err := bindingOverrides{Set: []string{"a=2"}}.apply(base)

		require.NoError(t, err)
		assert.Equal(t, value.Literal("1"), base["a"])
		assert.Equal(t, value.Literal("2"), out["a"])
	})

	t.Run("should keep everything after the first equals sign", func(t *testing.T) {
		out, err := bindingOverrides{Set: []string{"flag=--opt=x"}}.apply(nil)

		require.NoError(t, err)
		assert.Equal(t, value.Literal("--opt=x"), out["flag"])
	})

	t.Run("should allow an empty literal", func(t *testing.T) {
		out, err := bindingOverrides{Set: []string{"empty="}}.apply(nil)

		require.NoError(t, err)
		assert.Equal(t, value.Literal(""), out["empty"])
	})

	t.Run("should split lists like shell words", func(t *testing.T) {
		out, err := bindingOverrides{List: []string{`files=a "b c" 'd e'`}}.apply(nil)

		require.NoError(t, err)
		assert.Equal(t, value.List("a", "b c", "d e"), out["files"])
	})

	t.Run("should bind an empty list", func(t *testing.T) {
		out, err := bindingOverrides{List: []string{"files="}}.apply(nil)

		require.NoError(t, err)
		assert.Equal(t, value.KindList, out["files"].Kind())
		assert.True(t, out["files"].IsAbsent())
	})

	t.Run("should read dotenv files", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("# comment\nNAME=\"quoted value\"\nexport PORT=8080\n"), 0o600))

		out, err := bindingOverrides{EnvFiles: []string{envFile}}.apply(nil)

		require.NoError(t, err)
		assert.Equal(t, value.Literal("quoted value"), out["NAME"])
		assert.Equal(t, value.Literal("8080"), out["PORT"])
	})
}

func TestBindingOverrides_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides bindingOverrides
		contains  string
	}{
		{name: "set without equals", overrides: bindingOverrides{Set: []string{"name"}}, contains: "expected name=value"},
		{name: "invalid set name", overrides: bindingOverrides{Set: []string{"bad-name=x"}}, contains: "not a valid placeholder name"},
		{name: "unterminated list quote", overrides: bindingOverrides{List: []string{`x="open`}}, contains: "invalid --list value"},
		{name: "invalid unset name", overrides: bindingOverrides{Unset: []string{"1abc"}}, contains: "invalid --unset value"},
		{name: "missing env file", overrides: bindingOverrides{EnvFiles: []string{"/nonexistent/.env"}}, contains: "invalid --env-file value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.overrides.apply(nil)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestBoundNames(t *testing.T) {
	names := boundNames(render.Bindings{"b": value.None(), "a": value.Literal("x")})

	assert.Equal(t, []string{"a", "b"}, names)
}
