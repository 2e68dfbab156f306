package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertSuccess(t *testing.T, res Result) {
	t.Helper()
	assert.Equal(t, 0, res.ExitCode, "Expected success, got exit code %d\nOutput: %s", res.ExitCode, res.Output())
}

func AssertExitCode(t *testing.T, res Result, expected int) {
	t.Helper()
	assert.Equal(t, expected, res.ExitCode, "Expected exit code %d, got %d\nOutput: %s", expected, res.ExitCode, res.Output())
}

func AssertOutputContains(t *testing.T, output, expected string) {
	t.Helper()
	assert.Contains(t, output, expected, "Expected output containing '%s', got: %s", expected, output)
}

func AssertOutputNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	assert.NotContains(t, output, unexpected, "Expected output not containing '%s', got: %s", unexpected, output)
}

func AssertHelpfulError(t *testing.T, output string) {
	t.Helper()

	helpfulElements := []string{
		"Solutions:",
		"Solution:",
		"Cause:",
		"Tip:",
		"•",
		"Examples:",
		"Usage:",
	}

	for _, element := range helpfulElements {
		if strings.Contains(output, element) {
			return
		}
	}
	t.Errorf("Error message does not appear to be helpful. Got: %s", output)
}

func AssertMultipleStringsInOutput(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, exp := range expected {
		assert.Contains(t, output, exp, "Expected output to contain '%s', got: %s", exp, output)
	}
}

func AssertFileExists(t *testing.T, ws *Workspace, path string) {
	t.Helper()
	assert.True(t, ws.HasFile(path), "Expected file '%s' to exist", path)
}

func AssertFileNotExists(t *testing.T, ws *Workspace, path string) {
	t.Helper()
	assert.False(t, ws.HasFile(path), "Expected file '%s' not to exist", path)
}

func AssertFileContains(t *testing.T, ws *Workspace, path, content string) {
	t.Helper()
	if !ws.HasFile(path) {
		t.Errorf("File '%s' does not exist", path)
		return
	}
	fileContent := ws.ReadFile(path)
	assert.Contains(t, fileContent, content, "Expected file '%s' to contain '%s', got: %s", path, content, fileContent)
}
