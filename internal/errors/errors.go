package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/SirJson/commandspec/internal/command"
	"github.com/SirJson/commandspec/internal/render"
	"github.com/SirJson/commandspec/internal/template"
)

// Common error messages with helpful context and suggestions.
// Errors that describe a failure keep it reachable through errors.Is/As.

// Template Errors
func TemplateParseFailed(source string, parseError error) error {
	msg := fmt.Sprintf("failed to parse template from %s", source)

	switch {
	case errors.Is(parseError, template.ErrUnterminatedPlaceholder):
		msg += `

Cause: A placeholder is missing its closing '}'
Solution: Close every '{name' with '}'`
	case errors.Is(parseError, template.ErrUnmatchedBrace):
		msg += `

Cause: A '}' has no matching '{'
Solution: Write '{{' or '}}' for literal braces`
	case errors.Is(parseError, template.ErrInvalidPlaceholder), errors.Is(parseError, template.ErrEmptyPlaceholder):
		msg += `

Cause: Invalid placeholder name
Solution: Placeholder names use letters, digits and underscores, and must not start with a digit`
	case errors.Is(parseError, template.ErrMultipleCommands):
		msg += `

Cause: The template has more than one command line
Solutions:
  • End a line with '\' to continue the command on the next line
  • Use 'steps:' in .commandspec.yml to run several commands`
	case errors.Is(parseError, template.ErrMisplacedCd), errors.Is(parseError, template.ErrMisplacedExport):
		msg += `

Cause: Clauses are out of order
Solution: Write an optional 'cd' line first, then 'export' lines, then the command`
	case errors.Is(parseError, template.ErrInvalidEncoding):
		msg += `

Cause: The template contains bytes that are not valid UTF-8
Solution: Save the task file as UTF-8`
	case errors.Is(parseError, template.ErrMissingCommand):
		msg += `

Cause: The template has no command line`
	}

	return fmt.Errorf("%s\n\nOriginal error: %w", msg, parseError)
}

// Binding Errors
func BindingFailed(bindError error, bound []string) error {
	var be *render.BindingError
	if !errors.As(bindError, &be) {
		return fmt.Errorf("failed to render template\n\nOriginal error: %w", bindError)
	}

	var msg string
	switch {
	case errors.Is(be, render.ErrUnbound):
		msg = fmt.Sprintf("no value bound to placeholder '{%s}'", be.Name)

		if len(bound) > 0 {
			msg += "\n\nBound placeholders:"
			for _, b := range bound {
				msg += fmt.Sprintf("\n  • %s", b)
			}
		}

		msg += fmt.Sprintf(`

Solutions:
  • commandspec run <task> --set %[1]s=value
  • commandspec run <task> --list '%[1]s=a b c'
  • commandspec run <task> --unset %[1]s
  • Add '%[1]s' under 'bindings:' in .commandspec.yml`, be.Name)
	case errors.Is(be, render.ErrEmptyProgram):
		msg = fmt.Sprintf(`placeholder '{%s}' left the command without a program

Solution: Bind '%[1]s' to a non-empty value`, be.Name)
	case errors.Is(be, render.ErrUnquotable):
		msg = fmt.Sprintf(`value of '{%s}' cannot be passed to the shell

Cause: The value contains control characters`, be.Name)
	default:
		msg = fmt.Sprintf("failed to render placeholder '{%s}'", be.Name)
	}

	return fmt.Errorf("%s\n\nOriginal error: %w", msg, bindError)
}

func InvalidBindingFlag(flag, raw, reason string) error {
	msg := fmt.Sprintf(`invalid --%s value: '%s'

Cause: %s

Examples:
  • --set bin_name=server
  • --list 'args=one "two words"'
  • --unset release_flag`, flag, raw, reason)
	return errors.New(msg)
}

// Execution Errors
func CommandFailed(err error) error {
	var cmdErr *command.Error
	if !errors.As(err, &cmdErr) {
		return fmt.Errorf("command failed\n\nOriginal error: %w", err)
	}

	msg := fmt.Sprintf("command '%s' failed", cmdErr.Program)

	switch cmdErr.Kind {
	case command.KindSpawnFailed:
		switch {
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			msg += `

Cause: Program or working directory not found
Solutions:
  • Check the program name spelling
  • Ensure the program is in PATH
  • Check that the 'cd' directory exists`
		case errors.Is(err, fs.ErrPermission):
			msg += `

Cause: Permission denied
Solutions:
  • Check that the program is executable
  • Check directory permissions`
		}
	case command.KindTerminated:
		msg += `

Cause: The process was terminated before it exited
Tip: Run with --debug to see the rendered command`
	case command.KindExitCode:
		msg += fmt.Sprintf("\n\nExit code: %d", cmdErr.Code)
	}

	return fmt.Errorf("%s\n\nOriginal error: %w", msg, err)
}

// Task Errors
func TaskNotFound(name string, availableTasks []string) error {
	msg := fmt.Sprintf("task '%s' not found", name)

	if len(availableTasks) > 0 {
		msg += "\n\nAvailable tasks:"
		for _, task := range availableTasks {
			msg += fmt.Sprintf("\n  • %s", task)
		}
	} else {
		msg += "\n\nNo tasks found."
	}

	msg += "\n\nTip: Run 'commandspec list' to see all tasks"
	return errors.New(msg)
}

func TaskNameRequired(commandExample string) error {
	msg := fmt.Sprintf(`task name or --template is required

Usage: %s

Examples:
  • commandspec run build
  • commandspec run build --set bin_name=server
  • commandspec run --template 'echo {msg}' --set msg=hi

Tip: Run 'commandspec list' to see available tasks`, commandExample)
	return errors.New(msg)
}

// Configuration Errors
func ConfigLoadFailed(configPath string, parseError error) error {
	msg := fmt.Sprintf("failed to load configuration from '%s'", configPath)

	parseErrorStr := parseError.Error()
	var templateErr *template.ParseError
	switch {
	case errors.As(parseError, &templateErr):
		msg += `

Cause: A task template does not parse
Tip: Run 'commandspec check' to validate every task`
	case strings.Contains(parseErrorStr, "yaml") || strings.Contains(parseErrorStr, "unmarshal"):
		msg += `

Cause: YAML syntax error in configuration file
Solutions:
  • Check YAML syntax and indentation
  • Run 'commandspec init' in an empty directory to see a sample configuration`
	case errors.Is(parseError, fs.ErrNotExist):
		msg += `

Cause: Configuration file does not exist
Solution: Run 'commandspec init' to create a configuration file`
	case errors.Is(parseError, fs.ErrPermission):
		msg += `

Cause: Permission denied reading configuration file
Solution: Check file permissions with 'ls -la .commandspec.yml'`
	}

	return fmt.Errorf("%s\n\nOriginal error: %w", msg, parseError)
}

func ConfigAlreadyExists(configPath string) error {
	msg := fmt.Sprintf(`configuration file already exists: %s

Options:
  • Edit the existing file manually
  • Delete it and run 'commandspec init' again`, configPath)
	return errors.New(msg)
}

// File System Errors
func DirectoryAccessFailed(operation, path string, originalError error) error {
	msg := fmt.Sprintf("failed to %s directory: %s", operation, path)

	switch {
	case errors.Is(originalError, fs.ErrPermission):
		msg += `

Cause: Permission denied
Solutions:
  • Check directory permissions
  • Ensure you own the directory`
	case errors.Is(originalError, fs.ErrNotExist):
		msg += `

Cause: Directory does not exist
Solutions:
  • Create the parent directory first
  • Check the path spelling`
	}

	return fmt.Errorf("%s\n\nOriginal error: %w", msg, originalError)
}
