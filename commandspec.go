// Package commandspec compiles small shell-like templates into process
// invocations and runs them without a shell.
//
//	err := commandspec.Execute(ctx, `
//		cd {path}
//		export RUST_LOG=full
//		cargo run {release_flag} --bin {bin_name} -- {args}
//	`, commandspec.Bindings{
//		"path":         commandspec.Literal("."),
//		"release_flag": commandspec.None(),
//		"bin_name":     commandspec.Literal("binary"),
//		"args":         commandspec.List("arg1", "arg2"),
//	})
//
// Literal values fill exactly one argument, absent optionals and empty lists
// drop the argument that contains them, and lists fan out into one argument per
// element. Values are never re-split on whitespace.
package commandspec

import (
	"context"
	"io"
	"os/exec"
	"sync"

	"github.com/SirJson/commandspec/internal/command"
	"github.com/SirJson/commandspec/internal/render"
	"github.com/SirJson/commandspec/internal/template"
	"github.com/SirJson/commandspec/internal/value"
)

type (
	// Value is a placeholder argument: Literal, Optional or List.
	Value = value.Value
	// Bindings maps placeholder names to values.
	Bindings = render.Bindings
	// Rendered is a fully substituted command.
	Rendered = render.Rendered
	// ScriptOptions configures ParseScript.
	ScriptOptions = template.ScriptOptions

	// ParseError reports a malformed template.
	ParseError = template.ParseError
	// BindingError reports a placeholder that could not be rendered.
	BindingError = render.BindingError
	// CommandError reports a command that did not exit cleanly.
	CommandError = command.Error
	// ErrorKind classifies a CommandError.
	ErrorKind = command.Kind

	// Invocation is the process description handed to a ProcessRunner.
	Invocation = command.Command
	// Outcome is the raw result reported by a ProcessRunner.
	Outcome = command.Outcome
	// ProcessRunner spawns a process and blocks until it terminates.
	ProcessRunner = command.ProcessRunner
)

const (
	KindExitCode    = command.KindExitCode
	KindTerminated  = command.KindTerminated
	KindSpawnFailed = command.KindSpawnFailed
)

var (
	ErrExitCode    = command.ErrExitCode
	ErrTerminated  = command.ErrTerminated
	ErrSpawnFailed = command.ErrSpawnFailed
	ErrUnbound     = render.ErrUnbound
)

// Literal returns a single-valued argument.
func Literal(s string) Value { return value.Literal(s) }

// Some returns a present optional argument.
func Some(s string) Value { return value.Some(s) }

// None returns an absent optional argument.
func None() Value { return value.None() }

// Optional returns Some(*s), or None when s is nil.
func Optional(s *string) Value { return value.Optional(s) }

// List returns a sequence argument.
func List(items ...string) Value { return value.List(items...) }

// From converts strings, pointers, slices, numbers and fmt.Stringers to a Value.
func From(v any) (Value, error) { return value.From(v) }

// BindingsFrom converts every entry of m with From.
func BindingsFrom(m map[string]any) (Bindings, error) {
	out := make(Bindings, len(m))
	for name, v := range m {
		converted, err := value.From(v)
		if err != nil {
			return nil, &BindingError{Name: name, Err: err}
		}
		out[name] = converted
	}
	return out, nil
}

// Template is a parsed, immutable command template, safe for concurrent use.
type Template struct {
	tmpl *template.Template
}

// Parse parses template text.
func Parse(text string) (*Template, error) {
	t, err := template.Parse(text)
	if err != nil {
		return nil, err
	}
	return &Template{tmpl: t}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Template {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseScript parses a shell script body run through `sh -c` with `set -e`.
// Placeholders in the script are shell-quoted.
func ParseScript(script string, opts ScriptOptions) (*Template, error) {
	t, err := template.ParseScript(script, opts)
	if err != nil {
		return nil, err
	}
	return &Template{tmpl: t}, nil
}

// Source returns the text the template was parsed from.
func (t *Template) Source() string {
	return t.tmpl.Source()
}

// Placeholders returns the distinct placeholder names in rendering order.
func (t *Template) Placeholders() []string {
	return t.tmpl.Placeholders()
}

// Render substitutes bindings into the template.
func (t *Template) Render(bindings Bindings) (*Rendered, error) {
	return render.Render(t.tmpl, bindings)
}

// Invocation renders the template into the description passed to a ProcessRunner.
func (t *Template) Invocation(bindings Bindings) (Invocation, error) {
	r, err := t.Render(bindings)
	if err != nil {
		return Invocation{}, err
	}
	return command.FromRendered(r), nil
}

// Command renders the template into an *exec.Cmd without starting it.
func (t *Template) Command(ctx context.Context, bindings Bindings, opts ...Option) (*exec.Cmd, error) {
	inv, err := t.Invocation(bindings)
	if err != nil {
		return nil, err
	}
	o := collect(opts)
	return command.Build(ctx, inv, o.run), nil
}

// Execute renders the template, runs it and waits for it to finish. It
// returns a *BindingError before anything is spawned, or a *CommandError when
// the process does not exit cleanly.
func (t *Template) Execute(ctx context.Context, bindings Bindings, opts ...Option) error {
	inv, err := t.Invocation(bindings)
	if err != nil {
		return err
	}
	o := collect(opts)
	return command.NewExecutor(o.runner()).Run(ctx, inv)
}

// Option configures Command and Execute.
type Option func(*options)

type options struct {
	run    command.RunOptions
	custom ProcessRunner
}

func (o options) runner() ProcessRunner {
	if o.custom != nil {
		return o.custom
	}
	return command.NewRealRunner(o.run)
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithStdio replaces the inherited standard streams. Nil streams are inherited.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.run.Stdin = stdin
		o.run.Stdout = stdout
		o.run.Stderr = stderr
	}
}

// WithEnviron replaces the inherited environment the template's exports are
// layered on.
func WithEnviron(environ func() []string) Option {
	return func(o *options) {
		o.run.Environ = environ
	}
}

// WithRunner replaces the process spawning primitive used by Execute.
func WithRunner(r ProcessRunner) Option {
	return func(o *options) {
		o.custom = r
	}
}

// CleanupOnInterrupt forwards SIGINT/SIGTERM to every running child process
// group and exits with status 130. The returned func uninstalls the handler.
func CleanupOnInterrupt() (stop func()) {
	return command.CleanupOnInterrupt()
}

type cacheKey struct {
	text   string
	script bool
	opts   ScriptOptions
}

type cacheEntry struct {
	tmpl *Template
	err  error
}

var parsed sync.Map

func cachedParse(key cacheKey) (*Template, error) {
	if e, ok := parsed.Load(key); ok {
		entry := e.(cacheEntry)
		return entry.tmpl, entry.err
	}

	var entry cacheEntry
	if key.script {
		entry.tmpl, entry.err = ParseScript(key.text, key.opts)
	} else {
		entry.tmpl, entry.err = Parse(key.text)
	}
	actual, _ := parsed.LoadOrStore(key, entry)
	entry = actual.(cacheEntry)
	return entry.tmpl, entry.err
}

// Command parses text (cached across calls) and renders it into an *exec.Cmd.
func Command(ctx context.Context, text string, bindings Bindings, opts ...Option) (*exec.Cmd, error) {
	t, err := cachedParse(cacheKey{text: text})
	if err != nil {
		return nil, err
	}
	return t.Command(ctx, bindings, opts...)
}

// Execute parses text (cached across calls), renders and runs it.
func Execute(ctx context.Context, text string, bindings Bindings, opts ...Option) error {
	t, err := cachedParse(cacheKey{text: text})
	if err != nil {
		return err
	}
	return t.Execute(ctx, bindings, opts...)
}

// ScriptCommand is Command for a shell script body (see ParseScript).
func ScriptCommand(ctx context.Context, script string, sopts ScriptOptions, bindings Bindings, opts ...Option) (*exec.Cmd, error) {
	t, err := cachedParse(cacheKey{text: script, script: true, opts: sopts})
	if err != nil {
		return nil, err
	}
	return t.Command(ctx, bindings, opts...)
}

// ExecuteScript is Execute for a shell script body (see ParseScript).
func ExecuteScript(ctx context.Context, script string, sopts ScriptOptions, bindings Bindings, opts ...Option) error {
	t, err := cachedParse(cacheKey{text: script, script: true, opts: sopts})
	if err != nil {
		return err
	}
	return t.Execute(ctx, bindings, opts...)
}
