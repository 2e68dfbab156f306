// Package render substitutes bound values into a parsed template.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/SirJson/commandspec/internal/template"
	"github.com/SirJson/commandspec/internal/value"
)

var (
	// ErrUnbound means a placeholder has no value in the bindings.
	ErrUnbound = errors.New("no value bound to placeholder")
	// ErrEmptyProgram means the program word rendered to nothing.
	ErrEmptyProgram = errors.New("program name rendered empty")
	// ErrUnquotable means a value cannot be quoted for a shell script.
	ErrUnquotable = errors.New("value cannot be shell-quoted")
)

// BindingError reports a placeholder that could not be rendered.
type BindingError struct {
	Name string
	Pos  template.Position
	Err  error
}

func (e *BindingError) Error() string {
	msg := fmt.Sprintf("binding: %s {%s}", e.Err, e.Name)
	if e.Pos.Line > 0 {
		msg += fmt.Sprintf(" at line %d, column %d", e.Pos.Line, e.Pos.Column)
	}
	return msg
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// Bindings maps placeholder names to values for one invocation.
type Bindings map[string]value.Value

// Set binds name to v and returns b for chaining.
func (b Bindings) Set(name string, v value.Value) Bindings {
	b[name] = v
	return b
}

// Merge returns a new Bindings holding b overlaid with other.
func (b Bindings) Merge(other Bindings) Bindings {
	out := make(Bindings, len(b)+len(other))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Rendered is a fully substituted command.
type Rendered struct {
	// Dir is the working directory override; empty means none.
	Dir string
	// Env holds the environment overrides.
	Env     map[string]string
	Program string
	Args    []string
}

// Render substitutes bindings into t in rendering order: cwd, environment,
// program, then arguments. It stops at the first placeholder that cannot be
// rendered and never returns a partial command.
func Render(t *template.Template, bindings Bindings) (*Rendered, error) {
	r := renderer{bindings: bindings}
	out := &Rendered{Env: map[string]string{}}

	if t.Cwd != nil {
		dir, err := r.text(*t.Cwd)
		if err != nil {
			return nil, err
		}
		out.Dir = dir
	}

	for _, env := range t.Env {
		v, err := r.text(env.Value)
		if err != nil {
			return nil, err
		}
		out.Env[env.Name] = v
	}

	program, err := r.argument(t.Program)
	if err != nil {
		return nil, err
	}
	if len(program) == 0 {
		return nil, &BindingError{Name: firstPlaceholder(t.Program), Pos: t.Program.Pos, Err: ErrEmptyProgram}
	}
	out.Program = program[0]
	out.Args = append([]string{}, program[1:]...)

	for _, w := range t.Args {
		tokens, err := r.argument(w)
		if err != nil {
			return nil, err
		}
		out.Args = append(out.Args, tokens...)
	}
	return out, nil
}

type renderer struct {
	bindings Bindings
}

func (r *renderer) lookup(seg template.Segment) (value.Value, error) {
	v, ok := r.bindings[seg.Text]
	if !ok {
		return value.Value{}, &BindingError{Name: seg.Text, Pos: seg.Pos, Err: ErrUnbound}
	}
	return v, nil
}

// text renders w as a single string.
func (r *renderer) text(w template.Word) (string, error) {
	var b strings.Builder
	for _, seg := range w.Segments {
		s, err := r.inline(seg)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// inline renders a segment that cannot change the number of arguments.
func (r *renderer) inline(seg template.Segment) (string, error) {
	if seg.Kind == template.SegmentText {
		return seg.Text, nil
	}
	v, err := r.lookup(seg)
	if err != nil {
		return "", err
	}
	if seg.Context != template.ContextShell {
		return v.Text(), nil
	}

	var quoteErr error
	quoted := v.Map(func(s string) string {
		q, err := syntax.Quote(s, syntax.LangPOSIX)
		if err != nil && quoteErr == nil {
			quoteErr = err
		}
		return q
	})
	if quoteErr != nil {
		return "", &BindingError{Name: seg.Text, Pos: seg.Pos, Err: fmt.Errorf("%w: %v", ErrUnquotable, quoteErr)}
	}
	return quoted, nil
}

// argument renders w into zero or more argument slots. An absent optional or
// empty list drops the whole word; a list fans the word out once per element,
// repeating the surrounding text.
func (r *renderer) argument(w template.Word) ([]string, error) {
	results := []string{""}
	dropped := false

	for _, seg := range w.Segments {
		if seg.Kind == template.SegmentText || seg.Context != template.ContextArgument {
			s, err := r.inline(seg)
			if err != nil {
				return nil, err
			}
			for i := range results {
				results[i] += s
			}
			continue
		}

		v, err := r.lookup(seg)
		if err != nil {
			return nil, err
		}
		tokens := v.Tokens()
		if len(tokens) == 0 {
			dropped = true
			continue
		}

		next := make([]string, 0, len(results)*len(tokens))
		for _, prefix := range results {
			for _, tok := range tokens {
				next = append(next, prefix+tok)
			}
		}
		results = next
	}

	if dropped {
		return nil, nil
	}
	return results, nil
}

func firstPlaceholder(w template.Word) string {
	for _, seg := range w.Segments {
		if seg.Kind == template.SegmentPlaceholder {
			return seg.Text
		}
	}
	return ""
}

// EnvList returns the environment overrides as sorted NAME=value pairs.
func (r *Rendered) EnvList() []string {
	keys := make([]string, 0, len(r.Env))
	for k := range r.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+r.Env[k])
	}
	return out
}

// Argv returns the program followed by its arguments.
func (r *Rendered) Argv() []string {
	return append([]string{r.Program}, r.Args...)
}

// String renders r as a shell command line for display. Nothing is ever
// executed through a shell.
func (r *Rendered) String() string {
	var parts []string
	if r.Dir != "" {
		parts = append(parts, "cd", Quote(r.Dir), "&&")
	}
	for _, kv := range r.EnvList() {
		name, val, _ := strings.Cut(kv, "=")
		parts = append(parts, name+"="+Quote(val))
	}
	for _, arg := range r.Argv() {
		parts = append(parts, Quote(arg))
	}
	return strings.Join(parts, " ")
}

// Quote shell-quotes s for display, falling back to Go quoting for strings
// a shell cannot represent.
func Quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return strconv.Quote(s)
	}
	return q
}
