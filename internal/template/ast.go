// Package template parses shell-like command templates into an immutable
// structure of clauses, words and segments.
//
// A template is line oriented:
//
//	cd {path}
//	export RUST_LOG=full
//	cargo run {release_flag} --bin {bin_name} -- {args}
//
// An optional cd line comes first, followed by any number of export lines and
// exactly one command line. Placeholders are written {name}; {{ and }} are
// literal braces.
package template

import "strings"

// Context selects how a placeholder is rendered.
type Context int

const (
	// ContextArgument expands a placeholder into zero, one or many argument slots.
	ContextArgument Context = iota
	// ContextText renders a placeholder as plain text inside a single string.
	ContextText
	// ContextShell renders a placeholder as shell-quoted words inside a script.
	ContextShell
)

// SegmentKind distinguishes literal text from placeholder references.
type SegmentKind int

const (
	// SegmentText is literal text copied into the rendered word.
	SegmentText SegmentKind = iota
	// SegmentPlaceholder is a {name} reference resolved from the bindings.
	SegmentPlaceholder
)

// Segment is one unit of a word, in rendering order.
type Segment struct {
	Kind SegmentKind
	// Text holds the literal text, or the placeholder name for SegmentPlaceholder.
	Text    string
	Context Context
	Pos     Position
}

// Text returns a literal text segment.
func Text(s string) Segment {
	return Segment{Kind: SegmentText, Text: s}
}

// Position is a 1-based line and column inside the template text.
type Position struct {
	Line   int
	Column int
}

// Word is an ordered sequence of segments that renders into one string, or into
// an argument slot of the command clause.
type Word struct {
	Segments []Segment
	Pos      Position
}

// IsLiteral reports whether w has no placeholders.
func (w Word) IsLiteral() bool {
	for _, seg := range w.Segments {
		if seg.Kind == SegmentPlaceholder {
			return false
		}
	}
	return true
}

// Literal returns the concatenated text of w, ignoring placeholders.
func (w Word) Literal() string {
	var b strings.Builder
	for _, seg := range w.Segments {
		if seg.Kind == SegmentText {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// EnvClause is one NAME=value assignment from an export line.
type EnvClause struct {
	Name  string
	Value Word
	Pos   Position
}

// Template is a parsed command template. It is never mutated after parsing and
// is safe for concurrent use.
type Template struct {
	Cwd     *Word
	Env     []EnvClause
	Program Word
	Args    []Word

	source string
}

// Source returns the text the template was parsed from.
func (t *Template) Source() string {
	return t.source
}

// Placeholders returns the distinct placeholder names referenced by t in
// rendering order.
func (t *Template) Placeholders() []string {
	seen := map[string]bool{}
	var names []string
	visit := func(w Word) {
		for _, seg := range w.Segments {
			if seg.Kind == SegmentPlaceholder && !seen[seg.Text] {
				seen[seg.Text] = true
				names = append(names, seg.Text)
			}
		}
	}

	if t.Cwd != nil {
		visit(*t.Cwd)
	}
	for _, env := range t.Env {
		visit(env.Value)
	}
	visit(t.Program)
	for _, arg := range t.Args {
		visit(arg)
	}
	return names
}

// String renders w back into template syntax.
func (w Word) String() string {
	var b strings.Builder
	for _, seg := range w.Segments {
		if seg.Kind == SegmentPlaceholder {
			b.WriteString("{" + seg.Text + "}")
			continue
		}
		b.WriteString(strings.NewReplacer("{", "{{", "}", "}}").Replace(seg.Text))
	}
	return b.String()
}
