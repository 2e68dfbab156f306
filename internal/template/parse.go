package template

import (
	"strings"
)

type parseState int

const (
	stateCd parseState = iota
	stateEnv
	stateCommand
)

const (
	keywordCd     = "cd"
	keywordExport = "export"
)

// Parse parses template text. Blank lines are ignored. The first line may be a
// cd clause, export lines follow, and the last line is the command; a command
// line ending in a backslash continues on the next line.
func Parse(text string) (*Template, error) {
	if err := checkEncoding(text); err != nil {
		return nil, err
	}

	lines := strings.Split(text, "\n")
	t := &Template{source: text}
	state := stateCd

	for n := 0; n < len(lines); n++ {
		raw := strings.TrimSuffix(lines[n], "\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		lineNo := n + 1
		pos := Position{Line: lineNo, Column: firstColumn(raw)}

		switch keyword(trimmed) {
		case keywordCd:
			if state != stateCd {
				return nil, newParseError(pos, ErrMisplacedCd, "cd must be the first line of the template and may appear only once")
			}
			cwd, err := parseCd(raw, lineNo, pos)
			if err != nil {
				return nil, err
			}
			t.Cwd = cwd
			state = stateEnv

		case keywordExport:
			if state == stateCommand {
				return nil, newParseError(pos, ErrMisplacedExport, "export lines must precede the command")
			}
			clauses, err := parseExport(raw, lineNo, pos)
			if err != nil {
				return nil, err
			}
			t.Env = append(t.Env, clauses...)
			state = stateEnv

		default:
			if state == stateCommand {
				return nil, newParseError(pos, ErrMultipleCommands, "unexpected %q after the command line; end a line with '\\' to continue it", trimmed)
			}
			src, last, err := commandChars(lines, n)
			if err != nil {
				return nil, err
			}
			words, err := lexWords(src, ContextArgument)
			if err != nil {
				return nil, err
			}
			if len(words) == 0 {
				return nil, newParseError(pos, ErrMissingCommand, "command line is empty")
			}
			t.Program = words[0]
			t.Args = words[1:]
			state = stateCommand
			n = last
		}
	}

	if state != stateCommand {
		return nil, newParseError(Position{}, ErrMissingCommand, "no command line found")
	}
	return t, nil
}

// MustParse is like Parse but panics on error. It is intended for templates
// written as literals in source code.
func MustParse(text string) *Template {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

func parseCd(raw string, lineNo int, pos Position) (*Word, error) {
	words, err := lexWords(lineChars(raw, lineNo), ContextText)
	if err != nil {
		return nil, err
	}
	args := words[1:]
	if len(args) != 1 {
		return nil, newParseError(pos, ErrMalformedCd, "expected 1 argument, found %d", len(args))
	}
	return &args[0], nil
}

func parseExport(raw string, lineNo int, pos Position) ([]EnvClause, error) {
	words, err := lexWords(lineChars(raw, lineNo), ContextText)
	if err != nil {
		return nil, err
	}
	args := words[1:]
	if len(args) == 0 {
		return nil, newParseError(pos, ErrMalformedExport, "expected at least one NAME=VALUE")
	}

	clauses := make([]EnvClause, 0, len(args))
	for _, w := range args {
		clause, err := splitAssignment(w)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

// splitAssignment splits NAME=value at the first '=' of the word's leading text.
func splitAssignment(w Word) (EnvClause, error) {
	if len(w.Segments) == 0 || w.Segments[0].Kind != SegmentText {
		return EnvClause{}, newParseError(w.Pos, ErrMalformedExport, "expected NAME=VALUE, found %q", w.String())
	}
	first := w.Segments[0]
	name, rest, ok := strings.Cut(first.Text, "=")
	if !ok {
		return EnvClause{}, newParseError(w.Pos, ErrMalformedExport, "expected NAME=VALUE, found %q", w.String())
	}
	if !IsIdentifier(name) {
		return EnvClause{}, newParseError(w.Pos, ErrMalformedExport, "invalid variable name %q", name)
	}

	var segs []Segment
	if rest != "" {
		segs = append(segs, Segment{
			Kind: SegmentText,
			Text: rest,
			Pos:  Position{Line: first.Pos.Line, Column: first.Pos.Column + len([]rune(name)) + 1},
		})
	}
	segs = append(segs, w.Segments[1:]...)

	valuePos := w.Pos
	if len(segs) > 0 {
		valuePos = segs[0].Pos
	}
	return EnvClause{Name: name, Value: Word{Segments: segs, Pos: valuePos}, Pos: w.Pos}, nil
}

// commandChars collects the command line starting at lines[n], joining lines
// that end in a backslash. It returns the index of the last line consumed.
func commandChars(lines []string, n int) ([]char, int, error) {
	var src []char
	for {
		raw := strings.TrimRight(strings.TrimSuffix(lines[n], "\r"), " \t")
		if !continues(raw) {
			src = append(src, lineChars(raw, n+1)...)
			return src, n, nil
		}

		body := lineChars(raw[:len(raw)-1], n+1)
		src = append(src, body...)
		src = append(src, char{r: ' ', pos: Position{Line: n + 1, Column: len(body) + 1}})
		if n+1 >= len(lines) {
			return nil, n, newParseError(Position{Line: n + 1, Column: len(body) + 1}, ErrDanglingContinuation, "no line follows the trailing '\\'")
		}
		n++
	}
}

// continues reports whether line ends in an unescaped backslash.
func continues(line string) bool {
	count := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		count++
	}
	return count%2 == 1
}

func keyword(trimmed string) string {
	word := trimmed
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		word = trimmed[:i]
	}
	switch word {
	case keywordCd, keywordExport:
		return word
	default:
		return ""
	}
}

func firstColumn(raw string) int {
	col := 1
	for _, r := range raw {
		if r != ' ' && r != '\t' {
			break
		}
		col++
	}
	return col
}
