package template

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// char is a rune tagged with its position in the template text.
type char struct {
	r   rune
	pos Position
}

// checkEncoding rejects text that is not valid UTF-8, pointing at the first
// invalid byte.
func checkEncoding(text string) error {
	if utf8.ValidString(text) {
		return nil
	}
	pos := Position{Line: 1, Column: 1}
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size == 1 {
				return newParseError(pos, ErrInvalidEncoding, "invalid byte 0x%02x", text[i])
			}
		}
		if r == '\n' {
			pos = Position{Line: pos.Line + 1, Column: 1}
		} else {
			pos.Column++
		}
	}
	return newParseError(Position{}, ErrInvalidEncoding, "invalid byte sequence")
}

func lineChars(line string, lineNo int) []char {
	out := make([]char, 0, len(line))
	col := 0
	for _, r := range line {
		col++
		out = append(out, char{r: r, pos: Position{Line: lineNo, Column: col}})
	}
	return out
}

// lexer splits template text into words. Outside quotes, whitespace separates
// words and placeholders take the lexer's context; inside quotes, whitespace is
// kept and placeholders render as plain text. In raw mode the whole input is a
// single word and only braces are significant.
type lexer struct {
	src      []char
	i        int
	unquoted Context
	raw      bool

	words   []Word
	segs    []Segment
	text    strings.Builder
	textPos Position
	started bool
	wordPos Position
}

func lexWords(src []char, ctx Context) ([]Word, error) {
	l := &lexer{src: src, unquoted: ctx}
	return l.run()
}

func lexRaw(src []char, ctx Context) (Word, error) {
	l := &lexer{src: src, unquoted: ctx, raw: true}
	words, err := l.run()
	if err != nil {
		return Word{}, err
	}
	if len(words) == 0 {
		return Word{}, nil
	}
	return words[0], nil
}

func (l *lexer) run() ([]Word, error) {
	for l.i < len(l.src) {
		c := l.src[l.i]
		switch {
		case c.r == '{' || c.r == '}':
			if err := l.brace(l.unquoted); err != nil {
				return nil, err
			}
		case l.raw:
			l.addRune(c)
			l.i++
		case isBlank(c.r):
			l.flush()
			l.i++
		case c.r == '\'':
			if err := l.singleQuoted(); err != nil {
				return nil, err
			}
		case c.r == '"':
			if err := l.doubleQuoted(); err != nil {
				return nil, err
			}
		case c.r == '\\':
			l.begin(c.pos)
			if l.i+1 < len(l.src) {
				l.addRune(l.src[l.i+1])
				l.i += 2
			} else {
				l.addRune(c)
				l.i++
			}
		default:
			l.addRune(c)
			l.i++
		}
	}
	l.flush()
	return l.words, nil
}

func (l *lexer) singleQuoted() error {
	open := l.src[l.i]
	l.begin(open.pos)
	l.i++
	for l.i < len(l.src) {
		c := l.src[l.i]
		switch c.r {
		case '\'':
			l.i++
			return nil
		case '{', '}':
			if err := l.brace(ContextText); err != nil {
				return err
			}
		default:
			l.addRune(c)
			l.i++
		}
	}
	return newParseError(open.pos, ErrUnterminatedQuote, "missing closing '")
}

func (l *lexer) doubleQuoted() error {
	open := l.src[l.i]
	l.begin(open.pos)
	l.i++
	for l.i < len(l.src) {
		c := l.src[l.i]
		switch c.r {
		case '"':
			l.i++
			return nil
		case '\\':
			if l.i+1 < len(l.src) && strings.ContainsRune("\"\\$`", l.src[l.i+1].r) {
				l.addRune(l.src[l.i+1])
				l.i += 2
				continue
			}
			l.addRune(c)
			l.i++
		case '{', '}':
			if err := l.brace(ContextText); err != nil {
				return err
			}
		default:
			l.addRune(c)
			l.i++
		}
	}
	return newParseError(open.pos, ErrUnterminatedQuote, `missing closing "`)
}

// brace handles '{' or '}' at the current position: a doubled brace is a
// literal, otherwise '{' must open a {name} placeholder.
func (l *lexer) brace(ctx Context) error {
	c := l.src[l.i]
	doubled := l.i+1 < len(l.src) && l.src[l.i+1].r == c.r
	if doubled {
		l.addRune(c)
		l.i += 2
		return nil
	}
	if c.r == '}' {
		return newParseError(c.pos, ErrUnmatchedBrace, "use '}}' for a literal brace")
	}

	j := l.i + 1
	for j < len(l.src) && l.src[j].r != '}' && l.src[j].r != '{' && l.src[j].r != '\n' {
		j++
	}
	if j >= len(l.src) || l.src[j].r != '}' {
		return newParseError(c.pos, ErrUnterminatedPlaceholder, "missing closing '}'")
	}

	var name strings.Builder
	for _, nc := range l.src[l.i+1 : j] {
		name.WriteRune(nc.r)
	}
	if name.Len() == 0 {
		return newParseError(c.pos, ErrEmptyPlaceholder, "use '{{}}' for literal braces")
	}
	if !IsIdentifier(name.String()) {
		return newParseError(c.pos, ErrInvalidPlaceholder, "%q", name.String())
	}

	l.addPlaceholder(name.String(), ctx, c.pos)
	l.i = j + 1
	return nil
}

func (l *lexer) begin(pos Position) {
	if !l.started {
		l.started = true
		l.wordPos = pos
	}
}

func (l *lexer) addRune(c char) {
	l.begin(c.pos)
	if l.text.Len() == 0 {
		l.textPos = c.pos
	}
	l.text.WriteRune(c.r)
}

func (l *lexer) addPlaceholder(name string, ctx Context, pos Position) {
	l.begin(pos)
	l.flushText()
	l.segs = append(l.segs, Segment{Kind: SegmentPlaceholder, Text: name, Context: ctx, Pos: pos})
}

func (l *lexer) flushText() {
	if l.text.Len() == 0 {
		return
	}
	l.segs = append(l.segs, Segment{Kind: SegmentText, Text: l.text.String(), Pos: l.textPos})
	l.text.Reset()
}

func (l *lexer) flush() {
	if !l.started {
		return
	}
	l.flushText()
	l.words = append(l.words, Word{Segments: l.segs, Pos: l.wordPos})
	l.segs = nil
	l.started = false
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// IsIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}
