package template

import "strings"

const scriptPrelude = "set -e\n\n"

// ScriptOptions configures ParseScript.
type ScriptOptions struct {
	// Elevated runs the script through pkexec.
	Elevated bool
	// Shell overrides the interpreter. Defaults to "sh".
	Shell string
}

// ParseScript parses a shell script body into a template that runs
// `sh -c "set -e\n\n<script>"`. Placeholders in the script are rendered as
// shell-quoted words; quotes and whitespace are passed to the shell untouched.
func ParseScript(script string, opts ScriptOptions) (*Template, error) {
	if err := checkEncoding(script); err != nil {
		return nil, err
	}

	shell := opts.Shell
	if shell == "" {
		shell = "sh"
	}

	var src []char
	prevLen := 0
	for n, line := range strings.Split(script, "\n") {
		if n > 0 {
			src = append(src, char{r: '\n', pos: Position{Line: n, Column: prevLen + 1}})
		}
		chars := lineChars(line, n+1)
		src = append(src, chars...)
		prevLen = len(chars)
	}

	body, err := lexRaw(src, ContextShell)
	if err != nil {
		return nil, err
	}
	body.Segments = append([]Segment{Text(scriptPrelude)}, body.Segments...)
	body.Pos = Position{Line: 1, Column: 1}

	t := &Template{source: script}
	args := []Word{literalWord(shell), literalWord("-c"), body}
	if opts.Elevated {
		t.Program = literalWord("pkexec")
		t.Args = args
	} else {
		t.Program = args[0]
		t.Args = args[1:]
	}
	return t, nil
}

func literalWord(s string) Word {
	return Word{Segments: []Segment{Text(s)}}
}
