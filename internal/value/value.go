// Package value defines the runtime arguments that can be bound to template placeholders.
package value

import (
	"fmt"
	"strings"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	// KindLiteral renders as exactly one token
	KindLiteral Kind = iota
	// KindOptional renders as one token when present and drops its slot when absent
	KindOptional
	// KindList renders as one token per element and drops its slot when empty
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindOptional:
		return "optional"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a closed variant: Literal, Optional or List.
// The zero Value is an empty literal.
type Value struct {
	kind    Kind
	items   []string
	present bool
}

// Literal returns a single-valued argument.
func Literal(s string) Value {
	return Value{kind: KindLiteral, items: []string{s}, present: true}
}

// Some returns a present optional argument.
func Some(s string) Value {
	return Value{kind: KindOptional, items: []string{s}, present: true}
}

// None returns an absent optional argument.
func None() Value {
	return Value{kind: KindOptional}
}

// Optional returns Some(*s) when s is non-nil and None otherwise.
func Optional(s *string) Value {
	if s == nil {
		return None()
	}
	return Some(*s)
}

// List returns a sequence argument. The elements are copied.
func List(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: KindList, items: cp, present: true}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether v produces no tokens at all.
func (v Value) IsAbsent() bool {
	switch v.kind {
	case KindOptional:
		return !v.present
	case KindList:
		return len(v.items) == 0
	default:
		return false
	}
}

// Tokens returns the tokens v contributes to an argument vector: zero, one or many.
func (v Value) Tokens() []string {
	if v.kind == KindLiteral && len(v.items) == 0 {
		return []string{""}
	}
	if v.IsAbsent() {
		return nil
	}
	out := make([]string, len(v.items))
	copy(out, v.items)
	return out
}

// Text renders v for a plain-text clause. Lists are joined with a single space and
// absent values render as empty text.
func (v Value) Text() string {
	return strings.Join(v.Tokens(), " ")
}

// Map renders every token through fn and joins them with a single space.
// Script rendering uses it to quote each element individually.
func (v Value) Map(fn func(string) string) string {
	tokens := v.Tokens()
	for i, tok := range tokens {
		tokens[i] = fn(tok)
	}
	return strings.Join(tokens, " ")
}

// String implements fmt.Stringer for debugging output.
func (v Value) String() string {
	switch v.kind {
	case KindOptional:
		if !v.present {
			return "None"
		}
		return fmt.Sprintf("Some(%q)", v.items[0])
	case KindList:
		return fmt.Sprintf("List(%q)", v.items)
	default:
		return fmt.Sprintf("Literal(%q)", v.Text())
	}
}
