// Copyright © 2018 The ELPS authors

/*
Package combinator implements a small parser combinator library over string
input.

A Parser consumes a prefix of its input and returns a Result holding the
remaining input and a value.  A failed Result always holds the input the
parser was given, so a failure never consumes text.  Parsers are built from
primitives (Char, String, Pattern, ...) and composed with combinators (AllOf,
AnyOf, Between, OneOrMoreSeparatedBy, ...).  Recursive grammars are expressed
through a Reference which is bound after the parsers that use it have been
constructed.
*/
package combinator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parser is a function which parses a prefix of its input.
type Parser[T any] func(input string) Result[T]

// Parse applies p to input.
func (p Parser[T]) Parse(input string) Result[T] {
	return p(input)
}

// Result is the outcome of applying a Parser.
type Result[T any] struct {
	// Remaining is the unconsumed input.  On failure Remaining is the input
	// given to the parser.
	Remaining string
	// Value is the parsed value.  Value is the zero value on failure.
	Value T
	// Message describes a failure.
	Message string
	ok      bool
}

// Success returns a successful Result.
func Success[T any](remaining string, v T) Result[T] {
	return Result[T]{Remaining: remaining, Value: v, ok: true}
}

// Failure returns a failed Result positioned at input.
func Failure[T any](input string, msg string) Result[T] {
	return Result[T]{Remaining: input, Message: msg}
}

// OK returns true if the result is a success.
func (r Result[T]) OK() bool {
	return r.ok
}

// Err returns nil for a successful result and an *Error otherwise.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	return &Error{Remaining: r.Remaining, Message: r.Message}
}

func (r Result[T]) String() string {
	if r.ok {
		return fmt.Sprintf("success(%v, %q)", r.Value, r.Remaining)
	}
	return fmt.Sprintf("failure(%s, %q)", r.Message, r.Remaining)
}

// Error is a parse failure.
type Error struct {
	Remaining string
	Message   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, excerpt(e.Remaining))
}

func excerpt(s string) string {
	if s == "" {
		return "end of input"
	}
	const max = 24
	if utf8.RuneCountInString(s) > max {
		r := []rune(s)
		return fmt.Sprintf("%q...", string(r[:max]))
	}
	return fmt.Sprintf("%q", s)
}

func unexpected(input string) string {
	if input == "" {
		return "Unexpected: `EOF`"
	}
	r, _ := utf8.DecodeRuneInString(input)
	return fmt.Sprintf("Unexpected: `%c`", r)
}

// Unexpected returns a parser which always fails.
func Unexpected[T any]() Parser[T] {
	return func(input string) Result[T] {
		return Failure[T](input, "Unexpected")
	}
}

// Char returns a parser matching exactly c.
func Char(c rune) Parser[rune] {
	return func(input string) Result[rune] {
		if input == "" {
			return Failure[rune](input, unexpected(input))
		}
		x, n := utf8.DecodeRuneInString(input)
		if x != c {
			return Failure[rune](input, fmt.Sprintf("Expected: `%c`, Actual: `%c`", c, x))
		}
		return Success(input[n:], x)
	}
}

// Satisfy returns a parser matching a single character for which pred
// returns true.
func Satisfy(pred func(rune) bool) Parser[rune] {
	return func(input string) Result[rune] {
		if input == "" {
			return Failure[rune](input, unexpected(input))
		}
		x, n := utf8.DecodeRuneInString(input)
		if !pred(x) {
			return Failure[rune](input, unexpected(input))
		}
		return Success(input[n:], x)
	}
}

// Whitespace matches one whitespace character.
func Whitespace() Parser[rune] {
	return Satisfy(unicode.IsSpace)
}

// Digit matches one decimal digit.
func Digit() Parser[rune] {
	return Satisfy(func(r rune) bool { return '0' <= r && r <= '9' })
}

// Letter matches one letter.
func Letter() Parser[rune] {
	return Satisfy(unicode.IsLetter)
}

// CharOf matches any one character in chars.
func CharOf(chars string) Parser[rune] {
	return Satisfy(func(r rune) bool { return strings.ContainsRune(chars, r) })
}

// CharExcept matches any one character not in chars.
func CharExcept(chars string) Parser[rune] {
	return Satisfy(func(r rune) bool { return !strings.ContainsRune(chars, r) })
}

// String returns a parser matching the literal s.
func String(s string) Parser[string] {
	return func(input string) Result[string] {
		if input == "" {
			return Failure[string](input, unexpected(input))
		}
		if !strings.HasPrefix(input, s) {
			return Failure[string](input, fmt.Sprintf("Expected: `%s`", s))
		}
		return Success(input[len(s):], s)
	}
}

// Whitespaces matches one or more whitespace characters.
func Whitespaces() Parser[string] {
	return AsString(OneOrMore(Whitespace()))
}

// Digits matches one or more decimal digits.
func Digits() Parser[string] {
	return AsString(OneOrMore(Digit()))
}

// Letters matches one or more letters.
func Letters() Parser[string] {
	return AsString(OneOrMore(Letter()))
}

// Pattern returns a parser matching the regular expression expr at the start
// of its input.  Pattern panics if expr does not compile.
func Pattern(expr string) Parser[string] {
	return Regexp(regexp.MustCompile(`^(?:` + expr + `)`))
}

// Regexp returns a parser using re to match a prefix of its input.  A match
// which does not begin at the start of the input is a failure.
func Regexp(re *regexp.Regexp) Parser[string] {
	return func(input string) Result[string] {
		if input == "" {
			return Failure[string](input, unexpected(input))
		}
		loc := re.FindStringIndex(input)
		if loc == nil || loc[0] != 0 {
			return Failure[string](input, fmt.Sprintf("Expected: `%s`", re))
		}
		return Success(input[loc[1]:], input[:loc[1]])
	}
}

// EOF matches the end of input.
func EOF() Parser[struct{}] {
	return func(input string) Result[struct{}] {
		if input != "" {
			return Failure[struct{}](input, fmt.Sprintf("Expected: `EOF`, %s", unexpected(input)))
		}
		return Success(input, struct{}{})
	}
}
