// Copyright © 2018 The ELPS authors

package combinator_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/luthersystems/schemer/parser/combinator"
)

func TestChar(t *testing.T) {
	r := Char('a').Parse("abc")
	require.True(t, r.OK())
	assert.Equal(t, 'a', r.Value)
	assert.Equal(t, "bc", r.Remaining)

	r = Char('a').Parse("xyz")
	assert.False(t, r.OK())
	assert.Equal(t, "xyz", r.Remaining)
	assert.Equal(t, "Expected: `a`, Actual: `x`", r.Message)

	r = Char('a').Parse("")
	assert.Equal(t, "Unexpected: `EOF`", r.Message)
}

func TestString(t *testing.T) {
	r := String("lambda").Parse("lambda (x)")
	require.True(t, r.OK())
	assert.Equal(t, " (x)", r.Remaining)

	r = String("lambda").Parse("lamb")
	assert.False(t, r.OK())
	assert.Equal(t, "lamb", r.Remaining)
}

func TestPattern(t *testing.T) {
	p := Pattern(`\d+\.\d+|\d+`)
	r := p.Parse("12.5rest")
	require.True(t, r.OK())
	assert.Equal(t, "12.5", r.Value)
	assert.Equal(t, "rest", r.Remaining)

	// a match must be anchored at the start of the input
	r = p.Parse("x12")
	assert.False(t, r.OK())
	assert.Equal(t, "x12", r.Remaining)
}

func TestCharClasses(t *testing.T) {
	assert.True(t, Digit().Parse("7").OK())
	assert.False(t, Digit().Parse("x").OK())
	assert.True(t, Letter().Parse("é").OK())
	assert.True(t, CharOf("+-").Parse("-").OK())
	assert.False(t, CharExcept(`"`).Parse(`"`).OK())
	assert.True(t, Whitespace().Parse("\t").OK())

	r := Digits().Parse("123abc")
	assert.Equal(t, "123", r.Value)
	r = Letters().Parse("abc123")
	assert.Equal(t, "abc", r.Value)
	assert.False(t, Whitespaces().Parse("x").OK())
}

func TestAllOfAnyOf(t *testing.T) {
	ab := AllOf(Char('a'), Char('b'))
	r := ab.Parse("abc")
	require.True(t, r.OK())
	assert.Equal(t, []rune{'a', 'b'}, r.Value)

	r = ab.Parse("acb")
	assert.False(t, r.OK())
	assert.Equal(t, "acb", r.Remaining, "a failure consumes no input")

	first := AnyOf(String("ab"), String("a"))
	r2 := first.Parse("abc")
	assert.Equal(t, "ab", r2.Value)
	r2 = first.Parse("ac")
	assert.Equal(t, "a", r2.Value)
	r2 = first.Parse("c")
	assert.False(t, r2.OK())
	assert.Equal(t, "Nothing matched", r2.Message)
}

func TestAsConvert(t *testing.T) {
	num := Convert(strconv.Atoi, Digits())
	r := num.Parse("42)")
	require.True(t, r.OK())
	assert.Equal(t, 42, r.Value)

	neg := As(func(n int) int { return -n }, num)
	assert.Equal(t, -42, neg.Parse("42").Value)

	even := Convert(func(n int) (int, error) {
		if n%2 != 0 {
			return 0, errors.New("odd")
		}
		return n, nil
	}, num)
	r = even.Parse("3")
	assert.False(t, r.OK())
	assert.Equal(t, "odd", r.Message)
	assert.Equal(t, "3", r.Remaining)
}

func TestRepetition(t *testing.T) {
	r := ZeroOrMore(Char('a')).Parse("aaab")
	assert.Equal(t, []rune{'a', 'a', 'a'}, r.Value)
	assert.Equal(t, "b", r.Remaining)

	r = ZeroOrMore(Char('a')).Parse("b")
	assert.True(t, r.OK())
	assert.Empty(t, r.Value)

	r = OneOrMore(Char('a')).Parse("b")
	assert.False(t, r.OK())

	// a parser which succeeds without consuming input does not loop
	empty := As(func(Option[rune]) rune { return 0 }, Optional(Char('x')))
	r = ZeroOrMore(empty).Parse("abc")
	assert.True(t, r.OK())
	assert.Len(t, r.Value, 1)
	assert.Equal(t, "abc", r.Remaining)
}

func TestOptional(t *testing.T) {
	r := Optional(Char('-')).Parse("-1")
	assert.True(t, r.Value.Present)
	assert.Equal(t, "1", r.Remaining)

	r = Optional(Char('-')).Parse("1")
	assert.True(t, r.OK())
	assert.False(t, r.Value.Present)
	assert.Equal(t, "1", r.Remaining)
}

func TestIgnore(t *testing.T) {
	r := Ignore(Digits()).Parse("12 x")
	require.True(t, r.OK())
	assert.Equal(t, struct{}{}, r.Value)
	assert.Equal(t, " x", r.Remaining)

	assert.False(t, Ignore(Digits()).Parse("x").OK())
}

func TestSeparatedBy(t *testing.T) {
	ws := Whitespaces()
	r := SeparatedBy(ws, Digits(), Digits(), Digits()).Parse("1 22  333 4")
	require.True(t, r.OK())
	assert.Equal(t, []string{"1", "22", "333"}, r.Value)
	assert.Equal(t, " 4", r.Remaining)

	r = SeparatedBy(ws, Digits(), Digits()).Parse("1")
	assert.False(t, r.OK())

	list := OneOrMoreSeparatedBy(ws, Digits())
	r = list.Parse("1 2 3 ")
	assert.Equal(t, []string{"1", "2", "3"}, r.Value)
	assert.Equal(t, " ", r.Remaining, "a trailing separator is not consumed")

	r = list.Parse("x")
	assert.False(t, r.OK())

	r = ZeroOrMoreSeparatedBy(ws, Digits()).Parse("x")
	assert.True(t, r.OK())
	assert.Empty(t, r.Value)
}

func TestBetween(t *testing.T) {
	p := Parenthesised(Between(Optional(Whitespaces()), Letters(), Optional(Whitespaces())))
	r := p.Parse("( abc )rest")
	require.True(t, r.OK())
	assert.Equal(t, "abc", r.Value)
	assert.Equal(t, "rest", r.Remaining)

	assert.False(t, p.Parse("(abc").OK())

	assert.Equal(t, "x", Before(Letters(), Char(';')).Parse("x;").Value)
	assert.Equal(t, "x", After(Char('\''), Letters()).Parse("'x").Value)
	assert.False(t, After(Char('\''), Letters()).Parse("'1").OK())
}

func TestBoth(t *testing.T) {
	r := Both(Letters(), Digits()).Parse("abc123!")
	require.True(t, r.OK())
	assert.Equal(t, Tuple[string, string]{"abc", "123"}, r.Value)
	assert.Equal(t, "!", r.Remaining)

	assert.False(t, Both(Letters(), Digits()).Parse("abc!").OK())
}

func TestNamed(t *testing.T) {
	r := Named("number", Digits()).Parse("x")
	assert.Equal(t, "`number`. Unexpected: `x`", r.Message)
}

func TestEOF(t *testing.T) {
	assert.True(t, EOF().Parse("").OK())
	r := EOF().Parse("x")
	assert.Equal(t, "Expected: `EOF`, Unexpected: `x`", r.Message)
	assert.True(t, Before(Digits(), EOF()).Parse("12").OK())
	assert.False(t, Before(Digits(), EOF()).Parse("12x").OK())
}

func TestReference(t *testing.T) {
	// nested parentheses: expr := 'x' | '(' expr ')'
	ref := NewReference[int]()
	assert.False(t, ref.Parser().Parse("x").OK())

	ref.Set(AnyOf(
		As(func(rune) int { return 0 }, Char('x')),
		As(func(n int) int { return n + 1 }, Parenthesised(ref.Parser())),
	))
	r := ref.Parser().Parse("(((x)))")
	require.True(t, r.OK())
	assert.Equal(t, 3, r.Value)
	assert.False(t, ref.Parser().Parse("((x)").OK())
}

func TestResultErr(t *testing.T) {
	assert.NoError(t, Digits().Parse("1").Err())

	err := Char('(').Parse("x").Err()
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "x", perr.Remaining)
	assert.EqualError(t, err, "Expected: `(`, Actual: `x` at \"x\"")

	err = Char('(').Parse("").Err()
	assert.EqualError(t, err, "Unexpected: `EOF` at end of input")

	err = Char('(').Parse("abcdefghijklmnopqrstuvwxyz").Err()
	assert.EqualError(t, err, "Expected: `(`, Actual: `a` at \"abcdefghijklmnopqrstuvwx\"...")
}

func TestUnexpected(t *testing.T) {
	r := Unexpected[int]().Parse("abc")
	assert.False(t, r.OK())
	assert.Equal(t, "abc", r.Remaining)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, `success(1, "x")`, Digits().Parse("1x").String())
	assert.Equal(t, "failure(Unexpected: `x`, \"x\")", Digits().Parse("x").String())
}
