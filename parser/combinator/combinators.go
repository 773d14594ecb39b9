// Copyright © 2018 The ELPS authors

package combinator

import "fmt"

// Option is the value of an Optional parser.
type Option[T any] struct {
	Value   T
	Present bool
}

// Tuple is the value of a Both parser.
type Tuple[A, B any] struct {
	First  A
	Second B
}

// Named returns a parser which prefixes failure messages from p with name.
func Named[T any](name string, p Parser[T]) Parser[T] {
	return func(input string) Result[T] {
		r := p(input)
		if r.ok {
			return r
		}
		return Failure[T](input, fmt.Sprintf("`%s`. %s", name, r.Message))
	}
}

// AllOf applies each parser in sequence and collects their values.
func AllOf[T any](ps ...Parser[T]) Parser[[]T] {
	return func(input string) Result[[]T] {
		vals := make([]T, 0, len(ps))
		rest := input
		for _, p := range ps {
			r := p(rest)
			if !r.ok {
				return Failure[[]T](input, r.Message)
			}
			vals = append(vals, r.Value)
			rest = r.Remaining
		}
		return Success(rest, vals)
	}
}

// AnyOf returns the result of the first parser in ps that succeeds.  Later
// alternatives are not tried once one succeeds.
func AnyOf[T any](ps ...Parser[T]) Parser[T] {
	return func(input string) Result[T] {
		for _, p := range ps {
			r := p(input)
			if r.ok {
				return r
			}
		}
		return Failure[T](input, "Nothing matched")
	}
}

// As maps the value of a successful p through fn.
func As[A, B any](fn func(A) B, p Parser[A]) Parser[B] {
	return func(input string) Result[B] {
		r := p(input)
		if !r.ok {
			return Failure[B](input, r.Message)
		}
		return Success(r.Remaining, fn(r.Value))
	}
}

// Convert maps the value of a successful p through fn.  An error from fn
// makes the parse fail at the input given to p.
func Convert[A, B any](fn func(A) (B, error), p Parser[A]) Parser[B] {
	return func(input string) Result[B] {
		r := p(input)
		if !r.ok {
			return Failure[B](input, r.Message)
		}
		v, err := fn(r.Value)
		if err != nil {
			return Failure[B](input, err.Error())
		}
		return Success(r.Remaining, v)
	}
}

// AsString joins the characters parsed by p.
func AsString(p Parser[[]rune]) Parser[string] {
	return As(func(rs []rune) string { return string(rs) }, p)
}

// SeparatedBy applies each parser in ps in sequence, requiring sep between
// consecutive parsers, and collects their values.
func SeparatedBy[T, S any](sep Parser[S], ps ...Parser[T]) Parser[[]T] {
	return func(input string) Result[[]T] {
		vals := make([]T, 0, len(ps))
		rest := input
		for i, p := range ps {
			if i > 0 {
				s := sep(rest)
				if !s.ok {
					return Failure[[]T](input, s.Message)
				}
				rest = s.Remaining
			}
			r := p(rest)
			if !r.ok {
				return Failure[[]T](input, r.Message)
			}
			vals = append(vals, r.Value)
			rest = r.Remaining
		}
		return Success(rest, vals)
	}
}

// Ignore discards the value of p.
func Ignore[T any](p Parser[T]) Parser[struct{}] {
	return As(func(T) struct{} { return struct{}{} }, p)
}

// Optional always succeeds.  If p fails the value is absent and no input is
// consumed.
func Optional[T any](p Parser[T]) Parser[Option[T]] {
	return func(input string) Result[Option[T]] {
		r := p(input)
		if !r.ok {
			return Success(input, Option[T]{})
		}
		return Success(r.Remaining, Option[T]{Value: r.Value, Present: true})
	}
}

// ZeroOrMore applies p until it fails.  A success which consumes no input
// ends the repetition.
func ZeroOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(input string) Result[[]T] {
		var vals []T
		rest := input
		for {
			r := p(rest)
			if !r.ok {
				break
			}
			vals = append(vals, r.Value)
			if len(r.Remaining) == len(rest) {
				break
			}
			rest = r.Remaining
		}
		return Success(rest, vals)
	}
}

// OneOrMore is like ZeroOrMore but fails unless p succeeds at least once.
func OneOrMore[T any](p Parser[T]) Parser[[]T] {
	many := ZeroOrMore(p)
	return func(input string) Result[[]T] {
		first := p(input)
		if !first.ok {
			return Failure[[]T](input, first.Message)
		}
		if len(first.Remaining) == len(input) {
			return Success(input, []T{first.Value})
		}
		r := many(first.Remaining)
		return Success(r.Remaining, append([]T{first.Value}, r.Value...))
	}
}

// ZeroOrMoreSeparatedBy parses a sequence of p separated by sep.  The
// remaining input follows the last successful p, so a trailing separator is
// not consumed.
func ZeroOrMoreSeparatedBy[T, S any](sep Parser[S], p Parser[T]) Parser[[]T] {
	return func(input string) Result[[]T] {
		first := p(input)
		if !first.ok {
			return Success[[]T](input, nil)
		}
		return separatedTail(sep, p, first)
	}
}

// OneOrMoreSeparatedBy is like ZeroOrMoreSeparatedBy but fails unless p
// succeeds at least once.
func OneOrMoreSeparatedBy[T, S any](sep Parser[S], p Parser[T]) Parser[[]T] {
	return func(input string) Result[[]T] {
		first := p(input)
		if !first.ok {
			return Failure[[]T](input, first.Message)
		}
		return separatedTail(sep, p, first)
	}
}

func separatedTail[T, S any](sep Parser[S], p Parser[T], first Result[T]) Result[[]T] {
	vals := []T{first.Value}
	end := first.Remaining
	for {
		s := sep(end)
		if !s.ok {
			break
		}
		r := p(s.Remaining)
		if !r.ok {
			break
		}
		if len(r.Remaining) == len(end) {
			break
		}
		vals = append(vals, r.Value)
		end = r.Remaining
	}
	return Success(end, vals)
}

// Before parses p followed by next and keeps the value of p.
func Before[T, A any](p Parser[T], next Parser[A]) Parser[T] {
	return func(input string) Result[T] {
		r := p(input)
		if !r.ok {
			return Failure[T](input, r.Message)
		}
		a := next(r.Remaining)
		if !a.ok {
			return Failure[T](input, a.Message)
		}
		return Success(a.Remaining, r.Value)
	}
}

// After parses prefix followed by p and keeps the value of p.
func After[B, T any](prefix Parser[B], p Parser[T]) Parser[T] {
	return func(input string) Result[T] {
		b := prefix(input)
		if !b.ok {
			return Failure[T](input, b.Message)
		}
		r := p(b.Remaining)
		if !r.ok {
			return Failure[T](input, r.Message)
		}
		return Success(r.Remaining, r.Value)
	}
}

// Between parses open, p and close in sequence and keeps the value of p.
func Between[B, T, A any](open Parser[B], p Parser[T], close Parser[A]) Parser[T] {
	return Before(After(open, p), close)
}

// Parenthesised parses p between '(' and ')'.
func Parenthesised[T any](p Parser[T]) Parser[T] {
	return Between(Char('('), p, Char(')'))
}

// Both parses a followed by b and keeps both values.
func Both[A, B any](a Parser[A], b Parser[B]) Parser[Tuple[A, B]] {
	return func(input string) Result[Tuple[A, B]] {
		ra := a(input)
		if !ra.ok {
			return Failure[Tuple[A, B]](input, ra.Message)
		}
		rb := b(ra.Remaining)
		if !rb.ok {
			return Failure[Tuple[A, B]](input, rb.Message)
		}
		return Success(rb.Remaining, Tuple[A, B]{ra.Value, rb.Value})
	}
}

// Reference is a parser cell which is bound after construction so that
// grammars may refer to themselves.
type Reference[T any] struct {
	p Parser[T]
}

// NewReference returns an unbound Reference.
func NewReference[T any]() *Reference[T] {
	return &Reference[T]{}
}

// Set binds ref to p.
func (ref *Reference[T]) Set(p Parser[T]) {
	ref.p = p
}

// Parser returns a parser which delegates to the parser bound to ref at the
// time it is applied.  Applying it while ref is unbound fails.
func (ref *Reference[T]) Parser() Parser[T] {
	return func(input string) Result[T] {
		if ref.p == nil {
			return Failure[T](input, "unbound parser reference")
		}
		return ref.p(input)
	}
}
