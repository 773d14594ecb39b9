// Copyright © 2018 The ELPS authors

/*
Package regexparser provides an alternate reader built on goparsec.

	expr       := <term> | '(' <expr>+ ')' | '\'' <expr>
	term       := <string> | <fractional> | '()' | <atom>
	string     := /"[^"]*"/
	fractional := /\d+\.\d+|\d+\.|\.\d+/
	atom       := /[\pL0-9+\-*\/<=>?!]+/

An atom consisting only of digits is an integral number.  Every other atom is
a symbol.  Unlike the combinator grammar this reader does not require
whitespace between the elements of a list.
*/
package regexparser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/schemer/lisp"
	parsec "github.com/prataprc/goparsec"
)

// NewReader returns a lisp.Reader.
func NewReader() lisp.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) ([]lisp.Expression, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	exprs, _, err := ParseExpressions(b)
	if err != nil {
		return nil, &lisp.ErrorVal{
			Cond:    lisp.CondMalformedSyntax,
			Message: fmt.Sprintf("%s: %v", name, err),
			Err:     err,
		}
	}
	return exprs, nil
}

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeSExpr
	nodeSExprOUnmatched
	nodeQExpr
)

var nodeTypeStrings = []string{
	nodeInvalid:         "INVALID",
	nodeTerm:            "TERM",
	nodeSExpr:           "SEXPR",
	nodeSExprOUnmatched: "SEXPROPENUNMATCHED",
	nodeQExpr:           "QEXPR",
}

// ParseExpressions parses top-level expressions from text and returns them.
// The number of bytes read is returned along with any error that was
// encountered in parsing.
func ParseExpressions(text []byte) ([]lisp.Expression, int, error) {
	var v []lisp.Expression
	s := parsec.NewScanner(text)
	s = s.TrackLineno()
	parser := newParsecParser()
	root, s := parser(s)
	for root != nil {
		datum, err := getDatum(root)
		if err != nil {
			return v, s.GetCursor(), fmt.Errorf("%d: %v", s.Lineno(), err)
		}
		expr, err := lisp.Analyze(datum)
		if err != nil {
			return v, s.GetCursor(), fmt.Errorf("%d: %v", s.Lineno(), err)
		}
		v = append(v, expr)
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		b, _ := s.Match(`.{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		return v, s.GetCursor(), fmt.Errorf("%d: unexpected source text possibly starting: %s", s.Lineno(), b)
	}
	return v, s.GetCursor(), nil
}

func newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	unit := parsec.Atom("()", "UNIT")
	q := parsec.Atom("'", "QUOTE")
	str := parsec.Token(`"[^"]*"`, "STRING")
	fractional := parsec.Token(`(?:\d+\.\d+|\d+\.|\.\d+)`, "FRACTIONAL")
	atom := parsec.Token(`[\pL0-9+\-*/<=>?!]+`, "ATOM")
	term := parsec.OrdChoice(astNode(nodeTerm),
		str,
		fractional,
		unit,
		atom, // atom comes last because digits are a prefix of fractional
	)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(astNode(nodeSExpr), openP, exprList, closeP)
	sexprOUnmatched := parsec.And(astNode(nodeSExprOUnmatched), openP, exprList, parsec.End())
	qexpr := parsec.And(astNode(nodeQExpr), q, &expr)
	expr = parsec.OrdChoice(nil,
		term,
		sexpr,
		qexpr,
		// Error matching cases come last because they have the lowest
		// precedence.
		sexprOUnmatched,
	)
	return expr
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

func newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes, ok := cleanParsecNodeList(nodes)
	if len(nodes) == 0 {
		return fmt.Errorf("empty %v node", typ)
	}
	if !ok {
		// There is an error in the first position.
		return nodes[0]
	}
	switch typ {
	case nodeTerm:
		term, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			return fmt.Errorf("unexpected term: %v", nodes[0])
		}
		return termExpr(term)
	case nodeSExprOUnmatched:
		open := nodes[0].(*parsec.Terminal)
		rest := open.GetValue() + stringifyNodes(nodes[1:len(nodes)-1]) // Trim off the End node
		if len(rest) > 10 {
			rest = rest[:10] + "..."
		}
		return fmt.Errorf("unmatched %q starting: %v", open.GetValue(), rest)
	case nodeSExpr:
		// We don't want terminal parsec nodes '(' and ')'
		cells := make([]lisp.Expression, 0, len(nodes)-2)
		for _, c := range nodes {
			if c, ok := c.(lisp.Expression); ok {
				cells = append(cells, c)
			}
		}
		if len(cells) == 0 {
			return fmt.Errorf("empty list with whitespace: write ()")
		}
		return lisp.List(cells...)
	case nodeQExpr:
		// We don't want the terminal parsec node "'"
		c, ok := nodes[len(nodes)-1].(lisp.Expression)
		if !ok {
			return fmt.Errorf("nothing to quote")
		}
		return &lisp.Quote{Datum: lisp.Datum(c)}
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

func termExpr(term *parsec.Terminal) parsec.ParsecNode {
	switch term.GetName() {
	case "STRING":
		return lisp.Str(unquoteString(term.GetValue()))
	case "UNIT":
		return lisp.Nil()
	case "FRACTIONAL":
		f, err := strconv.ParseFloat(term.GetValue(), 64)
		if err != nil {
			return fmt.Errorf("bad number: %v (%s)", err, term.GetValue())
		}
		return lisp.Fractional(f)
	case "ATOM":
		val := term.GetValue()
		if strings.Trim(val, "0123456789") != "" {
			return lisp.Symbol(val)
		}
		x, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("integer literal out of range: %s", val)
		}
		return lisp.Integral(x)
	}
	return fmt.Errorf("unknown terminal: %s", term.GetName())
}

func stringifyNodes(nodes []parsec.ParsecNode) string {
	var s []string
	for _, node := range nodes {
		switch node := node.(type) {
		case *parsec.Terminal:
			switch node.GetName() {
			case "OPENP", "CLOSEP":
				continue
			}
			s = append(s, node.GetValue())
		case []parsec.ParsecNode:
			s = append(s, "("+stringifyNodes(node)+")")
		case lisp.Expression:
			s = append(s, node.String())
		default:
			s = append(s, fmt.Sprint(node))
		}
	}
	return strings.Join(s, " ")
}

func cleanParsecNodeList(lis []parsec.ParsecNode) ([]parsec.ParsecNode, bool) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case error:
			nodes = []parsec.ParsecNode{node}
			return nodes, false
		case []parsec.ParsecNode:
			clean, ok := cleanParsecNodeList(node)
			if !ok {
				return clean, false
			}
			nodes = append(nodes, clean...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, true
}

func astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return newAST(t, nodes)
	}
}

func getDatum(root parsec.ParsecNode) (lisp.Expression, error) {
	nodes, ok := cleanParsecNodeList([]parsec.ParsecNode{root})
	if len(nodes) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	if !ok {
		return nil, nodes[0].(error)
	}
	v, ok := nodes[0].(lisp.Expression)
	if !ok {
		return nil, fmt.Errorf("unexpected source text: %v", nodes[0])
	}
	return v, nil
}

// The goparsec Token for strings includes the surrounding double quotes.
func unquoteString(s string) string {
	return s[1 : len(s)-1]
}
