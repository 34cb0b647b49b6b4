// Package grammar provides the BNF grammar model, a parser for its textual form and the flattening
// transform that removes optional terms.
package grammar

import (
	"fmt"
	"strings"
)

type TermKind int

const (
	TermKindTerminal TermKind = iota
	TermKindNonterminal
)

func (k TermKind) String() string {
	switch k {
	case TermKindTerminal:
		return "terminal"
	case TermKindNonterminal:
		return "nonterminal"
	}
	return fmt.Sprintf("TermKind(%d)", int(k))
}

// Term is a grammar symbol. A terminal matches one token whose name equals Name; a nonterminal is
// expanded through the production whose LHS equals Name.
type Term struct {
	Kind TermKind
	Name string
}

func Terminal(name string) Term {
	return Term{
		Kind: TermKindTerminal,
		Name: name,
	}
}

func Nonterminal(name string) Term {
	return Term{
		Kind: TermKindNonterminal,
		Name: name,
	}
}

func (t Term) IsTerminal() bool {
	return t.Kind == TermKindTerminal
}

func (t Term) String() string {
	if t.Kind == TermKindNonterminal {
		return fmt.Sprintf("<%v>", t.Name)
	}
	return fmt.Sprintf("'%v'", t.Name)
}

// source renders the term in the grammar text form.
func (t Term) source() string {
	if t.Kind == TermKindNonterminal {
		return fmt.Sprintf("<%v>", t.Name)
	}
	// Parse strips the quotes without unescaping, so the name is written as is.
	return `"` + t.Name + `"`
}

type OptTerm struct {
	Term
	Optional bool
}

func (t OptTerm) String() string {
	if t.Optional {
		return t.Term.String() + "?"
	}
	return t.Term.String()
}

func (t OptTerm) source() string {
	if t.Optional {
		return t.Term.source() + "?"
	}
	return t.Term.source()
}

// Expression is one alternative of a production. The terms of an expression produced by flattening are
// never optional.
type Expression struct {
	Terms []OptTerm
}

// NewExpression returns an expression consisting of mandatory terms.
func NewExpression(terms ...Term) *Expression {
	e := &Expression{
		Terms: make([]OptTerm, len(terms)),
	}
	for i, t := range terms {
		e.Terms[i] = OptTerm{Term: t}
	}
	return e
}

func (e *Expression) String() string {
	return joinTerms(e.Terms)
}

type Production struct {
	LHS string
	RHS []*Expression
}

func (p *Production) String() string {
	return joinAlternatives(p.LHS, p.RHS, (*Expression).String)
}

// Grammar is an ordered list of productions. The first production is the start rule.
type Grammar struct {
	Productions []*Production
}

// Production returns the first production whose LHS is name.
func (g *Grammar) Production(name string) (*Production, bool) {
	for _, p := range g.Productions {
		if p.LHS == name {
			return p, true
		}
	}
	return nil, false
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, p := range g.Productions {
		fmt.Fprintln(&b, p)
	}
	return b.String()
}

// ExtExpression is an alternative as it is written in grammar text; its terms may be optional.
type ExtExpression struct {
	Terms []OptTerm
}

func (e *ExtExpression) String() string {
	return joinTerms(e.Terms)
}

type ExtProduction struct {
	LHS string
	RHS []*ExtExpression
}

func (p *ExtProduction) String() string {
	return joinAlternatives(p.LHS, p.RHS, (*ExtExpression).String)
}

type ExtGrammar struct {
	Productions []*ExtProduction
}

func (g *ExtGrammar) String() string {
	var b strings.Builder
	for _, p := range g.Productions {
		fmt.Fprintln(&b, p)
	}
	return b.String()
}

// Unflattened converts the grammar one-to-one, keeping optional terms as they are. The driver refuses
// to derive optional terms, so this is useful only to check that refusal.
func (g *ExtGrammar) Unflattened() *Grammar {
	gram := &Grammar{
		Productions: make([]*Production, len(g.Productions)),
	}
	for i, p := range g.Productions {
		prod := &Production{
			LHS: p.LHS,
			RHS: make([]*Expression, len(p.RHS)),
		}
		for j, e := range p.RHS {
			prod.RHS[j] = &Expression{
				Terms: append([]OptTerm(nil), e.Terms...),
			}
		}
		gram.Productions[i] = prod
	}
	return gram
}

func joinTerms(terms []OptTerm) string {
	var b strings.Builder
	for i, t := range terms {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(t.source())
	}
	return b.String()
}

func joinAlternatives[E any](lhs string, rhs []E, format func(E) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%v> ::=", lhs)
	for i, e := range rhs {
		if i > 0 {
			b.WriteString(" |")
		}
		if s := format(e); s != "" {
			fmt.Fprintf(&b, " %v", s)
		}
	}
	return b.String()
}
