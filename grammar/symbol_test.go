package grammar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGrammar_Symbols(t *testing.T) {
	g, err := ParseString(`
<block> ::= <subs> | <subs> ";" <block>
<subs> ::= <lhs> "=" <rhs>
<lhs> ::= "ID" | "_"
<rhs> ::= <expr> | <rhs> "." <expr>
`)
	if err != nil {
		t.Fatal(err)
	}
	gram := g.Flatten()

	if diff := cmp.Diff([]string{".", ";", "=", "ID", "_"}, gram.Terminals()); diff != "" {
		t.Errorf("unexpected terminals (-want +got):\n%v", diff)
	}
	if diff := cmp.Diff([]string{"block", "lhs", "rhs", "subs"}, gram.Nonterminals()); diff != "" {
		t.Errorf("unexpected nonterminals (-want +got):\n%v", diff)
	}
	if diff := cmp.Diff([]string{"expr"}, gram.Undefined()); diff != "" {
		t.Errorf("unexpected undefined symbols (-want +got):\n%v", diff)
	}
}

func TestGrammar_Symbols_Empty(t *testing.T) {
	g := &Grammar{}
	if len(g.Terminals()) != 0 || len(g.Nonterminals()) != 0 || len(g.Undefined()) != 0 {
		t.Fatal("an empty grammar has no symbols")
	}
}
