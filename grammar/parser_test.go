package grammar

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	verr "github.com/nihei9/ambi/error"
)

func TestParse(t *testing.T) {
	term := func(name string) OptTerm {
		return OptTerm{Term: Terminal(name)}
	}
	nonterm := func(name string) OptTerm {
		return OptTerm{Term: Nonterminal(name)}
	}
	opt := func(t OptTerm) OptTerm {
		t.Optional = true
		return t
	}

	tests := []struct {
		caption  string
		src      string
		expected *ExtGrammar
	}{
		{
			caption: "bare words are terminals",
			src: `
<block> ::= <expr> | t
<expr> ::= id = val | t | c
`,
			expected: &ExtGrammar{
				Productions: []*ExtProduction{
					{
						LHS: "block",
						RHS: []*ExtExpression{
							{Terms: []OptTerm{nonterm("expr")}},
							{Terms: []OptTerm{term("t")}},
						},
					},
					{
						LHS: "expr",
						RHS: []*ExtExpression{
							{Terms: []OptTerm{term("id"), term("="), term("val")}},
							{Terms: []OptTerm{term("t")}},
							{Terms: []OptTerm{term("c")}},
						},
					},
				},
			},
		},
		{
			caption: "quoted terminals, optional terms and indentation",
			src: `
    <namespace> ::= "N" "{" <block>? "}"

    <block>     ::= "W"? ";"   |  "?"
`,
			expected: &ExtGrammar{
				Productions: []*ExtProduction{
					{
						LHS: "namespace",
						RHS: []*ExtExpression{
							{Terms: []OptTerm{term("N"), term("{"), opt(nonterm("block")), term("}")}},
						},
					},
					{
						LHS: "block",
						RHS: []*ExtExpression{
							{Terms: []OptTerm{opt(term("W")), term(";")}},
							{Terms: []OptTerm{term("?")}},
						},
					},
				},
			},
		},
		{
			caption: "an empty alternative",
			src:     `<a> ::= "x" |`,
			expected: &ExtGrammar{
				Productions: []*ExtProduction{
					{
						LHS: "a",
						RHS: []*ExtExpression{
							{Terms: []OptTerm{term("x")}},
							{},
						},
					},
				},
			},
		},
		{
			caption:  "an empty source",
			src:      "\n\n   \n",
			expected: &ExtGrammar{},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			g, err := ParseString(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.expected, g); diff != "" {
				t.Fatalf("unexpected grammar (-want +got):\n%v", diff)
			}
		})
	}
}

func TestParse_Error(t *testing.T) {
	tests := []struct {
		src    string
		causes []error
		rows   []int
	}{
		{
			src:    `<a> "x"`,
			causes: []error{ErrRhsNotFound},
			rows:   []int{1},
		},
		{
			src:    `::= "x"`,
			causes: []error{ErrLhsNotFound},
			rows:   []int{1},
		},
		{
			src:    `a ::= "x"`,
			causes: []error{ErrWrongLhs},
			rows:   []int{1},
		},
		{
			src: `
<a> ::= <b>
<b ::= "x"
<c> ::= "y"
c
`,
			causes: []error{ErrWrongLhs, ErrRhsNotFound},
			rows:   []int{3, 5},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			g, err := ParseString(tt.src, SourceName("test.bnf"))
			if err == nil {
				t.Fatalf("an error must occur; grammar: %v", g)
			}
			if g != nil {
				t.Fatalf("a partial grammar must not be returned; grammar: %v", g)
			}

			var specErrs verr.SpecErrors
			if !errors.As(err, &specErrs) {
				t.Fatalf("unexpected error type: %T", err)
			}
			if len(specErrs) != len(tt.causes) {
				t.Fatalf("unexpected error count; want: %v, got: %v (%v)", len(tt.causes), len(specErrs), err)
			}
			for j, specErr := range specErrs {
				if !errors.Is(specErr, tt.causes[j]) {
					t.Errorf("unexpected cause; want: %v, got: %v", tt.causes[j], specErr.Cause)
				}
				if specErr.Row != tt.rows[j] {
					t.Errorf("unexpected row; want: %v, got: %v", tt.rows[j], specErr.Row)
				}
				if !strings.HasPrefix(specErr.Error(), "test.bnf: ") {
					t.Errorf("the message must be prefixed with the source name: %v", specErr)
				}
			}
		})
	}
}

func TestParse_WrongLhsDetail(t *testing.T) {
	_, err := ParseString(`a ::= "x"`)
	expected := "1: error: lhs must be enclosed in '<' and '>': a\n    a ::= \"x\""
	if err == nil || err.Error() != expected {
		t.Fatalf("unexpected error message; want: %q, got: %v", expected, err)
	}
}
