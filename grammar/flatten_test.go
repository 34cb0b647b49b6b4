package grammar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtExpression_Flatten(t *testing.T) {
	tests := []struct {
		src      string
		expected []string
	}{
		{
			src:      `<a> ::= "x" "y"`,
			expected: []string{`"x" "y"`},
		},
		{
			src:      `<a> ::=`,
			expected: []string{``},
		},
		{
			src: `<namespace> ::= "N" "{" <block>? "}"`,
			expected: []string{
				`"N" "{" <block> "}"`,
				`"N" "{" "}"`,
			},
		},
		{
			src: `<a> ::= "x"? <b>? "y"`,
			expected: []string{
				`"x" <b> "y"`,
				`"x" "y"`,
				`<b> "y"`,
				`"y"`,
			},
		},
		{
			src: `<a> ::= "x"?`,
			expected: []string{
				`"x"`,
				``,
			},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			g, err := ParseString(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			var actual []string
			for _, e := range g.Productions[0].RHS[0].Flatten() {
				for _, term := range e.Terms {
					if term.Optional {
						t.Fatalf("a flattened expression must not contain optional terms: %v", e)
					}
				}
				actual = append(actual, e.String())
			}
			if diff := cmp.Diff(tt.expected, actual); diff != "" {
				t.Fatalf("unexpected expressions (-want +got):\n%v", diff)
			}
		})
	}
}

func TestExtExpression_Flatten_EveryPresenceCombination(t *testing.T) {
	for m := 0; m <= 6; m++ {
		var terms []string
		for i := 0; i < m; i++ {
			terms = append(terms, fmt.Sprintf("o%v?", i), fmt.Sprintf("m%v", i))
		}
		g, err := ParseString("<a> ::= " + strings.Join(terms, " "))
		if err != nil {
			t.Fatal(err)
		}

		exprs := g.Productions[0].RHS[0].Flatten()
		if len(exprs) != 1<<m {
			t.Fatalf("%v optional terms must yield %v expressions; got: %v", m, 1<<m, len(exprs))
		}
		seen := map[string]struct{}{}
		for _, e := range exprs {
			key := e.String()
			if _, ok := seen[key]; ok {
				t.Fatalf("duplicate expression: %v", key)
			}
			seen[key] = struct{}{}

			// Every mandatory term survives, in the original order.
			mandatory := 0
			for _, term := range e.Terms {
				if strings.HasPrefix(term.Name, "m") {
					if term.Name != fmt.Sprintf("m%v", mandatory) {
						t.Fatalf("mandatory terms are out of order: %v", e)
					}
					mandatory++
				}
			}
			if mandatory != m {
				t.Fatalf("a mandatory term was dropped: %v", e)
			}
		}
	}
}

func TestExtGrammar_Flatten(t *testing.T) {
	src := `
<namespace> ::= "N" "{" <block>? "}" | "N"
<block> ::= <subs> | <subs> ";" <block>
<subs> ::= "W"
`
	g, err := ParseString(src)
	if err != nil {
		t.Fatal(err)
	}

	expected := `<namespace> ::= "N" "{" <block> "}" | "N" "{" "}" | "N"
<block> ::= <subs> | <subs> ";" <block>
<subs> ::= "W"
`
	if actual := g.Flatten().String(); actual != expected {
		t.Fatalf("unexpected grammar:\nwant:\n%v\ngot:\n%v", expected, actual)
	}
}

func TestExtGrammar_Unflattened(t *testing.T) {
	g, err := ParseString(`<namespace> ::= "N" "{" <block>? "}"`)
	if err != nil {
		t.Fatal(err)
	}

	gram := g.Unflattened()
	if len(gram.Productions[0].RHS) != 1 {
		t.Fatalf("the alternatives must not be expanded: %v", gram)
	}
	if !gram.Productions[0].RHS[0].Terms[2].Optional {
		t.Fatalf("the optional flag must be kept: %v", gram)
	}
	if gram.String() != g.String() {
		t.Fatalf("unexpected grammar:\nwant:\n%v\ngot:\n%v", g, gram)
	}
}
