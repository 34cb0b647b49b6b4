package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testTree(t *testing.T) *ParseTree {
	t.Helper()
	g := parseGrammar(t, `
<subs> ::= <lhs> "=" <rhs>
<lhs> ::= "ID"
<rhs> ::= "1"
`)
	tree, err := First(Parse(NewCtx(g, StringTokens("ID", "=", "1"))))
	require.NoError(t, err)
	return tree
}

func TestParseTree_Format(t *testing.T) {
	tree := testTree(t)

	expected := "subs\n`lhs\n``ID\n`=\n`rhs\n``1\n"
	assert.Equal(t, expected, fmt.Sprintf("%#v", tree))
	assert.Equal(t, expected, fmt.Sprintf("%#s", tree))
	assert.Equal(t, expected, tree.Pretty())

	// No single-line form exists.
	assert.Contains(t, fmt.Sprintf("%v", tree), "PANIC=")
	assert.Contains(t, fmt.Sprintf("%s", tree), "PANIC=")
	assert.Contains(t, fmt.Sprintf("%#d", tree), "PANIC=")
}

func TestParseTree_Format_NoneNode(t *testing.T) {
	tree := &ParseTree{
		LHS: "namespace",
		RHS: []Node{
			{Kind: NodeKindTerminal, Token: StringToken("N")},
			{Kind: NodeKindNone},
			{Kind: NodeKindTerminal, Token: StringToken("}"), Pos: 1},
		},
	}
	assert.Equal(t, "namespace\n`N\n`}\n", tree.Pretty())
	assert.Equal(t, []any{"namespace", "N", "}"}, tree.Sequence())
}

func TestParseTree_Sequence(t *testing.T) {
	tree := testTree(t)

	expected := []any{"subs", []any{"lhs", "ID"}, "=", []any{"rhs", "1"}}
	if diff := cmp.Diff(expected, tree.Sequence()); diff != "" {
		t.Fatalf("unexpected sequence (-want +got):\n%v", diff)
	}

	src, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t, `["subs",["lhs","ID"],"=",["rhs","1"]]`, string(src))

	src, err = yaml.Marshal(tree)
	require.NoError(t, err)
	seq, err := ParseSequence(string(src))
	require.NoError(t, err)
	if diff := cmp.Diff(expected, seq); diff != "" {
		t.Fatalf("unexpected sequence read from YAML (-want +got):\n%v", diff)
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		src      string
		expected []any
		ok       bool
	}{
		{
			src:      `["subs", ["lhs", "ID"], "=", ["rhs", 1]]`,
			expected: []any{"subs", []any{"lhs", "ID"}, "=", []any{"rhs", "1"}},
			ok:       true,
		},
		{
			src: `
- a
- true
- - b
  - x
`,
			expected: []any{"a", "true", []any{"b", "x"}},
			ok:       true,
		},
		{
			src: `a`,
		},
		{
			src: `[]`,
		},
		{
			src: `[["a"]]`,
		},
		{
			src: `["a", {"b": "c"}]`,
		},
		{
			src: ``,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			seq, err := ParseSequence(tt.src)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, seq); diff != "" {
				t.Fatalf("unexpected sequence (-want +got):\n%v", diff)
			}
		})
	}
}

func TestParseTree_Equal(t *testing.T) {
	a := testTree(t)
	b := testTree(t)
	assert.True(t, a.Equal(b))
	assert.True(t, (*ParseTree)(nil).Equal(nil))
	assert.False(t, a.Equal(nil))

	c := &ParseTree{
		LHS: a.LHS,
		RHS: append([]Node(nil), a.RHS...),
	}
	c.RHS[1].Pos = 2
	assert.False(t, a.Equal(c))
}

func TestParseTree_Tokens(t *testing.T) {
	tree := testTree(t)

	var names []string
	for _, tok := range tree.Tokens() {
		names = append(names, tok.Name())
	}
	assert.Equal(t, []string{"ID", "=", "1"}, names)
}

func TestPrintTree(t *testing.T) {
	tree := &ParseTree{
		LHS: "subs",
		RHS: []Node{
			{
				Kind: NodeKindNonterminal,
				Tree: &ParseTree{
					LHS: "lhs",
					RHS: []Node{
						{Kind: NodeKindTerminal, Token: &LexToken{Terminal: "ID", Text: "ID"}},
					},
				},
			},
			{Kind: NodeKindTerminal, Token: &LexToken{Terminal: "=", Text: "="}, Pos: 1},
			{
				Kind: NodeKindNonterminal,
				Tree: &ParseTree{
					LHS: "rhs",
					RHS: []Node{
						{Kind: NodeKindTerminal, Token: &LexToken{Terminal: "num", Text: "42"}, Pos: 2},
					},
				},
			},
		},
	}

	var b bytes.Buffer
	PrintTree(&b, tree)
	expected := `subs
├─ lhs
│  └─ ID
├─ =
└─ rhs
   └─ num "42"
`
	assert.Equal(t, expected, b.String())
}
