package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type NodeKind int

const (
	// NodeKindNone is an elided optional slot. Flattened grammars never produce it.
	NodeKindNone NodeKind = iota
	NodeKindTerminal
	NodeKindNonterminal
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindNone:
		return "none"
	case NodeKindTerminal:
		return "terminal"
	case NodeKindNonterminal:
		return "nonterminal"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is one element of the RHS of a parse tree. A terminal node refers to the token at Pos of the input;
// a nonterminal node holds the subtree.
type Node struct {
	Kind  NodeKind
	Token Token
	Pos   int
	Tree  *ParseTree
}

// ParseTree is one derivation of a token span. Its RHS has one node per term of the expression that
// produced it.
type ParseTree struct {
	LHS string
	RHS []Node
}

// Format renders the tree one node per line, each line prefixed with one backtick per nesting level. Only
// the # flag with the v or s verb is supported; the tree has no single-line form, so any other verb
// panics and fmt reports it as a PANIC= marker in the output.
func (t *ParseTree) Format(f fmt.State, verb rune) {
	if !f.Flag('#') || (verb != 'v' && verb != 's') {
		panic(fmt.Errorf("a parse tree can be formatted only with %%#v or %%#s; got: %%%c", verb))
	}
	formatTree(f, t, 0)
}

func formatTree(w io.Writer, t *ParseTree, level int) {
	fmt.Fprintf(w, "%v%v\n", strings.Repeat("`", level), t.LHS)
	for _, n := range t.RHS {
		switch n.Kind {
		case NodeKindTerminal:
			fmt.Fprintf(w, "%v%v\n", strings.Repeat("`", level+1), n.Token)
		case NodeKindNonterminal:
			formatTree(w, n.Tree, level+1)
		}
	}
}

// Pretty returns the text %#v renders.
func (t *ParseTree) Pretty() string {
	return fmt.Sprintf("%#v", t)
}

// Sequence returns the structured form of the tree: the LHS followed by one element per child, where a
// terminal is its token name and a nonterminal is its own structured form.
func (t *ParseTree) Sequence() []any {
	seq := make([]any, 0, len(t.RHS)+1)
	seq = append(seq, t.LHS)
	for _, n := range t.RHS {
		switch n.Kind {
		case NodeKindTerminal:
			seq = append(seq, n.Token.Name())
		case NodeKindNonterminal:
			seq = append(seq, n.Tree.Sequence())
		}
	}
	return seq
}

func (t *ParseTree) MarshalYAML() (any, error) {
	return t.Sequence(), nil
}

func (t *ParseTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Sequence())
}

// DecodeSequence reads a structured tree. Scalars are always read as strings so that a token named 1 or
// true keeps its name.
func DecodeSequence(node *yaml.Node) ([]any, error) {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) != 1 {
			return nil, fmt.Errorf("a document must contain exactly one tree")
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%v:%v: a tree must be a sequence", node.Line, node.Column)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%v:%v: a tree must start with its LHS", node.Line, node.Column)
	}

	seq := make([]any, 0, len(node.Content))
	for _, n := range node.Content {
		switch n.Kind {
		case yaml.ScalarNode:
			seq = append(seq, n.Value)
		case yaml.SequenceNode:
			sub, err := DecodeSequence(n)
			if err != nil {
				return nil, err
			}
			seq = append(seq, sub)
		default:
			return nil, fmt.Errorf("%v:%v: a child must be a token name or a tree", n.Line, n.Column)
		}
	}
	return seq, nil
}

// ParseSequence reads a structured tree written in YAML or JSON.
func ParseSequence(src string) ([]any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(src), &node); err != nil {
		return nil, err
	}
	if node.Kind == 0 {
		return nil, fmt.Errorf("a tree is empty")
	}
	return DecodeSequence(&node)
}

// Equal reports whether both trees have the same shape over the same token positions.
func (t *ParseTree) Equal(u *ParseTree) bool {
	if t == nil || u == nil {
		return t == u
	}
	if t.LHS != u.LHS || len(t.RHS) != len(u.RHS) {
		return false
	}
	for i, n := range t.RHS {
		m := u.RHS[i]
		if n.Kind != m.Kind {
			return false
		}
		switch n.Kind {
		case NodeKindTerminal:
			if n.Pos != m.Pos || n.Token.Name() != m.Token.Name() {
				return false
			}
		case NodeKindNonterminal:
			if !n.Tree.Equal(m.Tree) {
				return false
			}
		}
	}
	return true
}

// Tokens returns the tokens the tree derives, in input order.
func (t *ParseTree) Tokens() []Token {
	var toks []Token
	for _, n := range t.RHS {
		switch n.Kind {
		case NodeKindTerminal:
			toks = append(toks, n.Token)
		case NodeKindNonterminal:
			toks = append(toks, n.Tree.Tokens()...)
		}
	}
	return toks
}

func PrintTree(w io.Writer, tree *ParseTree) {
	printTree(w, tree, "", "")
}

func printTree(w io.Writer, tree *ParseTree, ruledLine string, childRuledLinePrefix string) {
	if tree == nil {
		return
	}

	fmt.Fprintf(w, "%v%v\n", ruledLine, tree.LHS)

	var children []Node
	for _, n := range tree.RHS {
		if n.Kind != NodeKindNone {
			children = append(children, n)
		}
	}
	num := len(children)
	for i, child := range children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		if child.Kind == NodeKindNonterminal {
			printTree(w, child.Tree, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
			continue
		}
		if text := child.Token.String(); text != child.Token.Name() {
			fmt.Fprintf(w, "%v%v %#v\n", childRuledLinePrefix+line, child.Token.Name(), text)
		} else {
			fmt.Fprintf(w, "%v%v\n", childRuledLinePrefix+line, child.Token.Name())
		}
	}
}
