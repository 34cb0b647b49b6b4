package driver

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"unsafe"

	"github.com/nihei9/ambi/combination"
	"github.com/nihei9/ambi/grammar"
)

const (
	// MaxLevel is the deepest nesting of nonterminals a derivation may reach.
	MaxLevel = 200

	// ProductionStackCapacity is the number of productions a derivation path may be expanding at once.
	ProductionStackCapacity = 128
)

// prodStack is an immutable stack; pushing returns a new stack sharing the old one.
type prodStack struct {
	prod   *grammar.Production
	parent *prodStack
	len    int
}

func (s *prodStack) size() int {
	if s == nil {
		return 0
	}
	return s.len
}

func (s *prodStack) push(prod *grammar.Production) *prodStack {
	return &prodStack{
		prod:   prod,
		parent: s,
		len:    s.size() + 1,
	}
}

// Ctx is a window [begin, end) over the tokens plus the state of the derivation path leading to it.
// A Ctx is a value; deriving a narrower or deeper context returns a copy. The tokens and the grammar are
// shared by every Ctx of one parse and are never modified.
type Ctx struct {
	begin        int
	end          int
	tokens       []Token
	grammar      *grammar.Grammar
	level        int
	logsEnabled  bool
	ignoreErrors bool
	stack        *prodStack
}

type CtxOption func(c *Ctx)

// EnableLogs makes the driver log every derivation step.
func EnableLogs() CtxOption {
	return func(c *Ctx) {
		c.logsEnabled = true
	}
}

// IgnoreErrors drops failed derivations from the results so that only parse trees are yielded.
func IgnoreErrors() CtxOption {
	return func(c *Ctx) {
		c.ignoreErrors = true
	}
}

// NewCtx returns a context spanning all of tokens.
func NewCtx(g *grammar.Grammar, tokens []Token, opts ...CtxOption) Ctx {
	if g == nil {
		panic("grammar is nil")
	}

	c := Ctx{
		begin:   0,
		end:     len(tokens),
		tokens:  tokens,
		grammar: g,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c Ctx) Begin() int {
	return c.begin
}

func (c Ctx) End() int {
	return c.end
}

func (c Ctx) Len() int {
	return c.end - c.begin
}

func (c Ctx) Level() int {
	return c.level
}

func (c Ctx) Grammar() *grammar.Grammar {
	return c.grammar
}

func (c Ctx) Tokens() []Token {
	return c.tokens
}

// Stack returns the LHSs of the productions being expanded on the path to this context, outermost first.
func (c Ctx) Stack() []string {
	lhs := make([]string, c.stack.size())
	for s := c.stack; s != nil; s = s.parent {
		lhs[s.len-1] = s.prod.LHS
	}
	return lhs
}

// At returns a copy of the context narrowed to [begin, end).
func (c Ctx) At(begin, end int) Ctx {
	c.begin = begin
	c.end = end
	return c
}

// NextLevel returns a copy of the context one level deeper with prod pushed on the production stack.
// It panics when the stack is already full.
func (c Ctx) NextLevel(prod *grammar.Production) Ctx {
	if c.stack.size() >= ProductionStackCapacity {
		panic(fmt.Errorf("production stack capacity exceeded: %v", c.Stack()))
	}
	c.level++
	c.stack = c.stack.push(prod)
	return c
}

func (c Ctx) stackFull() bool {
	return c.stack.size() >= ProductionStackCapacity
}

// Combinations enumerates the interior cut points splitting the context into n non-empty contiguous
// pieces.
func (c Ctx) Combinations(n int) []combination.Combination {
	return slices.Collect(c.combinations(n))
}

func (c Ctx) combinations(n int) iter.Seq[combination.Combination] {
	if n <= 0 {
		return func(yield func(combination.Combination) bool) {}
	}
	return combination.All(c.begin+1, c.end, n-1)
}

// Split cuts the context at the marks of comb. The pieces tile [begin, end); a leading or trailing piece
// of zero width is omitted.
func (c Ctx) Split(comb combination.Combination) []Ctx {
	marks := comb.Marks
	if len(marks) == 0 {
		return []Ctx{c}
	}

	subs := make([]Ctx, 0, len(marks)+1)
	if marks[0] > c.begin {
		subs = append(subs, c.At(c.begin, marks[0]))
	}
	for i := 0; i+1 < len(marks); i++ {
		subs = append(subs, c.At(marks[i], marks[i+1]))
	}
	if last := marks[len(marks)-1]; last < c.end {
		subs = append(subs, c.At(last, c.end))
	}
	return subs
}

// Front returns the token at the beginning of the context.
func (c Ctx) Front() Token {
	return c.tokens[c.begin]
}

// Equal reports whether both contexts cover the same range of the very same tokens under the very same
// grammar. Token contents are not compared.
func (c Ctx) Equal(o Ctx) bool {
	return c.begin == o.begin &&
		c.end == o.end &&
		sameTokens(c.tokens, o.tokens) &&
		c.grammar == o.grammar
}

// sameTokens reports whether a and b are the same slice of the same backing array.
func sameTokens(a, b []Token) bool {
	return unsafe.SliceData(a) == unsafe.SliceData(b) && len(a) == len(b)
}

func (c Ctx) segment() string {
	var b strings.Builder
	for _, tok := range c.tokens[c.begin:c.end] {
		b.WriteString(tok.String())
	}
	return b.String()
}

// String returns the text of the tokens in the context.
func (c Ctx) String() string {
	return fmt.Sprintf("'%v'", c.segment())
}

// Describe returns the range of the context along with the text of its tokens.
func (c Ctx) Describe() string {
	return fmt.Sprintf("<%v, %v, '%v'>", c.begin, c.end, c.segment())
}
