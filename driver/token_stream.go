package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/ambi/grammar"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

const (
	// lexSpecName names the lexical specification compiled for a grammar. maleeni requires a name.
	lexSpecName    = "ambi"
	whiteSpaceKind = "white_space"
)

// LexToken is a token read from source text. Row and Col are 1-based.
type LexToken struct {
	Terminal string
	Text     string
	Row      int
	Col      int
}

func (t *LexToken) Name() string {
	return t.Terminal
}

func (t *LexToken) String() string {
	return t.Text
}

// Tokenizer splits source text into the terminals of a grammar. Each terminal matches its own name
// literally, the longest match wins, and white spaces between tokens are skipped.
type Tokenizer struct {
	spec           *mlspec.CompiledLexSpec
	kindToTerminal map[string]string
}

func NewTokenizer(g *grammar.Grammar) (*Tokenizer, error) {
	var entries []*mlspec.LexEntry
	kindToTerminal := map[string]string{}
	for i, term := range g.Terminals() {
		if term == "" {
			continue
		}
		kind := fmt.Sprintf("t%v", i+1)
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(kind),
			Pattern: mlspec.LexPattern(escapePattern(term)),
		})
		kindToTerminal[kind] = term
	}
	entries = append(entries, &mlspec.LexEntry{
		Kind:    mlspec.LexKindName(whiteSpaceKind),
		Pattern: mlspec.LexPattern(`[\u{0009}\u{000A}\u{000D}\u{0020}]+`),
	})

	clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    lexSpecName,
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0], kindToTerminal)
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr, kindToTerminal)
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}

	return &Tokenizer{
		spec:           clspec,
		kindToTerminal: kindToTerminal,
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError, kindToTerminal map[string]string) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	if term, ok := kindToTerminal[cErr.Kind.String()]; ok {
		fmt.Fprintf(w, "terminal %q: %v", term, cErr.Cause)
	} else {
		fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	}
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

// escapePattern spells every character as a code point so that the terminal is matched literally.
func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		fmt.Fprintf(&b, `\u{%04X}`, r)
	}
	return b.String()
}

// Tokenize reads all tokens in src.
func (t *Tokenizer) Tokenize(src io.Reader) ([]Token, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(t.spec), src)
	if err != nil {
		return nil, err
	}

	var toks []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			break
		}
		if tok.Invalid {
			return nil, fmt.Errorf("%v:%v: invalid token: %q", tok.Row+1, tok.Col+1, string(tok.Lexeme))
		}

		kind := t.spec.KindNames[tok.KindID].String()
		if kind == whiteSpaceKind {
			continue
		}
		toks = append(toks, &LexToken{
			Terminal: t.kindToTerminal[kind],
			Text:     string(tok.Lexeme),
			Row:      tok.Row + 1,
			Col:      tok.Col + 1,
		})
	}
	return toks, nil
}

// SplitTokens cuts src at every sep and makes each non-empty piece a token. An empty sep splits src at
// white spaces.
func SplitTokens(src string, sep string) []Token {
	var pieces []string
	if sep == "" {
		pieces = strings.Fields(src)
	} else {
		pieces = strings.Split(src, sep)
	}

	var toks []Token
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		toks = append(toks, StringToken(p))
	}
	return toks
}
