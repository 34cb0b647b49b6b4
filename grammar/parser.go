package grammar

import (
	"bufio"
	"io"
	"strings"

	verr "github.com/nihei9/ambi/error"
)

const productionDelimiter = "::="

type parseConfig struct {
	sourceName string
	filePath   string
}

type ParseOption func(c *parseConfig)

// SourceName sets the name that prefixes error messages.
func SourceName(name string) ParseOption {
	return func(c *parseConfig) {
		c.sourceName = name
	}
}

// FilePath sets the file the grammar was read from. Error messages quote the offending line of it.
func FilePath(path string) ParseOption {
	return func(c *parseConfig) {
		c.filePath = path
		if c.sourceName == "" {
			c.sourceName = path
		}
	}
}

// Parse reads grammar text. Each non-blank line is a production of the form
//
//	<lhs> ::= alt1 | alt2 | ...
//
// where an alternative is a space-separated list of terms: <name> is a nonterminal, "text" and any other
// bare word are terminals, and a trailing ? marks a term optional. When any line is malformed, Parse
// returns verr.SpecErrors describing every malformed line and no grammar.
func Parse(src io.Reader, opts ...ParseOption) (*ExtGrammar, error) {
	config := &parseConfig{}
	for _, opt := range opts {
		opt(config)
	}

	g := &ExtGrammar{}
	var errs verr.SpecErrors
	s := bufio.NewScanner(src)
	row := 0
	for s.Scan() {
		row++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}

		prod, specErr := parseProduction(line)
		if specErr != nil {
			specErr.FilePath = config.filePath
			specErr.SourceName = config.sourceName
			specErr.Row = row
			specErr.Line = line
			errs = append(errs, specErr)
			continue
		}
		g.Productions = append(g.Productions, prod)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return g, nil
}

func ParseString(src string, opts ...ParseOption) (*ExtGrammar, error) {
	return Parse(strings.NewReader(src), opts...)
}

func parseProduction(line string) (*ExtProduction, *verr.SpecError) {
	pos := strings.Index(line, productionDelimiter)
	if pos < 0 {
		return nil, &verr.SpecError{
			Cause: ErrRhsNotFound,
		}
	}

	lhs := strings.TrimSpace(line[:pos])
	if lhs == "" {
		return nil, &verr.SpecError{
			Cause: ErrLhsNotFound,
		}
	}
	if len(lhs) < 2 || lhs[0] != '<' || lhs[len(lhs)-1] != '>' {
		return nil, &verr.SpecError{
			Cause:  ErrWrongLhs,
			Detail: lhs,
		}
	}

	prod := &ExtProduction{
		LHS: lhs[1 : len(lhs)-1],
	}
	for _, alt := range strings.Split(line[pos+len(productionDelimiter):], "|") {
		expr := &ExtExpression{}
		for _, term := range strings.Split(alt, " ") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			expr.Terms = append(expr.Terms, parseTerm(term))
		}
		prod.RHS = append(prod.RHS, expr)
	}

	return prod, nil
}

// parseTerm checks the optional suffix before stripping brackets or quotes.
func parseTerm(text string) OptTerm {
	var t OptTerm
	if len(text) > 1 && strings.HasSuffix(text, "?") {
		t.Optional = true
		text = text[:len(text)-1]
	}

	switch {
	case len(text) > 1 && text[0] == '<' && text[len(text)-1] == '>':
		t.Term = Nonterminal(text[1 : len(text)-1])
	case len(text) > 1 && text[0] == '"' && text[len(text)-1] == '"':
		t.Term = Terminal(text[1 : len(text)-1])
	default:
		t.Term = Terminal(text)
	}

	return t
}
