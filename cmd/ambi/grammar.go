package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/ambi/driver"
	"github.com/nihei9/ambi/grammar"
)

func readGrammar(path string) (*grammar.ExtGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	return grammar.Parse(f, grammar.FilePath(path))
}

// readTokens reads the source text from path, or from stdin when path is empty, and splits it into tokens.
func readTokens(g *grammar.Grammar, path string, separator string, lex bool) ([]driver.Token, error) {
	src := io.Reader(os.Stdin)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("Cannot open the source file %s: %w", path, err)
		}
		defer f.Close()
		src = f
	}

	if lex {
		t, err := driver.NewTokenizer(g)
		if err != nil {
			return nil, fmt.Errorf("Cannot build a tokenizer: %w", err)
		}
		return t.Tokenize(src)
	}

	var b strings.Builder
	_, err := io.Copy(&b, src)
	if err != nil {
		return nil, err
	}
	return driver.SplitTokens(b.String(), separator), nil
}
