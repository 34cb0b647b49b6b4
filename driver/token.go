package driver

import "fmt"

// Token is an input token. Terminals are matched against Name; String is used for display only.
type Token interface {
	fmt.Stringer
	Name() string
}

// StringToken is a token whose name and text are the same string.
type StringToken string

func (t StringToken) Name() string {
	return string(t)
}

func (t StringToken) String() string {
	return string(t)
}

func StringTokens(names ...string) []Token {
	toks := make([]Token, len(names))
	for i, n := range names {
		toks[i] = StringToken(n)
	}
	return toks
}
