package main

import (
	"strings"
	"testing"

	"github.com/nihei9/ambi/driver"
	"github.com/nihei9/ambi/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stepHeader = "q - quit\np - switch print result (default = true)\ngo - go until success\n"

func TestStep(t *testing.T) {
	eg, err := grammar.ParseString(`
<b> ::= <a> | <b> "." <a>
<a> ::= "N"
`)
	require.NoError(t, err)
	g := eg.Flatten()

	tests := []struct {
		caption  string
		commands string
		expected string
	}{
		{
			caption:  "pull every result",
			commands: "\n\n\n",
			expected: stepHeader +
				">> error: ctx len is not 1 on 'N' != <0, 3, 'N.N'>\n" +
				">> tree:\nb\n`b\n``a\n```N\n`.\n`a\n``N\n" +
				">> no more results\n",
		},
		{
			caption:  "go until success",
			commands: "go\n",
			expected: stepHeader +
				">> error: ctx len is not 1 on 'N' != <0, 3, 'N.N'>\n" +
				"tree:\nb\n`b\n``a\n```N\n`.\n`a\n``N\n" +
				">> \n",
		},
		{
			caption:  "switch printing off",
			commands: "p\n\n\n",
			expected: stepHeader +
				">> print result = false\n" +
				">> >> no more results\n",
		},
		{
			caption:  "quit",
			commands: "\nq\n",
			expected: stepHeader +
				">> error: ctx len is not 1 on 'N' != <0, 3, 'N.N'>\n" +
				">> ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			var out strings.Builder
			seq := driver.Parse(driver.NewCtx(g, driver.StringTokens("N", ".", "N")))
			err := step(strings.NewReader(tt.commands), &out, seq)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.String())
		})
	}
}
