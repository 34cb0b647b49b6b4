package main

import (
	"io"
	"os"
	"text/template"

	"github.com/nihei9/ambi/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe <grammar file path>",
		Short:   "Print the symbols and the alternatives of a grammar",
		Example: `  ambi describe lang.bnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	eg, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	return writeDescription(os.Stdout, eg)
}

const descriptionTemplate = `# Terminals

{{ range .Terminals -}}
{{ printf "%q" . }}
{{ end }}
# Nonterminals

{{ range .Nonterminals -}}
<{{ . }}>
{{ end }}
{{- if .Undefined }}
# Undefined Nonterminals

{{ range .Undefined -}}
<{{ . }}>
{{ end }}
{{- end }}
# Productions

{{ range .Productions -}}
<{{ .LHS }}>: {{ .Written }} alternative(s), {{ .Flattened }} after expanding optional terms
{{ end }}`

type productionDescription struct {
	LHS       string
	Written   int
	Flattened int
}

type grammarDescription struct {
	Terminals    []string
	Nonterminals []string
	Undefined    []string
	Productions  []*productionDescription
}

func writeDescription(w io.Writer, eg *grammar.ExtGrammar) error {
	g := eg.Flatten()
	desc := &grammarDescription{
		Terminals:    g.Terminals(),
		Nonterminals: g.Nonterminals(),
		Undefined:    g.Undefined(),
	}
	for i, p := range eg.Productions {
		desc.Productions = append(desc.Productions, &productionDescription{
			LHS:       p.LHS,
			Written:   len(p.RHS),
			Flattened: len(g.Productions[i].RHS),
		})
	}

	tmpl, err := template.New("").Parse(descriptionTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, desc)
}
