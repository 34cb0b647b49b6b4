package grammar

import "github.com/tidwall/btree"

// symbolTable indexes the names a grammar uses, in sorted order.
type symbolTable struct {
	terminals    btree.Set[string]
	nonterminals btree.Set[string]
	referenced   btree.Set[string]
}

func newSymbolTable(g *Grammar) *symbolTable {
	tab := &symbolTable{}
	for _, p := range g.Productions {
		tab.nonterminals.Insert(p.LHS)
		for _, e := range p.RHS {
			for _, t := range e.Terms {
				switch t.Kind {
				case TermKindTerminal:
					tab.terminals.Insert(t.Name)
				case TermKindNonterminal:
					tab.referenced.Insert(t.Name)
				}
			}
		}
	}
	return tab
}

// Terminals returns the distinct terminal names in sorted order.
func (g *Grammar) Terminals() []string {
	return keys(&newSymbolTable(g).terminals)
}

// Nonterminals returns the distinct names of the production LHSs in sorted order.
func (g *Grammar) Nonterminals() []string {
	return keys(&newSymbolTable(g).nonterminals)
}

// Undefined returns the nonterminals that some expression refers to but no production defines. Deriving
// such a nonterminal always fails.
func (g *Grammar) Undefined() []string {
	tab := newSymbolTable(g)
	var undefined []string
	tab.referenced.Scan(func(name string) bool {
		if !tab.nonterminals.Contains(name) {
			undefined = append(undefined, name)
		}
		return true
	})
	return undefined
}

func keys(s *btree.Set[string]) []string {
	ks := make([]string, 0, s.Len())
	s.Scan(func(k string) bool {
		ks = append(ks, k)
		return true
	})
	return ks
}
