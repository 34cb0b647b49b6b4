package grammar

import "github.com/nihei9/ambi/combination"

// Flatten expands every optional term into its present and absent forms. An expression with m optional
// terms yields 2^m expressions; their order is the order in which combination.Expand enumerates the
// present/absent choices, present first.
func (e *ExtExpression) Flatten() []*Expression {
	rows := make([][]*OptTerm, len(e.Terms))
	for i := range e.Terms {
		t := e.Terms[i]
		if t.Optional {
			// nil stands for the absent term.
			rows[i] = []*OptTerm{{Term: t.Term}, nil}
		} else {
			rows[i] = []*OptTerm{{Term: t.Term}}
		}
	}

	if len(rows) == 0 {
		return []*Expression{{}}
	}

	tuples := combination.Expand(rows)
	exprs := make([]*Expression, 0, len(tuples))
	for _, tuple := range tuples {
		expr := &Expression{}
		for _, t := range tuple {
			if t == nil {
				continue
			}
			expr.Terms = append(expr.Terms, *t)
		}
		exprs = append(exprs, expr)
	}
	return exprs
}

// Flatten keeps the declaration order of the alternatives; the expansions of one alternative are
// placed where the alternative was.
func (p *ExtProduction) Flatten() *Production {
	prod := &Production{
		LHS: p.LHS,
	}
	for _, e := range p.RHS {
		prod.RHS = append(prod.RHS, e.Flatten()...)
	}
	return prod
}

// Flatten returns an equivalent grammar without optional terms.
func (g *ExtGrammar) Flatten() *Grammar {
	gram := &Grammar{
		Productions: make([]*Production, len(g.Productions)),
	}
	for i, p := range g.Productions {
		gram.Productions[i] = p.Flatten()
	}
	return gram
}
