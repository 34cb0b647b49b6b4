// Package driver derives token sequences against a flattened grammar. It enumerates every derivation
// lazily, so callers can stop at the first parse tree or collect all of them.
package driver

import (
	"fmt"
	"iter"

	"github.com/nihei9/ambi/combination"
	"github.com/nihei9/ambi/grammar"
)

// nodeResult is one candidate for a single slot of an expression.
type nodeResult struct {
	node Node
	err  error
}

// Parse enumerates the derivations of the whole context from the first production of the grammar. Each
// element is either a parse tree or the error that ended one derivation branch. Failed branches are
// omitted when the context ignores errors.
func Parse(ctx Ctx) iter.Seq2[*ParseTree, error] {
	return func(yield func(*ParseTree, error) bool) {
		if len(ctx.grammar.Productions) == 0 {
			yield(nil, newDerivationError(ErrEmptyGrammar, "grammar is empty"))
			return
		}
		if ctx.logsEnabled {
			logger().Debugf("input: %v", ctx)
		}

		for tree, err := range doProduction(ctx, ctx.grammar.Productions[0]) {
			if !yield(tree, err) {
				return
			}
		}
	}
}

func doProduction(ctx Ctx, prod *grammar.Production) iter.Seq2[*ParseTree, error] {
	return func(yield func(*ParseTree, error) bool) {
		ctx.traceProduction(prod.LHS)

		for _, expr := range prod.RHS {
			for tree, err := range doExpression(ctx, prod.LHS, expr) {
				if err != nil && ctx.ignoreErrors {
					continue
				}
				if !yield(tree, err) {
					return
				}
			}
		}
	}
}

func doExpression(ctx Ctx, lhs string, expr *grammar.Expression) iter.Seq2[*ParseTree, error] {
	return func(yield func(*ParseTree, error) bool) {
		ctx.traceExpression(expr.String())

		// An alternative having no terms derives the empty span only.
		if len(expr.Terms) == 0 {
			if ctx.Len() == 0 {
				yield(&ParseTree{LHS: lhs}, nil)
			} else {
				yield(nil, newDerivationError(ErrContextLength, fmt.Sprintf("ctx len is not 0 on an empty alternative of <%v> != %v", lhs, ctx.Describe())))
			}
			return
		}

		for comb := range ctx.combinations(len(expr.Terms)) {
			subs := ctx.Split(comb)
			ctx.traceCombination(subs)

			slots := func(yield func(iter.Seq[nodeResult]) bool) {
				for i, sub := range subs {
					if i >= len(expr.Terms) {
						return
					}
					if !yield(doTerm(sub, expr.Terms[i])) {
						return
					}
				}
			}
			for results := range combination.ExpandSeq(slots) {
				if !yield(newParseTree(lhs, results)) {
					return
				}
			}
		}
	}
}

// newParseTree folds the candidates of each slot into a tree. The first failed slot decides the result and
// the slots after it are not looked at.
func newParseTree(lhs string, results []nodeResult) (*ParseTree, error) {
	tree := &ParseTree{
		LHS: lhs,
		RHS: make([]Node, 0, len(results)),
	}
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		tree.RHS = append(tree.RHS, r.node)
	}
	return tree, nil
}

func doTerm(ctx Ctx, term grammar.OptTerm) iter.Seq[nodeResult] {
	return func(yield func(nodeResult) bool) {
		if ctx.level > MaxLevel {
			yield(nodeResult{err: newDerivationError(ErrMaxLevel, "max level reached")})
			return
		}

		ctx.traceTerm(term)

		if term.Optional {
			yield(nodeResult{err: newDerivationError(ErrOptionalTerm, fmt.Sprintf("optional terms are unimplemented. term '%v' is optional. call ExtGrammar.Flatten to remove them", term))})
			return
		}

		if term.IsTerminal() {
			switch {
			case ctx.Len() != 1:
				yield(nodeResult{err: newDerivationError(ErrContextLength, fmt.Sprintf("ctx len is not 1 on %v != %v", term, ctx.Describe()))})
			case ctx.Front().Name() != term.Name:
				yield(nodeResult{err: newDerivationError(ErrTerminalMismatch, fmt.Sprintf("front token '%v' is not given terminal '%v'", ctx.Front(), term.Name))})
			default:
				yield(nodeResult{
					node: Node{
						Kind:  NodeKindTerminal,
						Token: ctx.Front(),
						Pos:   ctx.begin,
					},
				})
			}
			return
		}

		prod, ok := ctx.grammar.Production(term.Name)
		if !ok {
			yield(nodeResult{err: newDerivationError(ErrProductionNotFound, fmt.Sprintf("production '%v' not found", term.Name))})
			return
		}
		// The production stack bounds the recursion as well as the level does.
		if ctx.stackFull() {
			yield(nodeResult{err: newDerivationError(ErrMaxLevel, "max level reached")})
			return
		}
		for tree, err := range doProduction(ctx.NextLevel(prod), prod) {
			var r nodeResult
			if err != nil {
				r.err = err
			} else {
				r.node = Node{
					Kind: NodeKindNonterminal,
					Tree: tree,
				}
			}
			if !yield(r) {
				return
			}
		}
	}
}

// First returns the first parse tree seq yields. When seq yields no tree, it returns the last error seen,
// or nil when seq yields nothing at all.
func First(seq iter.Seq2[*ParseTree, error]) (*ParseTree, error) {
	var lastErr error
	for tree, err := range seq {
		if err != nil {
			lastErr = err
			continue
		}
		return tree, nil
	}
	return nil, lastErr
}

// Successes collects the parse trees seq yields, skipping errors. A positive limit stops the enumeration
// once that many trees are collected.
func Successes(seq iter.Seq2[*ParseTree, error], limit int) []*ParseTree {
	var trees []*ParseTree
	for tree, err := range seq {
		if err != nil {
			continue
		}
		trees = append(trees, tree)
		if limit > 0 && len(trees) >= limit {
			break
		}
	}
	return trees
}
