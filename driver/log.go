package driver

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/tliron/commonlog"
)

// logger is looked up on every use because the backend is chosen by the program after package
// initialization.
func logger() commonlog.Logger {
	return commonlog.GetLogger("ambi.driver")
}

const traceColumnWidth = 48

// traceLine lays out one derivation step: the step marker, one backtick per level, the rule and then the
// context, aligned on a fixed column.
func traceLine(marker string, level int, rule string, ctx string) string {
	head := marker + strings.Repeat("`", level) + rule
	if pad := traceColumnWidth - uniseg.StringWidth(head); pad > 0 {
		head += strings.Repeat(" ", pad)
	}
	return head + ctx
}

func (c Ctx) traceProduction(lhs string) {
	if !c.logsEnabled {
		return
	}
	logger().Debug(traceLine("->", c.level, lhs, c.Describe()))
}

func (c Ctx) traceExpression(terms string) {
	if !c.logsEnabled {
		return
	}
	logger().Debug(traceLine("E ", c.level, terms, c.Describe()))
}

func (c Ctx) traceCombination(subs []Ctx) {
	if !c.logsEnabled {
		return
	}
	var b strings.Builder
	b.WriteString("[")
	for i, sub := range subs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sub.Describe())
	}
	b.WriteString("]")
	logger().Debug(traceLine("C ", c.level, "", b.String()))
}

func (c Ctx) traceTerm(term fmt.Stringer) {
	if !c.logsEnabled {
		return
	}
	logger().Debug(traceLine("T ", c.level, term.String(), c.Describe()))
}
