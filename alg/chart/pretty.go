package chart

import (
	"fmt"
	"strings"
)

// Pretty renders the first derivation packed below the edge as an
// indented tree. Alternative packed derivations are summarized by count.
func (e *Edge) Pretty() string {
	var sb strings.Builder
	e.pretty(&sb, 0, true)
	return sb.String()
}

func (e *Edge) pretty(sb *strings.Builder, depth int, root bool) {
	indent := strings.Repeat("  ", depth)
	d := e.Derivations[0]
	switch {
	case d.Entry != nil:
		fmt.Fprintf(sb, "%s%s := %s\n", indent, d.Entry.Token, e.Category)
	default:
		fmt.Fprintf(sb, "%s%s [%s]", indent, e.Category, d.Rule)
		if root && len(e.Derivations) > 1 {
			fmt.Fprintf(sb, " (+%d packed)", len(e.Derivations)-1)
		}
		sb.WriteByte('\n')
		d.Left.pretty(sb, depth+1, false)
		if d.Right != nil {
			d.Right.pretty(sb, depth+1, false)
		}
	}
}
