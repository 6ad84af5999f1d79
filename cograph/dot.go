package cograph

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDOT renders the graph as an undirected DOT document understood
// by GEPHI and similar viewers. Every node appears exactly once as a
// declaration carrying its mutation shorthand as label; every edge
// appears exactly once with the co-occurrence count both as label and
// as integer weight attribute. Nodes and edges are written in
// canonical order, so identical runs give identical bytes.
func (g *Graph) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "graph {")
	nodes := g.Nodes()
	id := make(map[Sub]int, len(nodes))
	for i, n := range nodes {
		id[n] = i
		fmt.Fprintf(bw, "    %d [ label = \"%s\" ]\n", i, n)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(bw, "    %d -- %d [ label = \"%d\", weight=%d ]\n",
			id[e.A], id[e.B], e.Count, e.Count)
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
