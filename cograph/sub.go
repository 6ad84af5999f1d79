// Package cograph turns per-query substitution sets into an undirected
// co-occurrence graph and prunes it down to the well supported edges.
// Nodes are distinct substitutions; an edge count says in how many
// queries both of its endpoints were seen together.
package cograph

import "fmt"

// Sub identifies one substitution: the alignment site, the ancestral
// (reference) symbol there and the derived (query) symbol. Two queries
// showing the same triple share one node.
type Sub struct {
	Pos uint32 `json:"pos"`
	Anc byte   `json:"anc"`
	Der byte   `json:"der"`
}

// String renders the usual mutation shorthand, e.g. C14F for a C to F
// change at alignment position 14 (1-based).
func (s Sub) String() string {
	return fmt.Sprintf("%c%d%c", s.Anc, s.Pos+1, s.Der)
}

// less orders substitutions by site, then ancestral, then derived
// symbol. Used to canonicalize edge keys and to sort output.
func (s Sub) less(t Sub) bool {
	if s.Pos != t.Pos {
		return s.Pos < t.Pos
	}
	if s.Anc != t.Anc {
		return s.Anc < t.Anc
	}
	return s.Der < t.Der
}
