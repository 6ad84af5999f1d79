package cograph

import (
	"errors"
	"sort"
)

// Sentinel errors for graph mutation.
var (
	// ErrFrozen indicates a mutation was attempted after pruning.
	ErrFrozen = errors.New("cograph: graph is frozen")

	// ErrSelfLoop indicates an edge with identical endpoints.
	ErrSelfLoop = errors.New("cograph: self-loops not allowed")
)

// Edge is one undirected co-occurrence edge with its accumulated
// count. A is always the smaller endpoint.
type Edge struct {
	A     Sub    `json:"a"`
	B     Sub    `json:"b"`
	Count uint32 `json:"count"`
}

// edgeKey is the canonical (ordered) endpoint pair.
type edgeKey struct {
	a, b Sub
}

func key(a, b Sub) edgeKey {
	if b.less(a) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Graph accumulates substitution nodes and co-occurrence edges. It is
// mutable while query sets are streamed in; Prune freezes it, after
// which it only serves reads.
type Graph struct {
	nodes    map[Sub]struct{}
	edges    map[edgeKey]uint32
	nqueries int
	frozen   bool
}

// New returns an empty graph. nQueries is the total number of query
// sequences; it is the denominator for every edge frequency.
func New(nQueries int) *Graph {
	return &Graph{
		nodes:    make(map[Sub]struct{}),
		edges:    make(map[edgeKey]uint32),
		nqueries: nQueries,
	}
}

// AddSet records one query's substitution set. Every member becomes a
// node and every unordered pair of members increments an edge count by
// one. The members of a set are distinct by construction (one site
// appears at most once per query), so no self-loops can arise.
func (g *Graph) AddSet(set []Sub) error {
	if g.frozen {
		return ErrFrozen
	}
	for _, s := range set {
		g.nodes[s] = struct{}{}
	}
	for i := 0; i < len(set); i++ {
		for j := i + 1; j < len(set); j++ {
			g.edges[key(set[i], set[j])]++
		}
	}
	return nil
}

// AddNode inserts a single node. Used when rebuilding a stored graph.
func (g *Graph) AddNode(s Sub) error {
	if g.frozen {
		return ErrFrozen
	}
	g.nodes[s] = struct{}{}
	return nil
}

// SetEdge sets an edge count directly, inserting both endpoints. Used
// when rebuilding a stored graph.
func (g *Graph) SetEdge(a, b Sub, count uint32) error {
	if g.frozen {
		return ErrFrozen
	}
	if a == b {
		return ErrSelfLoop
	}
	g.nodes[a] = struct{}{}
	g.nodes[b] = struct{}{}
	g.edges[key(a, b)] = count
	return nil
}

// NQueries returns the frequency denominator.
func (g *Graph) NQueries() int { return g.nqueries }

// NNodes returns the number of nodes.
func (g *Graph) NNodes() int { return len(g.nodes) }

// NEdges returns the number of edges.
func (g *Graph) NEdges() int { return len(g.edges) }

// Frozen reports whether pruning has completed.
func (g *Graph) Frozen() bool { return g.frozen }

// Count returns the co-occurrence count for the edge {a, b}, zero if
// there is no such edge.
func (g *Graph) Count(a, b Sub) uint32 {
	return g.edges[key(a, b)]
}

// Freq returns the edge frequency: the co-occurrence count divided by
// the total number of query sequences.
func (g *Graph) Freq(a, b Sub) float64 {
	if g.nqueries == 0 {
		return 0
	}
	return float64(g.Count(a, b)) / float64(g.nqueries)
}

// Nodes returns all nodes in canonical order.
func (g *Graph) Nodes() []Sub {
	nodes := make([]Sub, 0, len(g.nodes))
	for s := range g.nodes {
		nodes = append(nodes, s)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].less(nodes[j]) })
	return nodes
}

// Edges returns all edges in canonical order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for k, n := range g.edges {
		edges = append(edges, Edge{A: k.a, B: k.b, Count: n})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A.less(edges[j].A)
		}
		return edges[i].B.less(edges[j].B)
	})
	return edges
}

// degree counts surviving edges per node.
func (g *Graph) degree() map[Sub]int {
	deg := make(map[Sub]int, len(g.nodes))
	for k := range g.edges {
		deg[k.a]++
		deg[k.b]++
	}
	return deg
}
