package cograph

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/convergraph/convergraph/align"
	"github.com/convergraph/convergraph/sites"
)

// buildFrom runs loading, site classification, extraction and graph
// accumulation over literal sequences.
func buildFrom(t *testing.T, threshold float64, skipGaps bool, ref string, queries ...string) *Graph {
	t.Helper()
	ali, err := align.FromStrings(ref, queries...)
	require.NoError(t, err)
	prof := sites.Tally(ali, 1)
	variable := prof.VariableSites(threshold)
	g := New(ali.NQueries())
	for _, set := range ExtractSets(ali, variable, skipGaps) {
		require.NoError(t, g.AddSet(set))
	}
	return g
}

func TestSubString(t *testing.T) {
	require.Equal(t, "C14F", Sub{Pos: 13, Anc: 'C', Der: 'F'}.String())
	require.Equal(t, "A1-", Sub{Pos: 0, Anc: 'A', Der: '-'}.String())
}

// Three queries share one substitution but never a pair, so the only
// node is an orphan and pruning empties the graph.
func TestSingletonNodeCollapses(t *testing.T) {
	g := buildFrom(t, 0.97, false, "ACDE", "ACDE", "AYDE", "AYDE", "AYDE")
	require.Equal(t, []Sub{{Pos: 1, Anc: 'C', Der: 'Y'}}, g.Nodes())
	require.Equal(t, 0, g.NEdges())

	require.NoError(t, g.Prune(Thresholds{Conservation: 0.97, MinSupport: 1}))
	require.Equal(t, 0, g.NNodes())
	require.Equal(t, 0, g.NEdges())
}

func TestSharedPairScenario(t *testing.T) {
	a := Sub{Pos: 0, Anc: 'A', Der: 'T'}
	b := Sub{Pos: 1, Anc: 'A', Der: 'T'}

	g := buildFrom(t, 0.97, false, "AA", "TT", "TT", "AA")
	require.Equal(t, []Sub{a, b}, g.Nodes())
	require.Equal(t, []Edge{{A: a, B: b, Count: 2}}, g.Edges())
	require.InDelta(t, 2.0/3.0, g.Freq(a, b), 1e-9)

	// Default support of 4 kills the edge and orphans both nodes.
	require.NoError(t, g.Prune(Thresholds{Conservation: 0.97, MinSupport: 4, MinFrequency: 0.1}))
	require.Equal(t, 0, g.NNodes())

	// Support of 2 keeps the edge and its two nodes.
	g = buildFrom(t, 0.97, false, "AA", "TT", "TT", "AA")
	require.NoError(t, g.Prune(Thresholds{Conservation: 0.97, MinSupport: 2}))
	require.Equal(t, 2, g.NNodes())
	require.Equal(t, []Edge{{A: a, B: b, Count: 2}}, g.Edges())
}

func TestOrderIndependence(t *testing.T) {
	sets := [][]Sub{
		{{0, 'A', 'T'}, {1, 'C', 'Y'}, {3, 'D', 'G'}},
		{{1, 'C', 'Y'}, {3, 'D', 'G'}},
		{{0, 'A', 'T'}},
		nil,
	}
	g1 := New(len(sets))
	for _, s := range sets {
		require.NoError(t, g1.AddSet(s))
	}
	g2 := New(len(sets))
	for i := len(sets) - 1; i >= 0; i-- {
		require.NoError(t, g2.AddSet(sets[i]))
	}
	require.Equal(t, g1.Nodes(), g2.Nodes())
	require.Equal(t, g1.Edges(), g2.Edges())
}

func TestPruneMonotonic(t *testing.T) {
	mk := func() *Graph {
		return buildFrom(t, 0.97, false,
			"AAAA", "TTAA", "TTAA", "TTTA", "TCTA", "ACTA", "AAAA")
	}
	prevNodes, prevEdges := mk().NNodes()+1, mk().NEdges()+1
	for support := 0; support <= 4; support++ {
		g := mk()
		require.NoError(t, g.Prune(Thresholds{Conservation: 0.97, MinSupport: support}))
		require.LessOrEqual(t, g.NNodes(), prevNodes)
		require.LessOrEqual(t, g.NEdges(), prevEdges)
		prevNodes, prevEdges = g.NNodes(), g.NEdges()
	}
}

func TestOrphanRemoval(t *testing.T) {
	g := buildFrom(t, 0.97, false,
		"AAAA", "TTAA", "TTAA", "TTTA", "TCTA", "ACTA", "AAAA")
	require.NoError(t, g.Prune(Thresholds{Conservation: 0.97, MinSupport: 2}))
	deg := make(map[Sub]int)
	for _, e := range g.Edges() {
		deg[e.A]++
		deg[e.B]++
	}
	for _, n := range g.Nodes() {
		require.GreaterOrEqual(t, deg[n], 1, "node %v has no surviving edge", n)
	}
}

func TestInvalidParameters(t *testing.T) {
	bad := []Thresholds{
		{Conservation: -0.1},
		{Conservation: 1.1},
		{Conservation: 0.97, MinSupport: -1},
		{Conservation: 0.97, MinFrequency: -0.5},
		{Conservation: 0.97, MinFrequency: 1.5},
	}
	for _, thr := range bad {
		g := New(1)
		err := g.Prune(thr)
		var ipe *InvalidParameterError
		require.True(t, errors.As(err, &ipe), "thresholds %+v: got %v", thr, err)
		require.False(t, g.Frozen())
	}
}

func TestFrozenAfterPrune(t *testing.T) {
	g := New(2)
	require.NoError(t, g.AddSet([]Sub{{0, 'A', 'T'}, {1, 'A', 'T'}}))
	require.NoError(t, g.Prune(Thresholds{Conservation: 0.97, MinSupport: 1}))
	require.True(t, g.Frozen())
	require.ErrorIs(t, g.AddSet([]Sub{{2, 'A', 'T'}}), ErrFrozen)
	require.ErrorIs(t, g.AddNode(Sub{2, 'A', 'T'}), ErrFrozen)
	require.ErrorIs(t, g.Prune(Thresholds{Conservation: 0.97}), ErrFrozen)
}

func TestSelfLoopRejected(t *testing.T) {
	g := New(1)
	s := Sub{0, 'A', 'T'}
	require.ErrorIs(t, g.SetEdge(s, s, 1), ErrSelfLoop)
}

func TestSkipGaps(t *testing.T) {
	ali, err := align.FromStrings("AC-E", "AY-E", "-CAE")
	require.NoError(t, err)
	variable := []int{0, 1, 2, 3}

	sets := ExtractSets(ali, variable, false)
	require.Equal(t, [][]Sub{
		{{1, 'C', 'Y'}},
		{{0, 'A', '-'}, {2, '-', 'A'}},
	}, sets)

	sets = ExtractSets(ali, variable, true)
	require.Equal(t, []Sub{{1, 'C', 'Y'}}, sets[0])
	require.Empty(t, sets[1])
}

func TestStopKeptWithSkipGaps(t *testing.T) {
	ali, err := align.FromStrings("AC", "A*")
	require.NoError(t, err)
	sets := ExtractSets(ali, []int{0, 1}, true)
	require.Equal(t, [][]Sub{{{1, 'C', '*'}}}, sets)
}

func TestWriteDOT(t *testing.T) {
	g := New(3)
	require.NoError(t, g.AddSet([]Sub{{0, 'A', 'T'}, {1, 'A', 'T'}}))
	require.NoError(t, g.AddSet([]Sub{{0, 'A', 'T'}, {1, 'A', 'T'}}))
	require.NoError(t, g.Prune(Thresholds{Conservation: 0.97, MinSupport: 2}))

	want := `graph {
    0 [ label = "A1T" ]
    1 [ label = "A2T" ]
    0 -- 1 [ label = "2", weight=2 ]
}
`
	var buf bytes.Buffer
	require.NoError(t, g.WriteDOT(&buf))
	require.Equal(t, want, buf.String())

	// Byte-identical on a second rendering.
	var again bytes.Buffer
	require.NoError(t, g.WriteDOT(&again))
	require.Equal(t, buf.Bytes(), again.Bytes())
}

// The whole pipeline run twice over identical input gives identical
// bytes.
func TestPipelineIdempotent(t *testing.T) {
	render := func() string {
		g := buildFrom(t, 0.97, false,
			"AAAA", "TTAA", "TTAA", "TTTA", "TCTA", "ACTA", "AAAA")
		require.NoError(t, g.Prune(Thresholds{Conservation: 0.97, MinSupport: 1}))
		var buf bytes.Buffer
		require.NoError(t, g.WriteDOT(&buf))
		return buf.String()
	}
	require.Equal(t, render(), render())
}

func TestEmptyGraphIsValid(t *testing.T) {
	g := New(0)
	require.NoError(t, g.Prune(Thresholds{Conservation: 0.97, MinSupport: 4, MinFrequency: 0.1}))
	var buf bytes.Buffer
	require.NoError(t, g.WriteDOT(&buf))
	require.Equal(t, "graph {\n}\n", buf.String())
}
