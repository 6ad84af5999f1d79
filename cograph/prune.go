package cograph

import "fmt"

// Thresholds holds the filtering parameters for one run. The edge
// frequency denominator is the total number of query sequences, the
// same convention the support counts use.
type Thresholds struct {
	// Conservation is the per-site frequency at or above which a site
	// counts as conserved and is excluded from extraction.
	Conservation float64
	// MinSupport is the minimum co-occurrence count for an edge.
	MinSupport int
	// MinFrequency is the minimum co-occurrence frequency for an edge.
	MinFrequency float64
}

// InvalidParameterError reports a threshold outside its valid range.
type InvalidParameterError struct {
	Name  string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: outside valid range", e.Name, e.Value)
}

// Validate checks every threshold range. Graph content is never a
// reason to fail; an empty pruned graph is a valid result.
func (t Thresholds) Validate() error {
	if t.Conservation < 0 || t.Conservation > 1 {
		return &InvalidParameterError{Name: "conservation-threshold", Value: t.Conservation}
	}
	if t.MinSupport < 0 {
		return &InvalidParameterError{Name: "minimum-cooccurrence-support", Value: float64(t.MinSupport)}
	}
	if t.MinFrequency < 0 || t.MinFrequency > 1 {
		return &InvalidParameterError{Name: "minimum-cooccurrence-frequency", Value: t.MinFrequency}
	}
	return nil
}

// Prune applies the three filter stages in order: drop edges under the
// support threshold, drop edges under the frequency threshold, then
// drop nodes left without edges. The graph is frozen afterwards.
func (g *Graph) Prune(t Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if g.frozen {
		return ErrFrozen
	}

	for k, n := range g.edges {
		if n < uint32(t.MinSupport) {
			delete(g.edges, k)
		}
	}
	for k := range g.edges {
		if g.Freq(k.a, k.b) < t.MinFrequency {
			delete(g.edges, k)
		}
	}
	deg := g.degree()
	for s := range g.nodes {
		if deg[s] == 0 {
			delete(g.nodes, s)
		}
	}

	g.frozen = true
	return nil
}
