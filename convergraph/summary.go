package main

// RunSummary stores convergraph run summary information for the JSON
// output.
type RunSummary struct {
	// Version stores convergraph version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// NThreads is the number of processes used.
	NThreads int `json:"nThreads"`
	// NQueries is the number of query sequences.
	NQueries int `json:"nQueries"`
	// AlignmentLength is the alignment length (absent when re-pruning a stored graph).
	AlignmentLength int `json:"alignmentLength,omitempty"`
	// VariableSites is the number of non-conserved sites (absent when re-pruning).
	VariableSites int `json:"variableSites,omitempty"`
	// ConservationThreshold is the per-site conservation cutoff.
	ConservationThreshold float64 `json:"conservationThreshold"`
	// MinimumSupport is the minimum co-occurrence count for an edge.
	MinimumSupport int `json:"minimumSupport"`
	// MinimumFrequency is the minimum co-occurrence frequency for an edge.
	MinimumFrequency float64 `json:"minimumFrequency"`
	// NodesBeforePruning and EdgesBeforePruning describe the full graph.
	NodesBeforePruning int `json:"nodesBeforePruning"`
	EdgesBeforePruning int `json:"edgesBeforePruning"`
	// Nodes and Edges describe the pruned graph that was written out.
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
	// Time is the computation time in seconds.
	Time float64 `json:"time"`
}
