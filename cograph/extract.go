package cograph

import "github.com/convergraph/convergraph/align"

// ExtractSets compares every query against the reference at the given
// variable sites and returns one substitution set per query, in query
// order. A set holds each substitution once; sets of size zero or one
// later contribute no edges.
//
// With skipGaps set, a substitution whose ancestral or derived symbol
// is a deletion or the unknown class is treated as missing data and
// dropped. Stops are kept either way; a mutation to a stop codon is
// information, a gap usually is not.
func ExtractSets(a *align.Alignment, variable []int, skipGaps bool) [][]Sub {
	sets := make([][]Sub, a.NQueries())
	for iq, q := range a.Queries {
		var set []Sub
		for _, i := range variable {
			if q.Seq[i] == a.Ref[i] {
				continue
			}
			if skipGaps && (isMissing(q.Seq[i]) || isMissing(a.Ref[i])) {
				continue
			}
			set = append(set, Sub{Pos: uint32(i), Anc: a.Ref[i], Der: q.Seq[i]})
		}
		sets[iq] = set
	}
	return sets
}

func isMissing(c byte) bool {
	return c == align.DelSym || c == align.ElseSym
}
