// Package sites computes per-site symbol frequencies across the query
// population of an alignment and classifies sites as conserved or
// variable. The reference is deliberately left out of the tallies:
// frequency describes the query population, not the ancestral state.
package sites

import (
	"runtime"
	"sync"

	"github.com/convergraph/convergraph/align"
)

// Profile holds the per-site symbol counts for one alignment. It is
// built once per run, consulted during substitution extraction and can
// be discarded afterwards.
type Profile struct {
	counts   [][align.AlphaLen]uint32
	nqueries int
}

// Tally counts symbol usage at every site of the alignment. With
// nw > 1 the query rows are split over nw workers, each filling its
// own table, and the tables are merged by summation.
func Tally(a *align.Alignment, nw int) *Profile {
	p := &Profile{
		counts:   make([]onesite, a.Length),
		nqueries: a.NQueries(),
	}
	rows := a.Rows()
	if nw < 1 {
		nw = runtime.GOMAXPROCS(0)
	}
	if nw > len(rows) {
		nw = len(rows)
	}
	if nw <= 1 {
		tallyRows(rows, p.counts)
		return p
	}

	parts := make([][]onesite, nw)
	var wg sync.WaitGroup
	for iw := 0; iw < nw; iw++ {
		lo := iw * len(rows) / nw
		hi := (iw + 1) * len(rows) / nw
		parts[iw] = make([]onesite, a.Length)
		wg.Add(1)
		go func(rows [][]byte, counts []onesite) {
			tallyRows(rows, counts)
			wg.Done()
		}(rows[lo:hi], parts[iw])
	}
	wg.Wait()
	for _, part := range parts {
		for i := range part {
			for j := 0; j < align.AlphaLen; j++ {
				p.counts[i][j] += part[i][j]
			}
		}
	}
	return p
}

type onesite = [align.AlphaLen]uint32

func tallyRows(rows [][]byte, counts []onesite) {
	for _, row := range rows {
		for i, c := range row {
			counts[i][align.ClassIndex(c)]++
		}
	}
}

// NQueries returns the number of query sequences behind the tallies.
func (p *Profile) NQueries() int { return p.nqueries }

// Len returns the alignment length.
func (p *Profile) Len() int { return len(p.counts) }

// Count returns the number of queries showing symbol sym at the site.
func (p *Profile) Count(site int, sym byte) uint32 {
	return p.counts[site][align.ClassIndex(sym)]
}

// Freq returns the fraction of queries showing symbol sym at the site.
func (p *Profile) Freq(site int, sym byte) float64 {
	if p.nqueries == 0 {
		return 0
	}
	return float64(p.Count(site, sym)) / float64(p.nqueries)
}

// Max returns the most common symbol at the site and its frequency.
// Ties go to the alphabetically first symbol.
func (p *Profile) Max(site int) (sym byte, freq float64) {
	best := 0
	for j := 1; j < align.AlphaLen; j++ {
		if p.counts[site][j] > p.counts[site][best] {
			best = j
		}
	}
	return align.ClassSymbol(best), p.Freq(site, align.ClassSymbol(best))
}

// Conserved reports whether the site's dominant symbol reaches the
// conservation threshold. A site exactly at the threshold counts as
// conserved. Sites where every query has a gap get the same test; the
// gap is a symbol like any other here.
func (p *Profile) Conserved(site int, threshold float64) bool {
	_, freq := p.Max(site)
	return freq >= threshold
}

// VariableSites returns, in ascending order, every site whose dominant
// symbol stays below the conservation threshold. Only these sites take
// part in substitution extraction.
func (p *Profile) VariableSites(threshold float64) []int {
	var variable []int
	for i := range p.counts {
		if !p.Conserved(i, threshold) {
			variable = append(variable, i)
		}
	}
	return variable
}
