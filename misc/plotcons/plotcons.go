// plotcons creates a plot of the per-site conservation profile of an
// alignment: the frequency of the most common symbol at every site.
// Sites dipping under the conservation threshold are the ones feeding
// the co-occurrence graph.
package main

import (
	"flag"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/convergraph/convergraph/align"
	"github.com/convergraph/convergraph/sites"
)

func main() {
	refFname := flag.String("ref", "", "reference sequence file")
	queryFname := flag.String("queries", "", "query TSV file")
	hasHeader := flag.Bool("header", false, "first query line is a header")
	out := flag.String("out", "conservation.png", "output image")
	flag.Parse()

	ali, err := align.Load(*refFname, *queryFname, *hasHeader)
	if err != nil {
		panic(err)
	}
	prof := sites.Tally(ali, 1)
	fmt.Printf("Data are %d x %d\n", ali.NQueries(), ali.Length)

	p := plot.New()
	p.Title.Text = "Per-site conservation"
	p.X.Label.Text = "site"
	p.Y.Label.Text = "max symbol frequency"

	pts := make(plotter.XYs, prof.Len())
	for i := 0; i < prof.Len(); i++ {
		_, freq := prof.Max(i)
		pts[i].X = float64(i + 1)
		pts[i].Y = freq
	}

	err = plotutil.AddLinePoints(p, "conservation", pts)
	if err != nil {
		panic(err)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, *out); err != nil {
		panic(err)
	}
}
