/*

Convergraph builds a mutation co-occurrence graph from an amino-acid
multiple sequence alignment, for viewing in tools like GEPHI. The goal
is to find convergently evolved shared mutations.

The basic usage looks like this:

	convergraph -r reference.fa queries.tsv > graph.dot

Queries are tab-separated records with the aligned peptide in the
aa_aln column; they can also come from standard input, optionally gzip
compressed:

	zcat queries.tsv.gz | convergraph -r reference.fa -q > graph.dot

To experiment with thresholds without re-reading a large alignment,
save the unpruned graph once and re-prune it:

	convergraph -r reference.fa --save-graph graph.db queries.tsv
	convergraph --load-graph graph.db -s 8 -f 0.2 > graph.dot

To see all the options run:

	convergraph --help

*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/op/go-logging"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/convergraph/convergraph/align"
	"github.com/convergraph/convergraph/cograph"
	"github.com/convergraph/convergraph/graphdb"
	"github.com/convergraph/convergraph/sites"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("convergraph")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("convergraph", "Builds a mutation co-occurrence graph "+
		"from an amino-acid alignment for viewing in tools like GEPHI.").Version(version)

	// input
	queryFileName = app.Arg("queries", "query records (TSV with the aligned peptide "+
		"in the aa_aln column; standard input by default)").String()
	refFileName = app.Flag("reference-file", "ancestral/outgroup reference sequence "+
		"(FASTA or bare sequence)").Short('r').String()
	queryHasHeader = app.Flag("query-has-header", "first query line is a header").
			Short('q').Bool()

	// analysis parameters
	minSupport = app.Flag("minimum-cooccurrence-support", "minimum co-occurrence support").
			Short('s').Default("4").Int()
	minFrequency = app.Flag("minimum-cooccurrence-frequency", "minimum co-occurrence frequency").
			Short('f').Default("0.10").Float64()
	consThreshold = app.Flag("conservation-threshold", "per-site frequency at or above "+
		"which a site counts as conserved").Short('c').Default("0.97").Float64()
	skipGaps = app.Flag("skip-gaps", "treat deletions and unknown symbols as missing "+
		"data rather than substitutions").Bool()

	// graph database
	saveGraphF = app.Flag("save-graph", "write the unpruned graph to a bolt database").String()
	loadGraphF = app.Flag("load-graph", "re-prune a previously saved graph instead of "+
		"reading an alignment").String()

	// technical
	nThreads   = app.Flag("nt", "number of threads to use").Int()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// input/output
	outF     = app.Flag("out", "write the graph to a file instead of standard output").Short('o').String()
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json summary to a file").String()
)

// build reads the alignment, classifies sites and accumulates the full
// (unpruned) co-occurrence graph.
func build(summary *RunSummary) *cograph.Graph {
	ali, err := align.Load(*refFileName, *queryFileName, *queryHasHeader)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Data are %d x %d", ali.NQueries(), ali.Length)
	summary.NQueries = ali.NQueries()
	summary.AlignmentLength = ali.Length

	prof := sites.Tally(ali, runtime.GOMAXPROCS(0))
	variable := prof.VariableSites(*consThreshold)
	log.Infof("%d of %d sites are variable", len(variable), ali.Length)
	for _, i := range variable {
		sym, freq := prof.Max(i)
		log.Infof("%04d / %c: %.4f (%d)", i+1, sym, freq, prof.NQueries())
	}
	summary.VariableSites = len(variable)

	g := cograph.New(ali.NQueries())
	for _, set := range cograph.ExtractSets(ali, variable, *skipGaps) {
		if err := g.AddSet(set); err != nil {
			log.Fatal(err)
		}
	}

	if *saveGraphF != "" {
		db, err := graphdb.Open(*saveGraphF)
		if err != nil {
			log.Fatal("Error opening graph database: ", err)
		}
		defer db.Close()
		if err := graphdb.Save(db, g); err != nil {
			log.Fatal(err)
		}
	}
	return g
}

// load rebuilds the unpruned graph from a bolt database written by an
// earlier run with -save-graph.
func load(summary *RunSummary) *cograph.Graph {
	db, err := graphdb.Open(*loadGraphF)
	if err != nil {
		log.Fatal("Error opening graph database: ", err)
	}
	defer db.Close()
	g, err := graphdb.Load(db)
	if err != nil {
		log.Fatal(err)
	}
	summary.NQueries = g.NQueries()
	return g
}

func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{}

	thresholds := cograph.Thresholds{
		Conservation: *consThreshold,
		MinSupport:   *minSupport,
		MinFrequency: *minFrequency,
	}
	if err := thresholds.Validate(); err != nil {
		log.Fatal(err)
	}
	summary.ConservationThreshold = thresholds.Conservation
	summary.MinimumSupport = thresholds.MinSupport
	summary.MinimumFrequency = thresholds.MinFrequency

	var g *cograph.Graph
	if *loadGraphF != "" {
		g = load(summary)
	} else {
		if *refFileName == "" {
			log.Fatal("A reference file is required unless -load-graph is given")
		}
		g = build(summary)
	}

	summary.NodesBeforePruning = g.NNodes()
	summary.EdgesBeforePruning = g.NEdges()
	log.Infof("Unpruned graph has %d nodes and %d edges", g.NNodes(), g.NEdges())

	if err := g.Prune(thresholds); err != nil {
		log.Fatal(err)
	}
	summary.Nodes = g.NNodes()
	summary.Edges = g.NEdges()
	log.Infof("Pruned graph has %d nodes and %d edges", g.NNodes(), g.NEdges())

	f := os.Stdout
	if *outF != "" {
		var err error
		f, err = os.Create(*outF)
		if err != nil {
			log.Fatal("Error creating output file: ", err)
		}
		defer f.Close()
	}
	if err := g.WriteDOT(f); err != nil {
		log.Fatal("Error writing graph: ", err)
	}

	deltaT := time.Since(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()
	return
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "convergraph")
	logging.SetLevel(level, "align")
	logging.SetLevel(level, "graphdb")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	runtime.GOMAXPROCS(*nThreads)
	effectiveNThreads := runtime.GOMAXPROCS(0)
	log.Infof("Using threads: %d.", effectiveNThreads)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	summary := run()
	summary.NThreads = effectiveNThreads
	summary.Version = version
	summary.CommandLine = os.Args

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}
