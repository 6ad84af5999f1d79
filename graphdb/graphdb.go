// Package graphdb persists the unpruned co-occurrence graph in a bolt
// database, so different pruning thresholds can be tried without
// re-reading the alignment.
package graphdb

import (
	"encoding/json"
	"errors"

	"github.com/op/go-logging"
	bolt "go.etcd.io/bbolt"

	"github.com/convergraph/convergraph/cograph"
)

// log is the global logging variable.
var log = logging.MustGetLogger("graphdb")

// MAIN is the bucket name for the stored graph.
var MAIN = []byte("graph")

// graphKey is the key of the single graph record inside the bucket.
var graphKey = []byte("main")

// ErrNoGraph means the database holds no stored graph.
var ErrNoGraph = errors.New("graphdb: no graph stored in database")

// Record is the JSON payload stored in the database.
type Record struct {
	NQueries int            `json:"nQueries"`
	Nodes    []cograph.Sub  `json:"nodes"`
	Edges    []cograph.Edge `json:"edges"`
}

// Open opens (or creates) a graph database file.
func Open(fname string) (*bolt.DB, error) {
	return bolt.Open(fname, 0644, nil)
}

// Save stores the graph. Any previously stored graph is replaced.
func (r *Record) save(db *bolt.DB) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(MAIN)
		if err != nil {
			return err
		}
		return b.Put(graphKey, data)
	})
}

// Save writes the graph's nodes and edges plus the query count to the
// database.
func Save(db *bolt.DB, g *cograph.Graph) error {
	rec := &Record{
		NQueries: g.NQueries(),
		Nodes:    g.Nodes(),
		Edges:    g.Edges(),
	}
	if err := rec.save(db); err != nil {
		log.Error("Error saving graph: ", err)
		return err
	}
	log.Infof("Saved graph with %d nodes and %d edges", len(rec.Nodes), len(rec.Edges))
	return nil
}

// Load rebuilds a mutable graph from the database.
func Load(db *bolt.DB) (*cograph.Graph, error) {
	var data []byte
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return ErrNoGraph
		}
		v := b.Get(graphKey)
		if v == nil {
			return ErrNoGraph
		}
		data = append(data, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	g := cograph.New(rec.NQueries)
	for _, s := range rec.Nodes {
		if err := g.AddNode(s); err != nil {
			return nil, err
		}
	}
	for _, e := range rec.Edges {
		if err := g.SetEdge(e.A, e.B, e.Count); err != nil {
			return nil, err
		}
	}
	log.Noticef("Loaded graph with %d nodes and %d edges over %d queries",
		g.NNodes(), g.NEdges(), g.NQueries())
	return g, nil
}
