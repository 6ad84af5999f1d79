package graphdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/convergraph/convergraph/cograph"
)

func mkgraph(t *testing.T) *cograph.Graph {
	t.Helper()
	g := cograph.New(5)
	require.NoError(t, g.AddSet([]cograph.Sub{
		{Pos: 0, Anc: 'A', Der: 'T'},
		{Pos: 3, Anc: 'K', Der: 'N'},
		{Pos: 7, Anc: 'C', Der: '-'},
	}))
	require.NoError(t, g.AddSet([]cograph.Sub{
		{Pos: 0, Anc: 'A', Der: 'T'},
		{Pos: 3, Anc: 'K', Der: 'N'},
	}))
	require.NoError(t, g.AddSet([]cograph.Sub{
		{Pos: 12, Anc: 'D', Der: 'G'},
	}))
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "graph.db")
	g := mkgraph(t)

	db, err := Open(fname)
	require.NoError(t, err)
	require.NoError(t, Save(db, g))
	require.NoError(t, db.Close())

	db, err = Open(fname)
	require.NoError(t, err)
	defer db.Close()
	loaded, err := Load(db)
	require.NoError(t, err)

	require.Equal(t, g.NQueries(), loaded.NQueries())
	require.Equal(t, g.Nodes(), loaded.Nodes())
	require.Equal(t, g.Edges(), loaded.Edges())
}

// Pruning a stored-and-reloaded graph matches pruning the original.
func TestRepruneLoaded(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "graph.db")
	db, err := Open(fname)
	require.NoError(t, err)
	require.NoError(t, Save(db, mkgraph(t)))

	loaded, err := Load(db)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	thr := cograph.Thresholds{Conservation: 0.97, MinSupport: 2, MinFrequency: 0.1}
	want := mkgraph(t)
	require.NoError(t, want.Prune(thr))
	require.NoError(t, loaded.Prune(thr))

	require.Equal(t, want.Nodes(), loaded.Nodes())
	require.Equal(t, want.Edges(), loaded.Edges())
}

func TestLoadEmptyDatabase(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = Load(db)
	require.ErrorIs(t, err, ErrNoGraph)
}

// Saving twice replaces the stored graph rather than accumulating.
func TestSaveReplaces(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "graph.db")
	db, err := Open(fname)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Save(db, mkgraph(t)))
	small := cograph.New(2)
	require.NoError(t, small.AddNode(cograph.Sub{Pos: 1, Anc: 'A', Der: 'C'}))
	require.NoError(t, Save(db, small))

	loaded, err := Load(db)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.NQueries())
	require.Equal(t, small.Nodes(), loaded.Nodes())
	require.Equal(t, 0, loaded.NEdges())
}
