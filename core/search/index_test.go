package search

import (
	"testing"

	"github.com/adalundhe/resona/core/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) (*Index, *catalog.Catalog) {
	t.Helper()

	cat := catalog.New([]catalog.Track{
		{ID: "t0", Name: "Bohemian Rhapsody", Artist: "Queen"},
		{ID: "t1", Name: "Under Pressure", Artist: "Queen"},
		{ID: "t2", Name: "Take Five", Artist: "Dave Brubeck"},
		{ID: "t3", Name: "Pressure Drop", Artist: "Toots and the Maytals"},
	})

	idx, err := New(cat)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx, cat
}

func TestSearch_ByArtist(t *testing.T) {
	idx, _ := newTestIndex(t)

	matches, err := idx.Search("queen", 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	found := map[int]bool{}
	for _, m := range matches {
		found[m.Index] = true
		assert.Greater(t, m.Score, 0.0)
	}
	assert.True(t, found[0])
	assert.True(t, found[1])
}

func TestSearch_ByName(t *testing.T) {
	idx, cat := newTestIndex(t)

	matches, err := idx.Search("pressure", 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	for _, m := range matches {
		track, ok := cat.TrackAt(m.Index)
		require.True(t, ok)
		assert.Contains(t, track.Name, "Pressure")
	}
}

func TestSearch_RespectsLimit(t *testing.T) {
	idx, _ := newTestIndex(t)

	matches, err := idx.Search("pressure", 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSearch_NoMatches(t *testing.T) {
	idx, _ := newTestIndex(t)

	matches, err := idx.Search("zamboni", 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
