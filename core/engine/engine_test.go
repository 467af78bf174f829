package engine

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/adalundhe/resona/core/catalog"
	"github.com/adalundhe/resona/core/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEngine builds a small two-dimensional catalog. Indices 0 and 1 are
// the usual seeds; the rest spread between the two axes.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	tracks := []catalog.Track{
		{ID: "seed-a", Name: "Seed A", Artist: "Alpha", Genres: []string{"rock"}, Popularity: 70, PlaylistCount: 500},
		{ID: "seed-b", Name: "Seed B", Artist: "Beta", Genres: []string{"rock"}, Popularity: 60, PlaylistCount: 400},
		{ID: "near-a", Name: "Near A", Artist: "Alpha", Genres: []string{"rock"}, Popularity: 80, PlaylistCount: 900},
		{ID: "mid", Name: "Mid", Artist: "Gamma", Genres: []string{"rock", "indie"}, Popularity: 50, PlaylistCount: 100},
		{ID: "jazzy", Name: "Jazzy", Artist: "Delta", Genres: []string{"jazz"}, Popularity: 40, PlaylistCount: 50},
		{ID: "near-b", Name: "Near B", Artist: "Beta", Genres: []string{"pop"}, Popularity: 30, PlaylistCount: 20},
		{ID: "obscure", Name: "Obscure", Artist: "Epsilon", Genres: []string{"noise"}, Popularity: 5, PlaylistCount: 0},
	}
	vectors := []float32{
		1, 0, // seed-a
		0, 1, // seed-b
		0.95, 0.05, // near-a
		0.5, 0.5, // mid
		0.6, 0.4, // jazzy
		0.05, 0.95, // near-b
		0.45, 0.55, // obscure
	}

	store, err := embedding.NewStore(vectors, 2)
	require.NoError(t, err)

	eng, err := New(Config{Catalog: catalog.New(tracks), Store: store})
	require.NoError(t, err)
	return eng
}

func neutralParams() Params {
	p := DefaultParams()
	p.ArtistDiversity = 0
	return p
}

func TestNew_RequiresAlignedInputs(t *testing.T) {
	store, err := embedding.NewStore([]float32{1, 0}, 2)
	require.NoError(t, err)

	_, err = New(Config{Catalog: catalog.New(nil), Store: store})
	assert.Error(t, err)

	_, err = New(Config{Store: store})
	assert.Error(t, err)
}

func TestRecommend_NoSeeds(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Recommend(nil, DefaultParams())
	assert.True(t, errors.Is(err, ErrNoSeeds))
}

func TestRecommend_SeedOutOfRange(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Recommend([]int{99}, DefaultParams())
	assert.True(t, errors.Is(err, embedding.ErrOutOfRange))
}

func TestRecommend_ExcludesSeeds(t *testing.T) {
	eng := newTestEngine(t)

	results, err := eng.Recommend([]int{0, 1}, neutralParams())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for _, r := range results {
		assert.NotEqual(t, 0, r.Index, "seed recommended to itself")
		assert.NotEqual(t, 1, r.Index, "seed recommended to itself")
	}
}

func TestRecommend_AtMostN(t *testing.T) {
	eng := newTestEngine(t)

	params := neutralParams()
	params.N = 2
	results, err := eng.Recommend([]int{0}, params)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 2)
}

func TestRecommend_DeterministicWithoutExploration(t *testing.T) {
	eng := newTestEngine(t)

	first, err := eng.Recommend([]int{0, 1}, neutralParams())
	require.NoError(t, err)
	second, err := eng.Recommend([]int{0, 1}, neutralParams())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecommend_HighDiversityExcludesSeedArtists(t *testing.T) {
	eng := newTestEngine(t)

	params := neutralParams()
	params.ArtistDiversity = 0.8
	results, err := eng.Recommend([]int{0, 1}, params)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for _, r := range results {
		assert.NotEqual(t, "Alpha", r.Track.Artist)
		assert.NotEqual(t, "Beta", r.Track.Artist)
	}
}

func TestRecommend_ExcludeGenresScenario(t *testing.T) {
	eng := newTestEngine(t)

	// Both seeds are tagged rock; excluding rock must yield zero rock
	// tracks.
	params := neutralParams()
	params.ExcludeGenres = []string{"rock"}
	results, err := eng.Recommend([]int{0, 1}, params)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for _, r := range results {
		for _, g := range r.Track.Genres {
			assert.NotEqual(t, "rock", g)
		}
	}
}

func TestRecommend_GenreInclusion(t *testing.T) {
	eng := newTestEngine(t)

	params := neutralParams()
	params.Genres = []string{"jazz"}
	results, err := eng.Recommend([]int{0}, params)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "jazzy", results[0].Track.ID)
}

func TestRecommend_ScoresComeFromWeightedPool(t *testing.T) {
	eng := newTestEngine(t)

	params := neutralParams()
	params.Popularity = 1.0
	results, err := eng.Recommend([]int{1}, params)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// Post-weighting scores are ordered descending under deterministic
	// selection.
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRecommend_ExplorationReproducibleWithSeededRand(t *testing.T) {
	eng := newTestEngine(t)

	run := func() []Recommendation {
		params := neutralParams()
		params.Exploration = 0.7
		params.Rand = rand.New(rand.NewPCG(99, 0))
		results, err := eng.Recommend([]int{0, 1}, params)
		require.NoError(t, err)
		return results
	}

	assert.Equal(t, run(), run())
}

func TestRecommend_ExplorationReturnsDistinctTracks(t *testing.T) {
	eng := newTestEngine(t)

	params := neutralParams()
	params.Exploration = 1.0
	params.Rand = rand.New(rand.NewPCG(7, 0))
	results, err := eng.Recommend([]int{0}, params)
	require.NoError(t, err)

	seen := make(map[int]struct{})
	for _, r := range results {
		_, dup := seen[r.Index]
		assert.False(t, dup, "track %d returned twice", r.Index)
		seen[r.Index] = struct{}{}
	}
}

func TestRecommend_EmptyPoolIsNotAnError(t *testing.T) {
	eng := newTestEngine(t)

	params := neutralParams()
	params.Genres = []string{"no-such-genre"}
	results, err := eng.Recommend([]int{0}, params)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNearestNeighbors(t *testing.T) {
	eng := newTestEngine(t)

	results, err := eng.NearestNeighbors(0, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// near-a is almost parallel to seed-a.
	assert.Equal(t, "near-a", results[0].Track.ID)
	for _, r := range results {
		assert.NotEqual(t, 0, r.Index, "target returned as its own neighbor")
	}
}

func TestNearestNeighbors_OutOfRange(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.NearestNeighbors(42, 3)
	assert.True(t, errors.Is(err, embedding.ErrOutOfRange))
}

func TestNearestNeighbors_Cached(t *testing.T) {
	eng := newTestEngine(t)

	first, err := eng.NearestNeighbors(2, 4)
	require.NoError(t, err)
	second, err := eng.NearestNeighbors(2, 4)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Different n is a different cache entry, not a truncation of the
	// first result.
	third, err := eng.NearestNeighbors(2, 2)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}
