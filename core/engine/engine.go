// Package engine composes the embedding store, similarity ranker,
// popularity index, candidate filter, and exploration selector into one
// request/response cycle. All shared state is built once at construction
// and immutable afterward, so a single Engine serves concurrent requests
// without locking; the only per-request state is the sampling RNG.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/adalundhe/resona/core/catalog"
	"github.com/adalundhe/resona/core/embedding"
	"github.com/adalundhe/resona/core/explore"
	"github.com/adalundhe/resona/core/filter"
	"github.com/adalundhe/resona/core/popularity"
	"github.com/adalundhe/resona/core/rank"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNoSeeds indicates a recommendation was requested with no seed indices.
// Callers at the boundary should map it to a clear empty/not-found response
// rather than a generic failure.
var ErrNoSeeds = errors.New("engine: no seed tracks")

// Request defaults.
const (
	DefaultN                 = 10
	DefaultPopularity        = 0.5
	DefaultArtistDiversity   = 0.5
	DefaultCandidatePoolSize = 500
	DefaultNeighborCacheSize = 1024
)

// Params are the knobs for one recommendation request.
type Params struct {
	// N is the maximum number of recommendations returned.
	N int

	// Popularity, ArtistDiversity, and Exploration are in [0,1]; see the
	// filter and explore packages for their exact semantics.
	Popularity      float64
	ArtistDiversity float64
	Exploration     float64

	// Genre and artist constraints, all optional.
	Genres         []string
	ExcludeGenres  []string
	ExcludeArtists []string

	// CandidatePoolSize bounds the similarity scan's top-K pool.
	CandidatePoolSize int

	// Rand, when set, makes exploration sampling reproducible. Nil draws
	// fresh entropy per request.
	Rand *rand.Rand
}

// DefaultParams returns the documented defaults: n=10, popularity=0.5,
// artistDiversity=0.5, exploration=0, pool size 500, no filters.
func DefaultParams() Params {
	return Params{
		N:                 DefaultN,
		Popularity:        DefaultPopularity,
		ArtistDiversity:   DefaultArtistDiversity,
		CandidatePoolSize: DefaultCandidatePoolSize,
	}
}

// Recommendation resolves a selected candidate to its track, catalog index,
// and final (post-weighting) score. Slice order is presentation order.
type Recommendation struct {
	Track catalog.Track `json:"track"`
	Index int           `json:"index"`
	Score float64       `json:"score"`
}

type neighborKey struct {
	index int
	n     int
}

// Engine is the recommendation orchestrator.
type Engine struct {
	catalog     *catalog.Catalog
	store       *embedding.Store
	ranker      *rank.Ranker
	percentiles popularity.Table
	neighbors   *lru.Cache[neighborKey, []Recommendation]
	logger      *slog.Logger
}

// Config configures a new Engine.
type Config struct {
	Catalog *catalog.Catalog
	Store   *embedding.Store

	// NeighborCacheSize bounds the nearest-neighbor result cache; <= 0
	// uses DefaultNeighborCacheSize. The cache never goes stale because
	// every ranking input is immutable after startup.
	NeighborCacheSize int

	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger
}

// New builds an Engine, deriving the popularity percentile table from the
// catalog's playlist counts.
func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil || cfg.Store == nil {
		return nil, fmt.Errorf("engine: catalog and store are required")
	}
	if cfg.Catalog.Len() != cfg.Store.Len() {
		return nil, fmt.Errorf("engine: catalog has %d tracks but store has %d rows", cfg.Catalog.Len(), cfg.Store.Len())
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	cacheSize := cfg.NeighborCacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultNeighborCacheSize
	}
	neighbors, err := lru.New[neighborKey, []Recommendation](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("engine: neighbor cache: %w", err)
	}

	return &Engine{
		catalog:     cfg.Catalog,
		store:       cfg.Store,
		ranker:      rank.NewRanker(cfg.Store),
		percentiles: popularity.Build(cfg.Catalog.PlaylistCounts()),
		neighbors:   neighbors,
		logger:      cfg.Logger,
	}, nil
}

// Recommend runs the full pipeline: seed centroid, similarity scan,
// filtering and weighting, exploration selection, track resolution. Seeds
// are always excluded from their own recommendations.
func (e *Engine) Recommend(seedIndices []int, params Params) ([]Recommendation, error) {
	if len(seedIndices) == 0 {
		return nil, ErrNoSeeds
	}

	requestID := uuid.NewString()
	start := time.Now()

	if params.N <= 0 {
		params.N = DefaultN
	}
	if params.CandidatePoolSize <= 0 {
		params.CandidatePoolSize = DefaultCandidatePoolSize
	}

	seedSet := make(map[int]struct{}, len(seedIndices))
	seedArtists := make(map[string]struct{}, len(seedIndices))
	for _, i := range seedIndices {
		track, ok := e.catalog.TrackAt(i)
		if !ok {
			return nil, fmt.Errorf("engine: seed %d: %w", i, embedding.ErrOutOfRange)
		}
		seedSet[i] = struct{}{}
		seedArtists[strings.ToLower(track.Artist)] = struct{}{}
	}

	centroid, err := e.store.Centroid(seedIndices)
	if err != nil {
		return nil, err
	}

	pool := e.ranker.Rank(centroid, seedSet, params.CandidatePoolSize)
	pool = filter.Apply(pool, seedArtists, filter.Options{
		Genres:          params.Genres,
		ExcludeGenres:   params.ExcludeGenres,
		ExcludeArtists:  params.ExcludeArtists,
		ArtistDiversity: params.ArtistDiversity,
		Popularity:      params.Popularity,
	}, e.catalog, e.percentiles)

	selected := explore.Select(pool, params.N, params.Exploration, params.Rand)

	scoreByIndex := make(map[int]float64, len(pool))
	for _, c := range pool {
		scoreByIndex[c.Index] = c.Score
	}

	results := make([]Recommendation, 0, len(selected))
	for _, idx := range selected {
		track, ok := e.catalog.TrackAt(idx)
		if !ok {
			continue
		}
		results = append(results, Recommendation{
			Track: track,
			Index: idx,
			Score: scoreByIndex[idx],
		})
	}

	e.logger.Debug("recommendation served",
		"request_id", requestID,
		"seeds", len(seedIndices),
		"pool", len(pool),
		"results", len(results),
		"exploration", params.Exploration,
		"elapsed", time.Since(start))

	return results, nil
}

// NearestNeighbors ranks the catalog against a single track's vector with
// no filtering or weighting, for "tracks similar to X" views. Results are
// cached per (index, n) since every input is immutable.
func (e *Engine) NearestNeighbors(targetIndex, n int) ([]Recommendation, error) {
	if n <= 0 {
		n = DefaultN
	}

	key := neighborKey{index: targetIndex, n: n}
	if cached, ok := e.neighbors.Get(key); ok {
		return cached, nil
	}

	vec, err := e.store.VectorOf(targetIndex)
	if err != nil {
		return nil, err
	}

	pool := e.ranker.Rank(vec, map[int]struct{}{targetIndex: {}}, n)

	results := make([]Recommendation, 0, len(pool))
	for _, c := range pool {
		track, ok := e.catalog.TrackAt(c.Index)
		if !ok {
			continue
		}
		results = append(results, Recommendation{Track: track, Index: c.Index, Score: c.Score})
	}

	e.neighbors.Add(key, results)
	return results, nil
}
