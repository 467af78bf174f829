// Package catalog holds the immutable track catalog: per-track metadata,
// id lookup, and genre summaries. The catalog is loaded once at process
// start from a snapshot produced by the external export job and never
// mutated afterward.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrTrackNotFound indicates an id lookup against an id absent from the
// catalog.
var ErrTrackNotFound = errors.New("catalog: track not found")

// Track is an immutable catalog entry, index-aligned with the embedding
// matrix. Popularity is the 0-100 artist-level mainstream score from the
// external metadata source; PlaylistCount is the track's co-occurrence
// frequency in the training corpus.
type Track struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Artist        string   `json:"artist"`
	Album         string   `json:"album"`
	Genres        []string `json:"genres"`
	Popularity    int      `json:"popularity"`
	PlaylistCount int      `json:"playlistCount"`
}

// GenreCount pairs a genre with the number of catalog tracks tagged with it.
type GenreCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Catalog is the ordered track list plus an id index.
type Catalog struct {
	tracks []Track
	byID   map[string]int
}

// New builds a catalog over tracks. The slice is retained; callers must not
// mutate it afterward. Duplicate ids keep the first occurrence, matching
// the export job's dedup behavior.
func New(tracks []Track) *Catalog {
	byID := make(map[string]int, len(tracks))
	for i, t := range tracks {
		if _, exists := byID[t.ID]; !exists {
			byID[t.ID] = i
		}
	}
	return &Catalog{tracks: tracks, byID: byID}
}

// Len returns the number of tracks.
func (c *Catalog) Len() int { return len(c.tracks) }

// TrackAt returns the track at catalog index i.
func (c *Catalog) TrackAt(i int) (Track, bool) {
	if i < 0 || i >= len(c.tracks) {
		return Track{}, false
	}
	return c.tracks[i], true
}

// IndexOf resolves a track id to its catalog index.
func (c *Catalog) IndexOf(id string) (int, error) {
	i, ok := c.byID[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrTrackNotFound, id)
	}
	return i, nil
}

// PlaylistCounts returns every track's playlist count in catalog order,
// the input the popularity percentile table is built from.
func (c *Catalog) PlaylistCounts() []float64 {
	counts := make([]float64, len(c.tracks))
	for i, t := range c.tracks {
		counts[i] = float64(t.PlaylistCount)
	}
	return counts
}

// TopGenres returns the n most common genres by track count, descending.
// Ties are broken alphabetically so the output is stable.
func (c *Catalog) TopGenres(n int) []GenreCount {
	counts := make(map[string]int)
	for _, t := range c.tracks {
		for _, g := range t.Genres {
			counts[g]++
		}
	}

	genres := make([]GenreCount, 0, len(counts))
	for g, count := range counts {
		genres = append(genres, GenreCount{Name: g, Count: count})
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Count != genres[j].Count {
			return genres[i].Count > genres[j].Count
		}
		return genres[i].Name < genres[j].Name
	})

	if n > 0 && len(genres) > n {
		genres = genres[:n]
	}
	return genres
}
