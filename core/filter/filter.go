// Package filter applies genre and artist constraints to a candidate pool
// and reweights the survivors by artist diversity and popularity. The
// stages run in a fixed order: constraint filtering, then the seed-artist
// diversity penalty, then multiplicative popularity reweighting.
package filter

import (
	"strings"

	"github.com/adalundhe/resona/core/catalog"
	"github.com/adalundhe/resona/core/popularity"
	"github.com/adalundhe/resona/core/rank"
)

// Tuning constants for the diversity and popularity stages.
const (
	// diversityHardCutoff is the artist-diversity level at or above which
	// seed-artist candidates are dropped outright.
	diversityHardCutoff = 0.8

	// diversityMaxPenalty is the score reduction reached at the cutoff.
	diversityMaxPenalty = 0.95

	// playlistWeight and mainstreamWeight blend the two popularity signals.
	playlistWeight   = 0.6
	mainstreamWeight = 0.4

	// neutralPopularity is the midpoint at which reweighting is skipped.
	neutralPopularity = 0.5
)

// Options are the user-tunable knobs for one request. Genre and artist
// matching is case-insensitive.
type Options struct {
	// Genres keeps only tracks tagged with at least one listed genre.
	// Empty means no inclusion constraint.
	Genres []string

	// ExcludeGenres drops any track tagged with a listed genre.
	ExcludeGenres []string

	// ExcludeArtists drops any track by a listed artist.
	ExcludeArtists []string

	// ArtistDiversity in [0,1] controls how strongly tracks by seed-track
	// artists are penalized; at 0.8 and above they are excluded entirely.
	ArtistDiversity float64

	// Popularity in [0,1] biases scores toward mainstream (>0.5) or
	// obscure (<0.5) tracks; 0.5 leaves scores untouched.
	Popularity float64
}

// Apply runs the filter and weighting stages over candidates, returning a
// possibly shorter pool. The input slice is not modified. seedArtists must
// hold lowercased artist names of the seed tracks.
func Apply(
	candidates []rank.Candidate,
	seedArtists map[string]struct{},
	opts Options,
	cat *catalog.Catalog,
	percentiles popularity.Table,
) []rank.Candidate {
	include := lowerSet(opts.Genres)
	excludeGenres := lowerSet(opts.ExcludeGenres)
	excludeArtists := lowerSet(opts.ExcludeArtists)

	out := make([]rank.Candidate, 0, len(candidates))
	for _, c := range candidates {
		track, ok := cat.TrackAt(c.Index)
		if !ok {
			continue
		}
		artist := strings.ToLower(track.Artist)

		if _, banned := excludeArtists[artist]; banned {
			continue
		}
		if anyGenreIn(track.Genres, excludeGenres) {
			continue
		}
		if len(include) > 0 && !anyGenreIn(track.Genres, include) {
			continue
		}

		score := c.Score

		if _, seed := seedArtists[artist]; seed && opts.ArtistDiversity > 0 {
			if opts.ArtistDiversity >= diversityHardCutoff {
				continue
			}
			score *= 1 - (opts.ArtistDiversity/diversityHardCutoff)*diversityMaxPenalty
		}

		if opts.Popularity != neutralPopularity {
			score *= popularityWeight(track, opts.Popularity, percentiles)
		}

		out = append(out, rank.Candidate{Index: c.Index, Score: score})
	}
	return out
}

// popularityWeight combines the playlist-count percentile and the 0-100
// mainstream score into one normalized signal, then scales it into a
// multiplicative weight around the neutral midpoint.
func popularityWeight(track catalog.Track, pop float64, percentiles popularity.Table) float64 {
	pct := float64(percentiles.PercentileOf(float64(track.PlaylistCount))) / 100
	popScore := playlistWeight*pct + mainstreamWeight*float64(track.Popularity)/100

	if pop > neutralPopularity {
		return 1 + (pop-neutralPopularity)*2*popScore
	}
	return 1 + (neutralPopularity-pop)*2*(1-popScore)
}

func lowerSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func anyGenreIn(genres []string, set map[string]struct{}) bool {
	if len(set) == 0 {
		return false
	}
	for _, g := range genres {
		if _, ok := set[strings.ToLower(g)]; ok {
			return true
		}
	}
	return false
}
