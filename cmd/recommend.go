package cmd

import (
	"math/rand/v2"

	"github.com/adalundhe/resona/core/engine"
	"github.com/spf13/cobra"
)

var recommendFlags struct {
	n               int
	popularity      float64
	artistDiversity float64
	exploration     float64
	genres          []string
	excludeGenres   []string
	excludeArtists  []string
	poolSize        int
	seed            uint64
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <track-id>...",
	Short: "Recommend tracks similar to one or more seed tracks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		// File config applies wherever the flag was left at its default.
		if !cmd.Flags().Changed("count") {
			recommendFlags.n = cfg.Engine.DefaultN
		}
		if !cmd.Flags().Changed("pool-size") {
			recommendFlags.poolSize = cfg.Engine.CandidatePoolSize
		}

		cat, eng, err := loadEngine(cfg, logger)
		if err != nil {
			return err
		}

		seeds, err := resolveSeeds(cat, args)
		if err != nil {
			return err
		}

		params := engine.Params{
			N:                 recommendFlags.n,
			Popularity:        recommendFlags.popularity,
			ArtistDiversity:   recommendFlags.artistDiversity,
			Exploration:       recommendFlags.exploration,
			Genres:            recommendFlags.genres,
			ExcludeGenres:     recommendFlags.excludeGenres,
			ExcludeArtists:    recommendFlags.excludeArtists,
			CandidatePoolSize: recommendFlags.poolSize,
		}
		if cmd.Flags().Changed("seed") {
			params.Rand = rand.New(rand.NewPCG(recommendFlags.seed, 0))
		}

		results, err := eng.Recommend(seeds, params)
		if err != nil {
			return err
		}

		printRecommendations(results)
		return nil
	},
}

func init() {
	f := recommendCmd.Flags()
	f.IntVarP(&recommendFlags.n, "count", "n", engine.DefaultN, "number of recommendations")
	f.Float64Var(&recommendFlags.popularity, "popularity", engine.DefaultPopularity, "popularity bias in [0,1]; 0.5 is neutral")
	f.Float64Var(&recommendFlags.artistDiversity, "artist-diversity", engine.DefaultArtistDiversity, "seed-artist diversity in [0,1]; >=0.8 excludes seed artists")
	f.Float64Var(&recommendFlags.exploration, "exploration", 0, "exploration randomness in [0,1]; 0 is deterministic")
	f.StringSliceVar(&recommendFlags.genres, "genre", nil, "keep only tracks with one of these genres")
	f.StringSliceVar(&recommendFlags.excludeGenres, "exclude-genre", nil, "drop tracks with any of these genres")
	f.StringSliceVar(&recommendFlags.excludeArtists, "exclude-artist", nil, "drop tracks by these artists")
	f.IntVar(&recommendFlags.poolSize, "pool-size", engine.DefaultCandidatePoolSize, "candidate pool size for the similarity scan")
	f.Uint64Var(&recommendFlags.seed, "seed", 0, "fixed sampling seed for reproducible exploration")

	rootCmd.AddCommand(recommendCmd)
}
