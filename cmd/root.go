package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/adalundhe/resona/core/catalog"
	"github.com/adalundhe/resona/core/config"
	"github.com/adalundhe/resona/core/engine"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resona",
	Short: "Resona - an embedding-based track recommendation engine",
	Long: `Resona recommends tracks from a fixed catalog by combining learned
embedding similarity with tunable popularity, diversity, and exploration
controls. It loads a snapshot exported by the training job and serves
recommendation and nearest-neighbor queries from memory.`,
}

var (
	configPath string
	dataDir    string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to yaml config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "snapshot directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig applies flag overrides on top of the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadEngine builds the full stack: snapshot, catalog, store, engine.
func loadEngine(cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, *engine.Engine, error) {
	cat, store, err := catalog.Load(cfg.DataDir, logger)
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.New(engine.Config{
		Catalog:           cat,
		Store:             store,
		NeighborCacheSize: cfg.Engine.NeighborCacheSize,
		Logger:            logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return cat, eng, nil
}

// resolveSeeds maps track id arguments to catalog indices.
func resolveSeeds(cat *catalog.Catalog, ids []string) ([]int, error) {
	indices := make([]int, 0, len(ids))
	for _, id := range ids {
		i, err := cat.IndexOf(id)
		if err != nil {
			return nil, err
		}
		indices = append(indices, i)
	}
	return indices, nil
}

func printRecommendations(results []engine.Recommendation) {
	for rank, r := range results {
		genres := ""
		if len(r.Track.Genres) > 0 {
			genres = fmt.Sprintf(" [%s]", r.Track.Genres[0])
		}
		fmt.Printf("%2d. %.4f  %s — %s%s (%s)\n",
			rank+1, r.Score, r.Track.Name, r.Track.Artist, genres, r.Track.ID)
	}
}
