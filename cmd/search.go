package cmd

import (
	"fmt"
	"strings"

	"github.com/adalundhe/resona/core/catalog"
	"github.com/adalundhe/resona/core/search"
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find tracks by name or artist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Search.Enabled {
			return fmt.Errorf("full-text search is disabled in the config")
		}
		logger := newLogger()

		cat, _, err := catalog.Load(cfg.DataDir, logger)
		if err != nil {
			return err
		}

		idx, err := search.New(cat)
		if err != nil {
			return err
		}
		defer idx.Close()

		limit := searchLimit
		if limit <= 0 {
			limit = cfg.Search.DefaultLimit
		}

		matches, err := idx.Search(strings.Join(args, " "), limit)
		if err != nil {
			return err
		}

		for _, m := range matches {
			track, ok := cat.TrackAt(m.Index)
			if !ok {
				continue
			}
			fmt.Printf("%.4f  %s — %s (%s)\n", m.Score, track.Name, track.Artist, track.ID)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "maximum results (default from config)")
	rootCmd.AddCommand(searchCmd)
}
