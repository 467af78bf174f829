package cmd

import (
	"fmt"

	"github.com/adalundhe/resona/core/catalog"
	"github.com/spf13/cobra"
)

var genresCount int

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the most common genres in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		cat, _, err := catalog.Load(cfg.DataDir, logger)
		if err != nil {
			return err
		}

		for _, g := range cat.TopGenres(genresCount) {
			fmt.Printf("%6d  %s\n", g.Count, g.Name)
		}
		return nil
	},
}

func init() {
	genresCmd.Flags().IntVarP(&genresCount, "count", "n", 50, "number of genres to list")
	rootCmd.AddCommand(genresCmd)
}
