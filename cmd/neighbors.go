package cmd

import (
	"github.com/adalundhe/resona/core/engine"
	"github.com/spf13/cobra"
)

var neighborsCount int

var neighborsCmd = &cobra.Command{
	Use:   "neighbors <track-id>",
	Short: "List the tracks most similar to a single track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		if !cmd.Flags().Changed("count") {
			neighborsCount = cfg.Engine.DefaultN
		}

		cat, eng, err := loadEngine(cfg, logger)
		if err != nil {
			return err
		}

		target, err := cat.IndexOf(args[0])
		if err != nil {
			return err
		}

		results, err := eng.NearestNeighbors(target, neighborsCount)
		if err != nil {
			return err
		}

		printRecommendations(results)
		return nil
	},
}

func init() {
	neighborsCmd.Flags().IntVarP(&neighborsCount, "count", "n", engine.DefaultN, "number of neighbors")
	rootCmd.AddCommand(neighborsCmd)
}
