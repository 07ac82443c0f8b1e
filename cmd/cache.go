package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache hit/miss counters and resident entry count",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer eng.Close()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(eng.Cache.Stats())
	},
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer eng.Close()

		n, err := eng.Cache.Sweep(cmd.Context())
		if err != nil {
			return err
		}
		zap.L().Info("cache sweep complete", zap.Int("expired", n))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer eng.Close()

		n, err := eng.Cache.Clear(cmd.Context())
		if err != nil {
			return err
		}
		zap.L().Info("cache cleared", zap.Int("removed", n))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheSweepCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
