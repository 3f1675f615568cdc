package main

import (
	"fmt"

	"github-portfolio-analyzer/internal/config"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached reports",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cached reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg.LogLevel, verbose)
		logger.SetOutput(cmd.ErrOrStderr())

		store, closer, err := openCache(cfg, logger)
		if err != nil {
			return fmt.Errorf("缓存初始化失败: %w", err)
		}
		defer closer.Close()

		n, err := store.PurgeExpired(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🧹 已清理 %d 条过期报告 (%s)\n", n, cfg.CacheBackend())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
}
