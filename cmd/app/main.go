package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd 不带子命令时的入口
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Score a GitHub profile the way a technical recruiter would",
	Long: `portfolio fetches a GitHub user's public profile, repositories, READMEs and
commits, scores them across five categories and produces a recruiter verdict
with strengths, red flags and recommendations.

  portfolio analyze octocat
  portfolio analyze https://github.com/octocat --format plan
  portfolio cache purge`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml/json/toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(analyzeCmd, cacheCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
