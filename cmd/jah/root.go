package main

import (
	"jah/internal/config"
	"jah/internal/version"

	"github.com/spf13/cobra"
)

var (
	configFlag  string
	verboseFlag int
	quietFlag   bool
	logFileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "jah",
	Short: "jah - JavaScript module bundler",
	Long: `jah bundles a multi-file JavaScript project into a single script.

During development, 'jah server' rebuilds the bundle on every request so the
browser always sees the current sources.`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("jah version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", config.DefaultConfigFile,
		"Project configuration file")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress log output")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Also append logs to this file")
}
