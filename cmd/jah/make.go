package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var makeOutput string

var makeCmd = &cobra.Command{
	Use:   "make",
	Short: "Build the project bundle",
	Long: `Compile the project into a single script and write it to disk.

Examples:
  jah make                      # write to the configured output
  jah make -o dist/app.js       # write somewhere else`,
	RunE: runMake,
}

func init() {
	makeCmd.Flags().StringVarP(&makeOutput, "output", "o", "",
		"File to write the bundle to (default: output defined in the config file)")
	rootCmd.AddCommand(makeCmd)
}

func runMake(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(configFlag, os.Stderr)
	if err != nil {
		return err
	}
	defer proj.closeLog()

	comp, err := proj.compiler()
	if err != nil {
		return err
	}

	dest := makeOutput
	if dest != "" {
		if dest, err = filepath.Abs(dest); err != nil {
			return err
		}
	}

	proj.logger.Info("Building", "entry", comp.Entry())
	written, err := comp.Make(context.Background(), dest)
	if err != nil {
		proj.logger.Error("Build failed", "error", err.Error())
		return err
	}

	if rel, err := filepath.Rel(proj.root, written); err == nil {
		written = rel
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Built %s\n", filepath.ToSlash(written))
	return nil
}
