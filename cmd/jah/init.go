package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jah/internal/config"
)

var (
	initFormat string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a new jah project",
	Long: `Write a default configuration and a minimal project skeleton.

Existing files are left alone unless --force is given.

Examples:
  jah init                      # jah.json in the current directory
  jah init --format toml game   # game/jah.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initFormat, "format", "json", "Configuration format (json, toml, yaml)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

const skeletonMain = `// Entry module. Imports are bundled into the output script.
console.log("jah project ready");
`

const skeletonIndex = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>jah</title>
  </head>
  <body>
    <script src="app.js"></script>
  </body>
</html>
`

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	created, err := writeSkeleton(dir, initFormat, initForce)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(created) == 0 {
		fmt.Fprintln(out, "Nothing to do; project files already exist")
		return nil
	}
	for _, path := range created {
		fmt.Fprintf(out, "Created %s\n", filepath.ToSlash(path))
	}
	return nil
}

// writeSkeleton creates the project files under dir and returns the paths written.
func writeSkeleton(dir, format string, force bool) ([]string, error) {
	var name string
	switch format {
	case "json":
		name = "jah.json"
	case "toml":
		name = "jah.toml"
	case "yaml", "yml":
		name = "jah.yaml"
	default:
		return nil, fmt.Errorf("unknown config format %q (want json, toml or yaml)", format)
	}

	cfg := config.DefaultConfig()
	for _, d := range []string{cfg.Src, filepath.Dir(cfg.Output.Script), cfg.Resources[0].Dir} {
		if err := os.MkdirAll(filepath.Join(dir, filepath.FromSlash(d)), 0755); err != nil {
			return nil, err
		}
	}

	var created []string
	write := func(path string, fn func(string) error) error {
		if _, err := os.Stat(path); err == nil && !force {
			return nil
		}
		if err := fn(path); err != nil {
			return err
		}
		created = append(created, path)
		return nil
	}
	writeText := func(content string) func(string) error {
		return func(path string) error { return os.WriteFile(path, []byte(content), 0644) }
	}

	if err := write(filepath.Join(dir, name), cfg.Save); err != nil {
		return nil, err
	}
	if err := write(filepath.Join(dir, filepath.FromSlash(cfg.Src), cfg.Main), writeText(skeletonMain)); err != nil {
		return nil, err
	}
	if err := write(filepath.Join(dir, "public", "index.html"), writeText(skeletonIndex)); err != nil {
		return nil, err
	}
	return created, nil
}
