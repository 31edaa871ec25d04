// Package compiler bundles a jah project with esbuild and maps request
// paths back onto project resources.
package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"

	"jah/internal/config"
	"jah/internal/errors"
)

// Message is a single esbuild diagnostic
type Message struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Text   string `json:"text"`
}

func (m Message) String() string {
	if m.File == "" {
		return m.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.File, m.Line, m.Column, m.Text)
}

// BuildError is returned when the source graph cannot be compiled
type BuildError struct {
	Messages []Message
}

func (e *BuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "build failed with %d error(s)", len(e.Messages))
	for _, m := range e.Messages {
		b.WriteString("\n")
		b.WriteString(m.String())
	}
	return b.String()
}

// Compiler builds the project bundle. It keeps no state between builds.
type Compiler struct {
	root    string
	entry   string
	outfile string
	mounts  []mount
	logger  *slog.Logger
}

// New creates a compiler for the project rooted at root.
func New(cfg *config.Config, root string, logger *slog.Logger) (*Compiler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	return &Compiler{
		root:    abs,
		entry:   filepath.Join(abs, filepath.FromSlash(cfg.Src), filepath.FromSlash(cfg.Main)),
		outfile: filepath.Join(abs, filepath.FromSlash(strings.TrimPrefix(cfg.Output.Script, "/"))),
		mounts:  newMounts(cfg.Resources),
		logger:  logger,
	}, nil
}

// Root returns the absolute project root
func (c *Compiler) Root() string {
	return c.root
}

// Entry returns the absolute path of the entry module
func (c *Compiler) Entry() string {
	return c.entry
}

// Build compiles the project from scratch and returns the bundled script.
// Failures are *errors.JahError with code BuildFailed wrapping a *BuildError.
func (c *Compiler) Build(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := api.Build(api.BuildOptions{
		EntryPoints:   []string{c.entry},
		AbsWorkingDir: c.root,
		Outfile:       c.outfile,
		Bundle:        true,
		Write:         false,
		Format:        api.FormatIIFE,
		Platform:      api.PlatformBrowser,
		LogLevel:      api.LogLevelSilent,
	})

	for _, w := range result.Warnings {
		c.logger.Warn("Build warning", "message", convertMessage(w).String())
	}

	if len(result.Errors) > 0 {
		buildErr := &BuildError{Messages: make([]Message, 0, len(result.Errors))}
		for _, m := range result.Errors {
			buildErr.Messages = append(buildErr.Messages, convertMessage(m))
		}
		return nil, errors.NewJahError(errors.BuildFailed, "cannot bundle "+c.relative(c.entry),
			buildErr, errors.GetSuggestedFixes(errors.BuildFailed))
	}

	code, ok := c.pickOutput(result.OutputFiles)
	if !ok {
		return nil, errors.NewJahError(errors.BuildFailed, "esbuild produced no script output", nil, nil)
	}

	c.logger.Debug("Build finished",
		"entry", c.relative(c.entry),
		"bytes", len(code),
		"duration", time.Since(start),
	)
	return code, nil
}

// Make builds the bundle and writes it to dest, or to the configured
// output script when dest is empty.
func (c *Compiler) Make(ctx context.Context, dest string) (string, error) {
	if dest == "" {
		dest = c.outfile
	}

	code, err := c.Build(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(dest, code, 0644); err != nil {
		return "", fmt.Errorf("writing bundle: %w", err)
	}
	return dest, nil
}

func (c *Compiler) pickOutput(files []api.OutputFile) ([]byte, bool) {
	for _, f := range files {
		if f.Path == c.outfile {
			return f.Contents, true
		}
	}
	for _, f := range files {
		if strings.HasSuffix(f.Path, ".js") {
			return f.Contents, true
		}
	}
	return nil, false
}

func (c *Compiler) relative(p string) string {
	if rel, err := filepath.Rel(c.root, p); err == nil {
		return filepath.ToSlash(rel)
	}
	return p
}

func convertMessage(m api.Message) Message {
	msg := Message{Text: m.Text}
	if m.Location != nil {
		msg.File = m.Location.File
		msg.Line = m.Location.Line
		msg.Column = m.Location.Column
	}
	return msg
}
