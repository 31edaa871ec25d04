package server

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"jah/internal/errors"
	"jah/internal/mimetypes"
	"jah/internal/slogutil"
)

// Compiler is the bundler as seen by the resolver
type Compiler interface {
	// Build compiles the whole project and returns the bundled script.
	Build(ctx context.Context) ([]byte, error)
	// ResolveSourcePath maps a request path onto a project file, if any.
	ResolveSourcePath(requestPath string) (string, bool)
}

// Outcome names the rule that produced a response
type Outcome string

const (
	OutcomeBundle   Outcome = "bundle"
	OutcomeStatic   Outcome = "static"
	OutcomeResource Outcome = "resource"
	OutcomeNotFound Outcome = "not-found"
	OutcomeError    Outcome = "error"
)

// NotFoundBody is the body and reason sent when no rule matches
const NotFoundBody = "File not found"

// Response describes what to write back for one request
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	Reason      string
	Outcome     Outcome
	File        string // file served, for static and resource outcomes
}

// ResolverConfig holds what a Resolver needs at construction
type ResolverConfig struct {
	// OutputTarget is the configured bundle path, fixed for the server's lifetime
	OutputTarget string
	// StaticRoot is the directory served verbatim, normally <cwd>/public
	StaticRoot string
	Compiler   Compiler
	// FS defaults to OSFileSystem()
	FS FileSystem
	// GuessType defaults to mimetypes.GuessType
	GuessType func(string) string
	// Logger defaults to a discard logger
	Logger *slog.Logger
}

// Resolver decides how a request path is answered. Rules are tried in a
// fixed order and the first match wins:
//
//  1. the bundle route, rebuilt on every request
//  2. a regular file under the static root
//  3. a project resource found by the compiler
//  4. 404
//
// It holds no per-request state and is safe for concurrent use. Request
// paths are joined onto the static root with filepath.Join and nothing
// more; traversal outside the root is not prevented.
type Resolver struct {
	output     string
	staticRoot string
	compiler   Compiler
	fs         FileSystem
	guessType  func(string) string
	logger     *slog.Logger
}

// NewResolver creates a Resolver
func NewResolver(cfg ResolverConfig) *Resolver {
	r := &Resolver{
		output:     cfg.OutputTarget,
		staticRoot: cfg.StaticRoot,
		compiler:   cfg.Compiler,
		fs:         cfg.FS,
		guessType:  cfg.GuessType,
		logger:     cfg.Logger,
	}
	if r.fs == nil {
		r.fs = OSFileSystem()
	}
	if r.guessType == nil {
		r.guessType = mimetypes.GuessType
	}
	if r.logger == nil {
		r.logger = slogutil.NewDiscardLogger()
	}
	return r
}

// OutputTarget returns the configured bundle path
func (r *Resolver) OutputTarget() string {
	return r.output
}

// NormalizePath maps the site root onto /index.html.
func NormalizePath(p string) string {
	if p == "/" {
		return "/index.html"
	}
	return p
}

// MatchesOutput reports whether requestPath is the bundle route for output.
// The output may be written as a server route ("app.js" serves at /app.js)
// or as a location under the public directory ("public/app.js" also serves
// at /app.js).
func MatchesOutput(requestPath, output string) bool {
	if output == "" {
		return false
	}
	if requestPath == "/"+output {
		return true
	}
	return requestPath == stripPublic(output)
}

func stripPublic(output string) string {
	rest := strings.TrimPrefix(output, "/")
	if strings.HasPrefix(rest, "public") {
		return rest[len("public"):]
	}
	return output
}

// Resolve answers a normalized request path.
func (r *Resolver) Resolve(ctx context.Context, requestPath string) *Response {
	if MatchesOutput(requestPath, r.output) {
		return r.serveBundle(ctx)
	}

	staticFile := filepath.Join(r.staticRoot, filepath.FromSlash(requestPath))
	if r.isRegularFile(staticFile) {
		r.logger.Info("Serving public file", "file", staticFile)
		return r.serveFile(requestPath, staticFile, OutcomeStatic)
	}

	if resourceFile, ok := r.compiler.ResolveSourcePath(requestPath); ok {
		r.logger.Info("Serving resource file", "file", resourceFile)
		return r.serveFile(requestPath, resourceFile, OutcomeResource)
	}

	r.logger.Warn("File not found", "path", requestPath)
	return &Response{
		Status:      http.StatusNotFound,
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(NotFoundBody),
		Reason:      NotFoundBody,
		Outcome:     OutcomeNotFound,
	}
}

func (r *Resolver) serveBundle(ctx context.Context) *Response {
	code, err := r.compiler.Build(ctx)
	if err != nil {
		r.logger.Error("Build failed", "error", err.Error())
		return errorResponse(err)
	}

	return &Response{
		Status:      http.StatusOK,
		ContentType: "text/javascript",
		Body:        code,
		Outcome:     OutcomeBundle,
	}
}

// serveFile reads file at request time; the content type follows the
// request path, not the file it resolved to.
func (r *Resolver) serveFile(requestPath, file string, outcome Outcome) *Response {
	data, err := r.fs.ReadFile(file)
	if err != nil {
		r.logger.Error("Cannot read file", "file", file, "error", err.Error())
		return errorResponse(errors.NewJahError(errors.FilesystemError, "cannot read "+file, err, nil))
	}

	return &Response{
		Status:      http.StatusOK,
		ContentType: r.guessType(requestPath),
		Body:        data,
		Outcome:     outcome,
		File:        file,
	}
}

func (r *Resolver) isRegularFile(name string) bool {
	info, err := r.fs.Stat(name)
	return err == nil && info.Mode().IsRegular()
}
