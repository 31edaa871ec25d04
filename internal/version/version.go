// Package version holds the jah release and build identifiers.
package version

// Overridden at build time:
// go build -ldflags "-X jah/internal/version.Version=0.3.0 -X jah/internal/version.Commit=abc123"
var (
	// Version is the semantic version of jah
	Version = "0.3.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Info returns the version, with the short commit when one is known
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns the multi-line text printed by `jah version`
func Full() string {
	return "jah version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
