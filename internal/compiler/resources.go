package compiler

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jah/internal/config"
)

type mount struct {
	prefix string // URL prefix without trailing slash; "" mounts at /
	dir    string
}

// newMounts orders mounts longest prefix first so nested mounts win.
func newMounts(resources []config.ResourceMount) []mount {
	mounts := make([]mount, 0, len(resources))
	for _, r := range resources {
		mounts = append(mounts, mount{
			prefix: strings.TrimSuffix(r.URL, "/"),
			dir:    filepath.FromSlash(r.Dir),
		})
	}
	sort.SliceStable(mounts, func(i, j int) bool {
		return len(mounts[i].prefix) > len(mounts[j].prefix)
	})
	return mounts
}

// ResolveSourcePath maps a request path onto a regular file inside one of
// the project's resource directories. Unknown paths return "", false.
func (c *Compiler) ResolveSourcePath(requestPath string) (string, bool) {
	for _, m := range c.mounts {
		rel, ok := m.match(requestPath)
		if !ok || rel == "" {
			continue
		}

		candidate := filepath.Join(c.root, m.dir, filepath.FromSlash(rel))
		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		return candidate, true
	}
	return "", false
}

func (m mount) match(requestPath string) (string, bool) {
	if m.prefix == "" {
		return strings.TrimPrefix(requestPath, "/"), strings.HasPrefix(requestPath, "/")
	}
	if !strings.HasPrefix(requestPath, m.prefix+"/") {
		return "", false
	}
	return requestPath[len(m.prefix)+1:], true
}
