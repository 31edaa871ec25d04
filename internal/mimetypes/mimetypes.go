// Package mimetypes guesses a Content-Type from a file extension.
package mimetypes

import (
	"mime"
	"path"
	"strings"
)

// Default is returned for extensions nothing else recognises
const Default = "application/octet-stream"

// table covers what a browser project normally serves; it takes
// precedence over the platform registry, which varies between hosts.
var table = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".js":    "text/javascript",
	".mjs":   "text/javascript",
	".css":   "text/css",
	".json":  "application/json",
	".map":   "application/json",
	".txt":   "text/plain",
	".xml":   "application/xml",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".ico":   "image/x-icon",
	".webp":  "image/webp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".wasm":  "application/wasm",
	".mp3":   "audio/mpeg",
	".ogg":   "audio/ogg",
	".wav":   "audio/wav",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".tmx":   "application/xml",
	".tsx":   "application/xml",
}

// GuessType returns the content type for p's extension. It never fails.
func GuessType(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return Default
	}
	if t, ok := table[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return Default
}
