// Package mimetype resolves file extensions to MIME content types for
// response serialization.
package mimetype

import (
	"mime"
	"strings"
)

// Fallback table for extensions the platform mime database may not carry.
var fallback = map[string]string{
	".css":  "text/css; charset=utf-8",
	".csv":  "text/csv",
	".gif":  "image/gif",
	".htm":  "text/html; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".txt":  "text/plain; charset=utf-8",
	".xml":  "text/xml; charset=utf-8",
	".zip":  "application/zip",
}

// DefaultType is returned when an extension cannot be resolved.
const DefaultType = "application/octet-stream"

// Lookup resolves a content type. Values already containing a slash pass
// through unchanged; anything else is treated as a file extension, with or
// without the leading dot.
func Lookup(t string) string {
	if strings.Contains(t, "/") {
		return t
	}
	ext := t
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	if ct, ok := fallback[strings.ToLower(ext)]; ok {
		return ct
	}
	return DefaultType
}
