package web

import (
	"embed"
	"io/fs"
)

// The register pages and SSE fragments ship inside the binary; a till has
// no asset pipeline and no files to deploy next to it.
//
//go:embed *.html
var fsys embed.FS

func FS() fs.FS { return fsys }
