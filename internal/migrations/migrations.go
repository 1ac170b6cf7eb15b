package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var fsys embed.FS

func FS() fs.FS {
	return fsys
}
