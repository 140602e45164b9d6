// Package assets embeds the default liquid palette and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed palette.yaml sql/*.sql
var FS embed.FS

// DefaultPalette returns the embedded palette YAML.
func DefaultPalette() ([]byte, error) {
	return FS.ReadFile("palette.yaml")
}

// Migrations returns the SQL migration files rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
