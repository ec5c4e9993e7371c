package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed content/*.md
var contentFS embed.FS

//go:embed static/*
var staticFS embed.FS

// StaticFS returns an http.FileSystem for the embedded stylesheet.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Should never happen: the directory is embedded above.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
