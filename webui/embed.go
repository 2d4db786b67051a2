// Package webui exposes the embedded page shell.
// It lives at the module root so it can embed the sibling "web/" directory.
// internal/render parses the layout; internal/server serves the stylesheet.
package webui

import "embed"

// FS is the embedded web directory tree: layout.html and page.css.
//
//go:embed web
var FS embed.FS

// Stylesheet returns the page stylesheet.
func Stylesheet() ([]byte, error) {
	return FS.ReadFile("web/page.css")
}
