// Package views holds the HTML templates compiled into the binary.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html layouts/*.html partials/*.html
var files embed.FS

// NewEngine returns a template engine over the embedded views.
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(files), ".html")
}
