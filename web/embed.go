// Package web holds the dashboard's HTML templates and static assets.
package web

import "embed"

// TemplatesFS contains the page templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS contains the stylesheet served under /static.
//
//go:embed static
var StaticFS embed.FS
