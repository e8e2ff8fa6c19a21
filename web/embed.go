// Package web holds the admin HTML templates and static assets compiled into
// the binary.
package web

import "embed"

//go:embed templates
var Templates embed.FS

//go:embed static
var Static embed.FS
