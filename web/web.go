// Package web embeds the static single-page UI served at the site root.
package web

import "embed"

//go:embed static
var Static embed.FS
