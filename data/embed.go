package data

import (
	"embed"
)

// Templates holds the HTML email bodies rendered by the notification
// dispatcher.
//
//go:embed templates/*.tmpl
var Templates embed.FS
