package web

import "embed"

// Static embeds the browser UI served at /.
//
//go:embed static
var Static embed.FS
