// Package static embeds the landing page served at the service root.
package static

import _ "embed"

//go:embed index.html
var Index []byte
