package js

import (
	_ "embed"

	"github.com/meln5674/minimux"
)

var (
	//go:embed reload.js
	reload_js []byte

	Handler = minimux.StaticData{
		DefaultHandler: minimux.NotFound,
		PathVar:        "path",
		StaticBytes: map[string]minimux.StaticBytes{
			"reload.js": {
				Data:        reload_js,
				ContentType: "text/javascript",
			},
		},
	}
)

// ReloadScript returns the embedded live-reload client
func ReloadScript() []byte {
	return reload_js
}
