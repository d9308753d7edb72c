package static

import (
	"net/http"

	"github.com/meln5674/minimux"

	"github.com/meln5674/frontend-entry-server/pkg/frontend/static/js"
)

// Handler serves the helper scripts bundled into the binary, keyed by the "path" variable of the enclosing route
var Handler = minimux.InnerMuxWithPrefix("path", &minimux.Mux{
	DefaultHandler: minimux.NotFound,
	Routes: []minimux.Route{
		minimux.
			PathWithVars("js/(.+)", "path").
			WithMethods(http.MethodGet).
			IsHandledBy(js.Handler),
	},
})
