package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tramnet.mpk.org/internal/app"
)

type WebUI struct {
	*app.Application
}

// SetWebUIRoutes mounts the debug pages. They are behind the same API keys
// as the query endpoints.
func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.requireAPIKey(webUI.debugIndexHandler))
}

func (webUI *WebUI) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if webUI.RequestHasInvalidAPIKey(r) {
			http.Error(w, "permission denied", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
