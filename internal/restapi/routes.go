package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func validateAPIKey(api *RestAPI, finalHandler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// query wraps a JSON query handler with key validation, rate limiting and
// compression.
func (api *RestAPI) query(h http.HandlerFunc) http.Handler {
	return api.rateLimiter.Handler(CompressionMiddleware(validateAPIKey(api, h)))
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/where/current-time.json", api.query(api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/where/lines.json", api.query(api.linesHandler))
	router.Handler(http.MethodGet, "/api/where/stops.json", api.query(api.stopsHandler))
	router.Handler(http.MethodGet, "/api/where/trams.json", api.query(api.tramsHandler))
	router.Handler(http.MethodGet, "/api/where/stop/:id", api.query(api.stopHandler))
	router.Handler(http.MethodGet, "/api/where/arrivals-for-stop/:id", api.query(api.arrivalsForStopHandler))
	// Event streams are long lived and must not be buffered by compression.
	router.Handler(http.MethodGet, "/api/stream", api.rateLimiter.Handler(validateAPIKey(api, api.Board.ServeHTTP)))
}
