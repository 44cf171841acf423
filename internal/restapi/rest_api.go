package restapi

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"tramnet.mpk.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
	Board       *BoardStream
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
// and board stream.
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
		Board:       NewBoardStream(app.Logger),
	}
}

// Start subscribes the board stream to every stop of the network.
func (api *RestAPI) Start(ctx context.Context) error {
	return api.Board.Follow(ctx, api.Network.Stops)
}

// Handler builds the full HTTP surface: the query API, the board stream,
// the RPC endpoints of the application's node, and any extra mounts.
func (api *RestAPI) Handler(mounts ...func(*httprouter.Router)) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(api.sendNotFound)
	api.SetRoutes(router)
	api.Node.Routes(router)
	for _, mount := range mounts {
		mount(router)
	}
	return NewRequestLoggingMiddleware(api.Logger)(api.WithSecurityHeaders(router))
}

func (api *RestAPI) Shutdown() {
	api.rateLimiter.Stop()
	api.Board.Close()
}
