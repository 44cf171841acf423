package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"tramnet.mpk.org/internal/app"
	"tramnet.mpk.org/internal/logging"
	"tramnet.mpk.org/internal/models"
	"tramnet.mpk.org/internal/transit"
)

func testConfig() app.Config {
	cfg := app.DefaultConfig()
	cfg.Env = "test"
	cfg.StopNames = []string{"Rondo", "Dworzec", "Plac"}
	cfg.LineSizes = []int{3, 2}
	cfg.Seed = 7
	cfg.ApiKeys = []string{"TEST"}
	return cfg
}

// createTestApi builds a small seeded network and the REST API over it.
func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWithConfig(t, testConfig())
}

func createTestApiWithConfig(t *testing.T, cfg app.Config) *RestAPI {
	t.Helper()
	application, err := app.New(context.Background(), cfg, logging.NewLogger(io.Discard, "test"))
	require.NoError(t, err)

	api := NewRestAPI(application)
	t.Cleanup(func() {
		api.Shutdown()
		application.Shutdown()
	})
	return api
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	server := httptest.NewServer(api.Handler())
	defer server.Close()
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

// startTram puts a running tram with id on the network's first line.
func startTram(t *testing.T, api *RestAPI, id int, departure transit.TimeOfDay) *transit.TramActor {
	t.Helper()
	ctx := context.Background()
	tram := transit.NewTram(api.Config.TransitOptions(api.Logger))
	require.NoError(t, tram.Start(ctx, id, api.Network.Lines[0], departure))
	require.NoError(t, tram.BuildSchedule(ctx))
	return tram
}

// decodeData re-decodes the untyped data field of a response into out.
func decodeData(t *testing.T, model models.ResponseModel, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(model.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
