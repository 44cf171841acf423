package restapi

import (
	"net/http"

	"tramnet.mpk.org/internal/models"
)

func (api *RestAPI) arrivalsForStopHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stop, ok := api.lookupStop(w, r)
	if !ok {
		return
	}

	arrivals, err := stop.Arrivals(ctx)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	board, err := arrivalsForStop(ctx, stop, arrivals)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(board, models.NewEmptyReferences()))
}
