package restapi

import (
	"net/http"

	"tramnet.mpk.org/internal/models"
	"tramnet.mpk.org/internal/transit"
	"tramnet.mpk.org/internal/utils"
)

// lookupStop resolves the :id parameter. It writes the error response and
// returns false when the stop cannot be served.
func (api *RestAPI) lookupStop(w http.ResponseWriter, r *http.Request) (transit.Stop, bool) {
	stopID, err := utils.ParseStopID(utils.ExtractIDFromParams(r, "id"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"id": {err.Error()},
		})
		return nil, false
	}

	stop, found, err := api.Network.Registry.Stop(r.Context(), stopID)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return nil, false
	}
	if !found {
		api.sendNotFound(w, r)
		return nil, false
	}
	return stop, true
}

func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stop, ok := api.lookupStop(w, r)
	if !ok {
		return
	}

	entry, err := stopModel(ctx, stop)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	references := models.NewEmptyReferences()
	lines, err := api.Network.Registry.Lines(ctx)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	for i, line := range lines {
		for _, id := range entry.LineIDs {
			if line.Identity().Key != id {
				continue
			}
			m, err := lineModel(ctx, i+1, line)
			if err != nil {
				api.serverErrorResponse(w, r, err)
				return
			}
			references.Lines = append(references.Lines, m)
			break
		}
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, references))
}
