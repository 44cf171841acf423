package restapi

import (
	"net/http"

	"tramnet.mpk.org/internal/models"
	"tramnet.mpk.org/internal/transit"
)

func (api *RestAPI) tramsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	trams, err := api.Trams(ctx)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	list := make([]models.TramModel, 0, len(trams))
	for _, tram := range trams {
		m, err := tramModel(ctx, tram)
		if err != nil {
			if transit.IsUnreachable(err) {
				api.Logger.Debug("skipping unreachable tram", "tram", tram.Identity().Key)
				continue
			}
			api.serverErrorResponse(w, r, err)
			return
		}
		list = append(list, m)
	}

	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences()))
}
