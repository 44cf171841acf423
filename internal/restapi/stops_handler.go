package restapi

import (
	"net/http"

	"tramnet.mpk.org/internal/models"
)

func (api *RestAPI) stopsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list := make([]models.StopModel, 0, len(api.Network.Stops))
	for _, stop := range api.Network.Stops {
		m, err := stopModel(ctx, stop)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}
		list = append(list, m)
	}

	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences()))
}
