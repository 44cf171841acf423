package restapi

import (
	"net/http"

	"tramnet.mpk.org/internal/models"
)

func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lines, err := api.Network.Registry.Lines(ctx)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	list := make([]models.LineModel, 0, len(lines))
	for i, line := range lines {
		m, err := lineModel(ctx, i+1, line)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}
		list = append(list, m)
	}

	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences()))
}
