package webui

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"tramnet.mpk.org/internal/app"
	"tramnet.mpk.org/internal/logging"
	"tramnet.mpk.org/internal/transit"
	"tramnet.mpk.org/internal/utils"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"lines", "stops", "trams", "config"}

type debugData struct {
	Title string
	Pre   string
}

type stopSnapshot struct {
	ID          int
	Name        string
	Subscribers int
}

type tramSnapshot struct {
	ID       int
	Key      string
	Schedule []string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	err := debugTemplate.Execute(w, debugData{
		Title: title,
		Pre:   spew.Sdump(data),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")
	if err := utils.ValidateDataType(dataType, dataTypes...); err != nil {
		writeDebugData(w, "Choose a data type", map[string]string{"error": err.Error()})
		return
	}

	ctx := r.Context()
	var data interface{}
	var title string
	var err error

	switch dataType {
	case "lines":
		data, err = webUI.DescribeLines(ctx)
		title = "Network - Lines"
	case "stops":
		data, err = webUI.stopSnapshots(ctx)
		title = "Network - Stops"
	case "trams":
		data, err = webUI.tramSnapshots(ctx)
		title = "Network - Trams"
	case "config":
		data = redactedConfig(webUI.Config)
		title = "Process - Configuration"
	}
	if err != nil {
		logging.LogError(webUI.Logger, "debug page failed", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeDebugData(w, title, data)
}

// redactedConfig masks every API key, keeping only how many are set.
func redactedConfig(cfg app.Config) app.Config {
	keys := make([]string, len(cfg.ApiKeys))
	for i := range keys {
		keys[i] = "[redacted]"
	}
	cfg.ApiKeys = keys
	return cfg
}

func (webUI *WebUI) stopSnapshots(ctx context.Context) ([]stopSnapshot, error) {
	out := make([]stopSnapshot, 0, len(webUI.Network.Stops))
	for _, stop := range webUI.Network.Stops {
		id, err := stop.ID(ctx)
		if err != nil {
			return nil, err
		}
		name, err := stop.Name(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, stopSnapshot{ID: id, Name: name, Subscribers: len(stop.Subscribers())})
	}
	return out, nil
}

func (webUI *WebUI) tramSnapshots(ctx context.Context) ([]tramSnapshot, error) {
	trams, err := webUI.Trams(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]tramSnapshot, 0, len(trams))
	for _, tram := range trams {
		snap, err := snapshotTram(ctx, tram)
		if err != nil {
			if transit.IsUnreachable(err) {
				continue
			}
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func snapshotTram(ctx context.Context, tram transit.Tram) (tramSnapshot, error) {
	id, err := tram.ID(ctx)
	if err != nil {
		return tramSnapshot{}, err
	}
	schedule, err := tram.Schedule(ctx)
	if err != nil {
		return tramSnapshot{}, err
	}
	snap := tramSnapshot{ID: id, Key: tram.Identity().Key}
	for _, item := range schedule {
		name, err := item.Stop.Name(ctx)
		if err != nil {
			return tramSnapshot{}, err
		}
		snap.Schedule = append(snap.Schedule, name+" "+item.Time.String())
	}
	return snap, nil
}
