package gtfs

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jamespfennell/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tramnet.mpk.org/internal/transit"
)

func staticFixture() *gtfs.Static {
	routes := []gtfs.Route{{Id: "R5"}, {Id: "R6"}, {Id: "R0"}}
	stops := []gtfs.Stop{
		{Id: "S1", Name: "Rynek"},
		{Id: "S2", Name: "Dworzec"},
		{Id: "S3"},
	}
	stopTimes := func(idx ...int) []gtfs.ScheduledStopTime {
		out := make([]gtfs.ScheduledStopTime, len(idx))
		for i, j := range idx {
			out[i] = gtfs.ScheduledStopTime{Stop: &stops[j]}
		}
		return out
	}
	return &gtfs.Static{
		Routes: routes,
		Stops:  stops,
		Trips: []gtfs.ScheduledTrip{
			{Route: &routes[1], StopTimes: stopTimes(2, 0)},
			{Route: &routes[0], StopTimes: stopTimes(0, 1, 0)},
			{Route: &routes[0], StopTimes: stopTimes(1)},
			{Route: &routes[2]},
		},
	}
}

func TestTopologyFromStatic(t *testing.T) {
	tests := []struct {
		name     string
		maxLines int
		want     transit.Topology
	}{
		{
			name: "all routes with stop times",
			want: transit.Topology{
				StopNames: []string{"Rynek", "Dworzec", "S3"},
				Lines:     [][]int{{0, 1, 0}, {2, 0}},
			},
		},
		{
			name:     "capped",
			maxLines: 1,
			want: transit.Topology{
				StopNames: []string{"Rynek", "Dworzec"},
				Lines:     [][]int{{0, 1, 0}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopologyFromStatic(staticFixture(), tt.maxLines)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("topology mismatch (-want +got):\n%s", diff)
			}
			assert.NoError(t, got.Validate())
		})
	}
}

func TestTopologyFromStaticWithoutTrips(t *testing.T) {
	_, err := TopologyFromStatic(&gtfs.Static{Routes: []gtfs.Route{{Id: "R1"}}}, 0)
	assert.ErrorIs(t, err, ErrNoLines)
}

func feedZip(t *testing.T) []byte {
	t.Helper()
	files := map[string]string{
		"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
			"MPK,MPK Wroclaw,https://mpk.wroc.pl,Europe/Warsaw\n",
		"routes.txt": "route_id,agency_id,route_short_name,route_type\n" +
			"5,MPK,5,0\n" +
			"6,MPK,6,0\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"A,Plac Grunwaldzki,51.11,17.06\n" +
			"B,Rynek,51.10,17.03\n" +
			"C,Dworzec Glowny,51.09,17.03\n",
		"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
			"WD,1,1,1,1,1,0,0,20240101,20301231\n",
		"trips.txt": "route_id,service_id,trip_id\n" +
			"5,WD,T5\n" +
			"6,WD,T6\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"T5,08:00:00,08:00:00,A,1\n" +
			"T5,08:10:00,08:10:00,B,2\n" +
			"T6,09:00:00,09:00:00,C,1\n" +
			"T6,09:10:00,09:10:00,B,2\n",
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestLoadTopologyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.zip")
	require.NoError(t, os.WriteFile(path, feedZip(t), 0o600))

	topo, err := LoadTopology(context.Background(), Config{Source: path}, nil)
	require.NoError(t, err)

	require.Len(t, topo.Lines, 2)
	assert.ElementsMatch(t, []string{"Plac Grunwaldzki", "Rynek", "Dworzec Glowny"}, topo.StopNames)
	assert.Len(t, topo.Lines[0], 2)
	assert.Len(t, topo.Lines[1], 2)
	assert.Equal(t, topo.Lines[0][1], topo.Lines[1][1], "both lines share Rynek")
}

func TestLoadTopologyFromURL(t *testing.T) {
	feed := feedZip(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feed.zip" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(feed)
	}))
	defer server.Close()

	topo, err := LoadTopology(context.Background(), Config{Source: server.URL + "/feed.zip", MaxLines: 1}, nil)
	require.NoError(t, err)
	assert.Len(t, topo.Lines, 1)

	_, err = LoadTopology(context.Background(), Config{Source: server.URL + "/missing.zip"}, nil)
	assert.Error(t, err)
}

func TestLoadTopologyMissingFile(t *testing.T) {
	_, err := LoadTopology(context.Background(), Config{Source: filepath.Join(t.TempDir(), "nope.zip")}, nil)
	assert.Error(t, err)
}
