package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/r3labs/sse/v2"

	"tramnet.mpk.org/internal/transit"
	"tramnet.mpk.org/internal/utils"
)

// BoardStream republishes arrivals boards as server-sent events, one stream
// per stop named "stop-<id>". It subscribes to stops like any other user.
type BoardStream struct {
	identity transit.Identity
	server   *sse.Server
	logger   *slog.Logger
}

func NewBoardStream(logger *slog.Logger) *BoardStream {
	if logger == nil {
		logger = slog.Default()
	}
	server := sse.New()
	server.AutoReplay = false
	return &BoardStream{
		identity: transit.Identity{Kind: transit.KindUser, Key: "board-" + uuid.NewString()},
		server:   server,
		logger:   logger.With(slog.String("component", "board_stream")),
	}
}

func StreamName(stopID int) string {
	return fmt.Sprintf("stop-%d", stopID)
}

func (b *BoardStream) Identity() transit.Identity { return b.identity }

// Follow opens a stream for each stop and subscribes to it.
func (b *BoardStream) Follow(ctx context.Context, stops []*transit.StopActor) error {
	for _, stop := range stops {
		id, err := stop.ID(ctx)
		if err != nil {
			return err
		}
		b.server.CreateStream(StreamName(id))
		if err := stop.RegisterUser(ctx, b); err != nil {
			return fmt.Errorf("follow stop %d: %w", id, err)
		}
	}
	return nil
}

func (b *BoardStream) StopUpdated(ctx context.Context, stop transit.Stop, arrivals []transit.Arrival) error {
	board, err := arrivalsForStop(ctx, stop, arrivals)
	if err != nil {
		return err
	}
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	if !b.server.TryPublish(StreamName(board.StopID), &sse.Event{Event: []byte("board"), Data: data}) {
		b.logger.Debug("board event dropped", slog.Int("stop_id", board.StopID))
	}
	return nil
}

// TramUpdated is never delivered: the stream only subscribes to stops.
func (b *BoardStream) TramUpdated(ctx context.Context, tram transit.Tram, stop transit.Stop) error {
	return nil
}

func (b *BoardStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("stream")
	stream := utils.SanitizeInput(raw)
	if stream == "" || stream != raw || !b.server.StreamExists(stream) {
		http.Error(w, "unknown stream", http.StatusNotFound)
		return
	}
	b.server.ServeHTTP(w, r)
}

func (b *BoardStream) Close() {
	b.server.Close()
}
