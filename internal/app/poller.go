package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tramnet.mpk.org/internal/logging"
	"tramnet.mpk.org/internal/transit"
)

// BoardPoller periodically pushes every stop's arrivals board to that
// stop's subscribers.
type BoardPoller struct {
	stops    []*transit.StopActor
	interval time.Duration
	logger   *slog.Logger

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	startOnce    sync.Once
	shutdownOnce sync.Once
}

func NewBoardPoller(stops []*transit.StopActor, interval time.Duration, logger *slog.Logger) *BoardPoller {
	if logger == nil {
		logger = slog.Default()
	}
	return &BoardPoller{
		stops:        stops,
		interval:     interval,
		logger:       logger.With(slog.String("component", "board_poller")),
		shutdownChan: make(chan struct{}),
	}
}

// Start runs the poll loop in the background until Shutdown.
func (p *BoardPoller) Start() {
	p.startOnce.Do(func() {
		p.wg.Add(1)
		go p.run()
	})
}

// Shutdown stops the loop and waits for an in-flight pass to finish.
func (p *BoardPoller) Shutdown() {
	p.shutdownOnce.Do(func() {
		close(p.shutdownChan)
		p.wg.Wait()
	})
}

func (p *BoardPoller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-p.shutdownChan:
					cancel()
				case <-ctx.Done():
				}
			}()
			p.Poll(logging.WithLogger(ctx, p.logger))
			cancel()
		case <-p.shutdownChan:
			logging.LogOperation(p.logger, "shutting_down_board_poller")
			return
		}
	}
}

// Poll runs one pass over every stop and returns the combined result.
func (p *BoardPoller) Poll(ctx context.Context) transit.BroadcastResult {
	var total transit.BroadcastResult
	for _, stop := range p.stops {
		if ctx.Err() != nil {
			break
		}
		res, err := stop.NotifySubscribers(ctx)
		if err != nil {
			logging.LogError(p.logger, "failed to build arrivals board", err,
				slog.String("stop", stop.Identity().Key))
			continue
		}
		total.Delivered += res.Delivered
		total.Failed += res.Failed
	}
	if total.Delivered+total.Failed > 0 {
		p.logger.Debug("boards pushed",
			slog.Int("delivered", total.Delivered),
			slog.Int("failed", total.Failed))
	}
	return total
}
