package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tramnet.mpk.org/internal/logging"
	"tramnet.mpk.org/internal/rpc"
	"tramnet.mpk.org/internal/transit"
)

const shutdownTimeout = 5 * time.Second

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// listen binds port and returns the address to advertise. An empty
// advertise address means localhost on the bound port.
func listen(port int, advertise string) (net.Listener, string, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, "", fmt.Errorf("listen on port %d: %w", port, err)
	}
	if advertise == "" {
		advertise = fmt.Sprintf("localhost:%d", ln.Addr().(*net.TCPAddr).Port)
	}
	return ln, advertise, nil
}

func newHTTPServer(handler http.Handler, logger *slog.Logger) *http.Server {
	// No write timeout: board streams stay open.
	return &http.Server{
		Handler:           handler,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

// serve runs srv on ln until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logging.LogOperation(logger, "http_server_started", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logging.LogOperation(logger, "http_server_stopped")
	return nil
}

// peer is a process that hosts actors for a remote network: a tram or a
// client.
type peer struct {
	node     *rpc.Node
	registry transit.Registry
	logger   *slog.Logger
	done     chan error
}

type peerFlags struct {
	registry  string
	name      string
	port      int
	advertise string
}

func (f *peerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.registry, "registry", "localhost:4061", "Address of the server hosting the registry")
	cmd.Flags().StringVar(&f.name, "name", "SIP", "Registry service name")
	cmd.Flags().IntVar(&f.port, "port", 0, "Port to host local actors on (0 picks a free port)")
	cmd.Flags().StringVar(&f.advertise, "advertise", "", "Address the server uses to call back (default localhost:<port>)")
}

// startPeer serves a node for local actors and discovers the registry.
// The node stops serving when ctx is cancelled.
func startPeer(ctx context.Context, f peerFlags, logger *slog.Logger) (*peer, error) {
	ln, addr, err := listen(f.port, f.advertise)
	if err != nil {
		return nil, err
	}
	node := rpc.NewNode(rpc.Config{Addr: addr, Logger: logger})

	p := &peer{node: node, logger: logger, done: make(chan error, 1)}
	srv := newHTTPServer(node.Handler(), logger)
	go func() {
		p.done <- serve(ctx, srv, ln, logger)
	}()

	registry, err := node.Discover(ctx, f.registry, f.name)
	if err != nil {
		_ = srv.Close()
		return nil, err
	}
	p.registry = registry
	return p, nil
}

// wait blocks until the node has stopped serving.
func (p *peer) wait() error {
	return <-p.done
}
