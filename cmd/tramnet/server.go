package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"tramnet.mpk.org/internal/app"
	"tramnet.mpk.org/internal/restapi"
	"tramnet.mpk.org/internal/webui"
)

type serverFlags struct {
	stops   string
	lines   string
	apiKeys string
}

func newServerCmd() *cobra.Command {
	cfg := app.DefaultConfig()
	var f serverFlags

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Host the registry, lines and stops and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Env, _ = cmd.Flags().GetString("env")
			if err := f.apply(&cfg); err != nil {
				return err
			}
			ctx, stop := signalContext(cmd)
			defer stop()
			return runServer(ctx, cfg, loggerFor(cmd), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Port, "port", cfg.Port, "API server port")
	flags.StringVar(&cfg.RegistryName, "name", cfg.RegistryName, "Registry service name")
	flags.StringVar(&cfg.Advertise, "advertise", "", "Address other processes use to reach this one (default localhost:<port>)")
	flags.StringVar(&f.stops, "stops", "a,b,c,d,e", "Comma separated stop names")
	flags.StringVar(&f.lines, "lines", "5,6,4", "Comma separated line lengths")
	flags.Int64Var(&cfg.Seed, "seed", 0, "Seed for the random topology (0 uses the clock)")
	flags.StringVar(&cfg.GTFSSource, "gtfs", "", "Static GTFS feed (file or URL) to build lines from instead")
	flags.IntVar(&cfg.GTFSLines, "gtfs-lines", 0, "Maximum number of GTFS routes to load (0 loads all)")
	flags.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "How often stops push their arrivals")
	flags.DurationVar(&cfg.NotifyTimeout, "notify-timeout", cfg.NotifyTimeout, "Bound on a single push notification")
	flags.IntVar(&cfg.HopMinutes, "hop", cfg.HopMinutes, "Minutes between consecutive stops")
	flags.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per second per client (0 disables)")
	flags.StringVar(&f.apiKeys, "api-keys", "", "Comma separated API keys (empty leaves the API open)")
	return cmd
}

func (f serverFlags) apply(cfg *app.Config) error {
	cfg.StopNames = app.ParseList(f.stops)
	sizes, err := parseSizes(f.lines)
	if err != nil {
		return err
	}
	cfg.LineSizes = sizes
	cfg.ApiKeys = app.ParseList(f.apiKeys)
	return cfg.Validate()
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range app.ParseList(s) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid line length %q", part)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func runServer(ctx context.Context, cfg app.Config, logger *slog.Logger, out io.Writer) error {
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	described, err := application.DescribeLines(ctx)
	if err != nil {
		return err
	}
	for _, line := range described {
		fmt.Fprintln(out, line)
	}

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()
	if err := api.Start(ctx); err != nil {
		return fmt.Errorf("start board stream: %w", err)
	}
	webUI := &webui.WebUI{Application: application}

	ln, addr, err := listen(cfg.Port, cfg.Advertise)
	if err != nil {
		return err
	}
	application.Node.SetAddr(addr)
	application.Poller.Start()

	logger.Info("starting server",
		slog.String("addr", ln.Addr().String()),
		slog.String("advertise", addr),
		slog.String("registry", cfg.RegistryName),
		slog.String("env", cfg.Env))
	return serve(ctx, newHTTPServer(api.Handler(webUI.SetWebUIRoutes), logger), ln, logger)
}
