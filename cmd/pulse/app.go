package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rxtech-lab/argo-pulse/internal/bootstrap"
	"github.com/rxtech-lab/argo-pulse/internal/config"
	"github.com/rxtech-lab/argo-pulse/internal/insight"
	"github.com/rxtech-lab/argo-pulse/internal/logger"
	"github.com/rxtech-lab/argo-pulse/internal/pulse"
	"github.com/rxtech-lab/argo-pulse/internal/server"
	"github.com/rxtech-lab/argo-pulse/internal/store"
	"github.com/rxtech-lab/argo-pulse/internal/stream"
	"github.com/rxtech-lab/argo-pulse/internal/synthetic"
	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/internal/version"
	"github.com/rxtech-lab/argo-pulse/pkg/marketdata/provider"
)

func newApp() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML config `FILE`",
		Sources: cli.EnvVars("PULSE_CONFIG"),
	}

	return &cli.Command{
		Name:    "pulse",
		Usage:   "Live BTC/ETH market state with AI insight",
		Version: version.GetVersion(),
		Flags:   []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run ingestion and the HTTP/websocket API",
				Action: serveAction,
			},
			{
				Name:  "bootstrap",
				Usage: "Fetch the initial history once and print the derived snapshots",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "fallback",
						Usage: "Print synthetic snapshots when the history source fails",
					},
				},
				Action: bootstrapAction,
			},
			{
				Name:  "analyze",
				Usage: "Request an AI insight for one asset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "asset",
						Aliases:  []string{"a"},
						Usage:    "Asset code (BTC or ETH)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Fail on model errors instead of printing a placeholder result",
					},
				},
				Action: analyzeAction,
			},
			{
				Name:  "providers",
				Usage: "List the supported history providers",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "schema",
						Usage: "Print the JSON schema of the history provider config instead",
					},
				},
				Action: providersAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintln(cmd.Root().Writer, version.GetVersion())

					return err
				},
			},
		},
	}
}

// loadConfig loads the config and builds the logger. One-shot commands print
// their results on stdout, so they pass "stderr" as logOutput.
func loadConfig(cmd *cli.Command, logOutput string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel, logOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return cfg, log, nil
}

func newLoader(cfg *config.Config, log *logger.Logger, opts ...bootstrap.Option) (*bootstrap.Loader, error) {
	history, err := provider.NewHistoryProvider(cfg.History)
	if err != nil {
		return nil, err
	}

	loc := cfg.Location()
	gen := synthetic.NewGenerator(time.Now().UnixNano(), synthetic.WithLocation(loc))
	opts = append([]bootstrap.Option{bootstrap.WithLocation(loc), bootstrap.WithGenerator(gen)}, opts...)

	return bootstrap.NewLoader(history, log, opts...), nil
}

func newAnalyzer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*insight.Analyzer, error) {
	if cfg.Insight.APIKey == "" {
		return insight.NewAnalyzer(nil, cfg.Insight.Timeout, log), nil
	}

	model, err := insight.NewGeminiModel(ctx, cfg.Insight.APIKey, cfg.Insight.Model)
	if err != nil {
		return nil, err
	}

	return insight.NewAnalyzer(model, cfg.Insight.Timeout, log), nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := loadConfig(cmd, "stdout")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loader, err := newLoader(cfg, log)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(ctx, cfg, log)
	if err != nil {
		return err
	}

	st := store.New(log)
	feed := stream.NewConsumer(cfg.Feed, log)
	service := pulse.NewService(st, loader, feed, analyzer, log,
		pulse.WithLocation(cfg.Location()),
		pulse.WithDegradeOnStreamFailure(cfg.DegradeOnStreamFailure),
	)

	srv := server.New(server.Config{
		Address:           cfg.Server.Address,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}, service.Store(), service, log)

	log.Info("Starting argo-pulse",
		zap.String("version", version.GetVersion()),
		zap.String("history_provider", string(cfg.History.Provider)),
		zap.Bool("insight_configured", analyzer.Configured()),
		zap.String("feed_subscription", feed.ID()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return service.Run(gctx) })
	g.Go(func() error { return srv.ListenAndServe(gctx) })

	return g.Wait()
}

func bootstrapAction(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := loadConfig(cmd, "stderr")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	assets := types.TrackedAssets()
	bar := progressbar.NewOptions(len(assets),
		progressbar.OptionSetDescription(fmt.Sprintf("Fetching history from %s", cfg.History.Provider)),
		progressbar.OptionSetWriter(cmd.Root().ErrWriter),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	loader, err := newLoader(cfg, log, bootstrap.WithProgress(func(types.AssetID, int) {
		_ = bar.Add(1)
	}))
	if err != nil {
		return err
	}

	result, err := loader.Bootstrap(ctx, assets)
	_ = bar.Finish()

	if err != nil {
		if !cmd.Bool("fallback") {
			return err
		}

		log.Warn("Bootstrap failed, printing synthetic data", zap.Error(err))
		result = loader.Fallback(assets)
	}

	out := cmd.Root().Writer
	fmt.Fprintf(out, "source: %s\n", result.Source)

	for _, asset := range assets {
		snapshot, ok := result.Snapshots[asset]
		if !ok {
			continue
		}

		fmt.Fprintln(out, formatSnapshot(snapshot))
	}

	return nil
}

func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	asset, err := types.ParseAsset(cmd.String("asset"))
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig(cmd, "stderr")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loader, err := newLoader(cfg, log)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(ctx, cfg, log)
	if err != nil {
		return err
	}

	result, err := loader.Bootstrap(ctx, []types.AssetID{asset})
	if err != nil {
		log.Warn("Bootstrap failed, analysing synthetic data", zap.Error(err))
		result = loader.Fallback([]types.AssetID{asset})
	}

	snapshot := result.Snapshots[asset]

	var analysis types.AIAnalysisResult
	if cmd.Bool("strict") {
		analysis, err = analyzer.AnalyzeStrict(ctx, snapshot)
		if err != nil {
			return err
		}
	} else {
		analysis = analyzer.Analyze(ctx, snapshot)
	}

	encoder := json.NewEncoder(cmd.Root().Writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(analysis)
}

func providersAction(_ context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer

	if cmd.Bool("schema") {
		s, err := provider.GetHistoryConfigSchema()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(out, s)

		return err
	}

	for _, name := range provider.GetSupportedProviders() {
		info, err := provider.GetProviderInfo(name)
		if err != nil {
			return err
		}

		auth := "no"
		if info.RequiresAuth {
			auth = "yes"
		}

		fmt.Fprintf(out, "%-10s %-11s auth: %-3s %s\n", info.Name, info.DisplayName, auth, info.Description)
	}

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	s, err := config.Schema()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, s)

	return err
}

// formatSnapshot renders one line per asset, e.g.
// BTC  Bitcoin   $64,000.00  +120.00 (+0.19%)  H $64,500.00  L $63,100.00  Real-time
func formatSnapshot(s types.MarketSnapshot) string {
	sign := "+"
	if s.Change24h < 0 {
		sign = ""
	}

	return fmt.Sprintf("%-4s %-9s %s  %s%.2f (%s%.2f%%)  H %s  L %s  %s",
		s.Asset, s.Asset.DisplayName(), types.FormatCurrency(s.CurrentPrice),
		sign, s.Change24h, sign, s.Change24hPercent,
		types.FormatCurrency(s.High24h), types.FormatCurrency(s.Low24h), s.Volume)
}
