package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/littleRiceZhou/auto-aspen/internal/config"
	"github.com/littleRiceZhou/auto-aspen/internal/log"
	"github.com/littleRiceZhou/auto-aspen/internal/server"
	"github.com/littleRiceZhou/auto-aspen/internal/service"
	"github.com/littleRiceZhou/auto-aspen/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the design API:

  GET  /health          liveness
  POST /api/simulation  simulate, size and render artifacts
  POST /api/power       size a unit from a known shaft power
  GET  /static/*        generated artifacts (local store)
  GET  /metrics         Prometheus metrics

Configuration is read from AUTO_ASPEN_* environment variables.

Examples:
  auto-aspen serve
  auto-aspen serve --address :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address, overrides AUTO_ASPEN_ADDRESS")
}

// newStore returns the artifact store and, for the local store, the
// directory to serve.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, string, error) {
	switch cfg.Artifacts.Store {
	case "local", "":
		return storage.NewLocalStore(cfg.Artifacts.Dir, cfg.Artifacts.URLPrefix), cfg.Artifacts.Dir, nil
	case "minio":
		store, err := storage.NewMinioStore(
			storage.WithEndpoint(cfg.Artifacts.MinioEndpoint),
			storage.WithCredentials(cfg.Artifacts.MinioAccessKey, cfg.Artifacts.MinioSecretKey),
			storage.WithBucket(cfg.Artifacts.MinioBucket),
			storage.WithSSL(cfg.Artifacts.MinioUseSSL),
			storage.WithURLExpiry(cfg.Artifacts.MinioURLExpiry),
		)
		if err != nil {
			return nil, "", err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, "", err
		}
		return store, "", nil
	default:
		return nil, "", fmt.Errorf("unknown artifact store %q", cfg.Artifacts.Store)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}
	if serveAddress != "" {
		cfg.Service.Address = serveAddress
	}

	logger, undo, err := log.Setup(cfg.Service.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer undo()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, staticDir, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create artifact store: %w", err)
	}

	opts := service.DefaultOptions()
	opts.TemplatePath = cfg.Document.TemplatePath
	opts.ConvertPDF = cfg.Document.ConvertPDF
	opts.SofficePath = cfg.Document.SofficePath
	opts.Workbook = cfg.Document.Workbook
	svc := service.NewSimulationService(newSession(cfg), store, nil, opts)

	listener, err := net.Listen("tcp", cfg.Service.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Service.Address, err)
	}

	zap.S().Named("serve").Infow("starting", "address", cfg.Service.Address, "model", cfg.Simulator.ModelPath, "store", cfg.Artifacts.Store)
	return server.New(cfg, svc, listener, staticDir).Run(ctx)
}
