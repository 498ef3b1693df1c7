package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repodocs/internal/config"
	"github.com/ziadkadry99/repodocs/internal/db"
	"github.com/ziadkadry99/repodocs/internal/docgen"
	"github.com/ziadkadry99/repodocs/internal/events"
	"github.com/ziadkadry99/repodocs/internal/registry"
	"github.com/ziadkadry99/repodocs/internal/render"
	"github.com/ziadkadry99/repodocs/internal/server"
)

// staleScratchAge is how old a scratch directory must be before the startup
// sweep removes it.
const staleScratchAge = time.Hour

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the repository documentation server",
	Long:  `Starts the repodocs REST API: register repositories, analyze them, generate documentation and stream analysis progress over websockets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		logger := newLogger(cfg, os.Stderr)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, closeFn, err := buildService(cfg, logger, true)
		if err != nil {
			return err
		}
		defer closeFn()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, logger)
		registry.RegisterRoutes(srv.Router(), registry.RoutesDeps{
			Service:  svc,
			Renderer: render.New(),
			Logger:   logger,
		})

		logger.Info("repodocs server starting",
			"version", Version,
			"port", cfg.Server.Port,
			"data_dir", cfg.Server.DataDir,
			"provider", cfg.Provider,
			"search", svc.Index() != nil,
		)
		return srv.Run(ctx)
	},
}

// buildService wires the store, analyzer, generator and optional search
// index into a registry.Service. withHub attaches an event hub for
// websocket subscribers. The returned func closes the database.
func buildService(cfg *config.Config, logger *slog.Logger, withHub bool) (*registry.Service, func(), error) {
	if err := os.MkdirAll(cfg.Server.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}

	f := newFetcher(cfg, logger)
	if n, err := f.Sweep(staleScratchAge); err != nil {
		logger.Warn("sweeping scratch directories", "root", f.Root(), "error", err)
	} else if n > 0 {
		logger.Info("removed stale scratch directories", "root", f.Root(), "count", n)
	}

	gen, err := newGenerator(cfg, logger)
	if err != nil {
		logger.Warn("LLM provider unavailable, documents use the fallback template", "error", err)
		gen = docgen.New(nil, docgen.WithLogger(logger))
	}

	dbPath := filepath.Join(cfg.Server.DataDir, "repodocs.db")
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	opts := []registry.ServiceOption{registry.WithLogger(logger)}
	if withHub {
		opts = append(opts, registry.WithHub(events.NewHub()))
	}
	idx, err := newSearchIndex(cfg, cfg.Server.DataDir)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	if idx != nil {
		logger.Info("search index loaded", "sections", idx.Count())
		opts = append(opts, registry.WithSearchIndex(idx.PersistTo(cfg.Server.DataDir, logger)))
	}

	svc := registry.NewService(registry.NewStore(database), newAnalyzer(cfg, f, logger), gen, opts...)
	return svc, func() { database.Close() }, nil
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
