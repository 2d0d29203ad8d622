package commands

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/hardikramesh/botforge/internal/adapters/builder"
	"github.com/hardikramesh/botforge/internal/adapters/docker"
	apihttp "github.com/hardikramesh/botforge/internal/adapters/http"
	"github.com/hardikramesh/botforge/internal/signal"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the botforge API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			dockerAdapter, err := docker.NewAdapter(log)
			if err != nil {
				return err
			}
			builderAdapter, err := builder.NewAdapter(log, cfg.Build.TempDir)
			if err != nil {
				return err
			}
			journal := signal.NewJournal(cfg.Signal.JournalSize)

			handler := apihttp.NewHandler(dockerAdapter, builderAdapter, journal, cfg.Build, log)
			proxy := apihttp.NewProxyHandler(dockerAdapter, cfg.ProxyDomain, cfg.Build.AppPort, log)

			app := fiber.New(fiber.Config{DisableStartupMessage: true})

			// Subdomain traffic is routed to bot containers before the
			// API routes get a chance to match.
			app.Use(proxy.ProxyRequest)
			handler.Register(app)

			log.WithField("addr", cfg.ListenAddr).Info("server starting")
			return app.Listen(cfg.ListenAddr)
		},
	}
}
