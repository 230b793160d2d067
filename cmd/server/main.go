package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/EpicMandM/reservation-system/internal/app"
	"github.com/EpicMandM/reservation-system/internal/config"
	"github.com/EpicMandM/reservation-system/internal/logger"
	"github.com/spf13/cobra"
)

// serveOptions holds flags for the serve command.
type serveOptions struct {
	EnvFile string
	Addr    string
}

func main() {
	log := logger.New()
	if err := newRootCommand(log).Execute(); err != nil {
		log.Error("Application error", logger.Error(err))
		os.Exit(1)
	}
}

func newRootCommand(log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reservation-server",
		Short:         "Room reservation service",
		Long:          "Serves the room reservation API: create, update, approve, cancel and delete reservations without double-booking a room.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCommand(log))
	return cmd
}

func newServeCommand(log *logger.Logger) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				log.Error("Failed to load config", logger.Error(err), logger.F("path", opts.EnvFile))
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}

	cmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "optional .env file with infrastructure settings")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address, overrides HTTP_ADDR")
	return cmd
}

func loadConfig(opts *serveOptions) (*config.Config, error) {
	cfg, err := config.LoadWithFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	if opts.Addr != "" {
		cfg.HTTPAddr = opts.Addr
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	application := app.New(cfg, log)
	if err := application.Initialize(ctx); err != nil {
		log.Error("Failed to initialize application", logger.Error(err))
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("Failed to close application", logger.Error(err))
		}
	}()

	return application.Run(ctx)
}
