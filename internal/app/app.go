package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/EpicMandM/reservation-system/internal/config"
	"github.com/EpicMandM/reservation-system/internal/handler"
	"github.com/EpicMandM/reservation-system/internal/logger"
	"github.com/EpicMandM/reservation-system/internal/models"
	"github.com/EpicMandM/reservation-system/internal/service"
	"github.com/EpicMandM/reservation-system/internal/store"
	"github.com/labstack/echo/v4"
)

type App struct {
	config  *config.Config
	logger  *logger.Logger
	store   store.Store
	service *service.ReservationService
	server  *echo.Echo
}

func New(cfg *config.Config, log *logger.Logger) *App {
	if log == nil {
		log = logger.Discard()
	}
	return &App{
		config: cfg,
		logger: log,
	}
}

// Initialize opens the configured store, loads seed fixtures into it when it
// is empty and builds the HTTP server.
func (a *App) Initialize(ctx context.Context) error {
	var fixtures []models.Reservation
	if a.config.SeedPath != "" {
		seed, err := config.LoadSeedConfig(a.config.SeedPath)
		if err != nil {
			return err
		}
		fixtures = seed.Fixtures()
	}

	st, err := a.openStore(ctx, fixtures)
	if err != nil {
		return err
	}
	a.store = st

	a.service = service.NewReservationService(a.logger, st)
	a.server = handler.NewServer(handler.NewAPIHandler(a.service, a.logger))
	return nil
}

func (a *App) openStore(ctx context.Context, fixtures []models.Reservation) (store.Store, error) {
	switch a.config.StoreDriver {
	case config.DriverMemory:
		st, err := store.NewMemoryStore(fixtures...)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Store opened", logger.F("DRIVER", config.DriverMemory), logger.Count(len(fixtures)))
		return st, nil
	case config.DriverSQLite:
		st, err := store.NewSQLiteStore(a.config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		seeded, err := seedIfEmpty(ctx, st, fixtures)
		if err != nil {
			if cerr := st.Close(); cerr != nil {
				return nil, errors.Join(err, cerr)
			}
			return nil, err
		}
		a.logger.Info("Store opened",
			logger.F("DRIVER", config.DriverSQLite),
			logger.F("PATH", a.config.DBPath),
			logger.Count(seeded))
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", a.config.StoreDriver)
	}
}

// seedIfEmpty saves fixtures only into a store with no reservations so a
// restart does not duplicate them. It returns the number saved.
func seedIfEmpty(ctx context.Context, st store.Store, fixtures []models.Reservation) (int, error) {
	if len(fixtures) == 0 {
		return 0, nil
	}
	existing, err := st.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect store before seeding: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, r := range fixtures {
		if _, err := st.Save(ctx, r); err != nil {
			return 0, fmt.Errorf("failed to seed reservation: %w", err)
		}
	}
	return len(fixtures), nil
}

// Handler exposes the HTTP API, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.server
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	ln, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.HTTPAddr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	if a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.server.Listener = ln

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", logger.Action("startup"), logger.F("ADDR", ln.Addr().String()))
		errCh <- a.server.Start("")
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server", logger.Action("shutdown"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	a.logger.Info("Store closed")
	return nil
}
