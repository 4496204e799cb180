// Package app wires the workforce components from the server configuration.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tansive/tansive-workforce/internal/staffsrv/auth"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbmanager"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/memstore"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/postgresql"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/tenantdirectory"
	"github.com/tansive/tansive-workforce/internal/staffsrv/server"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffmanager"
)

const shutdownTimeout = 15 * time.Second

var controlPlaneRetry = []retry.Option{
	retry.Attempts(5),
	retry.Delay(1 * time.Second),
	retry.DelayType(retry.BackOffDelay),
	retry.LastErrorOnly(true),
}

// App holds the wired components. Close releases the database handles.
type App struct {
	Directory *tenantdirectory.Directory
	Manager   *staffmanager.Manager
	Tokens    *auth.TokenService
	// Memory is the backing store when storage is "memory".
	Memory *memstore.Store

	gateway dbmanager.Gateway
	cp      *sqlx.DB
}

func New(ctx context.Context, c *config.ConfigParam) (*App, error) {
	if c == nil {
		return nil, errors.New("configuration not loaded")
	}
	a := &App{}
	var (
		controlPlane db.ControlPlaneStore
		stores       db.StoreProvider
	)
	switch c.Storage {
	case config.StorageMemory:
		mem := memstore.New()
		for _, t := range c.Tenants {
			if t.Code == "" {
				continue
			}
			mem.AddTenant(t.Code, t.Database)
		}
		log.Ctx(ctx).Info().Int("tenants", len(c.Tenants)).Msg("using in-memory storage")
		a.Memory = mem
		controlPlane, stores = mem, mem
	default:
		conn, err := connectControlPlane(ctx, c.ControlPlane)
		if err != nil {
			return nil, errors.Wrap(err, "unable to connect to control plane")
		}
		a.cp = conn
		a.gateway = dbmanager.NewGateway(ctx, dbmanager.OptionsFromConfig(c))
		controlPlane = postgresql.NewControlPlaneStore(conn, c.ControlPlane.Database)
		stores = postgresql.NewStoreProvider(a.gateway)
		log.Ctx(ctx).Info().Str("pool_mode", c.Pool.Mode).Int("tenants", len(c.Tenants)).Msg("using postgresql storage")
	}

	a.Directory = tenantdirectory.New(controlPlane, c.Tenants)
	a.Manager = staffmanager.New(staffmanager.Config{
		Directory:         a.Directory,
		Stores:            stores,
		ControlPlane:      controlPlane,
		Hasher:            staffcommon.NewBcryptHasher(c.BcryptCost),
		EnrichConcurrency: c.EnrichConcurrency,
	})
	a.Tokens = auth.NewTokenService(c.Auth.TokenSecret, c.Auth.GetTokenExpiry())
	return a, nil
}

func connectControlPlane(ctx context.Context, conn config.DBConnConfig) (*sqlx.DB, error) {
	var cp *sqlx.DB
	opts := append([]retry.Option{retry.Context(ctx)}, controlPlaneRetry...)
	err := retry.Do(func() error {
		var err error
		cp, err = dbmanager.OpenControlPlane(ctx, dbmanager.DefaultDriver, conn)
		return err
	}, opts...)
	if err != nil {
		return nil, err
	}
	return cp, nil
}

// Handler returns the workforce router with every route mounted.
func (a *App) Handler() (http.Handler, error) {
	s, err := server.CreateNewServer(a.Manager, a.Tokens)
	if err != nil {
		return nil, err
	}
	s.MountHandlers()
	return s.Router, nil
}

// Serve listens on addr until ctx is cancelled, then drains in-flight
// requests.
func (a *App) Serve(ctx context.Context, addr string) error {
	h, err := a.Handler()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Ctx(ctx).Info().Str("addr", addr).Msg("workforce server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Ctx(ctx).Info().Msg("shutting down workforce server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a.gateway != nil {
		a.gateway.Close()
	}
	if a.cp != nil {
		if err := a.cp.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close control plane db")
		}
	}
}
