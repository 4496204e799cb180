package dbmanager

import (
	"context"
	"time"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/metrics"
)

// Querier runs parameterized statements against one tenant database.
// Statements must use positional $n parameters.
type Querier interface {
	// Select scans all rows into dest, a pointer to a slice.
	Select(ctx context.Context, dest any, query string, args ...any) apperrors.Error
	// Get scans a single row into dest. A missing row returns dberror.ErrNotFound.
	Get(ctx context.Context, dest any, query string, args ...any) apperrors.Error
	// Exec runs a statement and returns the number of rows affected.
	Exec(ctx context.Context, query string, args ...any) (int64, apperrors.Error)
}

// TenantDB is the Querier bound to one tenant database.
type TenantDB interface {
	Querier
	// Database returns the physical database name.
	Database() string
	// RunInTx runs fn in a single transaction on one connection. The
	// transaction is committed if fn returns nil and rolled back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, q Querier) apperrors.Error) apperrors.Error
}

// Gateway hands out tenant databases.
type Gateway interface {
	Tenant(conn config.DBConnConfig) TenantDB
	// Stats returns the connection and pool counters.
	Stats() Stats
	// Close releases every pool still open.
	Close()
}

type Stats struct {
	ConnRequests uint64
	ConnReturns  uint64
	PoolOpens    uint64
	PoolCloses   uint64
	OpenPools    int
}

type Options struct {
	DriverName       string
	Mode             string
	IdleTimeout      time.Duration
	StatementTimeout time.Duration
	LockTimeout      time.Duration
	MaxOpenConns     int
	Metrics          *metrics.GatewayMetrics
}

const DefaultDriver = "pgx"

// OptionsFromConfig maps the pool section of the server configuration.
func OptionsFromConfig(c *config.ConfigParam) Options {
	return Options{
		DriverName:       DefaultDriver,
		Mode:             c.Pool.Mode,
		IdleTimeout:      c.Pool.GetIdleTimeout(),
		StatementTimeout: c.Pool.GetStatementTimeout(),
		LockTimeout:      c.Pool.GetLockTimeout(),
		MaxOpenConns:     c.Pool.MaxOpenConns,
		Metrics:          metrics.Gateway,
	}
}

// NewGateway returns a gateway for opts.Mode. Unknown modes fall back to
// per_call.
func NewGateway(ctx context.Context, opts Options) Gateway {
	if opts.DriverName == "" {
		opts.DriverName = DefaultDriver
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 4
	}
	g := newPostgresGateway(opts)
	if opts.Mode == config.PoolModeRegistry {
		g.startSweeper(ctx)
	}
	return g
}
