// Package dbmanager provides the connection gateway used to reach tenant
// databases.
package dbmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	dbconfig "github.com/tansive/tansive-workforce/internal/staffsrv/db/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
)

// postgresGateway implements Gateway for both pool modes. In per_call mode
// every statement gets its own pool. In registry mode pools are keyed by the
// case-folded database name.
type postgresGateway struct {
	opts Options

	connRequests atomic.Uint64
	connReturns  atomic.Uint64
	poolOpens    atomic.Uint64
	poolCloses   atomic.Uint64

	mu    sync.Mutex
	pools map[string]*tenantPool

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type tenantPool struct {
	db       *sqlx.DB
	inUse    int
	lastUsed time.Time
}

var folder = cases.Fold()

func newPostgresGateway(opts Options) *postgresGateway {
	return &postgresGateway{
		opts:  opts,
		pools: make(map[string]*tenantPool),
		stop:  make(chan struct{}),
	}
}

func (g *postgresGateway) Tenant(conn config.DBConnConfig) TenantDB {
	return &tenantDB{g: g, conn: conn}
}

func (g *postgresGateway) Stats() Stats {
	g.mu.Lock()
	open := len(g.pools)
	g.mu.Unlock()
	if g.opts.Mode != config.PoolModeRegistry {
		open = int(g.poolOpens.Load() - g.poolCloses.Load())
	}
	return Stats{
		ConnRequests: g.connRequests.Load(),
		ConnReturns:  g.connReturns.Load(),
		PoolOpens:    g.poolOpens.Load(),
		PoolCloses:   g.poolCloses.Load(),
		OpenPools:    open,
	}
}

func (g *postgresGateway) Close() {
	g.stopOnce.Do(func() { close(g.stop) })
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, p := range g.pools {
		g.closePool(p.db)
		delete(g.pools, key)
	}
}

func (g *postgresGateway) openPool(ctx context.Context, conn config.DBConnConfig, maxConns int) (*sqlx.DB, apperrors.Error) {
	db, err := sqlx.Open(g.opts.DriverName, dbconfig.Dsn(conn))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("database", conn.Database).Msg("failed to open tenant db")
		return nil, dberror.ErrConnectionFailed.Err(err)
	}
	db.SetMaxOpenConns(maxConns)
	g.poolOpens.Add(1)
	if m := g.opts.Metrics; m != nil {
		m.PoolOpens.WithLabelValues(g.opts.Mode).Inc()
		m.OpenPools.Inc()
	}
	return db, nil
}

func (g *postgresGateway) closePool(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close tenant db")
	}
	g.poolCloses.Add(1)
	if m := g.opts.Metrics; m != nil {
		m.PoolCloses.WithLabelValues(g.opts.Mode).Inc()
		m.OpenPools.Dec()
	}
}

// acquire returns a connection to the tenant database with the session
// timeouts applied. release must be called exactly once.
func (g *postgresGateway) acquire(ctx context.Context, conn config.DBConnConfig) (c *sqlx.Conn, release func(), aerr apperrors.Error) {
	var (
		db       *sqlx.DB
		dropPool func()
	)
	if g.opts.Mode == config.PoolModeRegistry {
		db, dropPool, aerr = g.registryPool(ctx, conn)
	} else {
		db, aerr = g.openPool(ctx, conn, 1)
		if aerr == nil {
			dropPool = func() { g.closePool(db) }
		}
	}
	if aerr != nil {
		return nil, nil, aerr
	}

	c, err := db.Connx(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("database", conn.Database).Msg("failed to obtain connection")
		dropPool()
		return nil, nil, dberror.ErrConnectionFailed.Err(err)
	}
	g.connRequests.Add(1)
	if m := g.opts.Metrics; m != nil {
		m.ConnRequests.Inc()
	}

	release = func() {
		if err := c.Close(); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to return connection")
		}
		g.connReturns.Add(1)
		if m := g.opts.Metrics; m != nil {
			m.ConnReturns.Inc()
		}
		dropPool()
	}

	if err := g.setTimeouts(ctx, c); err != nil {
		release()
		return nil, nil, err
	}
	return c, release, nil
}

// registryPool returns the long lived pool for the tenant database, creating
// it on first use. The returned func marks the pool idle again.
func (g *postgresGateway) registryPool(ctx context.Context, conn config.DBConnConfig) (*sqlx.DB, func(), apperrors.Error) {
	key := folder.String(conn.Database)
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pools[key]
	if !ok {
		db, err := g.openPool(ctx, conn, g.opts.MaxOpenConns)
		if err != nil {
			return nil, nil, err
		}
		db.SetConnMaxIdleTime(g.opts.IdleTimeout)
		p = &tenantPool{db: db}
		g.pools[key] = p
	}
	p.inUse++
	p.lastUsed = time.Now()
	return p.db, func() {
		g.mu.Lock()
		p.inUse--
		p.lastUsed = time.Now()
		g.mu.Unlock()
	}, nil
}

func (g *postgresGateway) setTimeouts(ctx context.Context, c *sqlx.Conn) apperrors.Error {
	for _, s := range []struct {
		name string
		d    time.Duration
	}{
		{"lock_timeout", g.opts.LockTimeout},
		{"statement_timeout", g.opts.StatementTimeout},
	} {
		if s.d <= 0 {
			continue
		}
		if _, err := c.ExecContext(ctx, fmt.Sprintf("SET %s = %d", s.name, s.d.Milliseconds())); err != nil {
			log.Ctx(ctx).Error().Err(err).Msgf("failed to set %s", s.name)
			return dberror.ErrConnectionFailed.Err(err)
		}
	}
	return nil
}

func (g *postgresGateway) startSweeper(ctx context.Context) {
	interval := g.opts.IdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-g.stop:
				return
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				g.evictIdle(now)
			}
		}
	}()
}

// evictIdle closes registry pools that have not been used for IdleTimeout.
func (g *postgresGateway) evictIdle(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	evicted := 0
	for key, p := range g.pools {
		if p.inUse == 0 && now.Sub(p.lastUsed) >= g.opts.IdleTimeout {
			g.closePool(p.db)
			delete(g.pools, key)
			evicted++
		}
	}
	return evicted
}

type tenantDB struct {
	g    *postgresGateway
	conn config.DBConnConfig
}

func (t *tenantDB) Database() string {
	return t.conn.Database
}

func (t *tenantDB) withConn(ctx context.Context, op string, fn func(c *sqlx.Conn) error) (aerr apperrors.Error) {
	start := time.Now()
	defer func() {
		var err error
		if aerr != nil {
			err = aerr
		}
		t.g.opts.Metrics.ObserveQuery(op, start, err)
	}()

	c, release, aerr := t.g.acquire(ctx, t.conn)
	if aerr != nil {
		return aerr
	}
	defer release()

	if err := fn(c); err != nil {
		return queryError(ctx, t.conn.Database, err)
	}
	return nil
}

func (t *tenantDB) Select(ctx context.Context, dest any, query string, args ...any) apperrors.Error {
	return t.withConn(ctx, "select", func(c *sqlx.Conn) error {
		return c.SelectContext(ctx, dest, query, args...)
	})
}

func (t *tenantDB) Get(ctx context.Context, dest any, query string, args ...any) apperrors.Error {
	return t.withConn(ctx, "get", func(c *sqlx.Conn) error {
		return c.GetContext(ctx, dest, query, args...)
	})
}

func (t *tenantDB) Exec(ctx context.Context, query string, args ...any) (int64, apperrors.Error) {
	var n int64
	err := t.withConn(ctx, "exec", func(c *sqlx.Conn) error {
		res, err := c.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

func (t *tenantDB) RunInTx(ctx context.Context, fn func(ctx context.Context, q Querier) apperrors.Error) apperrors.Error {
	var fnErr apperrors.Error
	err := t.withConn(ctx, "tx", func(c *sqlx.Conn) error {
		tx, err := c.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		committed := false
		defer func() {
			if !committed {
				if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
					log.Ctx(ctx).Error().Err(err).Msg("failed to rollback transaction")
				}
			}
		}()
		if fnErr = fn(ctx, &txQuerier{tx: tx, database: t.conn.Database}); fnErr != nil {
			return nil
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		committed = true
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	return err
}

// txQuerier runs statements inside an open transaction.
type txQuerier struct {
	tx       *sqlx.Tx
	database string
}

func (q *txQuerier) Select(ctx context.Context, dest any, query string, args ...any) apperrors.Error {
	if err := q.tx.SelectContext(ctx, dest, query, args...); err != nil {
		return queryError(ctx, q.database, err)
	}
	return nil
}

func (q *txQuerier) Get(ctx context.Context, dest any, query string, args ...any) apperrors.Error {
	if err := q.tx.GetContext(ctx, dest, query, args...); err != nil {
		return queryError(ctx, q.database, err)
	}
	return nil
}

func (q *txQuerier) Exec(ctx context.Context, query string, args ...any) (int64, apperrors.Error) {
	res, err := q.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, queryError(ctx, q.database, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, queryError(ctx, q.database, err)
	}
	return n, nil
}

// Key predicates compare the column with the bound text, so postgres parses
// the key into the column type and reports 22P02 for one it cannot parse.
const pgerrInvalidTextRepresentation = "22P02"

// queryError maps a driver error to the application error kinds.
func queryError(ctx context.Context, database string, err error) apperrors.Error {
	if errors.Is(err, sql.ErrNoRows) {
		return dberror.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrInvalidTextRepresentation {
		log.Ctx(ctx).Debug().Err(err).Str("database", database).Msg("malformed key")
		return dberror.ErrMalformedKey
	}
	logger := log.Ctx(ctx).Error().Err(err).Str("database", database)
	if pgErr != nil {
		logger = logger.Str("sqlstate", pgErr.Code)
	}
	logger.Msg("failed to execute query")
	return dberror.ErrQueryExecutionFailed.Err(err)
}

// OpenControlPlane opens and pings the control plane database.
func OpenControlPlane(ctx context.Context, driverName string, conn config.DBConnConfig) (*sqlx.DB, error) {
	if driverName == "" {
		driverName = DefaultDriver
	}
	db, err := sqlx.Open(driverName, dbconfig.Dsn(conn))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to open control plane db")
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to ping control plane db")
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewDBQuerier wraps a long lived pool, such as the control plane, as a Querier.
func NewDBQuerier(db *sqlx.DB, database string) Querier {
	return &dbQuerier{db: db, database: database}
}

type dbQuerier struct {
	db       *sqlx.DB
	database string
}

func (q *dbQuerier) Select(ctx context.Context, dest any, query string, args ...any) apperrors.Error {
	if err := q.db.SelectContext(ctx, dest, query, args...); err != nil {
		return queryError(ctx, q.database, err)
	}
	return nil
}

func (q *dbQuerier) Get(ctx context.Context, dest any, query string, args ...any) apperrors.Error {
	if err := q.db.GetContext(ctx, dest, query, args...); err != nil {
		return queryError(ctx, q.database, err)
	}
	return nil
}

func (q *dbQuerier) Exec(ctx context.Context, query string, args ...any) (int64, apperrors.Error) {
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, queryError(ctx, q.database, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, queryError(ctx, q.database, err)
	}
	return n, nil
}
