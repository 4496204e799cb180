// Package dbtest provides an in-process database/sql driver that records
// every statement it receives. Tests use it to observe connection lifecycle
// and SQL text without a PostgreSQL server.
package dbtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// Result is what the Responder returns for a statement.
type Result struct {
	Columns      []string
	Rows         [][]driver.Value
	RowsAffected int64
}

// Statement is one recorded call.
type Statement struct {
	DSN   string
	Query string
	Args  []driver.Value
}

// Responder decides the outcome of a statement. A nil Responder answers
// every statement with an empty result.
type Responder func(query string, args []driver.Value) (*Result, error)

type Driver struct {
	Name string

	mu         sync.Mutex
	statements []Statement
	responder  Responder

	Opens     atomic.Int64
	Closes    atomic.Int64
	Begins    atomic.Int64
	Commits   atomic.Int64
	Rollbacks atomic.Int64
	OpenErr   error
}

var seq atomic.Int64

// Register installs a new fake driver under a unique name.
func Register() *Driver {
	d := &Driver{Name: fmt.Sprintf("dbtest-%d", seq.Add(1))}
	sql.Register(d.Name, d)
	return d
}

func (d *Driver) SetResponder(r Responder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.responder = r
}

// Statements returns the recorded statements, excluding session SET commands.
func (d *Driver) Statements() []Statement {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Statement
	for _, s := range d.statements {
		if strings.HasPrefix(s.Query, "SET ") {
			continue
		}
		out = append(out, s)
	}
	return out
}

// AllStatements returns every recorded statement.
func (d *Driver) AllStatements() []Statement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Statement(nil), d.statements...)
}

// OpenConns returns the number of driver connections not yet closed.
func (d *Driver) OpenConns() int64 {
	return d.Opens.Load() - d.Closes.Load()
}

func (d *Driver) Open(dsn string) (driver.Conn, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	d.Opens.Add(1)
	return &conn{d: d, dsn: dsn}, nil
}

func (d *Driver) run(dsn, query string, args []driver.NamedValue) (*Result, error) {
	values := make([]driver.Value, len(args))
	for i, a := range args {
		values[i] = a.Value
	}
	d.mu.Lock()
	d.statements = append(d.statements, Statement{DSN: dsn, Query: query, Args: values})
	r := d.responder
	d.mu.Unlock()
	if r == nil || strings.HasPrefix(query, "SET ") {
		return &Result{}, nil
	}
	res, err := r(query, values)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &Result{}
	}
	return res, nil
}

type conn struct {
	d   *Driver
	dsn string
}

func (c *conn) Prepare(query string) (driver.Stmt, error) {
	return &stmt{c: c, query: query}, nil
}

func (c *conn) Close() error {
	c.d.Closes.Add(1)
	return nil
}

func (c *conn) Begin() (driver.Tx, error) {
	c.d.Begins.Add(1)
	return &tx{d: c.d}, nil
}

func (c *conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return c.Begin()
}

func (c *conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := c.d.run(c.dsn, query, args)
	if err != nil {
		return nil, err
	}
	return driver.RowsAffected(res.RowsAffected), nil
}

func (c *conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := c.d.run(c.dsn, query, args)
	if err != nil {
		return nil, err
	}
	return &rows{res: res}, nil
}

type stmt struct {
	c     *conn
	query string
}

func (s *stmt) Close() error  { return nil }
func (s *stmt) NumInput() int { return -1 }

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.c.ExecContext(context.Background(), s.query, named(args))
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.c.QueryContext(context.Background(), s.query, named(args))
}

func named(args []driver.Value) []driver.NamedValue {
	nv := make([]driver.NamedValue, len(args))
	for i, a := range args {
		nv[i] = driver.NamedValue{Ordinal: i + 1, Value: a}
	}
	return nv
}

type tx struct {
	d *Driver
}

func (t *tx) Commit() error {
	t.d.Commits.Add(1)
	return nil
}

func (t *tx) Rollback() error {
	t.d.Rollbacks.Add(1)
	return nil
}

type rows struct {
	res *Result
	pos int
}

func (r *rows) Columns() []string { return r.res.Columns }
func (r *rows) Close() error      { return nil }

func (r *rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.res.Rows) {
		return io.EOF
	}
	copy(dest, r.res.Rows[r.pos])
	r.pos++
	return nil
}
