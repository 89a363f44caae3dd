// Package gateway owns a single live database connection and executes
// queries against it, decoding result rows into name-keyed records. All
// statements run inside one open transaction context until an explicit
// Commit or Rollback, matching session semantics with autocommit off.
//
// A Gateway is an explicit handle, not a process-wide singleton: create one,
// inject it into the repositories that need it. It performs no internal
// locking; concurrent use from multiple goroutines requires external
// synchronization or one gateway per worker, since interleaved statements
// would share the same connection.
package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leapstack-labs/rowmodel/pkg/query"
	"github.com/leapstack-labs/rowmodel/pkg/record"
)

// Usage errors. These indicate a caller bug, not a runtime fault, and are
// checked with errors.Is.
var (
	// ErrNoConnection is returned when a query runs before Connect.
	ErrNoConnection = errors.New("no database connection")

	// ErrAlreadyConnected is returned when Connect is called twice.
	ErrAlreadyConnected = errors.New("database connection already exists")
)

// Gateway executes queries over one pinned connection.
type Gateway struct {
	logger  *slog.Logger
	session string
	dialect string

	db   *sql.DB
	conn *sql.Conn
	tx   *sql.Tx
}

// New creates an unconnected gateway. If logger is nil, a discard logger
// is used.
func New(logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gateway{
		logger:  logger,
		session: uuid.New().String(),
	}
}

// Connect opens the connection described by cfg, verifies it with a ping,
// and begins the initial transaction. A second call fails with
// ErrAlreadyConnected.
func (g *Gateway) Connect(ctx context.Context, cfg Config) error {
	if g.db != nil {
		return ErrAlreadyConnected
	}

	driver, dsn, err := cfg.dsn()
	if err != nil {
		return err
	}

	g.logger.Debug("connecting",
		slog.String("session", g.session),
		slog.String("type", cfg.Type),
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", cfg.Type, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s: %w", cfg.Type, err)
	}

	return g.OpenDB(ctx, db, cfg.Type)
}

// OpenDB adopts an already-opened handle instead of dialing one from a
// Config. dialect names the engine behind db (TypePostgres, TypeSQLite) so
// models can pick engine-appropriate SQL. The gateway takes ownership: Close
// closes db. Fails with ErrAlreadyConnected when a connection is already
// held.
func (g *Gateway) OpenDB(ctx context.Context, db *sql.DB, dialect string) error {
	if g.db != nil {
		return ErrAlreadyConnected
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to pin connection: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	g.db = db
	g.conn = conn
	g.tx = tx
	g.dialect = dialect
	return nil
}

// Connected reports whether the gateway holds a live connection.
func (g *Gateway) Connected() bool {
	return g.db != nil
}

// DialectName returns the SQL dialect of the connected engine, or the empty
// string before Connect.
func (g *Gateway) DialectName() string {
	return g.dialect
}

// Session returns the gateway's session id, attached to every log line.
func (g *Gateway) Session() string {
	return g.session
}

// Commit commits the current transaction and begins a fresh one, so the
// session keeps executing inside a transaction context.
func (g *Gateway) Commit(ctx context.Context) error {
	if g.tx == nil {
		return ErrNoConnection
	}

	g.logger.Debug("commit", slog.String("session", g.session))
	if err := g.tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return g.restartTx(ctx)
}

// Rollback discards the current transaction and begins a fresh one. Calling
// it on a gateway that never connected is a no-op, so cleanup paths can call
// it unconditionally.
func (g *Gateway) Rollback(ctx context.Context) error {
	if g.tx == nil {
		return nil
	}

	g.logger.Debug("rollback", slog.String("session", g.session))
	if err := g.tx.Rollback(); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return g.restartTx(ctx)
}

// Close rolls back any open transaction and releases the connection. Safe
// to call on a gateway that never connected.
func (g *Gateway) Close() error {
	if g.db == nil {
		return nil
	}

	if g.tx != nil {
		_ = g.tx.Rollback()
		g.tx = nil
	}
	if g.conn != nil {
		_ = g.conn.Close()
		g.conn = nil
	}

	err := g.db.Close()
	g.db = nil
	g.dialect = ""
	if err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// restartTx begins the next transaction after a commit or rollback. If the
// engine refuses, the session is unusable: the gateway closes itself so
// Connected() reports the truth, and the caller gets the engine's error
// rather than a misleading usage error on the next statement.
func (g *Gateway) restartTx(ctx context.Context) error {
	tx, err := g.conn.BeginTx(ctx, nil)
	if err != nil {
		g.tx = nil
		_ = g.Close()
		return fmt.Errorf("session lost: failed to begin transaction: %w", err)
	}
	g.tx = tx
	return nil
}

// bind resolves a query into driver-ready SQL and arguments, logging the
// rendered statement.
func (g *Gateway) bind(q *query.Query) (string, []any, error) {
	if g.tx == nil {
		return "", nil, ErrNoConnection
	}

	sqlText, args, err := q.Bind()
	if err != nil {
		return "", nil, fmt.Errorf("failed to bind query arguments: %w", err)
	}

	g.logger.Debug("executing",
		slog.String("session", g.session),
		slog.String("query", q.String()))

	return sqlText, args, nil
}

// Execute runs a statement that returns no rows (INSERT without RETURNING,
// UPDATE, DDL). Engine errors propagate unchanged apart from wrapping; no
// retry is attempted, since the statement may not be idempotent.
func (g *Gateway) Execute(ctx context.Context, q *query.Query) (sql.Result, error) {
	sqlText, args, err := g.bind(q)
	if err != nil {
		return nil, err
	}

	res, err := g.tx.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return res, nil
}

// GetOne runs q and decodes at most one row. An empty result set returns
// (nil, nil): absence is a valid outcome, not a fault.
func (g *Gateway) GetOne(ctx context.Context, q *query.Query) (record.Record, error) {
	sqlText, args, err := g.bind(q)
	if err != nil {
		return nil, err
	}

	rows, err := g.tx.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return record.DecodeOne(rows)
}

// GetAll runs q and decodes every returned row, preserving row order.
func (g *Gateway) GetAll(ctx context.Context, q *query.Query) ([]record.Record, error) {
	sqlText, args, err := g.bind(q)
	if err != nil {
		return nil, err
	}

	rows, err := g.tx.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return record.Decode(rows)
}
