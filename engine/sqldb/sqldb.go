// Package sqldb provides an engine.Engine backed by database/sql.
//
// Statements are executed as rendered: values are already quoted into the
// SQL text by the dialect quoter, so nothing is bound as a parameter.
// Each dispatched statement is logged at debug level with its source tag
// and dialect.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/bawdo/relq/engine"
)

// sqliteDriver is the database/sql name modernc.org/sqlite registers.
const sqliteDriver = "sqlite"

// Engine executes rendered statements on a *sql.DB.
type Engine struct {
	*engine.DialectQuoter
	db     *sql.DB
	logger *slog.Logger
	dsn    string
}

var _ engine.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger statements are reported to. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Open connects to a database of the given dialect and verifies the
// connection with a ping.
func Open(ctx context.Context, dialect, dsn string, opts ...Option) (*Engine, error) {
	db, err := openDB(dialect, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqldb: ping %s: %w", Redact(dialect, dsn), err)
	}
	e, err := New(dialect, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	e.dsn = dsn
	return e, nil
}

func openDB(dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case engine.Postgres:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("sqldb: parse postgres dsn: %w", err)
		}
		return stdlib.OpenDB(*cfg), nil
	case engine.MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("sqldb: parse mysql dsn: %w", err)
		}
		conn, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("sqldb: mysql connector: %w", err)
		}
		return sql.OpenDB(conn), nil
	case engine.SQLite:
		db, err := sql.Open(sqliteDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("sqldb: open sqlite: %w", err)
		}
		// One connection, so an in-memory database is shared by every
		// statement.
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("sqldb: no driver for dialect %q", dialect)
	}
}

// New wraps an open database handle. The caller keeps ownership of db
// unless it calls Close on the returned Engine.
func New(dialect string, db *sql.DB, opts ...Option) (*Engine, error) {
	q, err := engine.NewQuoter(dialect)
	if err != nil {
		return nil, err
	}
	e := &Engine{DialectQuoter: q, db: db, logger: slog.Default()}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// DB returns the underlying handle.
func (e *Engine) DB() *sql.DB { return e.db }

// Close closes the underlying handle.
func (e *Engine) Close() error { return e.db.Close() }

// String describes the connection with any password masked.
func (e *Engine) String() string {
	if e.dsn == "" {
		return e.Dialect()
	}
	return e.Dialect() + " " + Redact(e.Dialect(), e.dsn)
}

func (e *Engine) log(ctx context.Context, op, source, query string, start time.Time, err error) {
	attrs := []slog.Attr{
		slog.String("op", op),
		slog.String("dialect", e.Dialect()),
		slog.String("sql", query),
		slog.Duration("elapsed", time.Since(start)),
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	e.logger.LogAttrs(ctx, slog.LevelDebug, "sqldb: dispatch", attrs...)
}

// Select runs a query and reads every row into the Result. RowsAffected
// is the number of rows read.
func (e *Engine) Select(ctx context.Context, query string) (res engine.Result, err error) {
	start := time.Now()
	defer func() { e.log(ctx, "select", "", query, start, err) }()

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return engine.Result{}, fmt.Errorf("sqldb: query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) (engine.Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return engine.Result{}, fmt.Errorf("sqldb: columns: %w", err)
	}
	res := engine.Result{Columns: columns}
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return engine.Result{}, fmt.Errorf("sqldb: scan: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return engine.Result{}, fmt.Errorf("sqldb: rows: %w", err)
	}
	res.RowsAffected = int64(len(res.Rows))
	return res, nil
}

// Insert executes an INSERT. LastInsertID is left at zero for drivers
// that do not report one (pgx).
func (e *Engine) Insert(ctx context.Context, query string) (res engine.Result, err error) {
	start := time.Now()
	defer func() { e.log(ctx, "insert", "", query, start, err) }()

	r, err := e.db.ExecContext(ctx, query)
	if err != nil {
		return engine.Result{}, fmt.Errorf("sqldb: exec: %w", err)
	}
	if res.RowsAffected, err = r.RowsAffected(); err != nil {
		return engine.Result{}, fmt.Errorf("sqldb: rows affected: %w", err)
	}
	if id, idErr := r.LastInsertId(); idErr == nil {
		res.LastInsertID = id
	}
	return res, nil
}

// Update executes an UPDATE on behalf of sourceTag.
func (e *Engine) Update(ctx context.Context, query, sourceTag string) (engine.Result, error) {
	return e.exec(ctx, "update", query, sourceTag)
}

// Delete executes a DELETE on behalf of sourceTag.
func (e *Engine) Delete(ctx context.Context, query, sourceTag string) (engine.Result, error) {
	return e.exec(ctx, "delete", query, sourceTag)
}

func (e *Engine) exec(ctx context.Context, op, query, sourceTag string) (res engine.Result, err error) {
	start := time.Now()
	defer func() { e.log(ctx, op, sourceTag, query, start, err) }()

	r, err := e.db.ExecContext(ctx, query)
	if err != nil {
		return engine.Result{}, fmt.Errorf("sqldb: exec: %w", err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return engine.Result{}, fmt.Errorf("sqldb: rows affected: %w", err)
	}
	return engine.Result{RowsAffected: n}, nil
}

// Redact masks the password in a DSN so it can be logged or printed.
func Redact(dialect, dsn string) string {
	if dialect == engine.MySQL {
		if cfg, err := mysql.ParseDSN(dsn); err == nil {
			if cfg.Passwd == "" {
				return dsn
			}
			cfg.Passwd = "****"
			return cfg.FormatDSN()
		}
	}

	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			// Rebuilt by hand so the mask is not percent-encoded.
			masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
			return masked
		}
		return dsn
	}

	// libpq keyword/value form: host=... password=...
	fields := strings.Fields(dsn)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
