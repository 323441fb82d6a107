// Package store runs read-only SQL against the dashboard's data source:
// either an analytical SQLite file or a directory of CSV snapshots loaded
// into an in-memory database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver

	"github.com/okian/hoops/internal/domain/table"
	"github.com/okian/hoops/pkg/logger"
	"github.com/okian/hoops/pkg/metrics"
)

const driverName = "sqlite"

// duckDBMagic follows the 8-byte checksum that opens a DuckDB file.
const duckDBMagic = "DUCK"

// Source names reported in metrics and logs.
const (
	SourceCSV      = "csv"
	SourceDatabase = "database"
)

// Querier runs a statement and returns its result as a table.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*table.Table, error)
	// Relation returns a FROM-clause fragment for a named dataset.
	Relation(name string) string
}

// Store is a Querier over a database/sql handle.
type Store struct {
	db        *sql.DB
	source    string
	sqlDir    string
	relations map[string]string
	log       logger.Logger
}

var _ Querier = (*Store)(nil)

func newStore(source string, opts ...Option) *Store {
	s := &Store{
		source:    source,
		relations: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	s.log = s.log.Named("store")
	return s
}

// OpenDatabase opens the SQLite file at path read-only. Named statements in
// the SQL directory become sub-selects returned by Relation.
func OpenDatabase(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := newStore(SourceDatabase, opts...)

	if err := checkFormat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}
	s.db = db

	if err := s.loadStatements(); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.log.Info(ctx, "database opened",
		logger.String("path", path),
		logger.Int("statements", len(s.relations)))
	return s, nil
}

// checkFormat fails early on files the driver would only report as "file
// is not a database". The pipeline variable may still name its DuckDB file.
func checkFormat(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	head := make([]byte, 12)
	if n, _ := io.ReadFull(f, head); n == len(head) && string(head[8:]) == duckDBMagic {
		return fmt.Errorf("%w: %s is a DuckDB file; db_path must name a SQLite database", ErrOpen, path)
	}
	return nil
}

// loadStatements reads <sqlDir>/<name>.sql into the relation map.
func (s *Store) loadStatements() error {
	if s.sqlDir == "" {
		return nil
	}
	files, err := filepath.Glob(filepath.Join(s.sqlDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOpen, err)
		}
		stmt := strings.TrimRight(strings.TrimSpace(string(b)), ";")
		if stmt == "" {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(f), ".sql")
		s.relations[name] = "(" + stmt + ") AS " + quoteIdent(name)
	}
	return nil
}

// Source reports "csv" or "database".
func (s *Store) Source() string { return s.source }

// Relation returns the FROM-clause fragment for name. Unknown names are
// returned as a quoted identifier so the database reports the error.
func (s *Store) Relation(name string) string {
	if r, ok := s.relations[name]; ok {
		return r
	}
	return quoteIdent(name)
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Query runs query with args bound as parameters.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*table.Table, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordQueryError(s.source)
		s.log.Error(ctx, "query failed", logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	t, err := scanTable(rows)
	if err != nil {
		metrics.RecordQueryError(s.source)
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordQuery(s.source, elapsed, t.Len())
	s.log.Debug(ctx, "query done",
		logger.Int("rows", t.Len()),
		logger.Float64("ms", elapsed))
	return t, nil
}

func scanTable(rows *sql.Rows) (*table.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	declared := make([]string, len(types))
	for i, ct := range types {
		declared[i] = strings.ToUpper(ct.DatabaseTypeName())
	}

	t := table.New(cols...)
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i := range raw {
			raw[i] = normalize(raw[i], declared[i])
		}
		t.Append(raw...)
	}
	return t, rows.Err()
}

// normalize maps driver values onto the cell types table understands.
func normalize(v any, declared string) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int64:
		if declared == "BOOLEAN" || declared == "BOOL" {
			return x != 0
		}
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	default:
		return v
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
