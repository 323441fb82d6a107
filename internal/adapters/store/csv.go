package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/hoops/pkg/logger"
	"github.com/okian/hoops/pkg/metrics"
)

// Column affinities inferred from CSV text.
const (
	typeInteger = "INTEGER"
	typeReal    = "REAL"
	typeBoolean = "BOOLEAN"
	typeText    = "TEXT"
)

// LoadCSV loads every *.csv in dir into an in-memory database, one table
// per file named after the file stem.
func LoadCSV(ctx context.Context, dir string, opts ...Option) (*Store, error) {
	s := newStore(SourceCSV, opts...)

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCSV, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no csv files in %s", ErrLoadCSV, dir)
	}
	sort.Strings(files)

	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	s.db = db

	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		n, err := s.loadFile(ctx, name, f)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		metrics.RecordRowsLoaded(n)
		s.log.Info(ctx, "csv table loaded",
			logger.String("table", name),
			logger.Int("rows", n))
	}
	metrics.UpdateTablesLoaded(len(files))
	return s, nil
}

func (s *Store) loadFile(ctx context.Context, name, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLoadCSV, err)
	}
	defer f.Close()

	header, records, err := readCSV(f)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrLoadCSV, path, err)
	}
	return s.createTable(ctx, name, header, records)
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, nil, err
	}
	// the unnamed leading index column pandas writes by default
	if len(header) > 0 && header[0] == "" {
		header[0] = "index"
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return header, records, nil
}

func (s *Store) createTable(ctx context.Context, name string, header []string, records [][]string) (int, error) {
	types := inferTypes(len(header), records)

	defs := make([]string, len(header))
	marks := make([]string, len(header))
	for i, col := range header {
		defs[i] = quoteIdent(col) + " " + types[i]
		marks[i] = "?"
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrLoadCSV, name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLoadCSV, err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)",
		quoteIdent(name), strings.Join(marks, ", ")))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("%w: %w", ErrLoadCSV, err)
	}
	defer stmt.Close()

	args := make([]any, len(header))
	for _, rec := range records {
		for i := range args {
			args[i] = convert(rec[i], types[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("%w: %s: %w", ErrLoadCSV, name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLoadCSV, err)
	}
	return len(records), nil
}

// inferTypes picks the narrowest type every non-empty value of a column
// parses as. A column with no values is TEXT.
func inferTypes(width int, records [][]string) []string {
	types := make([]string, width)
	for c := 0; c < width; c++ {
		isInt, isReal, isBool, seen := true, true, true, false
		for _, rec := range records {
			v := strings.TrimSpace(rec[c])
			if v == "" {
				continue
			}
			seen = true
			if isInt {
				if _, err := strconv.ParseInt(v, 10, 64); err != nil {
					isInt = false
				}
			}
			if isReal {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					isReal = false
				}
			}
			if isBool {
				if l := strings.ToLower(v); l != "true" && l != "false" {
					isBool = false
				}
			}
		}
		switch {
		case !seen:
			types[c] = typeText
		case isInt:
			types[c] = typeInteger
		case isReal:
			types[c] = typeReal
		case isBool:
			types[c] = typeBoolean
		default:
			types[c] = typeText
		}
	}
	return types
}

func convert(v, typ string) any {
	t := strings.TrimSpace(v)
	if t == "" {
		return nil
	}
	switch typ {
	case typeInteger:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	case typeReal:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	case typeBoolean:
		return strings.EqualFold(t, "true")
	default:
		return v
	}
}
