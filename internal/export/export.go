// Package export runs every named SQL statement against the analytical
// database and writes each result as a CSV snapshot the dashboard can load.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/okian/hoops/internal/adapters/mq/queue"
	"github.com/okian/hoops/internal/adapters/mq/worker"
	"github.com/okian/hoops/internal/adapters/store"
	"github.com/okian/hoops/internal/domain/table"
	"github.com/okian/hoops/pkg/logger"
)

// Summary describes a finished run.
type Summary struct {
	Jobs     int
	Failed   int
	Bytes    int64
	Duration time.Duration
}

// Exporter dumps query results to CSV files.
type Exporter struct {
	querier     store.Querier
	sqlDir      string
	datasetsDir string
	workers     int
	logger      logger.Logger
}

// New creates an exporter reading statements from sqlDir and writing
// <name>.csv files into datasetsDir.
func New(q store.Querier, sqlDir, datasetsDir string, opts ...Option) *Exporter {
	e := &Exporter{
		querier:     q,
		sqlDir:      sqlDir,
		datasetsDir: datasetsDir,
		workers:     1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Get()
	}
	e.logger = e.logger.Named("export")
	return e
}

// Statements lists the *.sql files in the SQL directory by name.
func (e *Exporter) Statements() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(e.sqlDir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Run exports every statement. A failed statement does not stop the
// others; all failures are joined into the returned error.
func (e *Exporter) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	files, err := e.Statements()
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		return Summary{}, fmt.Errorf("%w: %s", ErrNoQueries, e.sqlDir)
	}
	if err := os.MkdirAll(e.datasetsDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(len(files)))
	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), ".sql")
		if !q.Enqueue(ctx, queue.Job{Name: name, Do: e.job(f, name)}) {
			_ = q.Close()
			return Summary{}, fmt.Errorf("%w: %s", queue.ErrRejected, name)
		}
	}
	_ = q.Close()

	pool := worker.NewPool(e.workers, q, worker.WithLogger(e.logger))
	e.logger.Info(ctx, "export started",
		logger.Int("statements", q.Len(ctx)),
		logger.Int("workers", pool.Size()))

	sum := Summary{}
	var errs []error
	results := pool.Start(ctx)
collect:
	for {
		select {
		case res, ok := <-results:
			if !ok {
				break collect
			}
			sum.Jobs++
			if res.Err != nil {
				sum.Failed++
				errs = append(errs, res.Err)
				continue
			}
			sum.Bytes += res.Bytes
			e.logger.Info(ctx, "dataset written",
				logger.String("dataset", res.Job),
				logger.String("size", humanize.Bytes(uint64(res.Bytes))),
				logger.String("took", res.Duration.Round(time.Millisecond).String()))
		case <-ctx.Done():
			// Jobs that ignore cancellation are waited on for a bounded time.
			if err := pool.Shutdown(context.WithoutCancel(ctx)); err != nil {
				errs = append(errs, err)
			}
			break collect
		}
	}
	sum.Duration = time.Since(start)
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}

	e.logger.Info(ctx, "export finished",
		logger.Int("jobs", sum.Jobs),
		logger.Int("failed", sum.Failed),
		logger.String("size", humanize.Bytes(uint64(sum.Bytes))))
	return sum, errors.Join(errs...)
}

func (e *Exporter) job(path, name string) func(context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return 0, err
		}
		t, err := e.querier.Query(ctx, string(b))
		if err != nil {
			return 0, err
		}
		return writeFile(filepath.Join(e.datasetsDir, name+".csv"), t)
	}
}

// writeFile writes t to path through a temp file so readers never see a
// partial snapshot.
func writeFile(path string, t *table.Table) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer os.Remove(tmp.Name())

	n, err := WriteCSV(tmp, t)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return n, nil
}

// WriteCSV writes a header row and one record per row, without an index
// column. It returns the number of bytes written.
func WriteCSV(w io.Writer, t *table.Table) (int64, error) {
	cw := &countingWriter{w: w}
	out := csv.NewWriter(cw)
	if err := out.Write(t.Columns); err != nil {
		return cw.n, err
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			rec[i] = csvValue(v)
		}
		if err := out.Write(rec); err != nil {
			return cw.n, err
		}
	}
	out.Flush()
	return cw.n, out.Error()
}

func csvValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return table.Format(v)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
