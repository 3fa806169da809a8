// Package bench persists evaluation runs so force counts and timings
// can be compared across protocol revisions. The recorder is plain
// database/sql with the driver picked by name; writes happen off the
// evaluation path.
package bench

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"galaxy/internal/util/future"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded evaluation: which protocol, which expression,
// how many thunk forces it took, and how long it ran.
type Run struct {
	Protocol string
	Expr     string
	Evals    int64
	Duration time.Duration
	At       time.Time
}

type Recorder struct {
	db     *sql.DB
	driver string
}

var schemas = map[string]string{
	"sqlite3": `CREATE TABLE IF NOT EXISTS eval_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		protocol TEXT NOT NULL,
		expr TEXT NOT NULL,
		evals INTEGER NOT NULL,
		duration_us INTEGER NOT NULL,
		at TIMESTAMP NOT NULL)`,
	"mysql": `CREATE TABLE IF NOT EXISTS eval_runs (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		protocol VARCHAR(255) NOT NULL,
		expr TEXT NOT NULL,
		evals BIGINT NOT NULL,
		duration_us BIGINT NOT NULL,
		at DATETIME NOT NULL)`,
	"postgres": `CREATE TABLE IF NOT EXISTS eval_runs (
		id BIGSERIAL PRIMARY KEY,
		protocol TEXT NOT NULL,
		expr TEXT NOT NULL,
		evals BIGINT NOT NULL,
		duration_us BIGINT NOT NULL,
		at TIMESTAMP NOT NULL)`,
}

// Open connects with the named driver (sqlite3, mysql, or postgres),
// pings, and ensures the eval_runs table exists.
func Open(driver, dsn string) (*Recorder, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported bench driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	slog.Debug("bench recorder connected", slog.String("driver", driver))
	return &Recorder{db: db, driver: driver}, nil
}

// Record inserts a run and resolves to the new row id. The insert runs
// on its own goroutine so recording never stalls the next evaluation;
// callers that care about the id await the future.
func (r *Recorder) Record(run Run) *future.Future[int64] {
	return future.New(func() (int64, error) {
		if run.At.IsZero() {
			run.At = time.Now().UTC()
		}

		// lib/pq has no LastInsertId; postgres goes through RETURNING.
		if r.driver == "postgres" {
			var id int64
			err := r.db.QueryRow(
				`INSERT INTO eval_runs (protocol, expr, evals, duration_us, at)
				 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				run.Protocol, run.Expr, run.Evals, run.Duration.Microseconds(), run.At,
			).Scan(&id)
			if err != nil {
				return 0, fmt.Errorf("failed to record run: %w", err)
			}
			return id, nil
		}

		res, err := r.db.Exec(
			`INSERT INTO eval_runs (protocol, expr, evals, duration_us, at)
			 VALUES (?, ?, ?, ?, ?)`,
			run.Protocol, run.Expr, run.Evals, run.Duration.Microseconds(), run.At,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to record run: %w", err)
		}
		return res.LastInsertId()
	})
}

// Runs returns the recorded runs for a protocol, newest first.
func (r *Recorder) Runs(protocol string) ([]Run, error) {
	rows, err := r.db.Query(
		`SELECT protocol, expr, evals, duration_us, at FROM eval_runs
		 WHERE protocol = `+placeholder(r.driver, 1)+` ORDER BY id DESC`,
		protocol,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var us int64
		if err := rows.Scan(&run.Protocol, &run.Expr, &run.Evals, &us, &run.At); err != nil {
			return nil, err
		}
		run.Duration = time.Duration(us) * time.Microsecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *Recorder) Close() error {
	return r.db.Close()
}

func placeholder(driver string, n int) string {
	if driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
