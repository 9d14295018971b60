// Package history records finished runs and their per-category statistics in
// a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eunmann/content-filter/pkg/classify"
	"github.com/eunmann/content-filter/pkg/logging"
	"github.com/eunmann/content-filter/pkg/pipeline"
	"github.com/eunmann/content-filter/pkg/report"
)

// Config holds configuration for the history store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string
	// Synchronous sets the SQLite synchronous pragma: OFF, NORMAL or FULL.
	Synchronous string
	// BusyTimeout is how long a write waits for a lock held by another run.
	BusyTimeout time.Duration
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:      dbPath,
		Synchronous: "NORMAL",
		BusyTimeout: 5 * time.Second,
	}
}

// Validate checks configuration values and returns an error for invalid settings.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("DBPath is required")
	}
	switch c.Synchronous {
	case "", "OFF", "NORMAL", "FULL":
	default:
		return fmt.Errorf("invalid Synchronous value %q: must be OFF, NORMAL, or FULL", c.Synchronous)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("BusyTimeout must be non-negative, got %s", c.BusyTimeout)
	}
	return nil
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CategoryStats is the stored summary of one category. Numeric values are
// kept as report text so integer sums stay exact.
type CategoryStats struct {
	Category classify.Category
	Count    uint64
	Min      string
	Max      string
	Sum      string
	Average  string
}

// Run is one recorded run.
type Run struct {
	ID           string
	Started      time.Time
	Elapsed      time.Duration
	OutputDir    string
	Prefix       string
	Append       bool
	Inputs       int
	FailedInputs int
	BlankLines   int64
	Categories   []CategoryStats
}

// RunFromResult builds the record of a finished pipeline run. Categories
// that received no lines are left out.
func RunFromResult(id string, opts pipeline.Options, res *pipeline.Result) Run {
	run := Run{
		ID:           id,
		Started:      res.Started,
		Elapsed:      res.Elapsed,
		OutputDir:    opts.OutputDir,
		Prefix:       opts.Prefix,
		Append:       opts.Append,
		Inputs:       len(res.Inputs),
		FailedInputs: len(res.Failed()),
		BlankLines:   res.BlankLines,
	}

	for _, c := range classify.Categories {
		if res.Count(c) == 0 {
			continue
		}
		cs := CategoryStats{Category: c, Count: res.Count(c)}
		switch c {
		case classify.Integer:
			n := res.Integers
			cs.Min = strconv.FormatInt(n.Min(), 10)
			cs.Max = strconv.FormatInt(n.Max(), 10)
			cs.Sum = n.Sum().Num().String()
			cs.Average = report.FormatFloat(n.Average())
		case classify.Float:
			n := res.Floats
			cs.Min = report.FormatFloat(n.Min())
			cs.Max = report.FormatFloat(n.Max())
			cs.Sum = report.FormatFloat(n.SumFloat64())
			cs.Average = report.FormatFloat(n.Average())
		case classify.String:
			cs.Min = strconv.Itoa(res.Strings.MinLength())
			cs.Max = strconv.Itoa(res.Strings.MaxLength())
		}
		run.Categories = append(run.Categories, cs)
	}
	return run
}

// Store is an open history database.
type Store struct {
	db  *sql.DB
	cfg Config
}

// Open creates or opens the history database at cfg.DBPath.
func Open(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logging.WithPhase("history_open")

	// Connection-scoped settings go in the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on", cfg.DBPath, cfg.BusyTimeout.Milliseconds())
	if cfg.Synchronous != "" {
		dsn += "&_synchronous=" + cfg.Synchronous
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Str("synchronous", cfg.Synchronous).
		Msg("opened history database")

	return &Store{db: db, cfg: cfg}, nil
}

func createSchema(db *sql.DB) error {
	createRuns := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			output_dir TEXT NOT NULL,
			prefix TEXT NOT NULL,
			append INTEGER NOT NULL,
			inputs INTEGER NOT NULL,
			failed_inputs INTEGER NOT NULL,
			blank_lines INTEGER NOT NULL
		)
	`

	createCategories := `
		CREATE TABLE IF NOT EXISTS run_categories (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			count INTEGER NOT NULL,
			min TEXT NOT NULL,
			max TEXT NOT NULL,
			sum TEXT NOT NULL,
			average TEXT NOT NULL,
			PRIMARY KEY (run_id, category)
		)
	`

	if _, err := db.Exec(createRuns); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	if _, err := db.Exec(createCategories); err != nil {
		return fmt.Errorf("create run_categories table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores run and its categories in one transaction.
func (s *Store) Record(ctx context.Context, run Run) error {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, elapsed_ms, output_dir, prefix, append, inputs, failed_inputs, blank_lines)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Started.UTC().Format(timeLayout), run.Elapsed.Milliseconds(),
		run.OutputDir, run.Prefix, run.Append, run.Inputs, run.FailedInputs, run.BlankLines)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_categories (run_id, category, count, min, max, sum, average)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare category insert: %w", err)
	}
	defer stmt.Close()

	for _, cs := range run.Categories {
		_, err := stmt.ExecContext(ctx, run.ID, cs.Category.String(), int64(cs.Count),
			cs.Min, cs.Max, cs.Sum, cs.Average)
		if err != nil {
			return fmt.Errorf("insert %s stats: %w", cs.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}

	logging.NewCompletionEvent(logging.WithPhase("history"), "run_recorded", "history", time.Since(start)).
		Str("run_id", run.ID).
		Str("db_path", s.cfg.DBPath).
		Int("categories", len(run.Categories)).
		LogDebug("recorded run")
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, elapsed_ms, output_dir, prefix, append, inputs, failed_inputs, blank_lines
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			started   string
			elapsedMS int64
		)
		if err := rows.Scan(&run.ID, &started, &elapsedMS, &run.OutputDir, &run.Prefix,
			&run.Append, &run.Inputs, &run.FailedInputs, &run.BlankLines); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Started, err = time.Parse(timeLayout, started)
		if err != nil {
			return nil, fmt.Errorf("parse started_at of run %s: %w", run.ID, err)
		}
		run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		cats, err := s.categories(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Categories = cats
	}
	return runs, nil
}

func (s *Store) categories(ctx context.Context, runID string) ([]CategoryStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, count, min, max, sum, average
		FROM run_categories
		WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query categories of run %s: %w", runID, err)
	}
	defer rows.Close()

	var cats []CategoryStats
	for rows.Next() {
		var (
			cs    CategoryStats
			name  string
			count int64
		)
		if err := rows.Scan(&name, &count, &cs.Min, &cs.Max, &cs.Sum, &cs.Average); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c, ok := classify.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("run %s: unknown category %q", runID, name)
		}
		cs.Category = c
		cs.Count = uint64(count)
		cats = append(cats, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Stored order is not guaranteed; keep category order.
	ordered := make([]CategoryStats, 0, len(cats))
	for _, c := range classify.Categories {
		for _, cs := range cats {
			if cs.Category == c {
				ordered = append(ordered, cs)
			}
		}
	}
	return ordered, nil
}
