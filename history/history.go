// Package history records training runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ezoic/lifeexp/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS training_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at DATETIME NOT NULL,
    duration_ms INTEGER NOT NULL,
    epochs INTEGER NOT NULL,
    learning_rate REAL NOT NULL,
    samples INTEGER NOT NULL,
    initial_weight REAL NOT NULL,
    initial_bias REAL NOT NULL,
    final_weight REAL,
    final_bias REAL,
    final_loss REAL,
    weights_path TEXT NOT NULL
);
`

// Run is one completed training run.
type Run struct {
	ID            int64
	StartedAt     time.Time
	Duration      time.Duration
	Epochs        int
	LearningRate  float64
	Samples       int
	InitialWeight float64
	InitialBias   float64
	FinalWeight   float64
	FinalBias     float64
	FinalLoss     float64
	WeightsPath   string
}

// Store is a training run ledger.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open history %s", path)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "create history schema in %s", path)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts r and returns its id.
func (s *Store) Record(ctx context.Context, r Run) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO training_runs (
            started_at, duration_ms, epochs, learning_rate, samples,
            initial_weight, initial_bias, final_weight, final_bias, final_loss,
            weights_path
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UTC(), r.Duration.Milliseconds(), r.Epochs, r.LearningRate, r.Samples,
		r.InitialWeight, r.InitialBias, nullable(r.FinalWeight), nullable(r.FinalBias), nullable(r.FinalLoss),
		r.WeightsPath,
	)
	if err != nil {
		return 0, errors.Wrap(err, "record training run")
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, errors.NewValidationError("limit", "must be positive", limit)
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, started_at, duration_ms, epochs, learning_rate, samples,
               initial_weight, initial_bias, final_weight, final_bias, final_loss,
               weights_path
        FROM training_runs
        ORDER BY started_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query training runs")
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		var (
			r                  Run
			durationMs         int64
			weight, bias, loss sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &r.StartedAt, &durationMs, &r.Epochs, &r.LearningRate, &r.Samples,
			&r.InitialWeight, &r.InitialBias, &weight, &bias, &loss, &r.WeightsPath); err != nil {
			return nil, errors.Wrap(err, "scan training run")
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.FinalWeight = fromNullable(weight)
		r.FinalBias = fromNullable(bias)
		r.FinalLoss = fromNullable(loss)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SQLite stores NaN as NULL; diverged runs are kept as NULL and read back
// as NaN.
func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
