package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/erldoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ erldoc.RunService = (*RunService)(nil)

// RunService implements erldoc.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores a run and its module results in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *erldoc.Run, results []*erldoc.ModuleResult) error {
	for _, r := range results {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	run.ID = uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, saved, failed, changed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Saved, run.Failed, run.Changed); err != nil {
		return err
	}

	for _, r := range results {
		r.RunID = run.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO module_results (run_id, module, stage, kind, message, content_hash)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.RunID, r.Module, string(r.Stage), r.Kind, r.Message, r.ContentHash); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*erldoc.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, saved, failed, changed
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, erldoc.Errorf(erldoc.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter erldoc.RunFilter) ([]*erldoc.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, started_at, finished_at, saved, failed, changed FROM runs ORDER BY rowid DESC")
	if filter.Offset > 0 && filter.Limit <= 0 {
		query.WriteString(" LIMIT -1")
	}
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*erldoc.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// FindModuleResults retrieves the module results of a run ordered by module.
func (s *RunService) FindModuleResults(ctx context.Context, runID string) ([]*erldoc.ModuleResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, module, stage, kind, message, content_hash
		FROM module_results
		WHERE run_id = ?
		ORDER BY module
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*erldoc.ModuleResult
	for rows.Next() {
		var r erldoc.ModuleResult
		var stage string
		if err := rows.Scan(&r.RunID, &r.Module, &stage, &r.Kind, &r.Message, &r.ContentHash); err != nil {
			return nil, err
		}
		r.Stage = erldoc.Stage(stage)
		results = append(results, &r)
	}

	return results, rows.Err()
}

// LatestContentHashes returns, per module, the content hash of its most
// recent completed run.
func (s *RunService) LatestContentHashes(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.module, m.content_hash
		FROM module_results m
		JOIN runs r ON r.id = m.run_id
		WHERE m.stage = ?
		ORDER BY r.rowid
	`, string(erldoc.StageDone))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var module, hash string
		if err := rows.Scan(&module, &hash); err != nil {
			return nil, err
		}
		hashes[module] = hash
	}

	return hashes, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*erldoc.Run, error) {
	var run erldoc.Run
	var startedAt, finishedAt string

	if err := row.Scan(&run.ID, &startedAt, &finishedAt, &run.Saved, &run.Failed, &run.Changed); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
