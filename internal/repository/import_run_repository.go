package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"crm-import/internal/models"

	"github.com/jmoiron/sqlx"
)

type ImportRunRepository struct {
	db *sqlx.DB
}

func NewImportRunRepository(db *sqlx.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

func (r *ImportRunRepository) Create(ctx context.Context, run *models.ImportRun) error {
	query := `INSERT INTO import_runs (run_code, import_type, filename, file_key, status,
	          total_records, success_count, failure_count, mapping, errors)
	          VALUES (:run_code, :import_type, :filename, :file_key, :status,
	          :total_records, :success_count, :failure_count, :mapping, :errors)`
	result, err := r.db.NamedExecContext(ctx, query, run)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	run.ID = id
	return nil
}

func (r *ImportRunRepository) GetByID(ctx context.Context, id int64) (*models.ImportRun, error) {
	var run models.ImportRun
	query := "SELECT * FROM import_runs WHERE id = ? LIMIT 1"
	err := r.db.GetContext(ctx, &run, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *ImportRunRepository) List(ctx context.Context, limit, offset int) ([]models.ImportRun, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM import_runs"); err != nil {
		return nil, 0, err
	}

	runs := []models.ImportRun{}
	query := "SELECT * FROM import_runs ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	if err := r.db.SelectContext(ctx, &runs, query, limit, offset); err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}

func (r *ImportRunRepository) Update(ctx context.Context, run *models.ImportRun) error {
	query := `UPDATE import_runs SET status = :status, total_records = :total_records,
	          success_count = :success_count, failure_count = :failure_count,
	          mapping = :mapping, errors = :errors, started_at = :started_at,
	          completed_at = :completed_at, updated_at = NOW() WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, run)
	return err
}

// MarkStaleProcessing fails runs that were started longer ago than olderThan
// and never reached a terminal status.
func (r *ImportRunRepository) MarkStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	query := `UPDATE import_runs SET status = ?, completed_at = NOW(), updated_at = NOW()
	          WHERE status = ? AND started_at IS NOT NULL AND started_at < ?`
	result, err := r.db.ExecContext(ctx, query, models.ImportStatusFailed, models.ImportStatusProcessing, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
