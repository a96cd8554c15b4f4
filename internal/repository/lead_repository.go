package repository

import (
	"context"
	"database/sql"
	"errors"

	"crm-import/internal/models"

	"github.com/jmoiron/sqlx"
)

type LeadRepository struct {
	db *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) GetByContactAndTitle(ctx context.Context, contactID int64, title string) (*models.Lead, error) {
	var lead models.Lead
	query := "SELECT * FROM leads WHERE contact_id = ? AND title = ? LIMIT 1"
	err := r.db.GetContext(ctx, &lead, query, contactID, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	query := `INSERT INTO leads (title, contact_id, customer_id, assigned_user_id,
	          status, source, notes)
	          VALUES (:title, :contact_id, :customer_id, :assigned_user_id,
	          :status, :source, :notes)`
	result, err := r.db.NamedExecContext(ctx, query, lead)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	lead.ID = id
	return nil
}

func (r *LeadRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return updateFields(ctx, r.db, "leads", id, fields)
}
