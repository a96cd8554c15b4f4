package repository

import (
	"context"
	"database/sql"
	"errors"

	"crm-import/internal/models"

	"github.com/jmoiron/sqlx"
)

type OpportunityRepository struct {
	db *sqlx.DB
}

func NewOpportunityRepository(db *sqlx.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

func (r *OpportunityRepository) GetByLeadAndTitle(ctx context.Context, leadID int64, title string) (*models.Opportunity, error) {
	var opp models.Opportunity
	query := "SELECT * FROM opportunities WHERE lead_id = ? AND title = ? LIMIT 1"
	err := r.db.GetContext(ctx, &opp, query, leadID, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

func (r *OpportunityRepository) Create(ctx context.Context, opp *models.Opportunity) error {
	query := `INSERT INTO opportunities (title, lead_id, stage, value, probability,
	          close_date, is_closed, is_won, assigned_user_id)
	          VALUES (:title, :lead_id, :stage, :value, :probability,
	          :close_date, :is_closed, :is_won, :assigned_user_id)`
	result, err := r.db.NamedExecContext(ctx, query, opp)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	opp.ID = id
	return nil
}

func (r *OpportunityRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return updateFields(ctx, r.db, "opportunities", id, fields)
}
