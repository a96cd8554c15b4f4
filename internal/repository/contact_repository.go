package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"crm-import/internal/models"

	"github.com/jmoiron/sqlx"
)

type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (*models.Contact, error) {
	var contact models.Contact
	query := "SELECT * FROM contacts WHERE email = ? LIMIT 1"
	err := r.db.GetContext(ctx, &contact, query, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	query := `INSERT INTO contacts (email, first_name, last_name, phone, job_title,
	          company, notes, linkedin_url, customer_id)
	          VALUES (:email, :first_name, :last_name, :phone, :job_title,
	          :company, :notes, :linkedin_url, :customer_id)`
	result, err := r.db.NamedExecContext(ctx, query, contact)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	contact.ID = id
	return nil
}

func (r *ContactRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return updateFields(ctx, r.db, "contacts", id, fields)
}

// updateFields issues a partial UPDATE touching only the given columns.
func updateFields(ctx context.Context, db *sqlx.DB, table string, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	assignments := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	for column, value := range fields {
		assignments = append(assignments, column+" = ?")
		args = append(args, value)
	}
	assignments = append(assignments, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(assignments, ", "))
	_, err := db.ExecContext(ctx, query, args...)
	return err
}
