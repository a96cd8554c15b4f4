package repository

import (
	"context"
	"database/sql"
	"errors"

	"crm-import/internal/models"

	"github.com/jmoiron/sqlx"
)

type CustomerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByName performs a case-insensitive exact-name lookup.
func (r *CustomerRepository) GetByName(ctx context.Context, name string) (*models.Customer, error) {
	var customer models.Customer
	query := "SELECT * FROM customers WHERE LOWER(name) = LOWER(?) LIMIT 1"
	err := r.db.GetContext(ctx, &customer, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
