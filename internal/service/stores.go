package service

import (
	"context"
	"time"

	"crm-import/internal/models"
)

// Store interfaces consumed by the import pipeline. The sqlx repositories in
// internal/repository implement them; tests use in-memory fakes.
//
// Lookup methods return (nil, nil) when no entity matches.

type RunStore interface {
	Create(ctx context.Context, run *models.ImportRun) error
	GetByID(ctx context.Context, id int64) (*models.ImportRun, error)
	List(ctx context.Context, limit, offset int) ([]models.ImportRun, int, error)
	Update(ctx context.Context, run *models.ImportRun) error
	MarkStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error)
}

type ContactStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

type CustomerStore interface {
	// GetByName performs a case-insensitive exact-name lookup.
	GetByName(ctx context.Context, name string) (*models.Customer, error)
}

type UserStore interface {
	// GetByEmail performs a case-insensitive email lookup.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type LeadStore interface {
	GetByContactAndTitle(ctx context.Context, contactID int64, title string) (*models.Lead, error)
	Create(ctx context.Context, lead *models.Lead) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

type OpportunityStore interface {
	GetByLeadAndTitle(ctx context.Context, leadID int64, title string) (*models.Opportunity, error)
	Create(ctx context.Context, opp *models.Opportunity) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

// FileStore is the blob storage collaborator; storage.LocalStore implements it.
type FileStore interface {
	Save(key string, data []byte) error
	Read(key string) ([]byte, error)
}
