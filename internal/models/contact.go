package models

import "time"

type Contact struct {
	ID          int64     `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Phone       string    `db:"phone" json:"phone"`
	JobTitle    string    `db:"job_title" json:"job_title"`
	Company     string    `db:"company" json:"company"`
	Notes       string    `db:"notes" json:"notes"`
	LinkedInURL string    `db:"linkedin_url" json:"linkedin_url"`
	CustomerID  *int64    `db:"customer_id" json:"customer_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
