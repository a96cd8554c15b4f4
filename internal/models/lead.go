package models

import "time"

const LeadStatusNew = "NEW"

type Lead struct {
	ID             int64     `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	ContactID      int64     `db:"contact_id" json:"contact_id"`
	CustomerID     *int64    `db:"customer_id" json:"customer_id,omitempty"`
	AssignedUserID *int64    `db:"assigned_user_id" json:"assigned_user_id,omitempty"`
	Status         string    `db:"status" json:"status"`
	Source         string    `db:"source" json:"source"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
