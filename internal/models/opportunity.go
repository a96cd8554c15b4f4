package models

import "time"

const OpportunityDefaultStage = "Prospecting"

type Opportunity struct {
	ID             int64      `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	LeadID         int64      `db:"lead_id" json:"lead_id"`
	Stage          string     `db:"stage" json:"stage"`
	Value          float64    `db:"value" json:"value"`
	Probability    *int       `db:"probability" json:"probability,omitempty"`
	CloseDate      *time.Time `db:"close_date" json:"close_date,omitempty"`
	IsClosed       bool       `db:"is_closed" json:"is_closed"`
	IsWon          bool       `db:"is_won" json:"is_won"`
	AssignedUserID *int64     `db:"assigned_user_id" json:"assigned_user_id,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
