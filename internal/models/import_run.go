package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ImportType string

const (
	ImportTypeContacts      ImportType = "contacts"
	ImportTypeLeads         ImportType = "leads"
	ImportTypeOpportunities ImportType = "opportunities"
)

func (t ImportType) Valid() bool {
	switch t {
	case ImportTypeContacts, ImportTypeLeads, ImportTypeOpportunities:
		return true
	}
	return false
}

const (
	ImportStatusPending    = "pending"
	ImportStatusProcessing = "processing"
	ImportStatusCompleted  = "completed"
	ImportStatusFailed     = "failed"
)

// RunErrorCap bounds how many row errors are stored per run. Failures past
// the cap still increment the failure counter.
const RunErrorCap = 50

// ImportError records a single failed or skipped row. Row numbers are
// 1-based and include the header row, so the first data row is row 2.
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportErrorList is stored as a JSON column on import_runs.
type ImportErrorList []ImportError

func (l ImportErrorList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *ImportErrorList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("cannot scan %T into ImportErrorList", value)
}

// MappingData is the persisted field mapping: target field key -> source
// column header, plus the columns the user chose to ignore.
type MappingData struct {
	Fields         map[string]string `json:"fields"`
	IgnoredColumns []string          `json:"ignored_columns,omitempty"`
}

// NullableMapping is a nullable JSON column; a run has no mapping until the
// mapping step saves one.
type NullableMapping struct {
	Data  MappingData
	Valid bool
}

func (m NullableMapping) Value() (driver.Value, error) {
	if !m.Valid {
		return nil, nil
	}
	return json.Marshal(m.Data)
}

func (m *NullableMapping) Scan(value interface{}) error {
	if value == nil {
		m.Valid = false
		m.Data = MappingData{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into NullableMapping", value)
	}
	if err := json.Unmarshal(raw, &m.Data); err != nil {
		return err
	}
	m.Valid = true
	return nil
}

func (m NullableMapping) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Data)
}

func (m *NullableMapping) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		m.Valid = false
		m.Data = MappingData{}
		return nil
	}
	if err := json.Unmarshal(data, &m.Data); err != nil {
		return err
	}
	m.Valid = true
	return nil
}

// ImportRun is one upload-through-execution import job.
type ImportRun struct {
	ID           int64           `db:"id" json:"id"`
	RunCode      string          `db:"run_code" json:"run_code"`
	ImportType   ImportType      `db:"import_type" json:"import_type"`
	Filename     string          `db:"filename" json:"filename"`
	FileKey      string          `db:"file_key" json:"file_key"`
	Status       string          `db:"status" json:"status"`
	TotalRecords int             `db:"total_records" json:"total_records"`
	SuccessCount int             `db:"success_count" json:"success_count"`
	FailureCount int             `db:"failure_count" json:"failure_count"`
	Mapping      NullableMapping `db:"mapping" json:"mapping"`
	Errors       ImportErrorList `db:"errors" json:"errors"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	StartedAt    *time.Time      `db:"started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

func (r *ImportRun) Terminal() bool {
	return r.Status == ImportStatusCompleted || r.Status == ImportStatusFailed
}
