package service

import (
	"fmt"

	"crm-import/internal/models"
)

// Field describes one logical target field that a sheet column can be mapped
// onto for a given import type.
type Field struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// Field keys shared across the row processors.
const (
	FieldEmail        = "email"
	FieldFirstName    = "firstName"
	FieldLastName     = "lastName"
	FieldFullName     = "fullName"
	FieldPhone        = "phone"
	FieldJobTitle     = "jobTitle"
	FieldCompany      = "company"
	FieldNotes        = "notes"
	FieldLinkedIn     = "linkedin"
	FieldCustomerName = "customerName"

	FieldTitle            = "title"
	FieldContactEmail     = "contactEmail"
	FieldContactFirstName = "contactFirstName"
	FieldContactLastName  = "contactLastName"
	FieldContactFullName  = "contactFullName"
	FieldContactPhone     = "contactPhone"
	FieldStatus           = "status"
	FieldSource           = "source"
	FieldOwnerEmail       = "ownerEmail"

	FieldLeadTitle   = "leadTitle"
	FieldStage       = "stage"
	FieldValue       = "value"
	FieldProbability = "probability"
	FieldCloseDate   = "closeDate"
	FieldIsClosed    = "isClosed"
	FieldIsWon       = "isWon"
)

var contactFields = []Field{
	{Key: FieldEmail, Label: "Email", Required: true},
	{Key: FieldFirstName, Label: "First Name"},
	{Key: FieldLastName, Label: "Last Name"},
	{Key: FieldFullName, Label: "Full Name"},
	{Key: FieldPhone, Label: "Phone"},
	{Key: FieldJobTitle, Label: "Job Title"},
	{Key: FieldCompany, Label: "Company"},
	{Key: FieldNotes, Label: "Notes"},
	{Key: FieldLinkedIn, Label: "LinkedIn URL"},
	{Key: FieldCustomerName, Label: "Customer Name"},
}

var leadFields = []Field{
	{Key: FieldTitle, Label: "Lead Title", Required: true},
	{Key: FieldContactEmail, Label: "Contact Email", Required: true},
	{Key: FieldContactFirstName, Label: "Contact First Name"},
	{Key: FieldContactLastName, Label: "Contact Last Name"},
	{Key: FieldContactFullName, Label: "Contact Full Name"},
	{Key: FieldContactPhone, Label: "Contact Phone"},
	{Key: FieldStatus, Label: "Status"},
	{Key: FieldSource, Label: "Source"},
	{Key: FieldNotes, Label: "Notes"},
	{Key: FieldCustomerName, Label: "Customer Name"},
	{Key: FieldOwnerEmail, Label: "Owner Email"},
}

var opportunityFields = []Field{
	{Key: FieldTitle, Label: "Opportunity Title", Required: true},
	{Key: FieldContactEmail, Label: "Contact Email", Required: true},
	{Key: FieldContactFullName, Label: "Contact Full Name"},
	{Key: FieldLeadTitle, Label: "Lead Title"},
	{Key: FieldStage, Label: "Stage"},
	{Key: FieldValue, Label: "Value"},
	{Key: FieldProbability, Label: "Probability"},
	{Key: FieldCloseDate, Label: "Close Date"},
	{Key: FieldIsClosed, Label: "Is Closed"},
	{Key: FieldIsWon, Label: "Is Won"},
	{Key: FieldCustomerName, Label: "Customer Name"},
	{Key: FieldOwnerEmail, Label: "Owner Email"},
}

// FieldsForType returns the mappable fields for an import type.
func FieldsForType(t models.ImportType) ([]Field, error) {
	switch t {
	case models.ImportTypeContacts:
		return contactFields, nil
	case models.ImportTypeLeads:
		return leadFields, nil
	case models.ImportTypeOpportunities:
		return opportunityFields, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}
