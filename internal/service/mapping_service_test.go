package service

import (
	"testing"

	"crm-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMapping(t *testing.T) {
	headers := []string{"Email", "First", "Last"}

	fieldMap, err := ValidateMapping(models.ImportTypeContacts, headers, []MappingPair{
		{SourceColumn: "Email", TargetField: FieldEmail},
		{SourceColumn: " First ", TargetField: FieldFirstName},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		FieldEmail:     "Email",
		FieldFirstName: "First",
	}, fieldMap)
}

func TestValidateMappingRejects(t *testing.T) {
	headers := []string{"Email", "First"}

	tests := []struct {
		name    string
		pairs   []MappingPair
		message string
	}{
		{
			name:    "unknown source column",
			pairs:   []MappingPair{{SourceColumn: "Nope", TargetField: FieldEmail}},
			message: "does not exist",
		},
		{
			name: "unknown target field",
			pairs: []MappingPair{
				{SourceColumn: "Email", TargetField: FieldEmail},
				{SourceColumn: "First", TargetField: "favoriteColor"},
			},
			message: "not a valid",
		},
		{
			name: "duplicate target field",
			pairs: []MappingPair{
				{SourceColumn: "Email", TargetField: FieldEmail},
				{SourceColumn: "First", TargetField: FieldEmail},
			},
			message: "mapped more than once",
		},
		{
			name:    "missing required field",
			pairs:   []MappingPair{{SourceColumn: "First", TargetField: FieldFirstName}},
			message: "required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateMapping(models.ImportTypeContacts, headers, tt.pairs)
			require.ErrorIs(t, err, ErrInvalidMapping)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateMappingRequiredPerType(t *testing.T) {
	headers := []string{"Title"}

	_, err := ValidateMapping(models.ImportTypeLeads, headers, []MappingPair{
		{SourceColumn: "Title", TargetField: FieldTitle},
	})
	require.ErrorIs(t, err, ErrInvalidMapping)
	assert.Contains(t, err.Error(), FieldContactEmail)
}

func TestFieldsForType(t *testing.T) {
	for _, importType := range []models.ImportType{
		models.ImportTypeContacts, models.ImportTypeLeads, models.ImportTypeOpportunities,
	} {
		fields, err := FieldsForType(importType)
		require.NoError(t, err)
		assert.NotEmpty(t, fields)
	}

	_, err := FieldsForType(models.ImportType("tickets"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
