package service

import (
	"fmt"
	"strings"

	"crm-import/internal/models"
)

// MappingPair is one user-submitted association between a sheet column and a
// logical target field.
type MappingPair struct {
	SourceColumn string `json:"source_column"`
	TargetField  string `json:"target_field"`
}

// ValidateMapping checks a submitted mapping against the sheet headers and
// the field registry for the import type, and returns the flat target-field
// to source-column map that gets persisted on the run.
//
// Checks run in order: unknown source column, unknown target field,
// duplicate target field, missing required field.
func ValidateMapping(t models.ImportType, headers []string, pairs []MappingPair) (map[string]string, error) {
	fields, err := FieldsForType(t)
	if err != nil {
		return nil, err
	}

	headerSet := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		headerSet[strings.TrimSpace(h)] = struct{}{}
	}

	allowed := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		allowed[f.Key] = struct{}{}
	}

	mapped := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		column := strings.TrimSpace(pair.SourceColumn)
		if _, ok := headerSet[column]; !ok {
			return nil, fmt.Errorf("%w: column %q does not exist in the uploaded file", ErrInvalidMapping, pair.SourceColumn)
		}
		if _, ok := allowed[pair.TargetField]; !ok {
			return nil, fmt.Errorf("%w: field %q is not a valid %s field", ErrInvalidMapping, pair.TargetField, t)
		}
		if _, ok := mapped[pair.TargetField]; ok {
			return nil, fmt.Errorf("%w: field %q is mapped more than once", ErrInvalidMapping, pair.TargetField)
		}
		mapped[pair.TargetField] = column
	}

	for _, f := range fields {
		if !f.Required {
			continue
		}
		if _, ok := mapped[f.Key]; !ok {
			return nil, fmt.Errorf("%w: required field %q is not mapped", ErrInvalidMapping, f.Key)
		}
	}

	return mapped, nil
}
