package service

import (
	"context"
)

type rowOutcome int

const (
	outcomeCreated rowOutcome = iota
	outcomeUpdated
	outcomeSkipped
	outcomeFailed
)

// rowResult is the tagged per-row outcome. Skips and failures carry a
// message; row-scoped problems become results, never errors, so one bad row
// cannot abort the run.
type rowResult struct {
	outcome rowOutcome
	message string
}

func created() rowResult               { return rowResult{outcome: outcomeCreated} }
func updated() rowResult               { return rowResult{outcome: outcomeUpdated} }
func skipped(message string) rowResult { return rowResult{outcome: outcomeSkipped, message: message} }
func failed(message string) rowResult  { return rowResult{outcome: outcomeFailed, message: message} }

// rowProcessor handles one row of a specific import type. Returned errors are
// caught by the orchestrator and converted to failed outcomes.
type rowProcessor interface {
	processRow(ctx context.Context, rs *resolverSet, m mappedRow, opts ExecuteOptions) (rowResult, error)
}

// mappedRow reads row cells through the saved field mapping.
type mappedRow struct {
	row    RowRecord
	fields map[string]string
}

// get returns the cell value for a logical field, or "" when the field is
// unmapped or the cell is blank.
func (m mappedRow) get(fieldKey string) string {
	column, ok := m.fields[fieldKey]
	if !ok {
		return ""
	}
	return m.row.Get(column)
}

// has reports whether the field is mapped and the cell holds a value. Partial
// updates only touch fields for which this is true.
func (m mappedRow) has(fieldKey string) bool {
	return m.get(fieldKey) != ""
}
