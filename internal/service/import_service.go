package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"crm-import/internal/models"
	"crm-import/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnsupportedType      = errors.New("unsupported import type")
	ErrRunNotFound          = errors.New("import run not found")
	ErrMappingNotConfigured = errors.New("field mapping is not configured")
	ErrRunInProgress        = errors.New("import run is already being processed")
	ErrRunFinished          = errors.New("import run is already finished")
	ErrInvalidFile          = errors.New("invalid file")
	ErrInvalidMapping       = errors.New("invalid mapping")
)

// How often the run record is flushed during the row loop.
const persistEvery = 50

// Number of rows returned as an upload preview.
const sampleRowLimit = 10

// ExecuteOptions are the caller-supplied knobs for one execution.
type ExecuteOptions struct {
	UpdateExisting    bool   `json:"update_existing"`
	DefaultCustomerID *int64 `json:"default_customer_id"`
}

// ProgressFunc is invoked after every processed row.
type ProgressFunc func(processed, total int)

// UploadResult is returned from CreateRun so the mapping UI can offer
// headers, sample rows and the mappable fields in one round trip.
type UploadResult struct {
	Run        *models.ImportRun `json:"run"`
	Headers    []string          `json:"headers"`
	SampleRows []RowRecord       `json:"sample_rows"`
	Fields     []Field           `json:"fields"`
}

// ExecuteSummary is the terminal report of one execution.
type ExecuteSummary struct {
	ImportID      int64                  `json:"import_id"`
	RunCode       string                 `json:"run_code"`
	TotalRows     int                    `json:"total_rows"`
	ProcessedRows int                    `json:"processed_rows"`
	CreatedCount  int                    `json:"created_count"`
	UpdatedCount  int                    `json:"updated_count"`
	SkippedCount  int                    `json:"skipped_count"`
	FailedCount   int                    `json:"failed_count"`
	Errors        models.ImportErrorList `json:"errors"`
}

// ImportService owns the import run lifecycle: upload, mapping, execution.
type ImportService struct {
	runs      RunStore
	files     FileStore
	sheets    *SheetService
	contacts  ContactStore
	customers CustomerStore
	users     UserStore
	leads     LeadStore
	opps      OpportunityStore
	log       *logrus.Entry
}

func NewImportService(
	runs RunStore,
	files FileStore,
	sheets *SheetService,
	contacts ContactStore,
	customers CustomerStore,
	users UserStore,
	leads LeadStore,
	opps OpportunityStore,
) *ImportService {
	return &ImportService{
		runs:      runs,
		files:     files,
		sheets:    sheets,
		contacts:  contacts,
		customers: customers,
		users:     users,
		leads:     leads,
		opps:      opps,
		log:       utils.ComponentLogger("import_service"),
	}
}

// CreateRun stores the uploaded file, parses it once for validation and
// preview, and creates a pending run. TotalRecords is fixed here.
func (s *ImportService) CreateRun(ctx context.Context, importType models.ImportType, filename string, data []byte) (*UploadResult, error) {
	if !importType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, importType)
	}

	sheet, err := s.sheets.Parse(filename, data)
	if err != nil {
		return nil, err
	}

	fields, err := FieldsForType(importType)
	if err != nil {
		return nil, err
	}

	runCode := fmt.Sprintf("IMPORT-%s", uuid.New().String()[:8])
	fileKey := runCode + strings.ToLower(filepath.Ext(filename))
	if err := s.files.Save(fileKey, data); err != nil {
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	run := &models.ImportRun{
		RunCode:      runCode,
		ImportType:   importType,
		Filename:     filename,
		FileKey:      fileKey,
		Status:       models.ImportStatusPending,
		TotalRecords: len(sheet.Rows),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create import run: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"run_code": runCode,
		"type":     importType,
		"rows":     len(sheet.Rows),
	}).Info("import run created")

	samples := sheet.Rows
	if len(samples) > sampleRowLimit {
		samples = samples[:sampleRowLimit]
	}

	return &UploadResult{
		Run:        run,
		Headers:    sheet.Headers,
		SampleRows: samples,
		Fields:     fields,
	}, nil
}

// GetRun returns one run by ID.
func (s *ImportService) GetRun(ctx context.Context, id int64) (*models.ImportRun, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// ListRuns returns a page of runs, newest first.
func (s *ImportService) ListRuns(ctx context.Context, limit, offset int) ([]models.ImportRun, int, error) {
	return s.runs.List(ctx, limit, offset)
}

// SaveMapping validates the submitted mapping against the stored file's
// headers and persists it. Only non-terminal, non-processing runs can be
// (re)mapped.
func (s *ImportService) SaveMapping(ctx context.Context, runID int64, pairs []MappingPair, ignoredColumns []string) (*models.ImportRun, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Status == models.ImportStatusProcessing {
		return nil, ErrRunInProgress
	}
	if run.Terminal() {
		return nil, ErrRunFinished
	}

	data, err := s.files.Read(run.FileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	sheet, err := s.sheets.Parse(run.Filename, data)
	if err != nil {
		return nil, err
	}

	fieldMap, err := ValidateMapping(run.ImportType, sheet.Headers, pairs)
	if err != nil {
		return nil, err
	}

	run.Mapping = models.NullableMapping{
		Data: models.MappingData{
			Fields:         fieldMap,
			IgnoredColumns: ignoredColumns,
		},
		Valid: true,
	}
	if err := s.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save mapping: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"run_code": run.RunCode,
		"fields":   len(fieldMap),
	}).Info("field mapping saved")

	return run, nil
}

// Execute runs the import: it re-parses the stored file, walks the rows
// sequentially through the type's row processor, and persists the terminal
// summary. Row-scoped problems become counted outcomes; only run-scoped
// failures (context cancellation, run record persistence) abort the loop and
// mark the run failed.
func (s *ImportService) Execute(ctx context.Context, runID int64, opts ExecuteOptions, progress ProgressFunc) (*ExecuteSummary, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Status == models.ImportStatusProcessing {
		return nil, ErrRunInProgress
	}
	if run.Terminal() {
		return nil, ErrRunFinished
	}
	if !run.Mapping.Valid {
		return nil, ErrMappingNotConfigured
	}

	// Configuration errors: surfaced before any row is touched, run stays
	// pending.
	data, err := s.files.Read(run.FileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	sheet, err := s.sheets.Parse(run.Filename, data)
	if err != nil {
		return nil, err
	}
	processor, err := s.processorFor(run.ImportType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	run.Status = models.ImportStatusProcessing
	run.StartedAt = &now
	run.SuccessCount = 0
	run.FailureCount = 0
	run.Errors = nil
	if err := s.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to start import run: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"run_code": run.RunCode,
		"type":     run.ImportType,
		"rows":     len(sheet.Rows),
	}).Info("import run started")

	resolvers := newResolverSet(s.contacts, s.customers, s.users)
	fields := run.Mapping.Data.Fields

	var createdCount, updatedCount, skippedCount, failedCount, processed int
	var rowErrors models.ImportErrorList

	recordMessage := func(rowNum int, message string) {
		if len(rowErrors) < models.RunErrorCap {
			rowErrors = append(rowErrors, models.ImportError{Row: rowNum, Message: message})
		}
	}

	for i, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return nil, s.failRun(run, failedCount, createdCount+updatedCount, rowErrors, fmt.Errorf("import run aborted: %w", err))
		}

		rowNum := i + 2 // 1-based rows plus the header row

		switch {
		case row.IsBlank(sheet.Headers):
			skippedCount++
		default:
			result, err := processor.processRow(ctx, resolvers, mappedRow{row: row, fields: fields}, opts)
			if err != nil {
				result = failed(err.Error())
			}
			switch result.outcome {
			case outcomeCreated:
				createdCount++
			case outcomeUpdated:
				updatedCount++
			case outcomeSkipped:
				skippedCount++
				// Business-rule skips carry a reason; blank rows do not.
				if result.message != "" {
					recordMessage(rowNum, result.message)
				}
			case outcomeFailed:
				failedCount++
				recordMessage(rowNum, result.message)
			}
		}
		processed++

		if progress != nil {
			progress(processed, len(sheet.Rows))
		}

		if processed%persistEvery == 0 {
			run.SuccessCount = createdCount + updatedCount
			run.FailureCount = failedCount
			run.Errors = rowErrors
			if err := s.runs.Update(ctx, run); err != nil {
				return nil, s.failRun(run, failedCount, createdCount+updatedCount, rowErrors, fmt.Errorf("failed to persist run progress: %w", err))
			}
		}
	}

	done := time.Now()
	run.Status = models.ImportStatusCompleted
	run.SuccessCount = createdCount + updatedCount
	run.FailureCount = failedCount
	run.TotalRecords = len(sheet.Rows)
	run.Errors = rowErrors
	run.CompletedAt = &done
	if err := s.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist import summary: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"run_code": run.RunCode,
		"created":  createdCount,
		"updated":  updatedCount,
		"skipped":  skippedCount,
		"failed":   failedCount,
	}).Info("import run completed")

	return &ExecuteSummary{
		ImportID:      run.ID,
		RunCode:       run.RunCode,
		TotalRows:     len(sheet.Rows),
		ProcessedRows: processed,
		CreatedCount:  createdCount,
		UpdatedCount:  updatedCount,
		SkippedCount:  skippedCount,
		FailedCount:   failedCount,
		Errors:        rowErrors,
	}, nil
}

// failRun persists whatever partial progress accumulated before a run-scoped
// failure, then returns the original error to the caller. Persistence here is
// best effort.
func (s *ImportService) failRun(run *models.ImportRun, failedCount, successCount int, rowErrors models.ImportErrorList, cause error) error {
	done := time.Now()
	run.Status = models.ImportStatusFailed
	run.SuccessCount = successCount
	run.FailureCount = failedCount
	run.Errors = rowErrors
	run.CompletedAt = &done
	if err := s.runs.Update(context.Background(), run); err != nil {
		s.log.WithError(err).WithField("run_code", run.RunCode).Error("failed to persist failed run state")
	}
	s.log.WithError(cause).WithField("run_code", run.RunCode).Error("import run failed")
	return cause
}

// MarkStaleProcessing fails runs stuck in processing longer than the given
// age, e.g. after a worker crash. This is a recovery pass run at worker boot,
// not part of the normal lifecycle.
func (s *ImportService) MarkStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.runs.MarkStaleProcessing(ctx, olderThan)
}

func (s *ImportService) processorFor(t models.ImportType) (rowProcessor, error) {
	switch t {
	case models.ImportTypeContacts:
		return &contactProcessor{contacts: s.contacts}, nil
	case models.ImportTypeLeads:
		return &leadProcessor{leads: s.leads}, nil
	case models.ImportTypeOpportunities:
		return &opportunityProcessor{leads: s.leads, opps: s.opps}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}
