package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"crm-import/internal/config"
	"crm-import/internal/models"
	"crm-import/internal/service"
	"crm-import/internal/storage"
	"crm-import/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskExecuteImport is the asynq task type for background execution.
const TaskExecuteImport = "import:execute"

// ExecuteImportPayload is the asynq task payload.
type ExecuteImportPayload struct {
	ImportID int64                  `json:"import_id"`
	RunCode  string                 `json:"run_code"`
	Options  service.ExecuteOptions `json:"options"`
}

type ImportHandler struct {
	svc         *service.ImportService
	asynqClient *asynq.Client
	redis       *redis.Client
	cfg         *config.Config
}

func NewImportHandler(svc *service.ImportService, asynqClient *asynq.Client, redisClient *redis.Client, cfg *config.Config) *ImportHandler {
	return &ImportHandler{
		svc:         svc,
		asynqClient: asynqClient,
		redis:       redisClient,
		cfg:         cfg,
	}
}

func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	importType := models.ImportType(c.FormValue("type"))

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".csv" && ext != ".xlsx" && ext != ".xls" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only CSV and Excel files (.csv, .xlsx, .xls) are allowed", nil)
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	src, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", err)
	}

	result, err := h.svc.CreateRun(c.Context(), importType, file.Filename, data)
	if err != nil {
		return h.serviceError(c, "Failed to create import run", err)
	}

	return utils.SuccessResponse(c, "File uploaded successfully", result)
}

func (h *ImportHandler) GetRuns(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	runs, total, err := h.svc.ListRuns(c.Context(), params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve import runs", err)
	}

	return utils.SuccessResponse(c, "Import runs retrieved successfully", fiber.Map{
		"runs":       runs,
		"pagination": utils.CalculatePagination(params.Page, params.Limit, int64(total)),
	})
}

func (h *ImportHandler) GetRun(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid import run ID", err)
	}

	run, err := h.svc.GetRun(c.Context(), id)
	if err != nil {
		return h.serviceError(c, "Failed to retrieve import run", err)
	}

	return utils.SuccessResponse(c, "Import run retrieved successfully", run)
}

func (h *ImportHandler) GetFields(c *fiber.Ctx) error {
	fields, err := service.FieldsForType(models.ImportType(c.Params("type")))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported import type", err)
	}
	return utils.SuccessResponse(c, "Fields retrieved successfully", fields)
}

type saveMappingRequest struct {
	Mappings       []service.MappingPair `json:"mappings"`
	IgnoredColumns []string              `json:"ignored_columns"`
}

func (h *ImportHandler) SaveMapping(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid import run ID", err)
	}

	var req saveMappingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	run, err := h.svc.SaveMapping(c.Context(), id, req.Mappings, req.IgnoredColumns)
	if err != nil {
		return h.serviceError(c, "Failed to save mapping", err)
	}

	return utils.SuccessResponse(c, "Mapping saved successfully", run)
}

// Execute runs the import synchronously and returns the terminal summary.
func (h *ImportHandler) Execute(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid import run ID", err)
	}

	var opts service.ExecuteOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
		}
	}

	summary, err := h.svc.Execute(c.Context(), id, opts, nil)
	if err != nil {
		return h.serviceError(c, "Import execution failed", err)
	}

	return utils.SuccessResponse(c, "Import completed", summary)
}

// Enqueue hands the execution to the background worker.
func (h *ImportHandler) Enqueue(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid import run ID", err)
	}

	var opts service.ExecuteOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
		}
	}

	run, err := h.svc.GetRun(c.Context(), id)
	if err != nil {
		return h.serviceError(c, "Failed to retrieve import run", err)
	}
	if run.Status == models.ImportStatusProcessing {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Import run is already being processed", nil)
	}
	if run.Terminal() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Import run is already finished", nil)
	}
	if !run.Mapping.Valid {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Field mapping is not configured", nil)
	}

	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	payload, _ := json.Marshal(ExecuteImportPayload{
		ImportID: run.ID,
		RunCode:  run.RunCode,
		Options:  opts,
	})
	info, err := h.asynqClient.Enqueue(asynq.NewTask(TaskExecuteImport, payload))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue import task", err)
	}

	return utils.SuccessResponse(c, "Import queued", fiber.Map{
		"job_id": info.ID,
		"run":    run,
	})
}

// Progress reports the background execution progress for a run.
func (h *ImportHandler) Progress(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid import run ID", err)
	}

	run, err := h.svc.GetRun(c.Context(), id)
	if err != nil {
		return h.serviceError(c, "Failed to retrieve import run", err)
	}

	progress := "0.00"
	if run.Terminal() {
		progress = "100.00"
	} else if h.redis != nil {
		if value, err := h.redis.Get(c.Context(), ProgressKey(run.ID)).Result(); err == nil {
			progress = value
		}
	}

	return utils.SuccessResponse(c, "Progress retrieved successfully", fiber.Map{
		"run_code": run.RunCode,
		"status":   run.Status,
		"progress": progress,
	})
}

// ProgressKey names the redis key the worker writes execution progress to.
func ProgressKey(runID int64) string {
	return fmt.Sprintf("import:progress:%d", runID)
}

func (h *ImportHandler) serviceError(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, service.ErrRunNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Import run not found", err)
	case errors.Is(err, storage.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Uploaded file is no longer available", err)
	case errors.Is(err, service.ErrRunInProgress),
		errors.Is(err, service.ErrRunFinished),
		errors.Is(err, service.ErrMappingNotConfigured),
		errors.Is(err, service.ErrUnsupportedType),
		errors.Is(err, service.ErrInvalidFile),
		errors.Is(err, service.ErrInvalidMapping):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, message, err)
}
