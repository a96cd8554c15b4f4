package worker

import (
	"crm-import/internal/config"
	"crm-import/internal/handler"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) (*ImportTaskHandler, error) {
	importHandler, err := NewImportTaskHandler(db, redisClient, cfg)
	if err != nil {
		return nil, err
	}

	mux.HandleFunc(handler.TaskExecuteImport, importHandler.Handle)
	return importHandler, nil
}
