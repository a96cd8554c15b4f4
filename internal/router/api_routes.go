package router

import (
	"crm-import/internal/config"
	"crm-import/internal/handler"
	"crm-import/internal/middleware"
	"crm-import/internal/repository"
	"crm-import/internal/service"
	"crm-import/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redisClient *redis.Client,
	cfg *config.Config,
) error {
	// Initialize repositories
	runRepo := repository.NewImportRunRepository(db)
	contactRepo := repository.NewContactRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	userRepo := repository.NewUserRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	oppRepo := repository.NewOpportunityRepository(db)

	// Initialize blob storage and services
	fileStore, err := storage.NewLocalStore(cfg.UploadPath)
	if err != nil {
		return err
	}
	importService := service.NewImportService(
		runRepo, fileStore, service.NewSheetService(),
		contactRepo, customerRepo, userRepo, leadRepo, oppRepo,
	)

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	importHandler := handler.NewImportHandler(importService, asynqClient, redisClient, cfg)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	imports := protected.Group("/imports")
	imports.Post("/", importHandler.Upload)
	imports.Get("/", importHandler.GetRuns)
	imports.Get("/fields/:type", importHandler.GetFields)
	imports.Get("/:id", importHandler.GetRun)
	imports.Post("/:id/mapping", importHandler.SaveMapping)
	imports.Post("/:id/execute", importHandler.Execute)
	imports.Post("/:id/enqueue", importHandler.Enqueue)
	imports.Get("/:id/progress", importHandler.Progress)

	return nil
}
