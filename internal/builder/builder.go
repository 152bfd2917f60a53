package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/eduassist/chat-backend/internal/api"
	conversationapi "github.com/eduassist/chat-backend/internal/api/conversation"
	"github.com/eduassist/chat-backend/internal/api/middleware"
	whatsappapi "github.com/eduassist/chat-backend/internal/api/whatsapp"
	"github.com/eduassist/chat-backend/internal/config"
	"github.com/eduassist/chat-backend/internal/integration/escalation"
	"github.com/eduassist/chat-backend/internal/integration/identity"
	"github.com/eduassist/chat-backend/internal/integration/rag"
	whatsappconn "github.com/eduassist/chat-backend/internal/integration/whatsapp"
	"github.com/eduassist/chat-backend/internal/pkg/validator"
	"github.com/eduassist/chat-backend/internal/repository"
	conversationuc "github.com/eduassist/chat-backend/internal/usecase/conversation"
	"github.com/eduassist/chat-backend/internal/whatsapp"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	messageRepo := repository.NewMessagePostgres(db)
	promptRepo := repository.NewPromptPostgres(db)
	intakeRepo := repository.NewWhatsAppIntakePostgres(db)
	fileStore, err := repository.NewFileDisk(cfg.FileUploadCfg.UploadDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setup file store: %w", err)
	}
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var answerConnector conversationuc.AnswerConnector
	var escalationConnector conversationuc.EscalationConnector
	var sender conversationuc.MessageSender
	var verifier middleware.ProfileVerifier

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		answerConnector = rag.NewMockConnector(logger)
		escalationConnector = escalation.NewMockConnector(logger)
		sender = whatsappconn.NewMockConnector(logger)
		verifier = identity.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		answerConnector = rag.NewConnector(cfg.RAGConnectorCfg, logger)
		escalationConnector = escalation.NewConnector(cfg.EscalationConnectorCfg, logger)
		sender = whatsappconn.NewConnector(cfg.WhatsAppCfg, logger)
		verifier = identity.NewConnector(cfg.IdentityConnectorCfg, logger)
	}

	// Initialize validators
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	// Initialize use case
	conversationUC := conversationuc.NewUsecase(
		messageRepo,
		promptRepo,
		intakeRepo,
		answerConnector,
		escalationConnector,
		sender,
		logger,
	)
	logger.Info("Use cases initialized")

	// Per-sender webhook dispatcher
	dispatcher := whatsapp.NewDispatcher(cfg.WhatsAppCfg.DispatchQueueSize, logger)

	// Setup API handlers
	conversationHandler := conversationapi.NewHandler(conversationUC, fileValidator, cfg.FileUploadCfg, fileStore)
	whatsappHandler := whatsappapi.NewHandler(conversationUC, dispatcher, cfg.WhatsAppCfg.VerifyWebhookToken, logger)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(conversationHandler, whatsappHandler, verifier, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:     server,
		db:         db,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}
