package main

import (
	"fmt"
	"log"

	"edifika/internal/config"
	"edifika/internal/email/noop"
	"edifika/internal/email/ses"
	"edifika/internal/handler"
	"edifika/internal/inference/openai"
	"edifika/internal/port"
	"edifika/internal/repository/postgres"
	"edifika/internal/router"
	"edifika/internal/service"
	s3storage "edifika/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	proposalRepo := postgres.NewProposalRepo(db)
	importRepo := postgres.NewImportJobRepo(db)
	catalogRepo := postgres.NewCatalogRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize inference clients: multimodal for OCR, text-only for parsing
	extractor := openai.NewClient(&cfg.Inference, cfg.Inference.ExtractModel)
	parser := openai.NewClient(&cfg.Inference, cfg.Inference.ParseModel)

	// Initialize email sender
	var emailSender port.EmailSender
	if cfg.Email.Provider == "ses" {
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	clientSvc := service.NewClientService(clientRepo)
	proposalSvc := service.NewProposalService(proposalRepo, clientRepo)
	importSvc := service.NewImportService(
		importRepo, proposalRepo, userRepo, catalogRepo,
		s3Client, extractor, parser, emailSender,
		&cfg.S3, &cfg.Import,
	)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	importH := handler.NewImportHandler(importSvc)
	proposalH := handler.NewProposalHandler(proposalSvc)
	clientH := handler.NewClientHandler(clientSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, importH, proposalH, clientH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
