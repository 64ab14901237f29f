package router

import (
	"net/http"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) http.Handler {
	logger.Info().Msg("Router initialized")
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	// 1. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 2. Initialize outbound email client
	emailClient := service.NewPostmarkClient(cfg.PostmarkBaseURL, cfg.PostmarkServerToken, validate, logger)

	// 3. Initialize services
	fwd := service.NewForwarder(emailClient, cfg.ReceiptEmailAddress, logger)
	digiKeySvc := service.NewDigiKeyService(cfg.DigiKeyPDFURL, model.DigiKeyVendor(cfg.DigiKeySenderAddress), fwd, logger)
	attachmentSvc := service.NewAttachmentService(fwd, logger)
	receiptSvc := service.NewReceiptService(
		digiKeySvc,
		attachmentSvc,
		model.McMasterVendor(cfg.McMasterSenderAddress),
		model.TopKartVendor(cfg.TopKartSenderAddress),
		logger,
	)

	// 4. Initialize handler
	webhookHandler := handler.NewWebhookHandler(receiptSvc, logger)

	// 5. Create ServeMux router
	mux := http.NewServeMux()
	webhookHandler.RegisterRoutes(mux)

	// 6. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	})

	return middleware.LoggerMiddleware(c.Handler(mux))
}
