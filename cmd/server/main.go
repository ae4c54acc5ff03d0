package main

import (
	"os"

	"immo/backend/internal/auth"
	"immo/backend/internal/config"
	"immo/backend/internal/database"
	"immo/backend/internal/handler"
	"immo/backend/internal/logging"
	"immo/backend/internal/mailer"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "immo/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Immo API
// @version         1.0
// @description     Real-estate listings, courtier profiles, reviews, likes, follows and messaging.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	switch {
	case cfg.SMTPHost != "":
		sender, err := mailer.New(cfg, logger)
		if err != nil {
			logger.Error("mail transport setup failed", "error", err)
			os.Exit(1)
		}
		handler.CodeSender = sender
	case cfg.MailLogCodes:
		logger.Warn("MAIL_LOG_CODES is set, one-time codes will be written to the log")
		handler.CodeSender = auth.LogCodeSender{Logger: logger}
	default:
		logger.Warn("SMTP_HOST is not set, one-time codes will not be delivered")
	}

	// Connect to the database
	database.Connect(cfg.DatabaseURL)

	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler.RegisterRoutes(router)

	addr := ":" + cfg.Port
	logger.Info("server is running", "addr", addr)
	logger.Info("swagger UI is available", "url", "http://localhost"+addr+"/swagger/index.html")
	if err := router.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
