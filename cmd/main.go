package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"opsvault/api/handler"
	apiMiddleware "opsvault/api/middleware"
	"opsvault/api/routes"
	"opsvault/config"
	"opsvault/internal/repository"
	"opsvault/internal/service"
	"opsvault/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("database unavailable")
	}

	validate := validator.New()

	jwtManager := utils.JWTManager{
		Secret:          []byte(cfg.JWTSecret),
		Issuer:          cfg.JWTIssuer,
		SessionTokenTTL: cfg.SessionTokenTTL,
	}

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	mailer := service.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, cfg.AppName, cfg.AppBaseURL)
	dispatcher := service.NewMailDispatcher(mailer, logger)
	defer dispatcher.Close()

	authService := service.NewAuthService(
		userRepo,
		auditRepo,
		dispatcher,
		service.BcryptPasswordHasher{},
		service.JWTSessionIssuer{Manager: &jwtManager},
		service.RealClock{},
		service.AuthConfig{
			SessionTokenTTL: cfg.SessionTokenTTL,
			OTPTTL:          cfg.OTPTTL,
			ResetTokenTTL:   cfg.ResetTokenTTL,
		},
		logger,
	)

	authHandler := handler.NewAuthHandler(authService, validate)
	userHandler := handler.NewUserHandler(authService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &jwtManager, Users: userRepo}
	router := routes.NewRouter(app, authHandler, userHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	// Not Fatal: returning lets the deferred dispatcher Close drain the
	// mail queue.
	if err := app.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("server stopped")
	}
}
