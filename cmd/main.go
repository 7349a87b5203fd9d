package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/Baafi-Marcus/ASASHS-sub001/api/handler"
	"github.com/Baafi-Marcus/ASASHS-sub001/api/routes"
	"github.com/Baafi-Marcus/ASASHS-sub001/config"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/repository"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/service"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg := config.Load()
	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	if err := db.AutoMigrate(&entity.Principal{}, &entity.RoleProfile{}); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	validate := validator.New()
	repo := repository.NewCredentialRepository(db)
	hasher := service.BcryptPasswordHasher{}
	clock := service.RealClock{}

	var notifier service.CredentialNotifier
	if cfg.ResendAPIKey != "" {
		notifier = service.NewResendCredentialNotifier(cfg.ResendAPIKey, cfg.MailFrom, cfg.PortalBaseURL)
	}

	issuer := service.NewCredentialIssuer(repo, hasher, notifier, clock, logger)
	authenticator := service.NewAuthenticator(repo, hasher)
	rotator := service.NewRotator(repo, hasher, validate)

	store, err := session.NewFileRecordStore(cfg.SessionDir)
	if err != nil {
		logger.WithError(err).Fatal("session store unavailable")
	}

	newManager := func(portal entity.Role) *session.Manager {
		return session.NewManager(portal, authenticator, rotator, repo, store, cfg.SessionTTL, clock, logger)
	}
	adminManager := newManager(entity.RoleAdmin)
	teacherManager := newManager(entity.RoleTeacher)
	studentManager := newManager(entity.RoleStudent)

	ctx := context.Background()
	for _, manager := range []*session.Manager{adminManager, teacherManager, studentManager} {
		if err := manager.Restore(ctx); err != nil {
			logger.WithError(err).WithField("portal", manager.Portal()).Warn("session restore failed")
		}
	}

	adminHandler := handler.NewPortalHandler(adminManager, validate)
	teacherHandler := handler.NewPortalHandler(teacherManager, validate)
	studentHandler := handler.NewPortalHandler(studentManager, validate)
	provisionHandler := handler.NewAdminHandler(issuer, repo, validate)

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

	router := routes.NewRouter(app, adminHandler, teacherHandler, studentHandler, provisionHandler)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
