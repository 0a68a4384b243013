package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"hostelhub/api/handler"
	apiMiddleware "hostelhub/api/middleware"
	"hostelhub/api/routes"
	"hostelhub/config"
	"hostelhub/internal/cache"
	"hostelhub/internal/kvstore"
	"hostelhub/internal/repository"
	"hostelhub/internal/service"
	"hostelhub/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	db := config.ConnectDB()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	kv := kvstore.New(redisURL)
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := kv.Connect(connectCtx); err != nil {
		logger.WithError(err).Fatal("redis connect failed")
	}

	sessionConfig := session.Config{
		CookieBase:  envString("SESSION_COOKIE_NAME", "hostelhub_sess"),
		IdleTTL:     envSeconds("SESSION_IDLE_TTL", 30*time.Minute),
		AbsoluteTTL: envSeconds("SESSION_ABSOLUTE_TTL", 12*time.Hour),
		MaxPerUser:  envInt("SESSION_CAP", 10),
	}
	sessions := session.NewStore(kv, sessionConfig)
	appCache := cache.New(kv, logger)

	studentRepo := repository.NewStudentRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	contentRepo := repository.NewContentRepository(db)
	securityRepo := repository.NewSecurityLogRepository(db)

	authService := service.NewAuthService(studentRepo, adminRepo, securityRepo, sessions, appCache, service.BcryptPasswordHasher{})
	principalService := service.NewPrincipalService(studentRepo, adminRepo, appCache)
	roomService := service.NewRoomService(roomRepo, appCache)
	bookingService := service.NewBookingService(bookingRepo, roomRepo, settingsRepo, appCache)
	settingsService := service.NewSettingsService(settingsRepo, securityRepo, appCache)
	contentService := service.NewContentService(contentRepo, appCache)
	statsService := service.NewStatsService(studentRepo, roomRepo, bookingRepo, appCache)
	studentService := service.NewStudentService(studentRepo, authService, appCache)

	authHandler := handler.NewAuthHandler(authService, sessions, validate)
	authHandler.CookieDomain = os.Getenv("COOKIE_DOMAIN")
	authHandler.SecureCookies = os.Getenv("COOKIE_SECURE") != "false"

	roomHandler := handler.NewRoomHandler(roomService, validate)
	bookingHandler := handler.NewBookingHandler(bookingService, validate)
	adminHandler := handler.NewAdminHandler(settingsService, studentService, statsService, authService, validate)
	contentHandler := handler.NewContentHandler(contentService, validate)
	profileHandler := handler.NewProfileHandler(studentService, validate)

	gate := apiMiddleware.AuthMiddleware{
		Sessions:   sessions,
		Principals: principalService,
		Log:        logger,
	}
	lockdown := apiMiddleware.LockdownMiddleware{
		Settings: settingsService,
		Log:      logger,
	}

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

	router := routes.NewRouter(app, authHandler, roomHandler, bookingHandler, adminHandler, contentHandler, profileHandler, gate, lockdown)
	router.RegisterRoutes()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func envString(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envSeconds(name string, fallback time.Duration) time.Duration {
	if value := os.Getenv(name); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if value := os.Getenv(name); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
