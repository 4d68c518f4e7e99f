package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itboard/internal/app"
	"itboard/internal/config"
	"itboard/internal/database"
	apphttp "itboard/internal/http"
	"itboard/internal/http/handlers"
	"itboard/internal/http/metrics"
	httpmw "itboard/internal/http/middleware"
	"itboard/internal/http/response"
	"itboard/internal/observability"
	"itboard/internal/repository/memcache"
	"itboard/internal/repository/postgres"
	"itboard/internal/repository/rediscache"
	"itboard/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	redisClient := database.NewRedis(cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	userRepo := postgres.NewUserRepository(db)
	refreshRepo := postgres.NewRefreshTokenRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)
	engineerRepo := postgres.NewEngineerProfileRepository(db)
	companyRepo := postgres.NewCompanyProfileRepository(db)
	listingRepo := postgres.NewListingRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	markerRepo := postgres.NewReadMarkerRepository(db)
	scoutRepo := postgres.NewScoutRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)

	var unreadCache app.UnreadCache
	var rateLimiter httpmw.Limiter
	if redisClient != nil {
		unreadCache = rediscache.NewUnreadCache(redisClient, cfg.UnreadCacheTTL)
		rateLimiter = httpmw.NewRedisLimiter(redisClient, "rl")
	} else {
		unreadCache = memcache.NewUnreadCache(cfg.UnreadCacheTTL)
		rateLimiter = httpmw.NewRateLimiter()
	}

	authService := app.NewAuthService(userRepo, refreshRepo, analyticsRepo, jwtProvider, logger, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	profileService := app.NewProfileService(engineerRepo, companyRepo, analyticsRepo, cfg.TrialDuration)
	listingService := app.NewListingService(listingRepo, companyRepo, engineerRepo, analyticsRepo)
	applicationService := app.NewApplicationService(applicationRepo, listingRepo, engineerRepo, analyticsRepo)
	messageService := app.NewMessageService(messageRepo, markerRepo, applicationRepo, listingRepo, analyticsRepo, unreadCache)
	scoutService := app.NewScoutService(scoutRepo, companyRepo, engineerRepo, analyticsRepo)
	billingService := app.NewBillingService(paymentRepo, companyRepo, analyticsRepo)
	actorResolver := app.NewActorResolver(applicationService, messageService)

	authHandler := handlers.NewAuthHandler(authService, rateLimiter)
	profileHandler := handlers.NewProfileHandler(profileService)
	listingHandler := handlers.NewListingHandler(listingService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, actorResolver, rateLimiter)
	messageHandler := handlers.NewMessageHandler(messageService, actorResolver, rateLimiter)
	scoutHandler := handlers.NewScoutHandler(scoutService, rateLimiter)
	billingHandler := handlers.NewBillingHandler(billingService)
	middleware := httpmw.NewAuthMiddleware(jwtProvider)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        authHandler,
		ProfileHandler:     profileHandler,
		ListingHandler:     listingHandler,
		ApplicationHandler: applicationHandler,
		MessageHandler:     messageHandler,
		ScoutHandler:       scoutHandler,
		BillingHandler:     billingHandler,
		AuthMiddleware:     middleware,
		Metrics:            collector,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
