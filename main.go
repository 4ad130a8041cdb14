package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pocketclass/config"
	"pocketclass/cron"
	"pocketclass/database"
	"pocketclass/database/repository"
	firestoreRepo "pocketclass/database/repository/firestore"
	"pocketclass/handlers"
	"pocketclass/middleware"
	"pocketclass/routes"
	"pocketclass/services/booking"
	"pocketclass/services/calendar"
	ai "pocketclass/services/intelligence"
	"pocketclass/services/notification"
	"pocketclass/services/payment"
	"pocketclass/services/tasks"
	"pocketclass/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	utils.InitRedis()
	utils.FirebaseInit()

	// Document store.
	var (
		store  *repository.Store
		pinger utils.Pinger
	)
	switch config.AppConfig.DocumentStore {
	case "firestore":
		store = repository.NewFirestoreStore(utils.FirestoreClient)
		pinger = firestoreRepo.Pinger{Client: utils.FirestoreClient}
	default:
		if err := database.InitDB(); err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		store = repository.NewMongoStore()
		pinger = database.MongoPinger{}
	}
	idxCtx, idxCancel := context.WithTimeout(rootCtx, 30*time.Second)
	if err := store.EnsureIndexes(idxCtx); err != nil {
		logger.Fatal("main: failed to ensure indexes", zap.Error(err))
	}
	idxCancel()

	// External services.
	var gateway payment.Gateway = payment.DisabledGateway{}
	if config.AppConfig.StripeKey != "" {
		gateway = payment.NewStripeGateway(config.AppConfig.StripeKey)
	} else {
		logger.Warn("main: STRIPE_KEY not set, card payments are disabled")
	}

	var cal calendar.Calendar = calendar.NoopCalendar{}
	if config.AppConfig.CalendarID != "" {
		gc, err := calendar.NewGoogleCalendar(rootCtx, config.AppConfig.GoogleCredentialsFile, config.AppConfig.CalendarID)
		if err != nil {
			logger.Fatal("main: failed to initialize Google Calendar", zap.Error(err))
		}
		cal = gc
	}

	notificationService, err := notification.NewDefaultNotificationService(utils.FCMClient)
	if err != nil {
		logger.Fatal("main: failed to initialize notifications", zap.Error(err))
	}

	reminderLead := time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour
	reminders := tasks.NewAsynqReminderScheduler(cron.RedisOpt(), reminderLead)
	defer reminders.Close()

	var generator ai.Generator = ai.DisabledGenerator{}
	if config.AppConfig.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(rootCtx, config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Fatal("main: failed to initialize Gemini", zap.Error(err))
		}
		defer gemini.Close()
		generator = gemini
	}
	analyzer := ai.NewReviewAnalyzer(generator, ai.NewRedisAnalysisCache(utils.GetCacheClient(), utils.ReviewAnalysisTTL))

	// Booking flow.
	bookingService := &booking.DefaultBookingService{
		Classes:      store.Classes,
		Availability: store.Availability,
		Appointments: store.Appointments,
		Packages:     store.Packages,
		Seats:        &booking.SeatLedger{Store: store.Classes},
		Checkouts:    booking.NewRedisCheckoutStore(utils.GetCheckoutCacheClient()),
		Payments:     gateway,
		Calendar:     cal,
		Notifier:     notificationService,
		Reminders:    reminders,
		Policy:       booking.NewPolicy(config.AppConfig.CancellationWindowHours, config.AppConfig.DefaultTimezone),
		CheckoutTTL:  time.Duration(config.AppConfig.CheckoutTTLMinutes) * time.Minute,
	}

	worker, err := cron.NewWorker(cron.RedisOpt(), notificationService, store.Appointments, bookingService)
	if err != nil {
		logger.Fatal("main: failed to create task worker", zap.Error(err))
	}
	if err := worker.Start(); err != nil {
		logger.Fatal("main: failed to start task worker", zap.Error(err))
	}

	utils.StartHealthMonitor(rootCtx, []*redis.Client{utils.GetCacheClient(), utils.GetCheckoutCacheClient()}, pinger)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(bookingService),
		handlers.NewAIHandler(analyzer),
	)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if config.AppConfig.DocumentStore != "firestore" {
		if err := database.CloseDB(ctx); err != nil {
			logger.Warn("main: failed to close MongoDB", zap.Error(err))
		}
	}
	if utils.FirestoreClient != nil {
		utils.FirestoreClient.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
