package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/BillyHamid/backendGlobal/internal/adapter/cache"
	"github.com/BillyHamid/backendGlobal/internal/adapter/events/kafka"
	"github.com/BillyHamid/backendGlobal/internal/adapter/http/controller"
	"github.com/BillyHamid/backendGlobal/internal/adapter/http/middleware"
	"github.com/BillyHamid/backendGlobal/internal/adapter/http/router"
	"github.com/BillyHamid/backendGlobal/internal/adapter/notifications"
	"github.com/BillyHamid/backendGlobal/internal/adapter/repository/postgres"
	"github.com/BillyHamid/backendGlobal/internal/config"
	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/job"
	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/BillyHamid/backendGlobal/internal/usecase/services"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	if err := postgres.RunMigrations(startupCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(startupCtx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(startupCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	accountRepo := postgres.NewAccountRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	transferRepo := postgres.NewTransferRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	userRepo := postgres.NewUserRepository(db)

	pushNotifier := notifications.NewPushNotifier(cfg.PushWebhookURL)
	whatsAppNotifier := notifications.NewWhatsAppNotifier(cfg.WhatchimpWebhookURL, cfg.WhatchimpEnabled)

	feeService := services.NewFeeService()
	accountService := services.NewAccountService(accountRepo)
	userService := services.NewUserService(userRepo)
	transferService := services.NewTransferService(
		transferRepo,
		feeService,
		auditRepo,
		pushNotifier,
		whatsAppNotifier,
		cfg.UploadDir,
		cfg.TopicTransferCreated,
		cfg.TopicTransferPaid,
	)
	cashService := services.NewCashService(accountRepo, ledgerRepo, transferRepo, auditRepo, redisClient, cfg.UploadDir)

	if cfg.AdminPassword != "" {
		if err := userService.EnsureAdmin(startupCtx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
	}

	// Both tills exist from the first request on.
	for _, name := range []domain.AccountName{domain.AccountUSA, domain.AccountBurkina} {
		if _, err := accountService.GetOrCreate(startupCtx, name); err != nil {
			log.Fatalf("provision %s account: %v", name, err)
		}
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer publisher.Close()

		dispatcher := job.NewOutboxDispatcher(outboxRepo, publisher, 5*time.Second, 50, cfg.OutboxMaxRetries)
		go dispatcher.Run(runCtx)
	} else {
		logger.Info("kafka brokers not configured, outbox dispatcher disabled", nil)
	}

	authMiddleware := middleware.OperatorAuth(userService)
	mux := router.New(
		controller.NewTransferController(transferService),
		controller.NewCashController(cashService),
		controller.NewUserController(userService),
		authMiddleware,
	)

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", logger.Fields{
			"port": cfg.AppPort,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-runCtx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("http server shutdown: %v", err)
	}
	logger.Info("server stopped", nil)
}
