package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/config"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/handler"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/infra/cache"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/infra/db"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/infra/events"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/infra/notify"
	infraRepo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/infra/repository"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/infra/storage"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/logger"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/metrics"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/server"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"
	auth "github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New("bookstore-api", cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	//キャッシュ（REDIS_ADDR未設定なら無し）
	var appCache usecase.Cache = cache.Nop{}
	healthChecks := map[string]handler.HealthCheck{
		"db": func(ctx context.Context) error { return db.Ping(ctx, gormDB) },
	}
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cfg.RedisAddr)
		defer func() { _ = rdb.Close() }()
		rc := cache.NewRedisCache(rdb, "bookstore:")
		appCache = rc
		healthChecks["redis"] = rc.Ping
	}

	//メール
	var mailer usecase.Mailer = notify.NewLogMailer(log)
	if cfg.SendGridAPIKey != "" {
		mailer = notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName)
	}
	deliverer := notify.NewDeliverer(mailer, cfg.MailFrom, log)

	//注文通知（RABBITMQ_URL未設定ならプロセス内タイマー）
	var scheduler usecase.NotificationScheduler
	if cfg.RabbitMQURL != "" {
		rs, err := notify.NewRabbitMQScheduler(cfg.RabbitMQURL, log)
		if err != nil {
			log.Fatal("rabbitmq connect failed", zap.Error(err))
		}
		defer func() { _ = rs.Close() }()
		scheduler = rs

		worker, err := notify.NewWorker(cfg.RabbitMQURL, "bookstore-api", deliverer, log)
		if err != nil {
			log.Fatal("rabbitmq worker failed", zap.Error(err))
		}
		defer worker.Close()
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Error("notification worker stopped", zap.Error(err))
			}
		}()
	} else {
		ts := notify.NewTimerScheduler(deliverer, log)
		defer ts.Close()
		scheduler = ts
	}

	//注文イベント（KAFKA_BROKERS未設定なら送らない）
	var publisher usecase.EventPublisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic, 256, log)
		kp.Start()
		defer kp.Close()
		publisher = kp
	}

	images, err := storage.NewDiskImageStore(cfg.ImageDir, cfg.ImageBaseURL)
	if err != nil {
		log.Fatal("image store failed", zap.Error(err))
	}

	m := metrics.New()

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	resetRepo := infraRepo.NewPasswordResetRepository(gormDB)
	bookRepo := infraRepo.NewBookGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	ratingRepo := infraRepo.NewRatingGormRepository(gormDB)
	feedbackRepo := infraRepo.NewFeedbackGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(bcrypt.DefaultCost)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)

	resolver, err := usecase.NewBookResolver(cfg.RatingBookLookup, bookRepo)
	if err != nil {
		log.Fatal("rating book lookup", zap.Error(err))
	}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, log)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock, log)
	sessionUC := auth.NewSessionUsecase(userRepo, log)
	resetUC := auth.NewPasswordResetUsecase(userRepo, resetRepo, hasher, mailer, idGen, clock, cfg.ResetTokenTTL, log)
	bookUC := usecase.NewBookUsecase(bookRepo, txm, images, appCache, cfg.CacheTTL, log)
	cartUC := usecase.NewCartUsecase(cartRepo, bookRepo, txm, appCache, cfg.CacheTTL, log)
	addressUC := usecase.NewAddressUsecase(addressRepo, log)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, userRepo, scheduler, publisher, m, appCache, cfg.CacheTTL, cfg.NotifyDelay, log)
	ratingUC := usecase.NewRatingUsecase(ratingRepo, orderRepo, bookRepo, resolver, log)
	feedbackUC := usecase.NewFeedbackUsecase(feedbackRepo, orderRepo, log)

	//Handler生成
	srv := server.New(cfg, log, m, userRepo, server.Handlers{
		Auth:    handler.NewAuthHandler(registerUC, loginUC, sessionUC, resetUC),
		Book:    handler.NewBookHandler(bookUC, ratingUC),
		Cart:    handler.NewCartHandler(cartUC),
		Address: handler.NewAddressHandler(addressUC),
		Order:   handler.NewOrderHandler(orderUC),
		Review:  handler.NewReviewHandler(ratingUC, feedbackUC),
		Health:  handler.NewHealthHandler(healthChecks),
	})

	//Server起動
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutting down")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("http shutdown failed", zap.Error(err))
		}
	}
}
