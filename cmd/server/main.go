package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/tweetgenie/configs"
	"github.com/maheshrc27/tweetgenie/internal/api/handlers"
	"github.com/maheshrc27/tweetgenie/internal/api/middleware"
	"github.com/maheshrc27/tweetgenie/internal/dispatcher"
	job "github.com/maheshrc27/tweetgenie/internal/jobs"
	"github.com/maheshrc27/tweetgenie/internal/lock"
	"github.com/maheshrc27/tweetgenie/internal/queue"
	"github.com/maheshrc27/tweetgenie/internal/repository"
	"github.com/maheshrc27/tweetgenie/internal/service"
	applog "github.com/maheshrc27/tweetgenie/pkg/logger"
	"github.com/maheshrc27/tweetgenie/pkg/telemetry"
	"github.com/maheshrc27/tweetgenie/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

const dispatchLockKey = "tweetgenie:dispatch:lock"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slog.SetDefault(applog.New(cfg.LogLevel))

	ctx := context.Background()

	if cfg.TracingURL != "" {
		shutdownTracing, err := telemetry.Init(ctx, cfg.ServiceName, cfg.TracingURL)
		if err != nil {
			log.Fatalf("Failed to initialise tracing: %v", err)
		}
		defer shutdownTracing()
	}

	encryptionKey, err := utils.DecodeKey(cfg.EncryptionSecret)
	if err != nil {
		log.Fatalf("Invalid encryption secret: %v", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		BodyLimit:    10 * 1024 * 1024, // 10 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("request failed", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Internal server error",
				"error":   err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	scheduledRepo := repository.NewScheduledTweetRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	keysRepo := repository.NewProviderKeysRepository(db)

	var images service.ImageStore
	if cfg.R2.BucketName != "" {
		r2Service, err := service.NewR2Service(ctx, cfg.R2)
		if err != nil {
			log.Fatalf("Failed to configure image storage: %v", err)
		}
		images = r2Service
	} else {
		slog.Warn("R2 bucket not configured, image uploads disabled")
	}

	cipher := service.NewCredentialCipher(encryptionKey)
	mediaService := service.NewMediaService(cfg.HTTPTimeout)
	twitterService := service.NewTwitterService(cfg.HTTPTimeout)
	keysService := service.NewKeysService(keysRepo, encryptionKey)
	generatorService := service.NewGeneratorService(keysService, cfg.Providers, cfg.HTTPTimeout)
	scheduleService := service.NewScheduleService(scheduledRepo, cipher, mediaService, images)
	tweetService := service.NewTweetService(tweetRepo, twitterService, mediaService)
	authService := service.NewAuthService(userRepo, service.NewRedisOTPStore(rdb), service.NewLogOTPSender())

	d := dispatcher.New(
		scheduledRepo,
		twitterService,
		mediaService,
		cipher,
		tweetRepo,
		lock.NewRedis(rdb, dispatchLockKey, cfg.Scheduler.LockTTL),
		dispatcher.Config{
			Concurrency: cfg.Scheduler.Concurrency,
			Timeout:     cfg.HTTPTimeout,
		},
	)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	health := handlers.NewHealthHandler(*cfg)
	app.Get("/", health.Root)
	app.Get("/ping", health.Ping)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	auth := handlers.NewAuthHandler(*cfg, authService)
	authGroup := app.Group("/auth")
	authGroup.Post("/signup", auth.Signup)
	authGroup.Post("/verify-signup", auth.VerifySignup)
	authGroup.Post("/resend-signup-otp", auth.ResendSignupOTP)
	authGroup.Post("/forgot-password", auth.ForgotPassword)
	authGroup.Post("/verify-reset-password", auth.VerifyResetPassword)
	authGroup.Post("/reset-password", auth.ResetPassword)
	authGroup.Post("/resend-reset-otp", auth.ResendResetOTP)
	authGroup.Post("/login", auth.Login)
	authGroup.Post("/logout", auth.Logout)
	authGroup.Post("/refresh", auth.Refresh)

	user := handlers.NewUserHandler(authService)
	authGroup.Get("/me", authMiddleware.AuthMiddleware(), user.GetUserInfo)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	generate := handlers.NewGenerateHandler(generatorService)
	api.Post("/generate-tweet", generate.GenerateTweet)
	api.Post("/generate-bulk-tweets", generate.GenerateBulk)
	api.Post("/generate-ai-image", generate.GenerateImage)

	tweet := handlers.NewTweetHandler(tweetService)
	api.Post("/post-tweet", tweet.PostTweet)
	api.Get("/tweet-history", tweet.History)
	api.Delete("/tweet-history/:id", tweet.DeleteHistory)

	schedule := handlers.NewScheduleHandler(scheduleService, client)
	api.Post("/schedule-tweet", schedule.ScheduleTweet)
	api.Post("/schedule-bulk-tweets", schedule.ScheduleBulk)
	api.Post("/upload-image", schedule.UploadImage)
	api.Get("/scheduled-tweets", schedule.ListScheduled)
	api.Get("/scheduled-tweets/:id", schedule.GetScheduled)
	api.Delete("/scheduled-tweets/:id", schedule.RemoveScheduled)

	keys := handlers.NewKeysHandler(keysService)
	api.Get("/keys", keys.GetKeys)
	api.Post("/keys", keys.UpdateKeys)

	// cron jobs
	dispatchJob := job.NewDispatchJob(d, job.ScanTimeout(cfg.Scheduler.LockTTL, cfg.HTTPTimeout))

	c := cron.New()
	if err := c.AddFunc(cfg.Scheduler.Interval, dispatchJob.Run); err != nil {
		log.Fatalf("Invalid scheduler interval %q: %v", cfg.Scheduler.Interval, err)
	}
	c.Start()

	//queue
	queueW := queue.NewQueue(d)

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: cfg.Scheduler.Concurrency,
	})

	go func() {
		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeDispatchTweet, queueW.HandleDispatchTweetTask)

		slog.Info("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	slog.Info("Server is running", "port", cfg.Port)

	gracefulShutdown(app, c, server)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

// gracefulShutdown stops taking new work before the deferred closers in main
// release the database and Redis.
func gracefulShutdown(app *fiber.App, c *cron.Cron, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	slog.Info("Shutting down server...")

	c.Stop()
	server.Shutdown()

	if err := app.Shutdown(); err != nil {
		slog.Error("Failed to shut down server", "error", err)
	}

	slog.Info("Server shutdown complete.")
}
