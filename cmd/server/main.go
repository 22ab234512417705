package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/job-atlas/internal/app"
	"github.com/fadilmartias/job-atlas/internal/config"
	"github.com/fadilmartias/job-atlas/internal/domain/fiber/handler"
	applogger "github.com/fadilmartias/job-atlas/internal/logger"
	"github.com/fadilmartias/job-atlas/internal/middleware"
	"github.com/fadilmartias/job-atlas/internal/ratelimit"
	"github.com/fadilmartias/job-atlas/internal/scheduler"
	"github.com/fadilmartias/job-atlas/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		os.Stderr.WriteString("could not load .env file, using process environment\n")
	}

	appConfig := config.LoadAppConfig()
	l := applogger.New(appConfig.LogLevel, appConfig.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, l)
	if err != nil {
		l.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	server := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			// Retrieve the custom status code if it's a *fiber.Error
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" || code == fiber.StatusInternalServerError {
				message = "Internal Server Error"
			}
			return util.ErrorResponse(c, util.ErrorResponseFormat{Code: code, Message: message}, err)
		},
	})
	server.Use(logger.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	server.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	server.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	server.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	server.Use(healthcheck.New())
	server.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	rlConfig := config.LoadRateLimitConfig()
	server.Use(middleware.RateLimiter(rlConfig.GlobalMax, rlConfig.GlobalWindow))

	api := server.Group("/api")
	handler.NewJobHandler(a.Jobs).RegisterRoutes(api)
	handler.NewPcaHandler(a.Projection).RegisterRoutes(api)
	handler.NewEmbedHandler(a.Embedding).RegisterRoutes(api, middleware.KeyedRateLimiter(a.Runtime.Limiters.Get(ratelimit.Embed)))
	handler.NewAdminHandler(a.Projection, a.Ingestion).RegisterRoutes(api, middleware.AdminToken(appConfig.AdminToken))

	go a.Runtime.Limiters.Run(ctx, rlConfig.SweepInterval, applogger.WithComponent(l, "ratelimit"))

	var sched *scheduler.Scheduler
	if spec := config.LoadIngestionConfig().Cron; spec != "" {
		sched = scheduler.New(a.Ingestion, l)
		if err := sched.Start(spec); err != nil {
			l.Fatal().Err(err).Str("schedule", spec).Msg("invalid INGEST_CRON")
		}
	}

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Debug().Int("goroutines", runtime.NumGoroutine()).Msg("runtime stats")
			}
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if sched != nil {
			sched.Stop(shutdownCtx)
		}
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	l.Info().Str("port", appConfig.Port).Msg("server running")
	if err := server.Listen(appConfig.Port); err != nil {
		l.Fatal().Err(err).Msg("server stopped")
	}
}
