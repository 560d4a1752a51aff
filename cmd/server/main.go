package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/taskboard/internal/config"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/handlers"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/seed"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/utils"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	app := &cli.Command{
		Name:  "taskboard",
		Usage: "Serve the task board API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "port",
				Usage:       "HTTP listen port",
				Sources:     cli.EnvVars("PORT"),
				Value:       cfg.Port,
				Destination: &cfg.Port,
			},
			&cli.StringFlag{
				Name:        "gin-mode",
				Usage:       "gin mode (debug, release, test)",
				Sources:     cli.EnvVars("GIN_MODE"),
				Value:       cfg.GinMode,
				Destination: &cfg.GinMode,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Value:       cfg.LogLevel,
				Destination: &cfg.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stdout)",
				Sources:     cli.EnvVars("LOG_FILE"),
				Destination: &cfg.LogFile,
			},
			&cli.StringFlag{
				Name:        "db-dsn",
				Usage:       "in-memory SQLite DSN for comments and activity (:memory: or file::memory:...)",
				Sources:     cli.EnvVars("DB_DSN"),
				Value:       cfg.DBDSN,
				Destination: &cfg.DBDSN,
			},
			&cli.StringFlag{
				Name:        "seed-file",
				Usage:       "YAML file with the initial board (defaults to the built-in board)",
				Sources:     cli.EnvVars("SEED_FILE"),
				Destination: &cfg.SeedFile,
			},
			&cli.BoolFlag{
				Name:        "seed-disabled",
				Usage:       "start with an empty board",
				Sources:     cli.EnvVars("SEED_DISABLED"),
				Value:       cfg.SeedDisabled,
				Destination: &cfg.SeedDisabled,
			},
			&cli.StringFlag{
				Name:        "id-strategy",
				Usage:       "task id strategy (sequence, uuid)",
				Sources:     cli.EnvVars("TASK_ID_STRATEGY"),
				Value:       cfg.TaskIDStrategy,
				Destination: &cfg.TaskIDStrategy,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown argument %q. Run 'taskboard --help' for usage", c.Args().First())
			}
			return serve(ctx, cfg)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer closeLog()
	log.Logger = appLogger

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	sqlLogLevel := logger.Info
	if cfg.IsProduction() {
		sqlLogLevel = logger.Silent
	}
	db, err := database.Connect(database.Options{DSN: cfg.DBDSN, LogLevel: sqlLogLevel})
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Initialize repositories and services
	taskRepo := repository.NewTaskRepository()
	feedRepo := repository.NewFeedRepository(db)

	var ids utils.IDGenerator = utils.NewSequenceGenerator(0)
	if cfg.TaskIDStrategy == constants.TaskIDStrategyUUID {
		ids = utils.UUIDGenerator{}
	}

	feedService := services.NewFeedService(feedRepo, taskRepo, logging.Component("feed"))
	taskService := services.NewTaskService(taskRepo, ids, feedService, logging.Component("tasks"))

	if err := seedBoard(ctx, cfg, taskService, feedService); err != nil {
		return err
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return err
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		TaskService:  taskService,
		FeedService:  feedService,
		SessionStore: store,
		Logger:       logging.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

func seedBoard(ctx context.Context, cfg *config.Config, tasks *services.TaskService, feed *services.FeedService) error {
	if cfg.SeedDisabled {
		log.Info().Msg("seeding disabled, starting with an empty board")
		return nil
	}

	var (
		data *seed.Data
		err  error
	)
	if cfg.SeedFile != "" {
		data, err = seed.LoadFile(cfg.SeedFile)
	} else {
		data, err = seed.Default()
	}
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	if err := data.Apply(ctx, tasks, feed); err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}
	return nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.UseRedis() {
		rs, err := redisStore.NewStore(
			10,              // Redis pool size
			"tcp",           // network type
			cfg.RedisAddr(), // Redis address from config
			"",              // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
		log.Info().Str("addr", cfg.RedisAddr()).Msg("using redis session store")
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
