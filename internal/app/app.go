package app

import (
	"context"
	"net/http"

	"subtrack-go/internal/config"
	"subtrack-go/internal/db"
	analysisdomain "subtrack-go/internal/domain/analysis"
	categorydomain "subtrack-go/internal/domain/category"
	jobdomain "subtrack-go/internal/domain/job"
	reminderdomain "subtrack-go/internal/domain/reminder"
	subscriptiondomain "subtrack-go/internal/domain/subscription"
	userdomain "subtrack-go/internal/domain/user"
	cachestore "subtrack-go/internal/repository/cache"
	analysisrepo "subtrack-go/internal/repository/gorm/analysis"
	categoryrepo "subtrack-go/internal/repository/gorm/category"
	jobrepo "subtrack-go/internal/repository/gorm/job"
	reminderrepo "subtrack-go/internal/repository/gorm/reminder"
	subscriptionrepo "subtrack-go/internal/repository/gorm/subscription"
	userrepo "subtrack-go/internal/repository/gorm/user"
	"subtrack-go/internal/transport/httpserver"
	"subtrack-go/internal/transport/httpserver/handler"
	"subtrack-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	jobs       *jobdomain.Service
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.New(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	categoryCache, err := cachestore.NewCategoryCache()
	if err != nil {
		return nil, err
	}

	users := userdomain.NewService(userrepo.NewGorm(dbConn))
	categories := categorydomain.NewServiceWithCache(categoryrepo.NewGorm(dbConn), categoryCache, cfg.CategoryTTL)
	subscriptions := subscriptiondomain.NewService(subscriptionrepo.NewGorm(dbConn))
	reminders := reminderdomain.NewService(reminderrepo.NewGorm(dbConn))
	analysis := analysisdomain.NewService(analysisrepo.NewGorm(dbConn))
	jobs := jobdomain.NewService(jobrepo.NewGorm(dbConn), categories, log, jobdomain.Config{
		QueueSize:     cfg.Jobs.QueueSize,
		ExportDelay:   cfg.Jobs.ExportDelay,
		ReminderDelay: cfg.Jobs.ReminderDelay,
	})

	if cfg.SeedDefaults {
		created, err := categories.Seed(context.Background())
		if err != nil {
			return nil, err
		}
		if created > 0 {
			log.Info("app: seeded default categories", "count", created)
		}
	}

	handlers := handler.New(log, users, categories, subscriptions, reminders, analysis, jobs)
	router := httpserver.NewRouter(cfg, handlers)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
		jobs:       jobs,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// RunJobs blocks consuming the job queue until the context is cancelled.
func (a *App) RunJobs(ctx context.Context) {
	a.jobs.Run(ctx)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
