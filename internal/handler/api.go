package handler

import (
	"github.com/sirupsen/logrus"
	"github.com/streaklog/internal/service"
	"github.com/streaklog/internal/streak"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	engine      *streak.Engine
	users       *service.UserService
	workouts    *service.WorkoutService
	completions *service.CompletionService
	analytics   *service.AnalyticsService
	log         logrus.FieldLogger
}

// NewAPI constructs a handler set with shared services. reader serves the
// completion history and is normally the same store the engine runs on.
func NewAPI(db *gorm.DB, reader service.CompletionReader, engine *streak.Engine, log logrus.FieldLogger) *API {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &API{
		db:          db,
		engine:      engine,
		users:       service.NewUserService(db),
		workouts:    service.NewWorkoutService(db, engine, log),
		completions: service.NewCompletionService(db, reader, engine.Location(), engine.Now),
		analytics:   service.NewAnalyticsService(db),
		log:         log,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Engine exposes the streak engine for background jobs.
func (a *API) Engine() *streak.Engine {
	return a.engine
}
