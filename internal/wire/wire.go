// Package wire provides dependency injection for kandy.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/kandy/internal/adapters/auth"
	"github.com/example/kandy/internal/adapters/rest"
	"github.com/example/kandy/internal/adapters/sqlite"
	"github.com/example/kandy/internal/app"
	"github.com/example/kandy/internal/config"
	"github.com/example/kandy/internal/db"
	"github.com/example/kandy/internal/ports/primary"
)

var (
	cfg    = config.Default()
	logger *logrus.Logger

	database         *sql.DB
	taskService      primary.TaskService
	issueService     primary.IssueService
	dashboardService primary.DashboardService
	userService      primary.UserService
	authService      primary.AuthService

	configureOnce sync.Once
	once          sync.Once
)

// Configure installs the configuration used by every service. It must be
// called before the first service is requested; later calls are ignored.
func Configure(c *config.Config) error {
	var err error
	configureOnce.Do(func() {
		cfg = c
		logger, err = NewLogger(c)
	})
	return err
}

// Config returns the active configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the process logger.
func Logger() *logrus.Logger {
	if logger == nil {
		_ = Configure(cfg)
	}
	return logger
}

// NewLogger builds the process logger for the configured env.
func NewLogger(c *config.Config) (*logrus.Logger, error) {
	log := logrus.New()

	var out io.Writer = os.Stderr
	if c.Log.File != "" {
		f, err := os.OpenFile(c.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
	}
	log.SetOutput(out)

	switch c.Env {
	case config.EnvLocal:
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   c.Log.File == "",
			FullTimestamp: false,
		})
	case config.EnvDev:
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	default:
		log.SetLevel(logrus.WarnLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if c.Log.Level != "" {
		level, err := logrus.ParseLevel(strings.ToLower(c.Log.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
		}
		log.SetLevel(level)
	}

	return log, nil
}

// Database returns the shared database handle.
func Database() *sql.DB {
	once.Do(initServices)
	return database
}

// TaskService returns the singleton TaskService instance.
func TaskService() primary.TaskService {
	once.Do(initServices)
	return taskService
}

// IssueService returns the singleton IssueService instance.
func IssueService() primary.IssueService {
	once.Do(initServices)
	return issueService
}

// DashboardService returns the singleton DashboardService instance.
func DashboardService() primary.DashboardService {
	once.Do(initServices)
	return dashboardService
}

// UserService returns the singleton UserService instance.
func UserService() primary.UserService {
	once.Do(initServices)
	return userService
}

// AuthService returns the singleton AuthService instance.
func AuthService() primary.AuthService {
	once.Do(initServices)
	return authService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	log := Logger()

	var err error
	database, err = db.Open(cfg.Database.Path)
	if err != nil {
		log.WithError(err).WithField("path", cfg.Database.Path).Fatal("failed to initialize database")
	}

	loc := cfg.Location()

	// Repository adapters (secondary ports)
	taskRepo := sqlite.NewTaskRepository(database)
	issueRepo := sqlite.NewIssueRepository(database)
	userRepo := sqlite.NewUserRepository(database)
	activityRepo := sqlite.NewActivityRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(activityRepo)

	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewJWTIssuer(cfg.Secret(), cfg.Auth.TokenTTL)

	// Services (primary ports)
	taskService = app.NewTaskService(taskRepo, userRepo, logWriter, loc)
	issueService = app.NewIssueService(issueRepo, taskRepo, logWriter, loc)
	dashboardService = app.NewDashboardService(taskRepo, issueRepo, userRepo, activityRepo, loc)
	userService = app.NewUserService(userRepo, taskRepo, hasher, logWriter)
	authService = app.NewAuthService(userRepo, hasher, tokens, logWriter)

	log.WithFields(logrus.Fields{
		"db":       cfg.Database.Path,
		"env":      cfg.Env,
		"timezone": loc.String(),
	}).Debug("services initialized")
}

// Router returns a new gin engine over the singleton services.
func Router() *gin.Engine {
	once.Do(initServices)
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	return rest.NewRouter(rest.Services{
		Tasks:     taskService,
		Issues:    issueService,
		Dashboard: dashboardService,
		Users:     userService,
		Auth:      authService,
	}, Logger(), rest.Options{
		CORSOrigins:        cfg.Server.CORSOrigins,
		LoginRatePerMinute: cfg.Server.LoginRatePerMinute,
	})
}

// Server returns a new HTTP server over Router.
func Server() *rest.Server {
	return rest.NewServer(cfg.Server, Router(), Logger())
}

// Close releases the database handle if it was opened.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}
