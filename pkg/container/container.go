package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"playlist-backend/internal/config"
	"playlist-backend/internal/infrastructure/alert"
	"playlist-backend/internal/infrastructure/database"
	pkgdb "playlist-backend/pkg/database"
	"playlist-backend/pkg/jwt"
	"playlist-backend/pkg/workerpool"

	adminHandler "playlist-backend/internal/domains/admin/handler"
	adminService "playlist-backend/internal/domains/admin/service"
	artistRepo "playlist-backend/internal/domains/artist/repository"
	artistService "playlist-backend/internal/domains/artist/service"
	customPlaylistHandler "playlist-backend/internal/domains/customplaylist/handler"
	customPlaylistRepo "playlist-backend/internal/domains/customplaylist/repository"
	customPlaylistService "playlist-backend/internal/domains/customplaylist/service"
	playlistHandler "playlist-backend/internal/domains/playlist/handler"
	playlistRepo "playlist-backend/internal/domains/playlist/repository"
	playlistService "playlist-backend/internal/domains/playlist/service"
	songRepo "playlist-backend/internal/domains/song/repository"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Lifecycle: tạo một lần khi start, Cleanup() khi shutdown
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config     *config.Config
	DB         *database.PostgresDB
	Transactor pkgdb.Transactor
	JWTManager *jwt.Manager

	// Owned pools: start cùng process, Shutdown trong Cleanup
	BatchPool *workerpool.Pool
	AlertPool *workerpool.Pool

	AlertDispatcher *alert.Dispatcher

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	ArtistRepo         artistRepo.RepositoryInterface
	SongRepo           songRepo.RepositoryInterface
	CustomPlaylistRepo customPlaylistRepo.RepositoryInterface
	PlaylistRepo       playlistRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	ArtistService         artistService.ServiceInterface
	CustomPlaylistService customPlaylistService.ServiceInterface
	PlaylistService       playlistService.ServiceInterface
	AdminService          adminService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	CustomPlaylistHandler *customPlaylistHandler.CustomPlaylistHandler
	PlaylistHandler       *playlistHandler.PlaylistHandler
	AdminHandler          *adminHandler.AdminHandler

	stopMonitor context.CancelFunc
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Config
// 2. Infrastructure (DB, pools, alert) - phụ thuộc Config
// 3. Repositories - phụ thuộc DB
// 4. Services - phụ thuộc Repositories + pools
// 5. Handlers - phụ thuộc Services
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	// ========================================
	// STEP 2: INITIALIZE INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 3: INITIALIZE REPOSITORIES
	// ========================================
	c.initRepositories()
	log.Info().Msg("Repositories initialized")

	// ========================================
	// STEP 4: INITIALIZE SERVICES
	// ========================================
	c.initServices()
	log.Info().Msg("Services initialized")

	// ========================================
	// STEP 5: INITIALIZE HANDLERS
	// ========================================
	c.initHandlers()
	log.Info().Msg("Handlers initialized")

	log.Info().Msg("DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	// Connect với timeout 30s
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	c.stopMonitor = stopMonitor
	go db.MonitorPoolHealth(monitorCtx, time.Minute)

	c.Transactor = pkgdb.NewTransactor(db.Pool)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// ----------------------------------------
	// WORKER POOLS
	// ----------------------------------------
	c.BatchPool, err = workerpool.New(workerpool.Config{
		Name: "batch-ingest",
		Size: cfg.Concurrency.BatchPoolSize,
	})
	if err != nil {
		return fmt.Errorf("failed to start batch pool: %w", err)
	}

	c.AlertPool, err = workerpool.New(workerpool.Config{
		Name:      "alert",
		Size:      1,
		QueueSize: 256,
	})
	if err != nil {
		return fmt.Errorf("failed to start alert pool: %w", err)
	}

	// ----------------------------------------
	// ALERT DISPATCHER
	// ----------------------------------------
	slack := alert.NewSlackClient(alert.SlackConfig{
		URL:     cfg.Alert.SlackAPIURL,
		Token:   cfg.Alert.SlackToken,
		Channel: cfg.Alert.SlackChannel,
		Timeout: cfg.Alert.HTTPTimeout,
	})
	c.AlertDispatcher = alert.NewDispatcher(slack, c.AlertPool, cfg.Alert.Signature, cfg.Alert.Enabled)

	log.Info().
		Int("batch_pool_size", c.BatchPool.Size()).
		Bool("alert_enabled", cfg.Alert.Enabled).
		Msg("Infrastructure initialized")
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.ArtistRepo = artistRepo.NewPostgresRepository()
	c.SongRepo = songRepo.NewPostgresRepository(pool)
	c.CustomPlaylistRepo = customPlaylistRepo.NewPostgresRepository(pool)
	c.PlaylistRepo = playlistRepo.NewPostgresRepository(pool, c.Config.Concurrency.ViewLockTimeout)
}

func (c *Container) initServices() {
	retry := pkgdb.RetryPolicy{
		MaxAttempts: c.Config.Concurrency.OptimisticMaxAttempts,
		Backoff:     c.Config.Concurrency.OptimisticBackoff,
	}

	c.ArtistService = artistService.NewArtistService(c.ArtistRepo)

	c.CustomPlaylistService = customPlaylistService.NewCustomPlaylistService(
		c.CustomPlaylistRepo,
		c.SongRepo,
		c.Transactor,
		retry,
	)

	c.PlaylistService = playlistService.NewPlaylistService(c.PlaylistRepo, c.Transactor)

	c.AdminService = adminService.NewAdminService(
		c.BatchPool,
		c.Transactor,
		c.ArtistService,
		c.SongRepo,
	)
}

func (c *Container) initHandlers() {
	c.CustomPlaylistHandler = customPlaylistHandler.NewCustomPlaylistHandler(c.CustomPlaylistService)
	c.PlaylistHandler = playlistHandler.NewPlaylistHandler(c.PlaylistService)
	c.AdminHandler = adminHandler.NewAdminHandler(c.AdminService)
}

// Cleanup dọn dẹp resources khi shutdown.
// Pools drain trước, DB đóng sau cùng (tasks đang chạy vẫn cần connection).
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var errs []error
	if c.BatchPool != nil {
		errs = append(errs, c.BatchPool.Shutdown(ctx))
	}
	if c.AlertPool != nil {
		errs = append(errs, c.AlertPool.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Msg("Worker pools did not drain in time")
	}

	if c.stopMonitor != nil {
		c.stopMonitor()
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	log.Info().Msg("Container cleanup completed")
}
