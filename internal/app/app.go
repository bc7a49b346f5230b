package app

import (
	"context"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"hospital-admin-go/internal/config"
	"hospital-admin-go/internal/db"
	accessdomain "hospital-admin-go/internal/domain/access"
	analyticsdomain "hospital-admin-go/internal/domain/analytics"
	carddomain "hospital-admin-go/internal/domain/card"
	leavedomain "hospital-admin-go/internal/domain/leave"
	personneldomain "hospital-admin-go/internal/domain/personnel"
	researchdomain "hospital-admin-go/internal/domain/research"
	scheduledomain "hospital-admin-go/internal/domain/schedule"
	settingsdomain "hospital-admin-go/internal/domain/settings"
	userdomain "hospital-admin-go/internal/domain/user"
	"hospital-admin-go/internal/realtime"
	"hospital-admin-go/internal/repository/inmemory"
	accessrepo "hospital-admin-go/internal/repository/postgres/access"
	analyticsrepo "hospital-admin-go/internal/repository/postgres/analytics"
	cardrepo "hospital-admin-go/internal/repository/postgres/card"
	leaverepo "hospital-admin-go/internal/repository/postgres/leave"
	personnelrepo "hospital-admin-go/internal/repository/postgres/personnel"
	researchrepo "hospital-admin-go/internal/repository/postgres/research"
	schedulerepo "hospital-admin-go/internal/repository/postgres/schedule"
	settingsrepo "hospital-admin-go/internal/repository/postgres/settings"
	userrepo "hospital-admin-go/internal/repository/postgres/user"
	"hospital-admin-go/internal/storage"
	"hospital-admin-go/internal/transport/httpserver"
	"hospital-admin-go/internal/transport/httpserver/handler"
	"hospital-admin-go/internal/transport/httpserver/handler/admin"
	analyticshandler "hospital-admin-go/internal/transport/httpserver/handler/analytics"
	"hospital-admin-go/internal/transport/httpserver/handler/cards"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
	"hospital-admin-go/internal/transport/httpserver/handler/leave"
	"hospital-admin-go/internal/transport/httpserver/handler/personnel"
	realtimehandler "hospital-admin-go/internal/transport/httpserver/handler/realtime"
	"hospital-admin-go/internal/transport/httpserver/handler/research"
	"hospital-admin-go/internal/transport/httpserver/handler/schedules"
	authmw "hospital-admin-go/internal/transport/httpserver/middleware"
	"hospital-admin-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	hub        *realtime.Hub
	log        logger.Logger
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		closeDB(dbConn)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	hub, err := newHub(ctx, cfg, log)
	if err != nil {
		closeDB(dbConn)
		return nil, err
	}

	loc := cfg.Location()
	store := storage.NewSupabase(cfg.Storage, log)

	personnelService := personneldomain.NewService(personnelrepo.NewPostgres(dbConn), hub)
	leaveService := leavedomain.NewService(leaverepo.NewPostgres(dbConn), hub)
	cardService := carddomain.NewService(cardrepo.NewPostgres(dbConn), hub, loc)
	scheduleService := scheduledomain.NewService(
		schedulerepo.NewPostgres(dbConn),
		personnelService,
		store.Bucket(cfg.Storage.AttachmentsBucket, "schedules"),
		hub,
		loc,
	)
	researchService := researchdomain.NewService(
		researchrepo.NewPostgres(dbConn),
		store.Bucket(cfg.Storage.EvidenceBucket, "evidence"),
		hub,
	)
	tokens := userdomain.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	userService := userdomain.NewService(userrepo.NewPostgres(dbConn), tokens, hub)
	accessService := accessdomain.NewService(
		accessrepo.NewPostgres(dbConn),
		inmemory.NewInMemoryPermissionsCache(),
		cfg.Permissions.CacheTTL,
	)
	settingsService := settingsdomain.NewService(
		settingsrepo.NewPostgres(dbConn),
		store.Bucket(cfg.Storage.BackgroundBucket, "backgrounds"),
		hub,
		accessdomain.Modules,
	)
	analyticsService := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn), loc, cfg.Analytics.OverviewTTL)

	if err := bootstrap(ctx, cfg, accessService, userService, log); err != nil {
		_ = hub.Close()
		closeDB(dbConn)
		return nil, err
	}

	log.Info("app: initializing router")
	maxUpload := cfg.Storage.MaxUploadBytes
	handlers := &handler.Handlers{
		Common:    commonhandler.New(userService, accessService, log),
		Personnel: personnel.New(personnelService, maxUpload, log),
		Leave:     leave.New(leaveService, log),
		Cards:     cards.New(cardService, maxUpload, log),
		Schedules: schedules.New(scheduleService, loc, maxUpload, log),
		Research:  research.New(researchService, maxUpload, log),
		Admin:     admin.New(userService, accessService, settingsService, maxUpload, log),
		Realtime:  realtimehandler.New(hub, cfg.CORSOrigins, cfg.Realtime.WriteTimeout, log),
		Analytics: analyticshandler.New(analyticsService, loc, log),
	}
	auth := authmw.NewJWTAuth(cfg.Auth, userService, log)
	perms := authmw.NewPermissions(accessService, log)
	router := httpserver.NewRouter(cfg, handlers, auth, perms)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		hub:        hub,
		log:        log,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Hub() *realtime.Hub {
	return a.hub
}

func (a *App) Close() error {
	if a.hub != nil {
		if err := a.hub.Close(); err != nil {
			a.log.Error("app: close realtime hub", "err", err)
		}
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newHub picks the Redis broker when REDIS_ADDR is set so several instances
// share one change feed. Otherwise events stay in process.
func newHub(ctx context.Context, cfg config.Config, log logger.Logger) (*realtime.Hub, error) {
	if !cfg.Realtime.Enabled {
		log.Info("app: realtime disabled, dispatching locally")
		return realtime.NewHub(nil, cfg.Realtime.BufferSize, log), nil
	}
	if cfg.Redis.Addr == "" {
		log.Info("app: realtime using in-process broker")
		return realtime.NewHub(realtime.NewMemoryBroker(0), cfg.Realtime.BufferSize, log), nil
	}

	broker := realtime.NewRedisBroker(realtime.NewRedisClient(cfg.Redis), cfg.Realtime.ChannelPrefix, log)
	if err := broker.Ping(ctx); err != nil {
		_ = broker.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	log.Info("app: realtime using redis broker", "addr", cfg.Redis.Addr)
	return realtime.NewHub(broker, cfg.Realtime.BufferSize, log), nil
}

func bootstrap(ctx context.Context, cfg config.Config, access *accessdomain.Service, users *userdomain.Service, log logger.Logger) error {
	seeded, err := access.SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	if seeded > 0 {
		log.Info("app: seeded default permissions", "rows", seeded)
	}

	if cfg.Auth.BootstrapAdmin == "" {
		return nil
	}
	created, err := users.EnsureAdmin(ctx, cfg.Auth.BootstrapAdmin, cfg.Auth.BootstrapPass)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		log.Info("app: created bootstrap admin", "username", cfg.Auth.BootstrapAdmin)
	}
	return nil
}

func closeDB(conn *gorm.DB) {
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
