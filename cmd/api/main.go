package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openpress/openpress-backend/internal/config"
	"github.com/openpress/openpress-backend/internal/handler"
	"github.com/openpress/openpress-backend/internal/hook"
	"github.com/openpress/openpress-backend/internal/middleware"
	"github.com/openpress/openpress-backend/internal/migration"
	"github.com/openpress/openpress-backend/internal/notifier"
	"github.com/openpress/openpress-backend/internal/repository"
	"github.com/openpress/openpress-backend/internal/routes"
	"github.com/openpress/openpress-backend/internal/service"
	pkgcache "github.com/openpress/openpress-backend/pkg/cache"
	"github.com/openpress/openpress-backend/pkg/jwt"
	pkglogger "github.com/openpress/openpress-backend/pkg/logger"
	pkgredis "github.com/openpress/openpress-backend/pkg/redis"
)

// @title           OpenPress Versioning API
// @version         1.0
// @description     Content versioning, publication workflow and conflict resolution backend
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.LogResolved()

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis (optional: cache and event stream degrade gracefully)
	var cacheService pkgcache.Service
	var sink notifier.Sink
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("redis unavailable, using log sink and no cache")
		sink = notifier.NewLogSink()
	} else {
		cacheService = pkgcache.NewService(redisClient)
		sink = notifier.NewRedisSink(redisClient, cfg.Redis.Stream)
	}

	// JWT
	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)

	// Hooks: post-commit side effects registered at startup
	hooks := hook.NewManager()
	hooks.Register(hook.TransitionEvent("published"), "log-publication",
		func(event string, data map[string]interface{}) error {
			pkglogger.GetLogger().Info().Interface("payload", data).Msg("content published")
			return nil
		}, 10)

	// Repositories
	versionRepo := repository.NewVersionRepository(db)
	contentRepo := repository.NewContentRepository(db)
	conflictRepo := repository.NewConflictRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	grantRepo := repository.NewGrantRepository(db)

	// Services
	versionSvc := service.NewVersionService(versionRepo, contentRepo, cacheService, hooks, sink)
	workflowSvc := service.NewWorkflowService(contentRepo, auditRepo, grantRepo, hooks, sink)
	rollbackSvc := service.NewRollbackService(versionRepo, cacheService, hooks, sink)
	conflictSvc := service.NewConflictService(conflictRepo, versionRepo, auditRepo, cacheService, hooks, sink)

	// Handlers
	contentHandler := handler.NewContentHandler(versionSvc)
	versionHandler := handler.NewVersionHandler(versionSvc)
	workflowHandler := handler.NewWorkflowHandler(workflowSvc)
	rollbackHandler := handler.NewRollbackHandler(rollbackSvc)
	conflictHandler := handler.NewConflictHandler(conflictSvc)
	auditHandler := handler.NewAuditHandler(auditRepo)

	// Router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Tenant-ID", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	routes.Setup(
		router,
		contentHandler,
		versionHandler,
		workflowHandler,
		rollbackHandler,
		conflictHandler,
		auditHandler,
		jwtManager,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// initDB opens the MySQL connection with pool settings from config
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	logMode := gormlogger.Warn
	if cfg.IsDevelopment() {
		logMode = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	middleware.SetDBConnectionsActive(float64(sqlDB.Stats().OpenConnections))

	return db, nil
}
