package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snapship-service/conf"
	"snapship-service/controller"
	"snapship-service/database"
	"snapship-service/logger"
	"snapship-service/service/deploy_service"
	"snapship-service/service/history_service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ENV        string
	configPath string
)

func init() {
	flag.StringVar(&ENV, "env", "loc", "Environment: loc/prod/example")
	flag.StringVar(&configPath, "config", "", "Config file path, overrides -env")
}

// @title           Snapship API
// @version         1.0
// @description     Upload a zipped static site and get a live Vercel URL back

// @host      localhost:7330
// @BasePath  /

// @schemes https http

func main() {
	// Initialize all components
	app, cleanup := initAll()
	defer cleanup()

	// Start HTTP API service (in goroutine)
	go startServer(app.srv, app.log)
	app.log.Info("Snapship API service started", zap.String("port", conf.Cfg.Server.Port))

	// Start history retention (in goroutine)
	ctx, cancel := context.WithCancel(context.Background())
	if retention := retentionPeriod(); app.history.Enabled() && retention > 0 {
		go app.history.RunRetention(ctx, retention)
		app.log.Info("History retention started", zap.Duration("retention", retention))
	}

	// Wait for shutdown signal
	waitForShutdown()

	app.log.Info("Shutting down snapship service...")
	cancel()

	// Gracefully shutdown HTTP service, in-flight deployments may take up to the provider timeout
	shutdownServer(app.srv, time.Duration(conf.Cfg.Vercel.TimeoutSeconds)*time.Second+5*time.Second, app.log)

	app.log.Info("Server exited")
}

type application struct {
	srv     *http.Server
	history *history_service.HistoryService
	log     *zap.Logger
}

// initEnv initialize environment
func initEnv() {
	switch ENV {
	case "prod":
		conf.SystemEnvironmentEnum = conf.ProductEnvironmentEnum
	case "example":
		conf.SystemEnvironmentEnum = conf.ExampleEnvironmentEnum
	default:
		conf.SystemEnvironmentEnum = conf.LocalEnvironmentEnum
	}
	fmt.Printf("Environment: %s\n", conf.SystemEnvironmentEnum)
}

// initAll initialize all components
func initAll() (*application, func()) {
	// Parse command line parameters
	flag.Parse()

	// Set environment
	initEnv()

	// Initialize configuration
	path := configPath
	if path == "" {
		path = conf.GetYaml()
	}
	if err := conf.InitConfig(path); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	zlog, err := logger.Init(conf.Cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zlog.Info("Configuration loaded",
		zap.String("env", ENV),
		zap.String("config", path),
		zap.String("port", conf.Cfg.Server.Port))

	// The service still starts; every deploy fails with a configuration error until a token is set.
	if conf.Cfg.Vercel.Token == "" {
		zlog.Warn("VERCEL_TOKEN is not configured, deployments will fail",
			zap.String("hint", "set SNAPSHIP_VERCEL_TOKEN or VERCEL_TOKEN"))
	}

	// Initialize database
	if conf.Cfg.History.Enable {
		if err := initDatabase(); err != nil {
			zlog.Fatal("Failed to initialize database", zap.Error(err))
		}
	}

	if conf.Cfg.Server.Mode != "" {
		gin.SetMode(conf.Cfg.Server.Mode)
	}

	submitter := deploy_service.NewVercelSubmitter(conf.Cfg.Vercel, zlog.Named("vercel"))
	historyService := history_service.NewHistoryService(database.DB, zlog.Named("history"))
	deployService := deploy_service.NewDeployService(
		deploy_service.NewPackager(conf.Cfg.Vercel.ProjectPrefix),
		submitter,
		zlog.Named("deploy"),
	)

	router := controller.SetupRouter(conf.Cfg, controller.Services{
		Deploy:    deployService,
		History:   historyService,
		Submitter: submitter,
	}, zlog.Named("http"))

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + conf.Cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanup := func() {
		if database.DB != nil {
			database.DB.Close()
		}
		_ = zlog.Sync()
	}

	return &application{srv: srv, history: historyService, log: zlog}, cleanup
}

// initDatabase initialize database based on configuration
func initDatabase() error {
	dbType := database.DBType(conf.Cfg.Database.Type)

	switch dbType {
	case database.DBTypePebble:
		config := &database.PebbleConfig{
			DataDir: conf.Cfg.Database.DataDir,
		}
		return database.InitDatabase(database.DBTypePebble, config)
	default:
		return fmt.Errorf("unsupported database type: %s", dbType)
	}
}

func retentionPeriod() time.Duration {
	return time.Duration(conf.Cfg.History.RetentionDays) * 24 * time.Hour
}

// startServer start HTTP server
func startServer(srv *http.Server, zlog *zap.Logger) {
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}

// waitForShutdown wait for shutdown signal
func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}

// shutdownServer gracefully shutdown server
func shutdownServer(srv *http.Server, timeout time.Duration, zlog *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
}
