package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/streaklog/internal/config"
	"github.com/streaklog/internal/db"
	"github.com/streaklog/internal/handler"
	"github.com/streaklog/internal/logging"
	"github.com/streaklog/internal/metrics"
	"github.com/streaklog/internal/router"
	"github.com/streaklog/internal/store"
	"github.com/streaklog/internal/streak"
)

const eventBuffer = 32

func main() {
	cfg, err := config.Load()
	if err != nil {
		// 日志尚未配置，使用默认 logrus 输出
		logging.Setup(logging.SetupParams{}).Fatalf("failed to load config: %v", err)
	}

	log := logging.Setup(logging.SetupParams{
		LogFileName:   cfg.LogFile,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
	})
	gin.SetMode(cfg.GinMode)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("invalid timezone: %v", err)
	}
	epoch, err := cfg.Epoch()
	if err != nil {
		log.Fatalf("invalid streak epoch: %v", err)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	if err := db.EnsureUser(db.DB, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure super root user: %v", err)
	}

	manager := metrics.NewManager("streaklog", "server", prometheus.DefaultRegisterer)
	hub := streak.NewHub(eventBuffer)
	defer hub.Close()

	st := store.New(db.DB, loc, log)
	engine := streak.NewEngine(st, streak.Options{
		Location: loc,
		Epoch:    epoch,
		Hub:      hub,
		Logger:   log,
		Recorder: manager,
	})

	api := handler.NewAPI(db.DB, st, engine, log)
	r := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		SecureCookie:  cfg.SessionSecure,
		Metrics:       manager,
		Gatherer:      prometheus.DefaultGatherer,
	})

	log.WithFields(logrus.Fields{
		"addr":     cfg.ListenAddr,
		"timezone": loc.String(),
		"database": cfg.DatabasePath,
	}).Info("starting streaklog server")

	// 设置并运行 Gin 服务器
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
