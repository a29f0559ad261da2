package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/ai"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/config"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/database"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/handlers"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/jobs"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/logger"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/middleware"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/services"
	"github.com/kaansrl/Genel-Kultur-Quiz-Web-Uygulamasi-gkapp/internal/visibility"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(getMode())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		zlog.Fatal("invalid timezone", "tz", cfg.Timezone, "err", err)
	}
	now := func() time.Time { return time.Now().In(loc) }

	gate, err := visibility.NewGate(cfg.QuizStart, cfg.QuizEnd, cfg.GenStart)
	if err != nil {
		zlog.Fatal("invalid time window config", "err", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		zlog.Fatal("database connection failed", "err", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("database migration failed", "err", err)
	}
	zlog.Info("database ready", "host", cfg.DBHost, "db", cfg.DBName)

	aiClient, err := ai.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("AI client init failed", "err", err)
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		zlog.Info("leaderboard cache enabled", "addr", cfg.RedisAddr)
	}

	xpService := services.NewXPService(db, now, zlog)
	authService := services.NewAuthService(db)
	sessionService := services.NewSessionService(db, cfg.SessionSecret,
		time.Duration(cfg.SessionTTLHrs)*time.Hour, now)
	factService := services.NewFactService(db, aiClient, cfg, now, zlog)
	quizService := services.NewQuizService(db, aiClient, xpService, cfg, now, zlog)
	statsService := services.NewStatsService(db, aiClient, cache, now, zlog)

	authHandler := handlers.NewAuthHandler(authService, sessionService, xpService, zlog)
	factHandler := handlers.NewFactHandler(factService, xpService, gate, now, zlog)
	quizHandler := handlers.NewQuizHandler(quizService, gate, now, zlog)
	statsHandler := handlers.NewStatsHandler(statsService, zlog)

	scheduler := jobs.New(factService, quizService, gate, now, loc, cfg.CronSpec, zlog)
	if err := scheduler.Start(); err != nil {
		zlog.Fatal("scheduler start failed", "err", err)
	}
	defer scheduler.Stop()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.SessionAuth(sessionService), authHandler.Me)
			auth.POST("/logout", middleware.SessionAuth(sessionService), authHandler.Logout)
		}

		facts := api.Group("/bilgiler")
		{
			facts.GET("/aktif", factHandler.Active)
			facts.GET("/gunluk", factHandler.Daily)
			facts.POST("/okundu", middleware.SessionAuth(sessionService), factHandler.MarkRead)
			facts.POST("/admin/uret", factHandler.AdminGenerate)
		}

		quizzes := api.Group("/quizler")
		{
			quizzes.GET("/bugun", quizHandler.Today)
			quizzes.GET("/bugun/durum", middleware.SessionAuth(sessionService), quizHandler.Status)
			quizzes.POST("/bugun/cevapla", middleware.SessionAuth(sessionService), quizHandler.Submit)
			quizzes.POST("/admin/generate-today", quizHandler.AdminGenerate)
		}

		stats := api.Group("/istatistik")
		{
			stats.GET("/ben", middleware.SessionAuth(sessionService), statsHandler.Me)
			stats.GET("/ben/yorum", middleware.SessionAuth(sessionService), statsHandler.MyComments)
			stats.GET("/leaderboard", statsHandler.Leaderboard)
		}
	}

	zlog.Info("server starting", "port", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		zlog.Fatal("server failed", "err", err)
	}
}

func getMode() string {
	if gin.Mode() == gin.ReleaseMode {
		return "prod"
	}
	return "dev"
}
