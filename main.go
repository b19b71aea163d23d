package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outfitstore/internal/config"
	"outfitstore/internal/database"
	"outfitstore/internal/handlers"
	"outfitstore/internal/imagestore"
	"outfitstore/internal/logging"
	"outfitstore/internal/middleware"
	"outfitstore/internal/services"
	"outfitstore/internal/store"
)

func main() {
	cfg, dotenv, cfgErr := config.Load()

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if !dotenv {
		log.Debug("no .env file found, using process environment")
	}
	if cfgErr != nil {
		log.WithError(cfgErr).Fatal("invalid configuration")
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("mongo connection failed")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	db := client.Database(cfg.DBName)
	log.WithField("database", db.Name()).Info("mongo connected")

	if err := database.EnsureIndexes(db, log); err != nil {
		log.WithError(err).Warn("some indexes could not be created")
	}

	images := imagestore.NewLocal(cfg.UploadDir)
	users := store.NewUsers(db)
	outfits := store.NewOutfits(db)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RedisAddr != "" {
		rdb, err := database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, rate limiting disabled")
		} else {
			defer rdb.Close()
			r.Use(middleware.RateLimit(middleware.NewRedisCounter(rdb), cfg.RateLimitPerMinute, log))
			log.WithField("limit", cfg.RateLimitPerMinute).Info("rate limiting enabled")
		}
	}

	r.Static("/uploads", filepath.Join(cfg.UploadDir, "uploads"))

	handlers.RegisterRoutes(r, handlers.Deps{
		DB:           db,
		Outfits:      services.NewOutfitService(outfits, users, images, log),
		Carts:        services.NewCartService(store.NewCarts(db), outfits, users, log),
		Testimonials: services.NewTestimonialService(store.NewTestimonials(db), users, log),
		Users:        services.NewUserService(users, log),
		Images:       images,
		Tokens:       handlers.TokenIssuer{Secret: cfg.JWTSecret, TTL: cfg.AccessTokenTTL},
		Log:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	log.Info("server stopped")
}
