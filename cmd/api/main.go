package main

import (
	"time"

	"github.com/joho/godotenv"

	"library-backend/internal/adapter/repository/mysql"
	"library-backend/internal/config"
	"library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/db"
	"library-backend/internal/metadata"
	"library-backend/internal/usecase/account"
	"library-backend/internal/usecase/borrowing"
	"library-backend/internal/usecase/catalog"
	"library-backend/internal/usecase/resolution"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	log := logger.L()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("mysql connect failed")
	}
	if err := db.AutoMigrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}

	books := mysql.NewBookRepository(gdb)
	requests := mysql.NewRequestRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	tokens := jwt.NewManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLMins)*time.Minute)
	gbooks := metadata.NewGoogleBooksClient(cfg.GoogleBooksURL, 10*time.Second)
	store := cache.NewRedisCache(rdb)
	cacheTTL := time.Duration(cfg.CacheTTLSecs) * time.Second

	deps := routerDeps{
		cfg:        cfg,
		rdb:        rdb,
		tokens:     tokens,
		accounts:   account.NewUsecase(users, tokens),
		catalog:    catalog.NewUsecase(books, gbooks, store, cacheTTL, log),
		borrowing:  borrowing.NewUsecase(books, requests, log),
		resolution: resolution.NewUsecase(tx, requests, log),
	}

	e := newRouter(deps)

	addr := ":" + cfg.AppPort
	log.Info().Str("addr", addr).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
