package main

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	httpadp "library-backend/internal/adapter/http"
	"library-backend/internal/adapter/middleware"
	"library-backend/internal/config"
	"library-backend/internal/usecase/account"
	"library-backend/internal/usecase/borrowing"
	"library-backend/internal/usecase/catalog"
	"library-backend/internal/usecase/resolution"
	"library-backend/pkg/jwt"
)

type routerDeps struct {
	cfg        *config.Config
	rdb        *redis.Client
	tokens     *jwt.Manager
	accounts   *account.Usecase
	catalog    *catalog.Usecase
	borrowing  *borrowing.Usecase
	resolution *resolution.Usecase
}

func newRouter(d routerDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	h := httpadp.NewHandler(d.cfg.AppEnv)
	accounts := httpadp.NewAccountHandler(d.accounts)
	books := httpadp.NewBookHandler(d.catalog)
	requests := httpadp.NewRequestHandler(d.borrowing)
	resolutions := httpadp.NewResolutionHandler(d.resolution)

	auth := middleware.Auth(d.tokens)
	idemp := middleware.Idempotency(d.rdb, time.Duration(d.cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)

	api := e.Group("/api")

	// public
	api.POST("/auth/register", accounts.Register)
	api.POST("/auth/login", accounts.Login)
	api.GET("/books/search", books.Search, middleware.OptionalAuth(d.tokens))

	// authenticated users; mutations are idempotency-keyed
	user := api.Group("", auth)
	user.GET("/books/:book_id", books.GetBook)
	user.POST("/requests/borrow", requests.Borrow, idemp)
	user.POST("/requests/return", requests.Return, idemp)
	user.GET("/requests/my-loans", requests.MyLoans)
	user.GET("/requests/history", resolutions.MyHistory)

	// admin surface
	admin := api.Group("/admin", auth, middleware.AdminOnly())
	admin.GET("/requests", resolutions.ListAll)
	admin.PUT("/requests/:request_id", resolutions.Resolve, idemp)
	admin.POST("/books", books.AddBook)
	admin.GET("/books", books.ListBooks)
	admin.GET("/users", accounts.ListUsers)
	admin.GET("/users/:user_id/requests", resolutions.UserHistory)

	return e
}
