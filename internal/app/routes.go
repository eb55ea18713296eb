package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mazal-shop/core/internal/middleware"
	"github.com/mazal-shop/core/internal/modules/auth/user"
	"github.com/mazal-shop/core/internal/modules/catalog/comment"
	"github.com/mazal-shop/core/internal/modules/catalog/product"
	pkgredis "github.com/mazal-shop/core/internal/pkg/redis"
	"github.com/mazal-shop/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db

	authMW := middleware.Auth(db)
	staffMW := middleware.RequireStaff()

	r.NoRoute(func(c *gin.Context) {
		response.NotFoundMsg(c, "not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.Use(middleware.RateLimit(rc.Raw()))

	api := r.Group("/api/v1")

	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	user.NewHandler(user.NewService(db)).RegisterRoutes(api, authMW)

	productSvc := product.NewService(db)
	product.NewHandler(productSvc).RegisterRoutes(api, authMW, staffMW)

	commentSvc := comment.NewService(db, productSvc, rc)
	comment.NewHandler(commentSvc).RegisterRoutes(api, authMW, staffMW)
}
