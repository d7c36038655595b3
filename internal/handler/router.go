package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/relieforg/reliefhub/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Limiter   *middleware.RateLimiter
	JWTSecret []byte
	JWTTTL    time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	authGroup := api.Group("/auth")
	if deps.Limiter != nil {
		authGroup.Use(deps.Limiter.Handle)
	}
	authGroup.POST("/register", deps.Auth.Register)
	authGroup.POST("/login", deps.Auth.Login)
	authGroup.POST("/verify", deps.Auth.Verify)
	authGroup.POST("/resend", deps.Auth.Resend)
	authGroup.POST("/logout", deps.Auth.Logout)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(deps.JWTSecret, deps.JWTTTL))
	authed.GET("/profile", deps.Profile.Get)
	authed.PUT("/profile", deps.Profile.Update)
}
