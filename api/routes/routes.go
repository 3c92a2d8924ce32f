package routes

import (
	"time"

	"opsvault/api/handler"
	"opsvault/api/middleware"
	"opsvault/internal/entity"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(e *echo.Echo, authHandler *handler.AuthHandler, userHandler *handler.UserHandler, authMiddleware middleware.AuthMiddleware) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Users:          userHandler,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	admin := string(entity.UserRoleAdmin)

	e.POST("/auth/register", r.Auth.Register, r.AuthRate.Middleware())
	e.POST("/auth/login", r.Auth.Login, r.LoginRate.Middleware())
	e.POST("/auth/verify-otp", r.Auth.VerifyOTP, r.AuthRate.Middleware())
	e.POST("/auth/resend-otp", r.Auth.ResendOTP, r.AuthRate.Middleware())
	e.POST("/auth/request-reset", r.Auth.PasswordForgot, r.LoginRate.Middleware())
	e.POST("/auth/reset-password", r.Auth.PasswordReset, r.AuthRate.Middleware())
	e.POST("/auth/change-password", r.Auth.PasswordChange, r.AuthMiddleware.RequireAuth)
	e.GET("/auth/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)

	e.PUT("/users/profile", r.Users.UpdateProfile, r.AuthMiddleware.RequireAuth)
	e.GET("/users", r.Users.ListUsers, r.AuthMiddleware.RequireAuth, middleware.RequireRole(admin))
	e.GET("/users/:id", r.Users.GetUser, r.AuthMiddleware.RequireAuth)
	e.DELETE("/users/:id", r.Users.DeactivateUser, r.AuthMiddleware.RequireAuth, middleware.RequireRole(admin))

	e.GET("/audit", r.Users.ListAuditLogs, r.AuthMiddleware.RequireAuth, middleware.RequireRole(admin))
}
