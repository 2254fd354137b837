package httpx

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kjarj54/PlayWise-Backend/domain"
	"github.com/kjarj54/PlayWise-Backend/internal/http/handlers"
	"github.com/kjarj54/PlayWise-Backend/internal/http/middleware"
)

// BuildRouter wires all routes under /api. Public auth endpoints sit
// behind the rate limiter; everything stateful sits behind the session
// guard.
func BuildRouter(
	ah *handlers.AuthHandlers,
	gh *handlers.GoogleOAuthHandlers,
	dh *handlers.DeviceHandlers,
	uh *handlers.UserHandlers,
	authmw *middleware.AuthMiddleware,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	api := r.Group("/api")

	auth := api.Group("/auth", limiter.Limit())
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/login/otp", ah.VerifyLoginOTP)
	auth.POST("/otp/resend", ah.ResendLoginOTP)
	auth.POST("/activation/resend", ah.ResendActivation)
	auth.POST("/google", ah.GoogleLogin)
	auth.GET("/google/authorize", gh.Authorize)
	auth.GET("/google/callback", gh.Callback)
	auth.POST("/verify-email", ah.VerifyEmail)
	auth.GET("/verify-email", ah.VerifyEmail)
	auth.POST("/password-reset/request", ah.RequestPasswordReset)
	auth.POST("/password-reset/confirm", ah.ConfirmPasswordReset)
	auth.POST("/refresh", ah.Refresh)

	api.GET("/auth/session", authmw.OptionalAuth(), ah.Session)

	private := api.Group("/auth", authmw.RequireAuth())
	private.GET("/me", ah.Me)
	private.GET("/devices", dh.List)
	private.DELETE("/devices/:device_id", dh.RevokeOne)
	private.DELETE("/devices", dh.RevokeAll)

	users := api.Group("/users", authmw.RequireAuth())
	users.POST("/me/deactivate", uh.Deactivate)
	users.DELETE("/me", uh.Delete)

	admin := api.Group("/admin", authmw.RequireAuth(), authmw.RequireRole(domain.RoleAdmin))
	admin.GET("/users", uh.ListUsers)

	return r
}
