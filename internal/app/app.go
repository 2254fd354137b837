package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kjarj54/PlayWise-Backend/domain"
	"github.com/kjarj54/PlayWise-Backend/internal/config"
	httpx "github.com/kjarj54/PlayWise-Backend/internal/http"
	"github.com/kjarj54/PlayWise-Backend/internal/http/handlers"
	"github.com/kjarj54/PlayWise-Backend/internal/http/middleware"
	"github.com/kjarj54/PlayWise-Backend/internal/infrastructure/auth"
	"github.com/kjarj54/PlayWise-Backend/internal/infrastructure/database"
	"github.com/kjarj54/PlayWise-Backend/internal/infrastructure/notifications"
	"github.com/kjarj54/PlayWise-Backend/internal/infrastructure/oauth"
	"github.com/kjarj54/PlayWise-Backend/internal/infrastructure/repositories"
	"github.com/kjarj54/PlayWise-Backend/internal/logger"
	"github.com/kjarj54/PlayWise-Backend/internal/services"
)

// Run wires the whole service together and serves until the listener
// fails.
func Run(cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	log, err := logger.New(cfg.GinMode)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(gdb)
	otpRepo := repositories.NewOTPRepository(gdb)
	deviceRepo := repositories.NewDeviceRepository(gdb)

	// Infrastructure services
	passwordSvc := auth.NewPasswordService(auth.PolicyConfig{
		MinLength:      cfg.PasswordMinLength,
		RequireUpper:   cfg.PasswordRequireUpper,
		RequireLower:   cfg.PasswordRequireLower,
		RequireDigit:   cfg.PasswordRequireDigit,
		RequireSpecial: cfg.PasswordRequireSpecial,
	})
	tokenSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	googleSvc := oauth.NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, log)
	mailer := notifications.NewEmailService(notifications.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		AppName:  cfg.AppName,
		BaseURL:  cfg.BaseURL,
	}, log)
	audit := logger.NewAuditLogger(log)

	// Domain services
	otpSvc := services.NewOTPService(otpRepo, mailer, rdb, services.OTPConfig{
		TTL:          cfg.OTPTTL,
		MaxAttempts:  cfg.OTPMaxAttempts,
		ResendWindow: cfg.OTPResendWindow,
	})
	deviceSvc := services.NewDeviceService(deviceRepo, cfg.DeviceTrustTTL)
	authSvc := services.NewAuthService(userRepo, passwordSvc, tokenSvc, otpSvc, deviceSvc, googleSvc, mailer, audit, log)

	// HTTP layer
	authH := handlers.NewAuthHandlers(authSvc)
	googleH := handlers.NewGoogleOAuthHandlers(authSvc, googleSvc)
	deviceH := handlers.NewDeviceHandlers(deviceSvc)
	userH := handlers.NewUserHandlers(authSvc, userRepo)
	authMW := middleware.NewAuthMiddleware(tokenSvc, userRepo)
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimitPerMinute, log)

	r := httpx.BuildRouter(authH, googleH, deviceH, userH, authMW, limiter, log)

	stopJanitor := startJanitor(otpRepo, deviceRepo, cfg.CleanupInterval, log)
	defer stopJanitor()

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

// startJanitor periodically purges expired OTP challenges and trusted
// devices. Expiry is enforced at read time regardless; this just keeps
// the tables from growing without bound.
func startJanitor(otpRepo domain.OTPRepository, deviceRepo domain.DeviceRepository, interval time.Duration, log *zap.Logger) func() {
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if n, err := otpRepo.DeleteExpired(ctx); err != nil {
					log.Warn("otp cleanup failed", zap.Error(err))
				} else if n > 0 {
					log.Info("purged expired otp challenges", zap.Int64("count", n))
				}
				if n, err := deviceRepo.DeleteExpired(ctx); err != nil {
					log.Warn("device cleanup failed", zap.Error(err))
				} else if n > 0 {
					log.Info("purged expired trusted devices", zap.Int64("count", n))
				}
				cancel()
			}
		}
	}()

	return func() { close(done) }
}
