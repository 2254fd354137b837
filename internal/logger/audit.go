package logger

import (
	"go.uber.org/zap"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

// ZapAuditLogger implements domain.AuditLogger on the process logger.
type ZapAuditLogger struct {
	log *zap.Logger
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(log *zap.Logger) domain.AuditLogger {
	return &ZapAuditLogger{log: log.Named("audit")}
}

// LogEvent implements domain.AuditLogger
func (a *ZapAuditLogger) LogEvent(event *domain.AuditEvent) {
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.Bool("success", event.Success),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.UserID != 0 {
		fields = append(fields, zap.Uint("user_id", event.UserID))
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if event.ErrorMsg != "" {
		fields = append(fields, zap.String("error", event.ErrorMsg))
	}

	if event.Success {
		a.log.Info("audit event", fields...)
	} else {
		a.log.Warn("audit event", fields...)
	}
}
