package domain

import "time"

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Authentication events
	UserRegisteredEvent   AuditEventType = "USER_REGISTERED"
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	AccountActivatedEvent AuditEventType = "ACCOUNT_ACTIVATED"

	// Second-factor events
	OTPIssuedEvent        AuditEventType = "OTP_ISSUED"
	OTPVerifiedEvent      AuditEventType = "OTP_VERIFIED"
	OTPVerifyFailureEvent AuditEventType = "OTP_VERIFICATION_FAILED"

	// Device trust events
	DeviceTrustedEvent AuditEventType = "DEVICE_TRUSTED"
	DeviceRevokedEvent AuditEventType = "DEVICE_REVOKED"

	// Credential lifecycle events
	PasswordResetRequestedEvent AuditEventType = "PASSWORD_RESET_REQUESTED"
	PasswordResetEvent          AuditEventType = "PASSWORD_RESET"
)

// AuditEvent records a security-relevant outcome. Events never carry
// password hashes, token material, or OTP codes.
type AuditEvent struct {
	EventType AuditEventType `json:"event_type"`
	UserID    uint           `json:"user_id,omitempty"`
	Email     string         `json:"email,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Success   bool           `json:"success"`
	ErrorMsg  string         `json:"error_msg,omitempty"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(event *AuditEvent)
}

// NewAuditEvent creates an audit event with common fields populated.
func NewAuditEvent(eventType AuditEventType, userID uint) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithError marks the event failed and records the cause.
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field.
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}
