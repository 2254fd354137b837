package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

// OTPRepositoryImpl implements domain.OTPRepository using GORM
type OTPRepositoryImpl struct {
	db *gorm.DB
}

// DBOTPChallenge represents the database model for OTPChallenge
type DBOTPChallenge struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index"`
	Code      string `gorm:"size:6"`
	Purpose   string `gorm:"index;size:32"`
	IsUsed    bool
	Attempts  int
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBOTPChallenge) TableName() string {
	return "otp_challenges"
}

// NewOTPRepository creates a new OTP challenge repository
func NewOTPRepository(db *gorm.DB) domain.OTPRepository {
	return &OTPRepositoryImpl{db: db}
}

// Replace implements domain.OTPRepository. Invalidation of prior unused
// challenges and creation of the new one share a transaction so two
// concurrently valid codes can never exist for the same purpose.
func (r *OTPRepositoryImpl) Replace(ctx context.Context, challenge *domain.OTPChallenge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&DBOTPChallenge{}).
			Where("user_id = ? AND purpose = ? AND is_used = ?", challenge.UserID, challenge.Purpose, false).
			Update("is_used", true).Error
		if err != nil {
			return err
		}

		dbChallenge := otpToDB(challenge)
		if err := tx.Create(dbChallenge).Error; err != nil {
			return err
		}
		challenge.ID = dbChallenge.ID
		challenge.CreatedAt = dbChallenge.CreatedAt
		return nil
	})
}

// FindActive implements domain.OTPRepository
func (r *OTPRepositoryImpl) FindActive(ctx context.Context, userID uint, purpose string) (*domain.OTPChallenge, error) {
	var dbChallenge DBOTPChallenge
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ? AND is_used = ?", userID, purpose, false).
		Order("created_at DESC")
	// Row lock guards the read-check-write verify sequence; sqlite (used
	// in tests) has no FOR UPDATE.
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&dbChallenge).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	return otpToDomain(&dbChallenge), nil
}

// Update implements domain.OTPRepository
func (r *OTPRepositoryImpl) Update(ctx context.Context, challenge *domain.OTPChallenge) error {
	return r.db.WithContext(ctx).Save(otpToDB(challenge)).Error
}

// DeleteExpired implements domain.OTPRepository
func (r *OTPRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&DBOTPChallenge{})
	return res.RowsAffected, res.Error
}

// Transaction implements domain.OTPRepository
func (r *OTPRepositoryImpl) Transaction(ctx context.Context, fn func(domain.OTPRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OTPRepositoryImpl{db: tx})
	})
}

func otpToDB(c *domain.OTPChallenge) *DBOTPChallenge {
	return &DBOTPChallenge{
		ID:        c.ID,
		UserID:    c.UserID,
		Code:      c.Code,
		Purpose:   c.Purpose,
		IsUsed:    c.IsUsed,
		Attempts:  c.Attempts,
		CreatedAt: c.CreatedAt,
		ExpiresAt: c.ExpiresAt,
	}
}

func otpToDomain(c *DBOTPChallenge) *domain.OTPChallenge {
	return &domain.OTPChallenge{
		ID:        c.ID,
		UserID:    c.UserID,
		Code:      c.Code,
		Purpose:   c.Purpose,
		IsUsed:    c.IsUsed,
		Attempts:  c.Attempts,
		CreatedAt: c.CreatedAt,
		ExpiresAt: c.ExpiresAt,
	}
}
