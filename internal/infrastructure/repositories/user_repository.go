package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID              uint   `gorm:"primaryKey"`
	Username        string `gorm:"uniqueIndex;size:64"`
	Email           string `gorm:"uniqueIndex;size:255"`
	PasswordHash    string `gorm:"column:password"`
	Role            string `gorm:"index;size:32"`
	IsActive        bool   `gorm:"index"`
	EmailActivated  bool
	OTPVerifiedOnce bool   `gorm:"column:otp_verified_once"`
	Provider        string `gorm:"size:16"`
	GoogleID        string `gorm:"index;size:255"`
	ProfilePicture  string

	VerificationToken string `gorm:"index;size:64"`
	ResetToken        string `gorm:"index;size:64"`
	ResetExpiresAt    *time.Time

	LastLoginAt *time.Time
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	return nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByUsername implements domain.UserRepository
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByGoogleID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.findOne(ctx, "google_id = ? AND google_id <> ''", googleID)
}

// FindByVerificationToken implements domain.UserRepository
func (r *UserRepositoryImpl) FindByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, "verification_token = ? AND verification_token <> ''", token)
}

// FindByResetToken implements domain.UserRepository
func (r *UserRepositoryImpl) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, "reset_token = ? AND reset_token <> ''", token)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, args...).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	// Save writes every column so cleared token fields persist as empty.
	return r.db.WithContext(ctx).Save(dbUser).Error
}

// UpdateLastLogin implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update("last_login_at", now).Error
}

// Deactivate implements domain.UserRepository
func (r *UserRepositoryImpl) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete implements domain.UserRepository. Owned challenge and device
// rows go in the same transaction as the user row.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&DBOTPChallenge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&DBTrustedDevice{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&DBUser{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

// List implements domain.UserRepository
func (r *UserRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	var dbUsers []DBUser
	err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&dbUsers).Error
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, userToDomain(&dbUsers[i]))
	}
	return users, nil
}

// userToDB converts domain user to database user
func userToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		PasswordHash:      user.PasswordHash,
		Role:              string(user.Role),
		IsActive:          user.IsActive,
		EmailActivated:    user.EmailActivated,
		OTPVerifiedOnce:   user.OTPVerifiedOnce,
		Provider:          string(user.Provider),
		GoogleID:          user.GoogleID,
		ProfilePicture:    user.ProfilePicture,
		VerificationToken: user.VerificationToken,
		ResetToken:        user.ResetToken,
		ResetExpiresAt:    user.ResetExpiresAt,
		LastLoginAt:       user.LastLoginAt,
		CreatedAt:         user.CreatedAt,
	}
}

// userToDomain converts database user to domain user
func userToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:                dbUser.ID,
		Username:          dbUser.Username,
		Email:             dbUser.Email,
		PasswordHash:      dbUser.PasswordHash,
		Role:              domain.Role(dbUser.Role),
		IsActive:          dbUser.IsActive,
		EmailActivated:    dbUser.EmailActivated,
		OTPVerifiedOnce:   dbUser.OTPVerifiedOnce,
		Provider:          domain.AuthProvider(dbUser.Provider),
		GoogleID:          dbUser.GoogleID,
		ProfilePicture:    dbUser.ProfilePicture,
		VerificationToken: dbUser.VerificationToken,
		ResetToken:        dbUser.ResetToken,
		ResetExpiresAt:    dbUser.ResetExpiresAt,
		LastLoginAt:       dbUser.LastLoginAt,
		CreatedAt:         dbUser.CreatedAt,
		UpdatedAt:         dbUser.UpdatedAt,
	}
}
