package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

// DeviceRepositoryImpl implements domain.DeviceRepository using GORM
type DeviceRepositoryImpl struct {
	db *gorm.DB
}

// DBTrustedDevice represents the database model for TrustedDevice
type DBTrustedDevice struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"uniqueIndex:idx_user_device"`
	DeviceID   string `gorm:"uniqueIndex:idx_user_device;size:255"`
	DeviceName string `gorm:"size:255"`
	DeviceType string `gorm:"size:50"`
	CreatedAt  time.Time
	LastUsedAt time.Time `gorm:"index"`
	ExpiresAt  time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBTrustedDevice) TableName() string {
	return "trusted_devices"
}

// NewDeviceRepository creates a new trusted device repository
func NewDeviceRepository(db *gorm.DB) domain.DeviceRepository {
	return &DeviceRepositoryImpl{db: db}
}

// Find implements domain.DeviceRepository
func (r *DeviceRepositoryImpl) Find(ctx context.Context, userID uint, deviceID string) (*domain.TrustedDevice, error) {
	var dbDevice DBTrustedDevice
	err := r.db.WithContext(ctx).Where("user_id = ? AND device_id = ?", userID, deviceID).First(&dbDevice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, err
	}
	return deviceToDomain(&dbDevice), nil
}

// Save implements domain.DeviceRepository
func (r *DeviceRepositoryImpl) Save(ctx context.Context, device *domain.TrustedDevice) error {
	dbDevice := deviceToDB(device)
	if err := r.db.WithContext(ctx).Save(dbDevice).Error; err != nil {
		return err
	}
	device.ID = dbDevice.ID
	device.CreatedAt = dbDevice.CreatedAt
	return nil
}

// Delete implements domain.DeviceRepository
func (r *DeviceRepositoryImpl) Delete(ctx context.Context, userID uint, deviceID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND device_id = ?", userID, deviceID).Delete(&DBTrustedDevice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}

// DeleteAll implements domain.DeviceRepository
func (r *DeviceRepositoryImpl) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&DBTrustedDevice{})
	return res.RowsAffected, res.Error
}

// DeleteExpired implements domain.DeviceRepository
func (r *DeviceRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&DBTrustedDevice{})
	return res.RowsAffected, res.Error
}

// ListByUser implements domain.DeviceRepository
func (r *DeviceRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*domain.TrustedDevice, error) {
	var dbDevices []DBTrustedDevice
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("last_used_at DESC").Find(&dbDevices).Error
	if err != nil {
		return nil, err
	}
	devices := make([]*domain.TrustedDevice, 0, len(dbDevices))
	for i := range dbDevices {
		devices = append(devices, deviceToDomain(&dbDevices[i]))
	}
	return devices, nil
}

func deviceToDB(d *domain.TrustedDevice) *DBTrustedDevice {
	return &DBTrustedDevice{
		ID:         d.ID,
		UserID:     d.UserID,
		DeviceID:   d.DeviceID,
		DeviceName: d.DeviceName,
		DeviceType: d.DeviceType,
		CreatedAt:  d.CreatedAt,
		LastUsedAt: d.LastUsedAt,
		ExpiresAt:  d.ExpiresAt,
	}
}

func deviceToDomain(d *DBTrustedDevice) *domain.TrustedDevice {
	return &domain.TrustedDevice{
		ID:         d.ID,
		UserID:     d.UserID,
		DeviceID:   d.DeviceID,
		DeviceName: d.DeviceName,
		DeviceType: d.DeviceType,
		CreatedAt:  d.CreatedAt,
		LastUsedAt: d.LastUsedAt,
		ExpiresAt:  d.ExpiresAt,
	}
}
