package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

// DeviceServiceImpl implements domain.DeviceService on top of the
// trusted-device repository.
type DeviceServiceImpl struct {
	deviceRepo domain.DeviceRepository
	trustTTL   time.Duration
}

// NewDeviceService creates a new device trust service
func NewDeviceService(deviceRepo domain.DeviceRepository, trustTTL time.Duration) domain.DeviceService {
	return &DeviceServiceImpl{
		deviceRepo: deviceRepo,
		trustTTL:   trustTTL,
	}
}

// IsTrusted implements domain.DeviceService. An expired trust row is
// removed on sight so revocation listings never show stale devices.
// A live match refreshes LastUsedAt.
func (s *DeviceServiceImpl) IsTrusted(ctx context.Context, userID uint, deviceID string) (bool, error) {
	if deviceID == "" {
		return false, nil
	}

	device, err := s.deviceRepo.Find(ctx, userID, deviceID)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up device: %w", err)
	}

	if time.Now().After(device.ExpiresAt) {
		if err := s.deviceRepo.Delete(ctx, userID, deviceID); err != nil && !errors.Is(err, domain.ErrDeviceNotFound) {
			return false, fmt.Errorf("failed to remove expired device: %w", err)
		}
		return false, nil
	}

	device.LastUsedAt = time.Now()
	if err := s.deviceRepo.Save(ctx, device); err != nil {
		return false, fmt.Errorf("failed to refresh device: %w", err)
	}
	return true, nil
}

// Remember implements domain.DeviceService. Saving an already trusted
// device renews its expiry window.
func (s *DeviceServiceImpl) Remember(ctx context.Context, userID uint, info domain.DeviceInfo) (*domain.TrustedDevice, error) {
	if info.DeviceID == "" {
		return nil, nil
	}

	now := time.Now()
	device := &domain.TrustedDevice{
		UserID:     userID,
		DeviceID:   info.DeviceID,
		DeviceName: info.DeviceName,
		DeviceType: info.DeviceType,
		LastUsedAt: now,
		ExpiresAt:  now.Add(s.trustTTL),
	}

	if existing, err := s.deviceRepo.Find(ctx, userID, info.DeviceID); err == nil {
		device.ID = existing.ID
		device.CreatedAt = existing.CreatedAt
	}

	if err := s.deviceRepo.Save(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to remember device: %w", err)
	}
	return device, nil
}

// RevokeOne implements domain.DeviceService
func (s *DeviceServiceImpl) RevokeOne(ctx context.Context, userID uint, deviceID string) error {
	return s.deviceRepo.Delete(ctx, userID, deviceID)
}

// RevokeAll implements domain.DeviceService. Returns how many devices
// were revoked.
func (s *DeviceServiceImpl) RevokeAll(ctx context.Context, userID uint) (int64, error) {
	return s.deviceRepo.DeleteAll(ctx, userID)
}

// List implements domain.DeviceService
func (s *DeviceServiceImpl) List(ctx context.Context, userID uint) ([]*domain.TrustedDevice, error) {
	return s.deviceRepo.ListByUser(ctx, userID)
}
