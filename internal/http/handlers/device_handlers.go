package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kjarj54/PlayWise-Backend/domain"
	"github.com/kjarj54/PlayWise-Backend/internal/http/middleware"
)

// DeviceHandlers manages a user's trusted devices
type DeviceHandlers struct {
	deviceSvc domain.DeviceService
}

// NewDeviceHandlers creates new device handlers
func NewDeviceHandlers(deviceSvc domain.DeviceService) *DeviceHandlers {
	return &DeviceHandlers{deviceSvc: deviceSvc}
}

// List returns the caller's trusted devices
func (h *DeviceHandlers) List(c *gin.Context) {
	user := middleware.UserFromContext(c)

	devices, err := h.deviceSvc.List(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list devices"})
		return
	}

	items := make([]gin.H, 0, len(devices))
	for _, d := range devices {
		items = append(items, gin.H{
			"device_id":    d.DeviceID,
			"device_name":  d.DeviceName,
			"device_type":  d.DeviceType,
			"trusted_at":   d.CreatedAt,
			"last_used_at": d.LastUsedAt,
			"expires_at":   d.ExpiresAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"devices": items}})
}

// RevokeOne removes trust from a single device
func (h *DeviceHandlers) RevokeOne(c *gin.Context) {
	user := middleware.UserFromContext(c)
	deviceID := c.Param("device_id")

	if err := h.deviceSvc.RevokeOne(c.Request.Context(), user.ID, deviceID); err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "device revoked"}})
}

// RevokeAll removes trust from every device the caller has
func (h *DeviceHandlers) RevokeAll(c *gin.Context) {
	user := middleware.UserFromContext(c)

	count, err := h.deviceSvc.RevokeAll(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke devices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"revoked": count}})
}
