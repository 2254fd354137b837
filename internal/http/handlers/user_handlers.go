package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kjarj54/PlayWise-Backend/domain"
	"github.com/kjarj54/PlayWise-Backend/internal/http/middleware"
)

// UserHandlers handles account lifecycle and administration
type UserHandlers struct {
	authSvc  domain.AuthService
	userRepo domain.UserRepository
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(authSvc domain.AuthService, userRepo domain.UserRepository) *UserHandlers {
	return &UserHandlers{authSvc: authSvc, userRepo: userRepo}
}

// Deactivate soft-disables the caller's account. Existing tokens stop
// working at the next guard check.
func (h *UserHandlers) Deactivate(c *gin.Context) {
	user := middleware.UserFromContext(c)

	if err := h.authSvc.Deactivate(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "account deactivated"}})
}

// Delete permanently removes the caller's account and everything it
// owns.
func (h *UserHandlers) Delete(c *gin.Context) {
	user := middleware.UserFromContext(c)

	if err := h.authSvc.DeleteAccount(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "account deleted"}})
}

// ListUsers returns a paginated user listing for administrators
func (h *UserHandlers) ListUsers(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := h.userRepo.List(c.Request.Context(), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	items := make([]gin.H, 0, len(users))
	for _, u := range users {
		items = append(items, gin.H{
			"id":              u.ID,
			"username":        u.Username,
			"email":           u.Email,
			"role":            u.Role,
			"provider":        u.Provider,
			"is_active":       u.IsActive,
			"email_activated": u.EmailActivated,
			"last_login_at":   u.LastLoginAt,
			"created_at":      u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"users":  items,
			"offset": offset,
			"limit":  limit,
		},
	})
}
