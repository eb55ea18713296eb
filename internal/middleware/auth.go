package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mazal-shop/core/internal/models"
	"github.com/mazal-shop/core/internal/pkg/jwt"
	"github.com/mazal-shop/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "user_role"
)

// Auth returns a middleware that enforces JWT authentication and loads the
// caller's role from the store.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, err := resolveCaller(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyRole, string(role))
		c.Next()
	}
}

// RequireStaff aborts with 403 unless the authenticated caller is staff.
// Must run after Auth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != string(models.RoleAdmin) {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

func resolveCaller(db *gorm.DB, rawToken string) (string, models.Role, error) {
	token := normalizeToken(rawToken)
	if token == "" {
		return "", "", errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return "", "", err
	}

	var u models.UserModel
	if err := db.Select("id, role").First(&u, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", errors.New("user no longer exists")
		}
		return "", "", err
	}
	return u.ID, u.Role, nil
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentRole extracts the authenticated user's role from context.
func CurrentRole(c *gin.Context) string {
	v, _ := c.Get(ContextKeyRole)
	role, _ := v.(string)
	return role
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return normalizeToken(auth)
	}
	return normalizeToken(c.Query("token"))
}

// normalizeToken trims spaces and strips an optional Bearer prefix.
func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
