package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Context key under which the resolved user is stored.
const currentUserKey = "currentUser"

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// authDB holds the database reference for identity lookups — set via InitAuthMiddleware.
var authDB *gorm.DB

// InitAuthMiddleware sets the DB reference used to resolve token subjects.
func InitAuthMiddleware(db *gorm.DB) {
	authDB = db
}

// CurrentUser returns the authenticated user placed in the context by the
// middleware, or nil when the route is unauthenticated.
func CurrentUser(c *gin.Context) *model.User {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

func extractToken(c *gin.Context) (string, bool) {
	// Try cookie first, fallback to Authorization header
	if tokenString, err := c.Cookie("access_token"); err == nil && tokenString != "" {
		return tokenString, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// resolveUser validates the access token and loads its subject from the database.
func resolveUser(c *gin.Context) (*model.User, int, string) {
	tokenString, ok := extractToken(c)
	if !ok {
		return nil, http.StatusUnauthorized, "Authorization is missing or malformed. Expected 'Bearer <token>'"
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, http.StatusUnauthorized, "Invalid token claims"
	}
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return nil, http.StatusUnauthorized, "Access token required"
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid token subject"
	}

	var user model.User
	if err := authDB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, http.StatusUnauthorized, "Could not validate credentials"
	}
	if !user.IsActive {
		return nil, http.StatusForbidden, "Inactive user account"
	}

	return &user, 0, ""
}

// RequireAccountType validates the JWT and checks the user's coarse account type
// (customer or store) against the allowed list.
func RequireAccountType(allowedTypes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, code, msg := resolveUser(c)
		if user == nil {
			c.AbortWithStatusJSON(code, response.Error(code, msg))
			return
		}

		allowed := false
		for _, t := range allowedTypes {
			if user.Role == t {
				allowed = true
				break
			}
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// Authenticated validates the JWT for any active account.
func Authenticated() gin.HandlerFunc {
	return RequireAccountType(model.AccountTypeCustomer, model.AccountTypeStore)
}

// --- Store role middleware ---

// roleCacheEntry stores a cached role name for a user with TTL.
type roleCacheEntry struct {
	roleName  string
	expiresAt time.Time
}

var (
	roleCache    sync.Map // userID -> roleCacheEntry
	roleCacheTTL = 5 * time.Minute
)

// RequireStoreRole validates the JWT, requires a store account, and checks the
// user's store role (owner/manager/staff) against the allowed list.
func RequireStoreRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, code, msg := resolveUser(c)
		if user == nil {
			c.AbortWithStatusJSON(code, response.Error(code, msg))
			return
		}

		if user.Role != model.AccountTypeStore {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Error(http.StatusForbidden, "Store access required"))
			return
		}

		roleName, err := getRoleForUser(user.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Error(http.StatusForbidden, "No role assigned"))
			return
		}

		allowed := false
		for _, r := range allowedRoles {
			if roleName == r {
				allowed = true
				break
			}
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// getRoleForUser returns the cached or DB-fetched store role name for a user.
func getRoleForUser(userID uuid.UUID) (string, error) {
	if entry, ok := roleCache.Load(userID); ok {
		cached := entry.(roleCacheEntry)
		if time.Now().Before(cached.expiresAt) {
			return cached.roleName, nil
		}
	}

	var roleName string
	err := authDB.Raw(`
		SELECT r.name FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ?
	`, userID).Scan(&roleName).Error
	if err != nil {
		return "", err
	}
	if roleName == "" {
		return "", gorm.ErrRecordNotFound
	}

	roleCache.Store(userID, roleCacheEntry{
		roleName:  roleName,
		expiresAt: time.Now().Add(roleCacheTTL),
	})

	return roleName, nil
}

// ClearRoleCache removes the cached role for a user (or all users if nil).
func ClearRoleCache(userID *uuid.UUID) {
	if userID == nil {
		roleCache.Range(func(key, _ interface{}) bool {
			roleCache.Delete(key)
			return true
		})
	} else {
		roleCache.Delete(*userID)
	}
}
