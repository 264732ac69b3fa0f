package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"solar-store/models"
	"solar-store/session"
)

const userKey = "currentUser"

// ErrForbidden is attached to the context when a logged-in caller lacks the role a
// route needs. ErrorPages turns it into the rendered 403 page.
var ErrForbidden = errors.New("forbidden")

// CurrentUser resolves the session's user id to a User on every request. An id
// whose user no longer exists is dropped from the session.
func CurrentUser(db *gorm.DB, sessions *session.Manager, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := sessions.UserID(c.Request)
		if !ok {
			c.Next()
			return
		}
		var user models.User
		err := db.WithContext(c.Request.Context()).First(&user, id).Error
		switch {
		case err == nil:
			c.Set(userKey, &user)
		case errors.Is(err, gorm.ErrRecordNotFound):
			sessions.ClearUser(c.Request)
			if err := sessions.Save(c.Writer, c.Request); err != nil {
				logger.Error("Failed to save session", "error", err)
			}
		default:
			logger.Error("Failed to load session user", "user_id", id, "error", err)
		}
		c.Next()
	}
}

// GetUser returns the logged-in user or nil.
func GetUser(c *gin.Context) *models.User {
	val, _ := c.Get(userKey)
	u, _ := val.(*models.User)
	return u
}

// LoginRequired sends anonymous callers to the login page, remembering where they
// were going.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUser(c) == nil {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(logger *slog.Logger, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil {
			redirectToLogin(c)
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		logger.Warn("Access denied", "user_id", user.ID, "role", user.Role, "path", c.Request.URL.Path)
		_ = c.Error(ErrForbidden)
		c.Abort()
	}
}

// StaffRequired admits staff and admins.
func StaffRequired(logger *slog.Logger) gin.HandlerFunc {
	return RoleRequired(logger, models.RoleAdmin, models.RoleStaff)
}

func AdminRequired(logger *slog.Logger) gin.HandlerFunc {
	return RoleRequired(logger, models.RoleAdmin)
}

func redirectToLogin(c *gin.Context) {
	target := "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusSeeOther, target)
	c.Abort()
}

// ErrorPages renders a page for requests that were aborted with ErrForbidden and
// nothing written.
func ErrorPages(render func(c *gin.Context, status int)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			if errors.Is(e.Err, ErrForbidden) {
				render(c, http.StatusForbidden)
				return
			}
		}
	}
}

// SafeNext returns next if it is a local absolute path, otherwise "".
func SafeNext(next string) string {
	if next == "" || next[0] != '/' || len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return next
}
