package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"solar-store/auth"
	"solar-store/middleware"
	"solar-store/models"
)

const invalidLogin = "خطأ في اسم المستخدم أو كلمة المرور"

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

// LoginForm shows the login page, or bounces a logged-in user to their landing page
func (h *Handler) LoginForm(c *gin.Context) {
	if user := middleware.GetUser(c); user != nil {
		h.redirect(c, landingPage(user))
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Next": middleware.SafeNext(c.Query("next"))})
}

// Login checks a username and password. Every failure gets the same message.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, req)
		return
	}

	user, err := auth.Authenticate(c.Request.Context(), h.DB, req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.loginFailed(c, req)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.Sessions.SetUser(c.Request, user.ID)
	h.Logger.Info("User logged in", "user_id", user.ID, "method", "password")
	h.flash(c, flashSuccess, "تم تسجيل الدخول بنجاح!")
	if next := middleware.SafeNext(req.Next); next != "" {
		h.redirect(c, next)
		return
	}
	h.redirect(c, landingPage(user))
}

func (h *Handler) loginFailed(c *gin.Context, req LoginRequest) {
	h.Metrics.LoginFailed("password")
	h.flash(c, flashDanger, invalidLogin)
	h.render(c, http.StatusOK, "login.html", gin.H{
		"Username": req.Username,
		"Next":     middleware.SafeNext(req.Next),
	})
}

// GoogleLogin starts the authorization-code flow with a signed state
func (h *Handler) GoogleLogin(c *gin.Context) {
	if h.Google == nil {
		h.flash(c, flashWarning, "تسجيل الدخول بواسطة Google غير متاح حالياً")
		h.redirect(c, "/login")
		return
	}
	state, nonce, err := h.States.Issue()
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.Sessions.SetOAuthState(c.Request, nonce)
	h.redirect(c, h.Google.AuthCodeURL(state))
}

// GoogleCallback finishes the flow and signs the Google account in, creating a
// customer on first use
func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.Google == nil {
		h.NotFound(c)
		return
	}
	nonce := h.Sessions.PopOAuthState(c.Request)
	if err := h.States.Verify(c.Query("state"), nonce); err != nil {
		h.googleFailed(c, err)
		return
	}
	if reason := c.Query("error"); reason != "" {
		h.googleFailed(c, errors.New("provider returned error: "+reason))
		return
	}

	profile, err := h.Google.FetchProfile(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.googleFailed(c, err)
		return
	}
	user, created, err := auth.SignInFederated(c.Request.Context(), h.DB, profile)
	if errors.Is(err, auth.ErrNoEmail) || errors.Is(err, auth.ErrIdentityConflict) {
		h.googleFailed(c, err)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.Sessions.SetUser(c.Request, user.ID)
	h.Logger.Info("User logged in", "user_id", user.ID, "method", "google", "created", created)
	h.flash(c, flashSuccess, "تم تسجيل الدخول بواسطة Google بنجاح!")
	h.redirect(c, landingPage(user))
}

func (h *Handler) googleFailed(c *gin.Context, err error) {
	h.Metrics.LoginFailed("google")
	h.Logger.Warn("Google login failed", "error", err)
	h.flash(c, flashDanger, "فشل في جلب البيانات من Google")
	h.redirect(c, "/login")
}

// Logout forgets the identity; the cart stays
func (h *Handler) Logout(c *gin.Context) {
	h.Sessions.ClearUser(c.Request)
	h.flash(c, flashInfo, "تم تسجيل الخروج")
	h.redirect(c, "/")
}

func landingPage(user *models.User) string {
	if user.Role.IsStaff() {
		return "/dashboard"
	}
	return "/"
}
