package handlers

import (
	"errors"
	"net/http"

	"law_desk_app_go/db"
	"law_desk_app_go/middleware"
	"law_desk_app_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginPostHandler checks credentials and opens a session
func LoginPostHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}

	user, err := services.Authenticate(db.DB, req.Email, req.Password, now())
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		services.LogSecurityEvent("LOGIN_FAILED", "", "ip "+c.RealIP())
		if deps.Monitor != nil {
			deps.Monitor.TrackFailedLogin(c.Request().Context(), c.RealIP())
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "البريد الإلكتروني أو كلمة المرور غير صحيحة")
	case errors.Is(err, services.ErrAccountLocked):
		return echo.NewHTTPError(http.StatusLocked, "الحساب مقفل مؤقتاً، حاول مرة أخرى بعد 15 دقيقة")
	case errors.Is(err, services.ErrAccountInactive):
		return echo.NewHTTPError(http.StatusForbidden, "الحساب معطل")
	case err != nil:
		return apiError(c, err, "تعذر تسجيل الدخول")
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return apiError(c, err, "تعذر إنشاء الجلسة")
	}
	middleware.SetSessionCookie(c, session.Token)
	services.LogSecurityEvent("LOGIN", user.ID, "ip "+c.RealIP())

	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

// LogoutHandler ends the current session
func LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			c.Logger().Errorf("logout: %v", err)
		}
	}
	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// SessionHandler returns the signed-in user and the CSRF token for writes
func SessionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":       middleware.GetCurrentUser(c),
		"csrf_token": middleware.GetCSRFToken(c),
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

// ChangePasswordHandler replaces the office password and closes other sessions
func ChangePasswordHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	session := middleware.GetCurrentSession(c)
	if user == nil || session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "الرجاء تسجيل الدخول")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	if err := services.ChangePassword(db.DB, user.ID, req.CurrentPassword, req.NewPassword, session.Token); err != nil {
		return apiError(c, err, "تعذر تغيير كلمة المرور")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "تم تغيير كلمة المرور بنجاح"})
}
