package handlers

import (
	"net/http"

	"law_desk_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetNotificationsHandler returns the current deadline list and runs the
// daily alert dispatch
func GetNotificationsHandler(c echo.Context) error {
	list, err := deps.Notifications.Current(c.Request().Context())
	if err != nil {
		return apiError(c, err, "تعذر تحميل التنبيهات")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications":  list,
		"count":          len(list),
		"snooze_presets": services.SnoozePresets,
	})
}

type snoozeRequest struct {
	Minutes int `json:"minutes" form:"minutes"`
}

// SnoozeNotificationHandler hides one notification for the given minutes
func SnoozeNotificationHandler(c echo.Context) error {
	var req snoozeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}

	until, err := deps.Notifications.Snooze(c.Request().Context(), c.Param("id"), req.Minutes)
	if err != nil {
		return apiError(c, err, "تعذر تأجيل التنبيه")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":    c.Param("id"),
		"until": until,
	})
}

// GetAlertsHandler drains the queued native alerts for the browser to show
func GetAlertsHandler(c echo.Context) error {
	if deps.Feed == nil {
		return c.JSON(http.StatusOK, []services.Alert{})
	}
	return c.JSON(http.StatusOK, deps.Feed.Drain())
}
