package handlers

import (
	"net/http"

	"law_desk_app_go/db"
	"law_desk_app_go/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler returns the home screen: totals, recent cases, hearings,
// upcoming events, the monthly chart and the deadline list
func DashboardHandler(c echo.Context) error {
	ctx := c.Request().Context()

	dashboard, err := services.LoadDashboard(ctx, db.DB, now())
	if err != nil {
		return apiError(c, err, "تعذر تحميل لوحة التحكم")
	}

	if deps.Notifications != nil {
		list, err := deps.Notifications.Current(ctx)
		if err != nil {
			// the dashboard still renders without the panel
			c.Logger().Errorf("dashboard notifications: %v", err)
		} else {
			dashboard.Notifications = list
		}
	}

	return c.JSON(http.StatusOK, dashboard)
}
