package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"law_desk_app_go/config"
	"law_desk_app_go/services"
	"law_desk_app_go/services/settings"

	"github.com/labstack/echo/v4"
)

// Deps are the long-lived services the handlers share
type Deps struct {
	Config        *config.Config
	Settings      *settings.Store
	Notifications *services.NotificationService
	Feed          *services.FeedAlerter
	Monitor       *services.SecurityMonitor
}

var deps Deps

// Init hands the handlers their dependencies. Call once before serving.
func Init(d Deps) {
	deps = d
}

// location is the office time zone
func location() *time.Location {
	if deps.Notifications != nil && deps.Notifications.Location != nil {
		return deps.Notifications.Location
	}
	return time.Local
}

// now is the current office time
func now() time.Time {
	if deps.Notifications != nil && deps.Notifications.Now != nil {
		return deps.Notifications.Now().In(location())
	}
	return time.Now().In(location())
}

// apiError turns a service error into the response the dashboard shows:
// field errors as 422, missing records as 404, everything else as a message.
func apiError(c echo.Context, err error, message string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "يرجى تصحيح الحقول المحددة",
			"fields": verr.Fields,
		})
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "العنصر المطلوب غير موجود")
	default:
		c.Logger().Errorf("%s: %v", message, err)
		return echo.NewHTTPError(http.StatusInternalServerError, message)
	}
}

// listFilter reads ?q=&client_id=&limit=
func listFilter(c echo.Context) services.ListFilter {
	filter := services.ListFilter{
		Search:   c.QueryParam("q"),
		ClientID: c.QueryParam("client_id"),
	}
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 500 {
		filter.Limit = l
	}
	return filter
}

// splitFields parses a comma separated ?fields= list
func splitFields(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func chromePath() string {
	if deps.Config != nil {
		return deps.Config.ChromePath
	}
	return ""
}

// attachment sets a download filename
func attachment(c echo.Context, filename string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
}

// HealthHandler reports liveness
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
