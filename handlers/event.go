package handlers

import (
	"net/http"

	"law_desk_app_go/db"
	"law_desk_app_go/services"
	"law_desk_app_go/services/settings"

	"github.com/labstack/echo/v4"
)

// GetEventsHandler lists calendar events in date order
func GetEventsHandler(c echo.Context) error {
	events, err := services.ListEvents(db.DB, listFilter(c))
	if err != nil {
		return apiError(c, err, "تعذر تحميل المواعيد")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"events": events})
}

// GetEventHandler returns one calendar event
func GetEventHandler(c echo.Context) error {
	event, err := services.GetEvent(db.DB, c.Param("id"))
	if err != nil {
		return apiError(c, err, "تعذر تحميل الموعد")
	}
	return c.JSON(http.StatusOK, event)
}

// CreateEventHandler adds a calendar event
func CreateEventHandler(c echo.Context) error {
	var in services.EventInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	event, err := services.CreateEvent(db.DB, in)
	if err != nil {
		return apiError(c, err, "تعذر حفظ الموعد")
	}
	return c.JSON(http.StatusCreated, event)
}

// UpdateEventHandler replaces a calendar event's fields
func UpdateEventHandler(c echo.Context) error {
	var in services.EventInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	event, err := services.UpdateEvent(db.DB, c.Param("id"), in)
	if err != nil {
		return apiError(c, err, "تعذر تحديث الموعد")
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEventHandler removes a calendar event
func DeleteEventHandler(c echo.Context) error {
	if err := services.DeleteEvent(db.DB, c.Param("id")); err != nil {
		return apiError(c, err, "تعذر حذف الموعد")
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadEventICSHandler serves the event as an .ics file
func DownloadEventICSHandler(c echo.Context) error {
	event, err := services.GetEvent(db.DB, c.Param("id"))
	if err != nil {
		return apiError(c, err, "تعذر تحميل الموعد")
	}

	var office settings.OfficeProfile
	if deps.Settings != nil {
		if office, err = deps.Settings.OfficeProfile(c.Request().Context()); err != nil {
			return apiError(c, err, "تعذر تحميل بيانات المكتب")
		}
	}

	ics, err := services.GenerateEventICS(event, office.Name, office.Email, location())
	if err != nil {
		return apiError(c, err, "تعذر إنشاء ملف التقويم")
	}
	attachment(c, "event-"+event.ID+".ics")
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", ics)
}
