package handlers

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"law_desk_app_go/services"
	"law_desk_app_go/services/settings"

	"github.com/labstack/echo/v4"
)

// GetPreferencesHandler returns the alert preferences
func GetPreferencesHandler(c echo.Context) error {
	prefs, err := deps.Settings.Preferences(c.Request().Context())
	if err != nil {
		return apiError(c, err, "تعذر تحميل الإعدادات")
	}
	return c.JSON(http.StatusOK, prefs)
}

// UpdatePreferencesHandler merges the given fields onto the current alert
// preferences. Omitted fields are left unchanged.
func UpdatePreferencesHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var update settings.PreferencesUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	current, err := deps.Settings.Preferences(ctx)
	if err != nil {
		return apiError(c, err, "تعذر تحميل الإعدادات")
	}
	prefs := update.Apply(current)

	verr := &services.ValidationError{}
	if prefs.DaysBefore < 0 || prefs.DaysBefore > services.NotificationWindowDays {
		verr.Add("days_before", fmt.Sprintf("عدد الأيام يجب أن يكون بين 0 و %d", services.NotificationWindowDays))
	}
	switch prefs.Permission {
	case settings.PermissionGranted, settings.PermissionDenied, settings.PermissionDefault:
	default:
		verr.Add("permission", "قيمة غير صالحة")
	}
	if err := verr.Err(); err != nil {
		return apiError(c, err, "")
	}

	if err := deps.Settings.SavePreferences(ctx, prefs); err != nil {
		return apiError(c, err, "تعذر حفظ الإعدادات")
	}
	saved, err := deps.Settings.Preferences(ctx)
	if err != nil {
		return apiError(c, err, "تعذر تحميل الإعدادات")
	}
	return c.JSON(http.StatusOK, saved)
}

// GetOfficeHandler returns the office profile
func GetOfficeHandler(c echo.Context) error {
	office, err := deps.Settings.OfficeProfile(c.Request().Context())
	if err != nil {
		return apiError(c, err, "تعذر تحميل بيانات المكتب")
	}
	return c.JSON(http.StatusOK, office)
}

// UpdateOfficeHandler saves the office profile. The logo is kept unless the
// request names one.
func UpdateOfficeHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var in settings.OfficeProfile
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = services.ToEnglishDigits(strings.TrimSpace(in.Phone))

	verr := &services.ValidationError{}
	if in.Name == "" {
		verr.Add("name", "اسم المكتب مطلوب")
	}
	if in.Email != "" {
		if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
			verr.Add("email", "البريد الإلكتروني غير صالح")
		}
	}
	if err := verr.Err(); err != nil {
		return apiError(c, err, "")
	}

	current, err := deps.Settings.OfficeProfile(ctx)
	if err != nil {
		return apiError(c, err, "تعذر تحميل بيانات المكتب")
	}
	if in.Logo == "" {
		in.Logo = current.Logo
	}
	if err := deps.Settings.SaveOfficeProfile(ctx, in); err != nil {
		return apiError(c, err, "تعذر حفظ بيانات المكتب")
	}
	return c.JSON(http.StatusOK, in)
}

// UploadOfficeLogoHandler stores the multipart "logo" and records its URL
func UploadOfficeLogoHandler(c echo.Context) error {
	ctx := c.Request().Context()

	file, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "يرجى اختيار صورة",
			"fields": map[string]string{"logo": "الشعار مطلوب"},
		})
	}
	if err := services.ValidateLogoUpload(file); err != nil {
		verr := &services.ValidationError{}
		verr.Add("logo", err.Error())
		return apiError(c, verr, "")
	}

	office, err := deps.Settings.OfficeProfile(ctx)
	if err != nil {
		return apiError(c, err, "تعذر تحميل بيانات المكتب")
	}

	stored, err := services.SaveUpload(ctx, services.Storage, file, services.OfficeLogoKey(file.Filename))
	if err != nil {
		return apiError(c, err, "تعذر رفع الشعار")
	}
	office.Logo = services.FileURL(services.Storage, stored.Key)
	if err := deps.Settings.SaveOfficeProfile(ctx, office); err != nil {
		return apiError(c, err, "تعذر حفظ بيانات المكتب")
	}
	return c.JSON(http.StatusOK, office)
}
