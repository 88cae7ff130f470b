package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"law_desk_app_go/db"
	"law_desk_app_go/models"
	"law_desk_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// setupWorkspace points every store at a temp dir for the duration of the test
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DB_PATH", filepath.Join(dir, "app.db"))
	t.Setenv("SETTINGS_DB_PATH", filepath.Join(dir, "settings.db"))
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("EMAIL_TEST_MODE", "true")
	t.Setenv("ALERT_EMAIL_TO", "")
	t.Setenv("TURSO_DATABASE_URL", "")

	t.Cleanup(func() {
		userName, userEmail = "", ""
		exportOut, exportFields = "", nil
	})
	return dir
}

// run executes the root command and returns what it printed
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	closeDesk()
	return out.String(), err
}

func TestCreateUserCmd(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := run(t, "Office-Pass-2026\n", "create-user", "--name", "Amina Haddad", "--email", "Amina@Office.ma")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user Amina Haddad <amina@office.ma>")

	require.NoError(t, db.Initialize(filepath.Join(dir, "app.db"), "test"))
	defer db.Close()
	var user models.User
	require.NoError(t, db.DB.Where("email = ?", "amina@office.ma").First(&user).Error)
	assert.True(t, services.VerifyPassword(user.Password, "Office-Pass-2026"))
}

func TestCreateUserCmdPrompts(t *testing.T) {
	setupWorkspace(t)

	out, err := run(t, "Karim\nkarim@office.ma\nOffice-Pass-2026\n", "create-user")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: ")
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "<karim@office.ma>")
}

func TestCreateUserCmdWeakPassword(t *testing.T) {
	setupWorkspace(t)

	out, err := run(t, "short\n", "create-user", "--name", "Karim", "--email", "karim@office.ma")
	require.Error(t, err)
	assert.Contains(t, out, "password:")
}

func TestNotifyCmd(t *testing.T) {
	setupWorkspace(t)

	out, err := run(t, "", "notify")
	require.NoError(t, err)
	assert.Contains(t, out, "No upcoming deadlines")
}

func TestNotifyCmdListsDeadlines(t *testing.T) {
	dir := setupWorkspace(t)

	require.NoError(t, db.Initialize(filepath.Join(dir, "app.db"), "test"))
	require.NoError(t, db.AutoMigrate(&models.Client{}, &models.Invoice{}))
	client := models.Client{FullName: "Salma Idrissi", Phone: "0600000000"}
	require.NoError(t, db.DB.Create(&client).Error)
	today := time.Now().UTC()
	due := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	require.NoError(t, db.DB.Create(&models.Invoice{
		InvoiceNumber: "INV-0001",
		ClientID:      &client.ID,
		Amount:        1500,
		Status:        models.InvoiceStatusPending,
		IssueDate:     due.AddDate(0, 0, -10),
		DueDate:       due,
	}).Error)
	require.NoError(t, db.Close())

	out, err := run(t, "", "notify")
	require.NoError(t, err)
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, due.Format("02/01/2006"))
}

func TestExportCmd(t *testing.T) {
	dir := setupWorkspace(t)

	require.NoError(t, db.Initialize(filepath.Join(dir, "app.db"), "test"))
	require.NoError(t, db.AutoMigrate(&models.Client{}))
	require.NoError(t, db.DB.Create(&models.Client{FullName: "Youssef Alami", Phone: "0611111111"}).Error)
	require.NoError(t, db.Close())

	path := filepath.Join(dir, "clients.xlsx")
	out, err := run(t, "", "export", "clients", "-o", path, "--fields", "full_name,phone")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 rows")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(services.ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"الاسم الكامل", "رقم الهاتف"}, rows[0])
	assert.Equal(t, []string{"Youssef Alami", "0611111111"}, rows[1])
}

func TestExportCmdUnknownEntity(t *testing.T) {
	setupWorkspace(t)

	_, err := run(t, "", "export", "payments")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
