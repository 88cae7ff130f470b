// Package settings is the office's local key/value store: notification
// preferences, snoozes, the last alert dispatch date and the office profile.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Keys used by the dashboard
const (
	KeySnoozedNotifications   = "snoozed_notifications"
	KeyLastNotificationDate   = "last_notification_date"
	KeyNotificationSound      = "notification_sound"
	KeyNotificationDaysBefore = "notification_days_before"
	KeyNotificationPermission = "notification_permission"

	KeyOfficeName    = "office_name"
	KeyOfficeAddress = "office_address"
	KeyOfficePhone   = "office_phone"
	KeyOfficeEmail   = "office_email"
	KeyOfficeWebsite = "office_website"
	KeyOfficeLogo    = "office_logo"
)

// Alert permission states
const (
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
	PermissionDefault = "default"
)

const dateLayout = "2006-01-02"

// Store is a small SQLite-backed key/value table
type Store struct {
	db *sql.DB

	// snoozeMu serializes read-modify-write of the snooze map
	snoozeMu sync.Mutex

	// Defaults apply until the office saves its own preferences
	Defaults Preferences
}

// Open opens (and creates) the settings database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create settings dir: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	// One writer; also keeps a :memory: database alive across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate settings db: %w", err)
	}

	return &Store{db: db, Defaults: DefaultPreferences()}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value for key and whether it was set
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// All returns every stored key
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Preferences controls the native alert side effect
type Preferences struct {
	SoundEnabled bool   `json:"sound_enabled"`
	DaysBefore   int    `json:"days_before"`
	Permission   string `json:"permission"`
}

// DefaultPreferences returns sound on, one day lookahead, permission granted
func DefaultPreferences() Preferences {
	return Preferences{SoundEnabled: true, DaysBefore: 1, Permission: PermissionGranted}
}

// Preferences reads the stored preferences, falling back to s.Defaults per key
func (s *Store) Preferences(ctx context.Context) (Preferences, error) {
	all, err := s.All(ctx)
	if err != nil {
		return Preferences{}, err
	}

	prefs := s.Defaults
	if v, ok := all[KeyNotificationSound]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			prefs.SoundEnabled = b
		}
	}
	if v, ok := all[KeyNotificationDaysBefore]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			prefs.DaysBefore = n
		}
	}
	if v, ok := all[KeyNotificationPermission]; ok && v != "" {
		prefs.Permission = v
	}
	return prefs, nil
}

// PreferencesUpdate is a partial change; nil fields keep their current value
type PreferencesUpdate struct {
	SoundEnabled *bool   `json:"sound_enabled"`
	DaysBefore   *int    `json:"days_before"`
	Permission   *string `json:"permission"`
}

// Apply returns base with the fields set in u
func (u PreferencesUpdate) Apply(base Preferences) Preferences {
	if u.SoundEnabled != nil {
		base.SoundEnabled = *u.SoundEnabled
	}
	if u.DaysBefore != nil {
		base.DaysBefore = *u.DaysBefore
	}
	if u.Permission != nil && *u.Permission != "" {
		base.Permission = *u.Permission
	}
	return base
}

// SavePreferences stores all three preference keys. An empty permission
// keeps the current one.
func (s *Store) SavePreferences(ctx context.Context, prefs Preferences) error {
	if prefs.DaysBefore < 0 {
		return fmt.Errorf("days_before must not be negative")
	}
	if prefs.Permission == "" {
		current, err := s.Preferences(ctx)
		if err != nil {
			return err
		}
		prefs.Permission = current.Permission
	}
	switch prefs.Permission {
	case PermissionGranted, PermissionDenied, PermissionDefault:
	default:
		return fmt.Errorf("unknown permission %q", prefs.Permission)
	}

	if err := s.Set(ctx, KeyNotificationSound, strconv.FormatBool(prefs.SoundEnabled)); err != nil {
		return err
	}
	if err := s.Set(ctx, KeyNotificationDaysBefore, strconv.Itoa(prefs.DaysBefore)); err != nil {
		return err
	}
	return s.Set(ctx, KeyNotificationPermission, prefs.Permission)
}

// LastNotificationDate returns the YYYY-MM-DD of the last alert dispatch, or "".
func (s *Store) LastNotificationDate(ctx context.Context) (string, error) {
	v, _, err := s.Get(ctx, KeyLastNotificationDate)
	return v, err
}

// SetLastNotificationDate records day (its calendar date) as the last dispatch
func (s *Store) SetLastNotificationDate(ctx context.Context, day time.Time) error {
	return s.Set(ctx, KeyLastNotificationDate, day.Format(dateLayout))
}

// Snoozes returns the active snoozes (notification id to wake-up time).
// Expired entries are dropped and the trimmed map is written back.
func (s *Store) Snoozes(ctx context.Context, now time.Time) (map[string]time.Time, error) {
	s.snoozeMu.Lock()
	defer s.snoozeMu.Unlock()

	all, err := s.readSnoozes(ctx)
	if err != nil {
		return nil, err
	}

	active := make(map[string]time.Time, len(all))
	for id, until := range all {
		if until.After(now) {
			active[id] = until
		}
	}
	if len(active) != len(all) {
		if err := s.writeSnoozes(ctx, active); err != nil {
			return nil, err
		}
	}
	return active, nil
}

// SetSnoozes replaces the stored snooze map
func (s *Store) SetSnoozes(ctx context.Context, snoozes map[string]time.Time) error {
	s.snoozeMu.Lock()
	defer s.snoozeMu.Unlock()
	return s.writeSnoozes(ctx, snoozes)
}

func (s *Store) writeSnoozes(ctx context.Context, snoozes map[string]time.Time) error {
	raw, err := json.Marshal(snoozes)
	if err != nil {
		return fmt.Errorf("encode snoozes: %w", err)
	}
	return s.Set(ctx, KeySnoozedNotifications, string(raw))
}

// Snooze hides notification id until the given time
func (s *Store) Snooze(ctx context.Context, id string, until time.Time) error {
	s.snoozeMu.Lock()
	defer s.snoozeMu.Unlock()

	all, err := s.readSnoozes(ctx)
	if err != nil {
		return err
	}
	all[id] = until
	return s.writeSnoozes(ctx, all)
}

// PurgeExpiredSnoozes drops every snooze that ended at or before now and
// returns how many were removed
func (s *Store) PurgeExpiredSnoozes(ctx context.Context, now time.Time) (int, error) {
	s.snoozeMu.Lock()
	defer s.snoozeMu.Unlock()

	all, err := s.readSnoozes(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for id, until := range all {
		if !until.After(now) {
			delete(all, id)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.writeSnoozes(ctx, all)
}

func (s *Store) readSnoozes(ctx context.Context) (map[string]time.Time, error) {
	raw, ok, err := s.Get(ctx, KeySnoozedNotifications)
	if err != nil {
		return nil, err
	}
	out := map[string]time.Time{}
	if !ok || raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// unreadable map: treat as no snoozes
		log.Printf("[WARNING] Discarding unreadable snooze map: %v", err)
		return map[string]time.Time{}, nil
	}
	return out, nil
}

// OfficeProfile is printed on reports and exports
type OfficeProfile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Logo    string `json:"logo"`
}

// OfficeProfile reads the stored office profile; unset fields are empty
func (s *Store) OfficeProfile(ctx context.Context) (OfficeProfile, error) {
	all, err := s.All(ctx)
	if err != nil {
		return OfficeProfile{}, err
	}
	return OfficeProfile{
		Name:    all[KeyOfficeName],
		Address: all[KeyOfficeAddress],
		Phone:   all[KeyOfficePhone],
		Email:   all[KeyOfficeEmail],
		Website: all[KeyOfficeWebsite],
		Logo:    all[KeyOfficeLogo],
	}, nil
}

// SaveOfficeProfile stores every profile field
func (s *Store) SaveOfficeProfile(ctx context.Context, p OfficeProfile) error {
	fields := []struct{ key, value string }{
		{KeyOfficeName, p.Name},
		{KeyOfficeAddress, p.Address},
		{KeyOfficePhone, p.Phone},
		{KeyOfficeEmail, p.Email},
		{KeyOfficeWebsite, p.Website},
		{KeyOfficeLogo, p.Logo},
	}
	for _, f := range fields {
		if err := s.Set(ctx, f.key, f.value); err != nil {
			return err
		}
	}
	return nil
}
