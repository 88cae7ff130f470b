package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	// FailedLoginThreshold failures from one IP inside FailedLoginWindow raise an alert
	FailedLoginThreshold = 5
	FailedLoginWindow    = 10 * time.Minute
	// securityAlertCooldown is the quiet time per IP after an alert
	securityAlertCooldown = time.Hour
	securityAlertHistory  = 100
)

// SecurityAlertTitle heads every failed-login alert
const SecurityAlertTitle = "تنبيه أمني"

// SecurityAlert is one raised failed-login alert
type SecurityAlert struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	Attempts  int       `json:"attempts"`
}

// SecurityMonitor counts failed logins per IP and forwards an alert to the
// office's alerters when one IP keeps failing
type SecurityMonitor struct {
	Alerters []Alerter
	Now      func() time.Time

	mu           sync.Mutex
	failedLogins map[string][]time.Time // IP -> failure times inside the window
	alertedIPs   map[string]time.Time   // IP -> last alert time
	alerts       []SecurityAlert        // newest first
}

func NewSecurityMonitor(alerters ...Alerter) *SecurityMonitor {
	return &SecurityMonitor{
		Alerters:     alerters,
		Now:          time.Now,
		failedLogins: make(map[string][]time.Time),
		alertedIPs:   make(map[string]time.Time),
	}
}

// TrackFailedLogin records a failure from ip and reports whether it raised an alert
func (m *SecurityMonitor) TrackFailedLogin(ctx context.Context, ip string) bool {
	m.mu.Lock()
	now := m.Now()
	m.pruneLocked(now)

	attempts := append(m.failedLogins[ip], now)
	m.failedLogins[ip] = attempts
	if len(attempts) < FailedLoginThreshold {
		m.mu.Unlock()
		return false
	}
	if last, ok := m.alertedIPs[ip]; ok && now.Sub(last) < securityAlertCooldown {
		m.mu.Unlock()
		return false
	}
	m.alertedIPs[ip] = now
	m.alerts = append([]SecurityAlert{{Timestamp: now, IP: ip, Attempts: len(attempts)}}, m.alerts...)
	if len(m.alerts) > securityAlertHistory {
		m.alerts = m.alerts[:securityAlertHistory]
	}
	m.mu.Unlock()

	log.Printf("[SECURITY ALERT] %d failed logins from IP: %s", len(attempts), ip)
	alert := Alert{
		Title:              SecurityAlertTitle,
		Body:               fmt.Sprintf("%d محاولات دخول فاشلة خلال 10 دقائق من العنوان %s", len(attempts), ip),
		Tag:                "security-" + ip,
		RequireInteraction: true,
		CreatedAt:          now,
	}
	for _, a := range m.Alerters {
		if err := a.Send(ctx, alert); err != nil {
			log.Printf("[SECURITY] Failed to deliver alert via %T: %v", a, err)
		}
	}
	return true
}

// RecentAlerts returns a copy of the raised alerts, newest first
func (m *SecurityMonitor) RecentAlerts() []SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SecurityAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// pruneLocked drops failures outside the window and expired cooldowns
func (m *SecurityMonitor) pruneLocked(now time.Time) {
	windowStart := now.Add(-FailedLoginWindow)
	for ip, attempts := range m.failedLogins {
		kept := attempts[:0]
		for _, t := range attempts {
			if t.After(windowStart) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(m.failedLogins, ip)
		} else {
			m.failedLogins[ip] = kept
		}
	}
	for ip, last := range m.alertedIPs {
		if now.Sub(last) >= securityAlertCooldown {
			delete(m.alertedIPs, ip)
		}
	}
}
