package utils

import (
	"log"
	"time"

	"tcepreview/config"
	"tcepreview/database"
	"tcepreview/models/users"

	"github.com/robfig/cron/v3"
)

// logRefresh logs refresh sweep events with timestamp
func logRefresh(message string) {
	log.Printf("[SESSION-REFRESH %s] %s", time.Now().Format(time.RFC3339), message)
}

// refreshDueSessions rotates the token pair of every live session that has
// crossed 80% of its reported token lifetime. Runs independently of user
// interaction; requests in flight keep using whichever token they read.
func refreshDueSessions() {
	db := database.Database.Users
	now := time.Now()

	var sessions []users.Session
	if err := db.Where("revoked = false").Find(&sessions).Error; err != nil {
		logRefresh("Error fetching sessions: " + err.Error())
		return
	}

	for i := range sessions {
		session := &sessions[i]
		if !session.RefreshDue(now) {
			continue
		}

		refreshed, err := RefreshTokens(session.RefreshToken)
		if err != nil {
			logRefresh("Refresh failed for session " + session.SID + ": " + err.Error())
			session.Revoked = true
			if err := db.Save(session).Error; err != nil {
				logRefresh("Error revoking session " + session.SID + ": " + err.Error())
			}
			continue
		}

		session.Token = refreshed.AccessToken
		session.RefreshToken = refreshed.RefreshToken
		session.ExpiresIn = refreshed.ExpiresIn
		session.IssuedAt = now
		if err := db.Save(session).Error; err != nil {
			logRefresh("Error saving refreshed session " + session.SID + ": " + err.Error())
			continue
		}
		logRefresh("Refreshed session " + session.SID)
	}
}

// StartRefreshScheduler wires the sweep onto a cron schedule and starts it.
func StartRefreshScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc(config.AppConfig.RefreshEvery, refreshDueSessions); err != nil {
		log.Fatalf("Failed to schedule session refresh: %v", err)
	}

	c.Start()
	logRefresh("Scheduler started (" + config.AppConfig.RefreshEvery + ")")
	return c
}
