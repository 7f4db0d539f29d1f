package cron

import (
	"context"

	"github.com/Dias221467/Hydration_Tracker/internal/jobs"
	"github.com/Dias221467/Hydration_Tracker/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartReminderCronJobs wires the periodic hydration scans.
func StartReminderCronJobs(reminder *jobs.HydrationReminder, notificationService *services.NotificationService) {
	c := cron.New()

	// Evening goal check-in
	c.AddFunc("0 20 * * *", func() {
		if err := reminder.RunEveningScan(context.Background()); err != nil {
			logrus.WithError(err).Error("RunEveningScan failed")
		}
	})

	// Drop notifications past their 7-day expiry
	c.AddFunc("@hourly", func() {
		if err := notificationService.DeleteExpiredNotifications(context.Background()); err != nil {
			logrus.WithError(err).Error("DeleteExpiredNotifications failed")
		}
	})

	c.Start()
}
