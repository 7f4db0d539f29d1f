package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/services"
	"github.com/Dias221467/Hydration_Tracker/pkg/email"
	"github.com/sirupsen/logrus"
)

// HydrationReminder scans all users in the evening and nudges the ones still
// behind their daily goal.
type HydrationReminder struct {
	UserService         *services.UserService
	LedgerService       *services.LedgerService
	NotificationService *services.NotificationService
}

// NewHydrationReminder creates a new instance of HydrationReminder
func NewHydrationReminder(userService *services.UserService, ledgerService *services.LedgerService, notifService *services.NotificationService) *HydrationReminder {
	return &HydrationReminder{
		UserService:         userService,
		LedgerService:       ledgerService,
		NotificationService: notifService,
	}
}

// RunEveningScan checks each user's progress against their goal and sends a
// reminder to those behind. Users who already got today's nudge are skipped.
func (h *HydrationReminder) RunEveningScan(ctx context.Context) error {
	users, err := h.UserService.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %v", err)
	}

	now := time.Now()
	for _, user := range users {
		goal := user.Preferences.DailyGoalML
		if goal <= 0 {
			continue
		}

		total, err := h.LedgerService.TotalForToday(ctx, user.ID)
		if err != nil {
			logrus.WithError(err).Warnf("Failed to read total for user %s", user.ID.Hex())
			continue
		}

		percent := services.ProgressPercent(total, goal)
		if percent >= 100 {
			existing, err := h.NotificationService.LatestOfType(ctx, user.ID, "goal_met")
			if err == nil && existing != nil && now.Sub(existing.CreatedAt) < 20*time.Hour {
				continue
			}
			if err := h.NotificationService.CreateNotification(ctx, user.ID, "goal_met", "Goal reached", "You hit your daily hydration goal. Nice work!", nil); err != nil {
				logrus.WithError(err).Warnf("Failed to send goal-met notification to user %s", user.ID.Hex())
			}
			continue
		}

		// One nudge per day is enough.
		existing, err := h.NotificationService.LatestOfType(ctx, user.ID, "goal_behind")
		if err == nil && existing != nil && now.Sub(existing.CreatedAt) < 20*time.Hour {
			continue
		}

		remaining := goal - total
		message := fmt.Sprintf("You're at %d%% of your daily goal with %d ml to go. A couple of glasses will get you there!", percent, remaining)

		if err := h.NotificationService.CreateNotification(ctx, user.ID, "goal_behind", "Almost there", message, nil); err != nil {
			logrus.WithError(err).Warnf("Failed to send goal reminder to user %s", user.ID.Hex())
			continue
		}

		if user.IsVerified {
			if err := email.SendEmail(user.Email, "Hydration check-in", message); err != nil {
				logrus.WithError(err).Warnf("Failed to email goal reminder to %s", user.Email)
			}
		}
	}

	logrus.Info("Evening hydration scan completed")
	return nil
}
