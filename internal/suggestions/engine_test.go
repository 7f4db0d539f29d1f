package suggestions

import (
	"math"
	"testing"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noon gives the rules a fixed instant inside the midday tip band.
func noon() time.Time {
	return time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
}

func event(at time.Time, amountML int) models.WaterEvent {
	return models.WaterEvent{
		AmountML:  amountML,
		Direction: models.DirectionAdd,
		Source:    models.SourceQuick,
		CreatedAt: at,
	}
}

func TestEmptyHistoryYieldsWelcomeOnly(t *testing.T) {
	got := Generate(Input{Unit: models.UnitML, Now: noon()})

	require.Len(t, got, 1)
	assert.Equal(t, models.SuggestionWelcome, got[0].Type)
}

func TestNoDrinkTodayReminder(t *testing.T) {
	yesterday := noon().Add(-24 * time.Hour)
	got := Generate(Input{
		Events: []models.WaterEvent{event(yesterday, 237)},
		Unit:   models.UnitOz,
		Now:    noon(),
	})

	require.NotEmpty(t, got)
	assert.Equal(t, models.SuggestionReminder, got[0].Type)
	assert.Equal(t, 4, got[0].Priority)
	assert.Equal(t, 8.0, got[0].ActionAmount)
}

func TestReminderTiersMutuallyExclusive(t *testing.T) {
	tests := []struct {
		name         string
		sinceLast    time.Duration
		wantPriority int
	}{
		{"three hours ago", 3*time.Hour + time.Minute, 3},
		{"two hours ago", 2*time.Hour + time.Minute, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(Input{
				Events: []models.WaterEvent{event(noon().Add(-tt.sinceLast), 250)},
				// keep progress tiers quiet
				TotalTodayML:    250,
				ProgressPercent: 30,
				Unit:            models.UnitML,
				Now:             noon(),
			})

			var reminders []models.Suggestion
			for _, s := range got {
				if s.Type == models.SuggestionReminder {
					reminders = append(reminders, s)
				}
			}
			require.Len(t, reminders, 1)
			assert.Equal(t, tt.wantPriority, reminders[0].Priority)
		})
	}
}

func TestRecentDrinkNoReminder(t *testing.T) {
	got := Generate(Input{
		Events:          []models.WaterEvent{event(noon().Add(-30*time.Minute), 250)},
		TotalTodayML:    250,
		ProgressPercent: 30,
		Unit:            models.UnitML,
		Now:             noon(),
	})

	for _, s := range got {
		assert.NotEqual(t, models.SuggestionReminder, s.Type)
	}
}

func TestNearGoalProgressAction(t *testing.T) {
	// 1500 of 2000 ml: 75%, near-goal tier with action >= one serving
	got := Generate(Input{
		Events:          []models.WaterEvent{event(noon().Add(-10*time.Minute), 500)},
		TotalTodayML:    1500,
		ProgressPercent: 75,
		RemainingML:     500,
		Unit:            models.UnitML,
		Now:             noon(),
	})

	var progress *models.Suggestion
	for i := range got {
		if got[i].Type == models.SuggestionProgress {
			progress = &got[i]
		}
	}
	require.NotNil(t, progress)
	assert.Equal(t, 2, progress.Priority)
	assert.GreaterOrEqual(t, progress.ActionAmount, 237.0)
	// half of remaining (250) is below one serving, so serving wins
	assert.Equal(t, 250.0, progress.ActionAmount)
}

func TestGoalReachedTier(t *testing.T) {
	got := Generate(Input{
		Events:          []models.WaterEvent{event(noon().Add(-10*time.Minute), 500)},
		TotalTodayML:    2100,
		ProgressPercent: 100,
		Unit:            models.UnitML,
		Now:             noon(),
	})

	var progress []models.Suggestion
	for _, s := range got {
		if s.Type == models.SuggestionProgress {
			progress = append(progress, s)
		}
	}
	require.Len(t, progress, 1)
	assert.Equal(t, 1, progress[0].Priority)
	assert.Zero(t, progress[0].ActionAmount)
}

func TestPriorityOrderingAndCap(t *testing.T) {
	// Last drink 3.5h ago (reminder p3), 20% progress (p3), midday tip (p1)
	// and a steady pattern (p1): four emitted, capped at three, ordered by
	// priority descending.
	events := []models.WaterEvent{
		event(noon().Add(-7*time.Hour), 100),
		event(noon().Add(-5*time.Hour), 100),
		event(noon().Add(-3*time.Hour-30*time.Minute), 100),
	}
	got := Generate(Input{
		Events:          events,
		TotalTodayML:    300,
		ProgressPercent: 15,
		Unit:            models.UnitML,
		Now:             noon(),
	})

	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Priority, got[i].Priority)
	}
	assert.Equal(t, 3, got[0].Priority)
}

func TestPatternRule(t *testing.T) {
	// Three drinks an hour apart: mean gap 1h triggers the pattern rule.
	events := []models.WaterEvent{
		event(noon().Add(-2*time.Hour), 200),
		event(noon().Add(-time.Hour), 200),
		event(noon().Add(-30*time.Minute), 200),
	}
	got := Generate(Input{
		Events:          events,
		TotalTodayML:    600,
		ProgressPercent: 30,
		Unit:            models.UnitML,
		Now:             noon(),
	})

	var found bool
	for _, s := range got {
		if s.Type == models.SuggestionPattern {
			found = true
			assert.Equal(t, 1, s.Priority)
		}
	}
	assert.True(t, found, "expected a pattern suggestion")
}

func TestNoTipOutsideBands(t *testing.T) {
	night := time.Date(2025, 6, 10, 23, 30, 0, 0, time.Local)
	got := Generate(Input{
		Events:          []models.WaterEvent{event(night.Add(-30*time.Minute), 200)},
		TotalTodayML:    200,
		ProgressPercent: 30,
		Unit:            models.UnitML,
		Now:             night,
	})

	for _, s := range got {
		assert.NotEqual(t, models.SuggestionTip, s.Type)
	}
}

func TestMalformedProgressDegrades(t *testing.T) {
	got := Generate(Input{
		Events:          []models.WaterEvent{event(noon().Add(-10*time.Minute), 200)},
		TotalTodayML:    200,
		ProgressPercent: math.NaN(),
		Unit:            models.UnitML,
		Now:             noon(),
	})

	// NaN percent treated as 0: the <25% encouragement tier fires, nothing
	// panics, nothing errors.
	var progress []models.Suggestion
	for _, s := range got {
		if s.Type == models.SuggestionProgress {
			progress = append(progress, s)
		}
	}
	require.Len(t, progress, 1)
	assert.Equal(t, 3, progress[0].Priority)
}
