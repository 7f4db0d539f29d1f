// Package suggestions derives actionable hydration hints from the event log
// and today's aggregate. Generate is a pure function: no store access, no
// clock reads beyond the instant it is handed, so it can be recomputed on
// every render.
package suggestions

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/Dias221467/Hydration_Tracker/internal/units"
)

// Input carries everything the rules need, pre-computed by the caller.
type Input struct {
	Events          []models.WaterEvent
	TotalTodayML    int
	ProgressPercent float64
	RemainingML     int
	RemainingOz     float64
	Unit            string // preferred display unit for action amounts
	Now             time.Time
}

const maxSuggestions = 3

// Generate produces at most three suggestions ordered by priority descending,
// ties keeping emission order. It never errors; malformed input degrades to
// fewer (or zero) suggestions.
func Generate(in Input) []models.Suggestion {
	// Lifetime-empty history: welcome and nothing else.
	if len(in.Events) == 0 {
		return []models.Suggestion{{
			Type:     models.SuggestionWelcome,
			Message:  "Welcome! Log your first glass of water to get started.",
			Icon:     "👋",
			Priority: 5,
		}}
	}

	progress := in.ProgressPercent
	if math.IsNaN(progress) || math.IsInf(progress, 0) || progress < 0 {
		progress = 0
	}

	var out []models.Suggestion
	out = appendReminder(out, in)
	out = appendProgress(out, in, progress)
	out = appendTimeOfDayTip(out, in.Now)
	out = appendPattern(out, in)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// serving returns one standard serving expressed in the display unit.
func serving(unit string) float64 {
	if unit == models.UnitOz {
		return units.StandardServingOz
	}
	return float64(units.StandardServingML)
}

// appendReminder emits exactly one of three mutually exclusive
// time-since-last-drink nudges.
func appendReminder(out []models.Suggestion, in Input) []models.Suggestion {
	dayStart, dayEnd := units.DayBounds(in.Now)

	var last time.Time
	for _, e := range in.Events {
		if e.CreatedAt.Before(dayStart) || !e.CreatedAt.Before(dayEnd) {
			continue
		}
		if e.CreatedAt.After(last) {
			last = e.CreatedAt
		}
	}

	if last.IsZero() {
		return append(out, models.Suggestion{
			Type:         models.SuggestionReminder,
			Message:      "You haven't logged any water today. Start with a glass!",
			Icon:         "💧",
			Priority:     4,
			ActionAmount: serving(in.Unit),
		})
	}

	since := in.Now.Sub(last)
	switch {
	case since >= 3*time.Hour:
		return append(out, models.Suggestion{
			Type:         models.SuggestionReminder,
			Message:      "It's been over 3 hours since your last drink. Time to hydrate!",
			Icon:         "⏰",
			Priority:     3,
			ActionAmount: serving(in.Unit),
		})
	case since >= 2*time.Hour:
		return append(out, models.Suggestion{
			Type:         models.SuggestionReminder,
			Message:      "A couple of hours without water. How about a quick sip?",
			Icon:         "⏰",
			Priority:     2,
			ActionAmount: serving(in.Unit),
		})
	}
	return out
}

// appendProgress emits the first matching progress tier, top-down.
func appendProgress(out []models.Suggestion, in Input, progress float64) []models.Suggestion {
	remaining := in.RemainingML
	if in.Unit == models.UnitOz {
		remaining = int(math.Round(in.RemainingOz))
	}

	switch {
	case progress >= 100:
		return append(out, models.Suggestion{
			Type:     models.SuggestionProgress,
			Message:  "Goal reached! Fantastic work staying hydrated today. 🎉",
			Icon:     "🏆",
			Priority: 1,
		})
	case progress >= 75:
		action := math.Max(serving(in.Unit), float64(remaining)/2)
		return append(out, models.Suggestion{
			Type:         models.SuggestionProgress,
			Message:      fmt.Sprintf("Almost there — only %d %s to go!", remaining, in.Unit),
			Icon:         "🎯",
			Priority:     2,
			ActionAmount: action,
		})
	case progress >= 50:
		return append(out, models.Suggestion{
			Type:     models.SuggestionProgress,
			Message:  "Halfway to your daily goal. Keep it up!",
			Icon:     "💪",
			Priority: 2,
		})
	case progress < 25 && in.TotalTodayML > 0:
		return append(out, models.Suggestion{
			Type:     models.SuggestionProgress,
			Message:  "Good start! Every glass counts toward your goal.",
			Icon:     "🌱",
			Priority: 3,
		})
	}
	return out
}

// appendTimeOfDayTip emits one fixed message per wall-clock band, none at
// night.
func appendTimeOfDayTip(out []models.Suggestion, now time.Time) []models.Suggestion {
	hour := now.Local().Hour()

	var message string
	switch {
	case hour >= 6 && hour < 10:
		message = "A glass of water first thing in the morning kick-starts your metabolism."
	case hour >= 10 && hour < 14:
		message = "Keep a bottle at your desk — midday is when hydration slips."
	case hour >= 14 && hour < 18:
		message = "Afternoon slump? It's often dehydration. Drink up before reaching for coffee."
	case hour >= 18 && hour < 22:
		message = "Wind down with some water, but taper off close to bedtime."
	default:
		return out
	}

	return append(out, models.Suggestion{
		Type:     models.SuggestionTip,
		Message:  message,
		Icon:     "💡",
		Priority: 1,
	})
}

// appendPattern congratulates steady sipping: three or more events today with
// a mean gap of at most two hours.
func appendPattern(out []models.Suggestion, in Input) []models.Suggestion {
	dayStart, dayEnd := units.DayBounds(in.Now)

	var today []time.Time
	for _, e := range in.Events {
		if e.CreatedAt.Before(dayStart) || !e.CreatedAt.Before(dayEnd) {
			continue
		}
		today = append(today, e.CreatedAt)
	}
	if len(today) < 3 {
		return out
	}

	sort.Slice(today, func(i, j int) bool { return today[i].Before(today[j]) })

	var total time.Duration
	for i := 1; i < len(today); i++ {
		total += today[i].Sub(today[i-1])
	}
	mean := total / time.Duration(len(today)-1)

	if mean <= 2*time.Hour {
		out = append(out, models.Suggestion{
			Type:     models.SuggestionPattern,
			Message:  "You're drinking at a steady rhythm today. Great consistency!",
			Icon:     "📈",
			Priority: 1,
		})
	}
	return out
}
