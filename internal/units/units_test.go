package units

import (
	"testing"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOzToMlStandardServing(t *testing.T) {
	// 8 oz quick-add stores 237 ml
	assert.Equal(t, 237, OzToMl(8))
	assert.Equal(t, 237, StandardServingML)
}

func TestMlToOzRounding(t *testing.T) {
	assert.Equal(t, 8.0, MlToOz(237))
	assert.Equal(t, 16.9, MlToOz(500))
	assert.Equal(t, 0.0, MlToOz(0))
}

func TestRoundTripOz(t *testing.T) {
	// Converting to oz and back must stay within the oz rounding granularity
	// (0.1 oz ~ 3 ml, well under the 15 ml tolerance).
	for ml := 0; ml <= 4000; ml += 7 {
		back := ToMilliliters(ToDisplayUnit(ml, models.UnitOz), models.UnitOz)
		diff := back - ml
		if diff < 0 {
			diff = -diff
		}
		require.LessOrEqualf(t, diff, 15, "round trip for %d ml drifted by %d", ml, diff)
	}
}

func TestRoundTripMlExact(t *testing.T) {
	for ml := 0; ml <= 4000; ml += 13 {
		require.Equal(t, ml, ToMilliliters(ToDisplayUnit(ml, models.UnitML), models.UnitML))
	}
}

func TestToEpochMillis(t *testing.T) {
	now := time.Now()

	got, err := ToEpochMillis(now)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), got)

	got, err = ToEpochMillis(primitive.NewDateTimeFromTime(now))
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), got)

	got, err = ToEpochMillis(int64(1700000000000))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), got)

	got, err = ToEpochMillis(float64(1700000000000))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), got)

	_, err = ToEpochMillis("2024-01-01")
	assert.Error(t, err)
}

func TestDateKeyAndDayBounds(t *testing.T) {
	at := time.Date(2025, 3, 14, 15, 9, 26, 0, time.Local)
	assert.Equal(t, "2025-03-14", DateKey(at))

	start, end := DayBounds(at)
	assert.Equal(t, "2025-03-14", DateKey(start))
	assert.True(t, start.Before(at))
	assert.True(t, end.After(at))
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}
