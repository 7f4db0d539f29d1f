package units

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToEpochMillis normalizes the timestamp shapes that reach date-bucketing
// logic: native time.Time, the driver's primitive.DateTime wrapper, or raw
// epoch-millisecond numbers. Every call site that buckets by day goes through
// here rather than re-implementing the conversion.
func ToEpochMillis(v interface{}) (int64, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UnixMilli(), nil
	case primitive.DateTime:
		return int64(t), nil
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	default:
		return 0, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

// DateKey buckets an instant into its local calendar day, YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// DayBounds returns the local midnight-to-midnight range containing t.
func DayBounds(t time.Time) (start, end time.Time) {
	local := t.Local()
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	end = start.Add(24 * time.Hour)
	return start, end
}
