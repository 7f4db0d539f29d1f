package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Display units understood by the converter and every HTTP surface.
const (
	UnitML = "ml"
	UnitOz = "oz"
)

// Sources a water event can originate from.
const (
	SourceQuick  = "quick"
	SourceCustom = "custom"
	SourceBottle = "bottle"
)

// Directions of a water event. Amounts are always positive magnitudes; a
// correction is a separate subtract event, never a negative amount baked into
// history.
const (
	DirectionAdd      = "add"
	DirectionSubtract = "subtract"
)

// ValidSource reports whether s is one of the known event sources.
func ValidSource(s string) bool {
	return s == SourceQuick || s == SourceCustom || s == SourceBottle
}

// WaterEvent is one append-only log entry of the intake ledger. Events are
// created on user action and never mutated; the owner may delete one to
// correct a mistake.
type WaterEvent struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	AmountML  int                 `bson:"amount_ml" json:"amount_ml"`
	Direction string              `bson:"direction" json:"direction"`
	Source    string              `bson:"source" json:"source"`
	BottleID  *primitive.ObjectID `bson:"bottle_id,omitempty" json:"bottle_id,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// SignedAmount folds direction into a signed delta.
func (e WaterEvent) SignedAmount() int {
	if e.Direction == DirectionSubtract {
		return -e.AmountML
	}
	return e.AmountML
}

// DailyAggregate is the materialized per-user-per-day running total. It is
// derived from the event log and updated through a conflict-safe
// read-modify-write; TotalML never goes below zero.
type DailyAggregate struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	DateKey       string             `bson:"date_key" json:"date_key"` // YYYY-MM-DD, local calendar day
	TotalML       int                `bson:"total_ml" json:"total_ml"`
	LastUpdatedAt time.Time          `bson:"last_updated_at" json:"last_updated_at"`
	LastSource    string             `bson:"last_source" json:"last_source"`
}
