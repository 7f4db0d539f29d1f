package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bottle icons, a small closed set picked automatically by size band unless
// the user pins one.
const (
	IconGlass  = "glass"
	IconBottle = "bottle"
	IconJug    = "jug"
)

// Size band boundaries in milliliters (16 oz and 32 oz).
const (
	smallBandMaxML  = 473
	mediumBandMaxML = 946
)

// Bottle is a user-defined named volume preset. UseCount grows by one for
// every successful quick-add that references the bottle and is never reversed
// on event deletion: it tracks times selected, not times still contributing.
type Bottle struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	AmountML  int                `bson:"amount_ml" json:"amount_ml"`
	Icon      string             `bson:"icon" json:"icon"`
	UseCount  int                `bson:"use_count" json:"use_count"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// ValidIcon reports whether icon is one of the known bottle icons.
func ValidIcon(icon string) bool {
	return icon == IconGlass || icon == IconBottle || icon == IconJug
}

// IconForAmount picks the icon for a pour size: glass below 16 oz, bottle up
// to 32 oz, jug above.
func IconForAmount(amountML int) string {
	switch {
	case amountML < smallBandMaxML:
		return IconGlass
	case amountML <= mediumBandMaxML:
		return IconBottle
	default:
		return IconJug
	}
}

// SortBottles orders a catalog listing for the quick-add UI: most used first,
// ties broken by name ascending ignoring case.
func SortBottles(bottles []Bottle) {
	sort.SliceStable(bottles, func(i, j int) bool {
		if bottles[i].UseCount != bottles[j].UseCount {
			return bottles[i].UseCount > bottles[j].UseCount
		}
		return strings.ToLower(bottles[i].Name) < strings.ToLower(bottles[j].Name)
	})
}
