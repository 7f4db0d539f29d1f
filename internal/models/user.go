package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user account in the Hydration Tracker system.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Role           string             `bson:"role" json:"role"`
	IsVerified     bool               `bson:"is_verified" json:"is_verified"`
	VerifyToken    string             `bson:"verify_token,omitempty" json:"-"`
	Preferences    Preferences        `bson:"preferences" json:"preferences"`
	LastActiveAt   time.Time          `bson:"last_active_at,omitempty" json:"last_active_at,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// Preferences is the explicit per-user settings record handed to every surface
// that needs it. Nothing here is global state.
type Preferences struct {
	DailyGoalML     int    `bson:"daily_goal_ml" json:"daily_goal_ml"`
	PreferredUnit   string `bson:"preferred_unit" json:"preferred_unit"` // "ml" or "oz"
	AssistantAccess bool   `bson:"assistant_access" json:"assistant_access"`
}

// DefaultPreferences applies to freshly registered users.
func DefaultPreferences() Preferences {
	return Preferences{
		DailyGoalML:     2000,
		PreferredUnit:   UnitML,
		AssistantAccess: false,
	}
}

type PublicUser struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
}
