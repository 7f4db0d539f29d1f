package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/Dias221467/Hydration_Tracker/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WaterRepository handles database operations for the event log and the
// per-day aggregates.
type WaterRepository struct {
	events     *mongo.Collection
	aggregates *mongo.Collection
}

// NewWaterRepository creates a new instance of WaterRepository.
func NewWaterRepository(db *mongo.Database) *WaterRepository {
	return &WaterRepository{
		events:     db.Collection("water_events"),
		aggregates: db.Collection("daily_aggregates"),
	}
}

// InsertEvent appends a water event to the log.
func (r *WaterRepository) InsertEvent(ctx context.Context, event *models.WaterEvent) (*models.WaterEvent, error) {
	result, err := r.events.InsertOne(ctx, event)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert water event")
		return nil, fmt.Errorf("failed to insert water event: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted event ID")
		return nil, fmt.Errorf("failed to cast inserted event ID")
	}
	event.ID = insertedID

	logger.Log.WithFields(logrus.Fields{
		"event_id":  event.ID.Hex(),
		"user_id":   event.UserID.Hex(),
		"amount_ml": event.AmountML,
	}).Info("Water event recorded")
	return event, nil
}

// GetEventByID fetches a single event.
func (r *WaterRepository) GetEventByID(ctx context.Context, id primitive.ObjectID) (*models.WaterEvent, error) {
	var event models.WaterEvent
	err := r.events.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("event_id", id.Hex()).Error("Failed to find water event")
		return nil, fmt.Errorf("failed to find water event: %v", err)
	}
	return &event, nil
}

// GetEventsByUser fetches all events belonging to a user. Ordering is left to
// the caller.
func (r *WaterRepository) GetEventsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.WaterEvent, error) {
	cursor, err := r.events.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch water events")
		return nil, fmt.Errorf("failed to fetch water events: %v", err)
	}
	defer cursor.Close(ctx)

	var events []models.WaterEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode water events: %v", err)
	}
	return events, nil
}

// DeleteEvent removes one event. Returns the number of deleted documents so
// the service can treat a missing event as a benign no-op.
func (r *WaterRepository) DeleteEvent(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.events.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("event_id", id.Hex()).Error("Failed to delete water event")
		return 0, fmt.Errorf("failed to delete water event: %v", err)
	}
	return result.DeletedCount, nil
}

// GetAggregate reads the aggregate for a user-day. A missing document comes
// back as nil, not an error.
func (r *WaterRepository) GetAggregate(ctx context.Context, userID primitive.ObjectID, dateKey string) (*models.DailyAggregate, error) {
	var agg models.DailyAggregate
	err := r.aggregates.FindOne(ctx, bson.M{"user_id": userID, "date_key": dateKey}).Decode(&agg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID.Hex(),
			"date_key": dateKey,
		}).Error("Failed to read daily aggregate")
		return nil, fmt.Errorf("failed to read daily aggregate: %v", err)
	}
	return &agg, nil
}

// CommitAggregate writes newTotal for the user-day, but only if the stored
// total still equals expectedTotal. The compare-and-swap filter is what keeps
// two concurrent quick-adds from losing each other's delta; callers retry on
// a false return. A first write of the day inserts, relying on the unique
// (user_id, date_key) index to turn a racing insert into a retryable conflict.
func (r *WaterRepository) CommitAggregate(ctx context.Context, userID primitive.ObjectID, dateKey string, expectedTotal, newTotal int, source string) (bool, error) {
	now := time.Now()

	if expectedTotal == 0 {
		// The document may not exist yet: try the CAS update first, then fall
		// back to insert.
		result, err := r.aggregates.UpdateOne(ctx,
			bson.M{"user_id": userID, "date_key": dateKey, "total_ml": expectedTotal},
			bson.M{"$set": bson.M{"total_ml": newTotal, "last_updated_at": now, "last_source": source}},
		)
		if err != nil {
			return false, fmt.Errorf("failed to update daily aggregate: %v", err)
		}
		if result.MatchedCount > 0 {
			return true, nil
		}

		// No matching doc: either it doesn't exist, or another writer moved
		// the total. Distinguish by attempting the insert.
		existing, err := r.GetAggregate(ctx, userID, dateKey)
		if err != nil {
			return false, err
		}
		if existing != nil {
			return false, nil // concurrent writer won, retry
		}

		_, err = r.aggregates.InsertOne(ctx, models.DailyAggregate{
			UserID:        userID,
			DateKey:       dateKey,
			TotalML:       newTotal,
			LastUpdatedAt: now,
			LastSource:    source,
		})
		if mongo.IsDuplicateKeyError(err) {
			return false, nil // racing insert, retry
		}
		if err != nil {
			return false, fmt.Errorf("failed to insert daily aggregate: %v", err)
		}
		return true, nil
	}

	result, err := r.aggregates.UpdateOne(ctx,
		bson.M{"user_id": userID, "date_key": dateKey, "total_ml": expectedTotal},
		bson.M{"$set": bson.M{"total_ml": newTotal, "last_updated_at": now, "last_source": source}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update daily aggregate: %v", err)
	}
	return result.MatchedCount > 0, nil
}
