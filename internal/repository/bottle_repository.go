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

// BottleRepository struct handles database operations related to bottles
type BottleRepository struct {
	collection *mongo.Collection
}

// NewBottleRepository creates a new instance of BottleRepository
func NewBottleRepository(db *mongo.Database) *BottleRepository {
	return &BottleRepository{
		collection: db.Collection("bottles"),
	}
}

// CreateBottle creates a new bottle preset in the database
func (r *BottleRepository) CreateBottle(ctx context.Context, bottle *models.Bottle) (*models.Bottle, error) {
	bottle.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, bottle)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert bottle")
		return nil, fmt.Errorf("failed to insert bottle: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted bottle ID")
		return nil, fmt.Errorf("failed to cast inserted bottle ID")
	}
	bottle.ID = insertedID

	logger.Log.WithField("bottle_id", bottle.ID.Hex()).Info("Bottle created successfully")
	return bottle, nil
}

// GetBottleByID fetches a bottle by its ID. Missing bottles come back as nil.
func (r *BottleRepository) GetBottleByID(ctx context.Context, id primitive.ObjectID) (*models.Bottle, error) {
	var bottle models.Bottle

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bottle)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("bottle_id", id.Hex()).Error("Failed to find bottle by ID")
		return nil, fmt.Errorf("failed to find bottle: %v", err)
	}
	return &bottle, nil
}

// UpdateBottle applies a partial update to an existing bottle.
func (r *BottleRepository) UpdateBottle(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error) {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		logger.Log.WithError(err).WithField("bottle_id", id.Hex()).Error("Failed to update bottle")
		return 0, fmt.Errorf("failed to update bottle: %v", err)
	}
	return result.MatchedCount, nil
}

// DeleteBottle deletes a bottle from the database by its ID
func (r *BottleRepository) DeleteBottle(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("bottle_id", id.Hex()).Error("Failed to delete bottle")
		return 0, fmt.Errorf("failed to delete bottle: %v", err)
	}
	return result.DeletedCount, nil
}

// IncrementUseCount bumps the usage counter by one.
func (r *BottleRepository) IncrementUseCount(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"use_count": 1}},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("bottle_id", id.Hex()).Error("Failed to increment bottle use count")
		return fmt.Errorf("failed to increment use count: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("bottle %s not found", id.Hex())
	}

	logger.Log.WithField("bottle_id", id.Hex()).Info("Bottle use count incremented")
	return nil
}

// GetBottlesByUser fetches all bottles for a specific user, unordered. The
// catalog ordering rule lives in the service so it is recomputed per call.
func (r *BottleRepository) GetBottlesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Bottle, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch bottles")
		return nil, fmt.Errorf("failed to fetch bottles: %v", err)
	}
	defer cursor.Close(ctx)

	var bottles []models.Bottle
	if err := cursor.All(ctx, &bottles); err != nil {
		return nil, fmt.Errorf("failed to decode bottles: %v", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": userID.Hex(),
		"count":   len(bottles),
	}).Info("Bottles fetched successfully")
	return bottles, nil
}
