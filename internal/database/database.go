package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/config"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes the MongoDB connection and prepares the indexes the
// water ledger relies on.
func ConnectDB(cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %v", err)
	}

	db := client.Database(cfg.MongoDB)

	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	logrus.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")
	return db, nil
}

// ensureIndexes creates the unique per-user-per-day key the aggregate
// read-modify-write depends on, plus the lookup indexes for events and bottles.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("daily_aggregates").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create aggregate index: %v", err)
	}

	_, err = db.Collection("water_events").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create event index: %v", err)
	}

	_, err = db.Collection("bottles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create bottle index: %v", err)
	}

	return nil
}
