package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestWaterLog(store *fakeWaterStore) *WaterLogService {
	return NewWaterLogService(store, newTestLedger(store), time.Second)
}

func TestRecordValidates(t *testing.T) {
	store := newFakeWaterStore()
	svc := newTestWaterLog(store)
	userID := primitive.NewObjectID()

	_, err := svc.Record(context.Background(), &models.WaterEvent{UserID: userID, AmountML: 0, Source: models.SourceQuick})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Record(context.Background(), &models.WaterEvent{UserID: userID, AmountML: 250, Source: "juice"})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Record(context.Background(), &models.WaterEvent{AmountML: 250, Source: models.SourceQuick})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRecordDefaultsDirectionAndTimestamp(t *testing.T) {
	store := newFakeWaterStore()
	svc := newTestWaterLog(store)

	created, err := svc.Record(context.Background(), &models.WaterEvent{
		UserID:   primitive.NewObjectID(),
		AmountML: 250,
		Source:   models.SourceQuick,
	})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, models.DirectionAdd, created.Direction)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
}

func TestListForUserNewestFirst(t *testing.T) {
	store := newFakeWaterStore()
	svc := newTestWaterLog(store)
	userID := primitive.NewObjectID()

	now := time.Now()
	for _, age := range []time.Duration{3 * time.Hour, time.Hour, 2 * time.Hour} {
		_, err := store.InsertEvent(context.Background(), &models.WaterEvent{
			UserID:    userID,
			AmountML:  250,
			Direction: models.DirectionAdd,
			Source:    models.SourceQuick,
			CreatedAt: now.Add(-age),
		})
		require.NoError(t, err)
	}

	events, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i := 1; i < len(events); i++ {
		assert.True(t, events[i-1].CreatedAt.After(events[i].CreatedAt))
	}
}

func TestRemoveMissingEventIsNoOp(t *testing.T) {
	store := newFakeWaterStore()
	svc := newTestWaterLog(store)

	err := svc.Remove(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.NoError(t, err)
}

func TestRemoveForbiddenForNonOwner(t *testing.T) {
	store := newFakeWaterStore()
	svc := newTestWaterLog(store)
	owner := primitive.NewObjectID()

	event, err := store.InsertEvent(context.Background(), &models.WaterEvent{
		UserID:    owner,
		AmountML:  250,
		Direction: models.DirectionAdd,
		Source:    models.SourceQuick,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	err = svc.Remove(context.Background(), primitive.NewObjectID(), event.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 1, store.eventCount())
}

func TestRemoveTodayCompensatesAggregate(t *testing.T) {
	store := newFakeWaterStore()
	ledger := newTestLedger(store)
	svc := NewWaterLogService(store, ledger, time.Second)
	userID := primitive.NewObjectID()

	_, _, err := ledger.ApplyDelta(context.Background(), userID, 500, models.SourceQuick, nil)
	require.NoError(t, err)
	events, err := store.GetEventsByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	err = svc.Remove(context.Background(), userID, events[0].ID)
	require.NoError(t, err)

	// The compensation adjusts the total directly: no replacement event.
	assert.Equal(t, 0, store.todayTotal(userID))
	assert.Equal(t, 0, store.eventCount())
}

func TestRemovePastDayLeavesAggregateAlone(t *testing.T) {
	store := newFakeWaterStore()
	ledger := newTestLedger(store)
	svc := NewWaterLogService(store, ledger, time.Second)
	userID := primitive.NewObjectID()

	_, _, err := ledger.ApplyDelta(context.Background(), userID, 500, models.SourceQuick, nil)
	require.NoError(t, err)

	old, err := store.InsertEvent(context.Background(), &models.WaterEvent{
		UserID:    userID,
		AmountML:  300,
		Direction: models.DirectionAdd,
		Source:    models.SourceQuick,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	err = svc.Remove(context.Background(), userID, old.ID)
	require.NoError(t, err)

	// Closed days keep their total; only the log entry disappears.
	assert.Equal(t, 500, store.todayTotal(userID))
	assert.Equal(t, 1, store.eventCount())
}
