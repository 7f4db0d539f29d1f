package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/Dias221467/Hydration_Tracker/internal/units"
	"github.com/Dias221467/Hydration_Tracker/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AggregateStore is the slice of the water repository the ledger needs: a
// read and a compare-and-swap commit per user-day.
type AggregateStore interface {
	GetAggregate(ctx context.Context, userID primitive.ObjectID, dateKey string) (*models.DailyAggregate, error)
	CommitAggregate(ctx context.Context, userID primitive.ObjectID, dateKey string, expectedTotal, newTotal int, source string) (bool, error)
}

// EventStore is the append-only event log boundary.
type EventStore interface {
	InsertEvent(ctx context.Context, event *models.WaterEvent) (*models.WaterEvent, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*models.WaterEvent, error)
	GetEventsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.WaterEvent, error)
	DeleteEvent(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// UseCounter is the single bottle-catalog side effect the ledger triggers.
type UseCounter interface {
	IncrementUseCount(ctx context.Context, id primitive.ObjectID) error
}

// maxCommitRetries bounds the optimistic read-modify-write loop.
const maxCommitRetries = 5

// LedgerService owns the daily running total: every addition and correction
// funnels through ApplyDelta.
type LedgerService struct {
	aggregates AggregateStore
	events     EventStore
	bottles    UseCounter
	timeout    time.Duration
	publish    func(userID string, agg models.DailyAggregate)
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(aggregates AggregateStore, events EventStore, bottles UseCounter, timeout time.Duration) *LedgerService {
	return &LedgerService{
		aggregates: aggregates,
		events:     events,
		bottles:    bottles,
		timeout:    timeout,
	}
}

// SetPublisher installs the live-update hook invoked after every committed
// aggregate change.
func (s *LedgerService) SetPublisher(publish func(userID string, agg models.DailyAggregate)) {
	s.publish = publish
}

// ApplyDelta applies a signed milliliter delta to today's aggregate for the
// user. The total clamps at zero; a delta that changes nothing is a no-op with
// no write, no event and no use-count increment. Returns the new total and
// whether anything changed.
func (s *LedgerService) ApplyDelta(ctx context.Context, userID primitive.ObjectID, deltaML int, source string, bottleID *primitive.ObjectID) (int, bool, error) {
	if userID.IsZero() {
		return 0, false, ErrUnauthenticated
	}
	if deltaML == 0 {
		return 0, false, fmt.Errorf("%w: delta must be non-zero", ErrInvalidAmount)
	}
	if !models.ValidSource(source) {
		return 0, false, fmt.Errorf("%w: unknown source %q", ErrInvalidAmount, source)
	}
	if source == models.SourceBottle && bottleID == nil {
		return 0, false, fmt.Errorf("%w: bottle source requires a bottle id", ErrInvalidAmount)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now()
	newTotal, current, changed, err := s.commitDelta(ctx, userID, deltaML, source, now)
	if err != nil {
		return 0, false, err
	}
	if !changed {
		return current, false, nil
	}

	// Append the audit event with the effective applied magnitude so the log
	// always re-sums to the aggregate.
	applied := newTotal - current
	direction := models.DirectionAdd
	if applied < 0 {
		direction = models.DirectionSubtract
		applied = -applied
	}
	event := &models.WaterEvent{
		UserID:    userID,
		AmountML:  applied,
		Direction: direction,
		Source:    source,
		BottleID:  bottleID,
		CreatedAt: now,
	}
	if _, err := s.events.InsertEvent(ctx, event); err != nil {
		logger.Log.WithError(err).Warn("Aggregate committed but event append failed")
	}

	if source == models.SourceBottle {
		if err := s.bottles.IncrementUseCount(ctx, *bottleID); err != nil {
			logger.Log.WithError(err).WithField("bottle_id", bottleID.Hex()).Warn("Failed to increment bottle use count")
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  userID.Hex(),
		"total_ml": newTotal,
		"source":   source,
		"delta_ml": deltaML,
	}).Info("Aggregate updated")
	return newTotal, true, nil
}

// commitDelta runs the bounded optimistic read-modify-write for today's
// aggregate and pushes the committed total to live sessions. It writes no
// event and touches no counter; ApplyDelta layers those on top, and the
// water-log delete reconciliation calls this directly.
func (s *LedgerService) commitDelta(ctx context.Context, userID primitive.ObjectID, deltaML int, source string, now time.Time) (newTotal, current int, changed bool, err error) {
	dateKey := units.DateKey(now)

	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		agg, err := s.aggregates.GetAggregate(ctx, userID, dateKey)
		if err != nil {
			return 0, 0, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		current = 0
		if agg != nil {
			current = agg.TotalML
		}

		newTotal = current + deltaML
		if newTotal < 0 {
			newTotal = 0
		}
		if newTotal == current {
			// Clamp produced no change, e.g. subtracting from an empty day.
			logger.Log.WithFields(logrus.Fields{
				"user_id":  userID.Hex(),
				"date_key": dateKey,
				"delta_ml": deltaML,
			}).Info("Delta is a no-op, skipping write")
			return current, current, false, nil
		}

		ok, err := s.aggregates.CommitAggregate(ctx, userID, dateKey, current, newTotal, source)
		if err != nil {
			return 0, 0, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if ok {
			if s.publish != nil {
				s.publish(userID.Hex(), models.DailyAggregate{
					UserID:        userID,
					DateKey:       dateKey,
					TotalML:       newTotal,
					LastUpdatedAt: now,
					LastSource:    source,
				})
			}
			return newTotal, current, true, nil
		}
		// Another writer moved the total, re-read and retry.
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  userID.Hex(),
		"date_key": dateKey,
	}).Error("Aggregate commit lost every retry")
	return 0, 0, false, ErrConflictRetryExhausted
}

// TotalForToday returns today's running total, zero when no record exists.
func (s *LedgerService) TotalForToday(ctx context.Context, userID primitive.ObjectID) (int, error) {
	if userID.IsZero() {
		return 0, ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	agg, err := s.aggregates.GetAggregate(ctx, userID, units.DateKey(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if agg == nil {
		return 0, nil
	}
	return agg.TotalML, nil
}

// ProgressPercent computes goal progress capped at 100. A non-positive goal
// never divides: it reads as 0%.
func ProgressPercent(totalML, goalML int) int {
	if goalML <= 0 {
		return 0
	}
	percent := int(math.Round(float64(totalML) / float64(goalML) * 100))
	if percent > 100 {
		percent = 100
	}
	return percent
}

// Remaining returns how much is left to the goal, floored at zero, in both
// display units.
func Remaining(totalML, goalML int) (int, float64) {
	remaining := goalML - totalML
	if remaining < 0 {
		remaining = 0
	}
	return remaining, units.MlToOz(remaining)
}
