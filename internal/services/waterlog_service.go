package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/Dias221467/Hydration_Tracker/internal/units"
	"github.com/Dias221467/Hydration_Tracker/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WaterLogService exposes the append-only event log: the audit trail behind
// the daily aggregate.
type WaterLogService struct {
	events  EventStore
	ledger  *LedgerService
	timeout time.Duration
}

// NewWaterLogService creates a new instance of WaterLogService.
func NewWaterLogService(events EventStore, ledger *LedgerService, timeout time.Duration) *WaterLogService {
	return &WaterLogService{
		events:  events,
		ledger:  ledger,
		timeout: timeout,
	}
}

// Record validates and persists a raw intake event, returning the stored
// event with its assigned id. The event amount is always a positive magnitude.
func (s *WaterLogService) Record(ctx context.Context, event *models.WaterEvent) (*models.WaterEvent, error) {
	if event.UserID.IsZero() {
		return nil, ErrUnauthenticated
	}
	if event.AmountML <= 0 {
		return nil, fmt.Errorf("%w: event amount must be positive", ErrInvalidAmount)
	}
	if !models.ValidSource(event.Source) {
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidAmount, event.Source)
	}
	if event.Direction == "" {
		event.Direction = models.DirectionAdd
	}
	event.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.events.InsertEvent(ctx, event)
}

// ListForUser returns the user's events newest first. The store itself is
// unordered; ordering is applied here for timeline display.
func (s *WaterLogService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.WaterEvent, error) {
	if userID.IsZero() {
		return nil, ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	events, err := s.events.GetEventsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

// Remove deletes one event owned by the caller. A missing event is a benign
// no-op. Deleting an event from today's bucket issues a compensating delta so
// the materialized aggregate keeps tracking the log; the bottle use counter is
// intentionally never decremented (it counts times selected).
func (s *WaterLogService) Remove(ctx context.Context, userID, eventID primitive.ObjectID) error {
	if userID.IsZero() {
		return ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if event == nil {
		logger.Log.WithField("event_id", eventID.Hex()).Info("Delete of missing event, nothing to do")
		return nil
	}
	if event.UserID != userID {
		return fmt.Errorf("%w: only the owner can delete an event", ErrForbidden)
	}

	deleted, err := s.events.DeleteEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if deleted == 0 {
		return nil
	}

	// Reconcile today's aggregate; past days keep the total they closed with.
	// The compensation adjusts the counter only: the log already changed by
	// the deletion itself, so no second event is appended and no bottle
	// counter moves.
	now := time.Now()
	if units.DateKey(event.CreatedAt) == units.DateKey(now) {
		_, _, _, err := s.ledger.commitDelta(ctx, userID, -event.SignedAmount(), models.SourceCustom, now)
		if err != nil {
			logger.Log.WithError(err).WithField("event_id", eventID.Hex()).Warn("Compensating delta failed after event delete")
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"event_id": eventID.Hex(),
		"user_id":  userID.Hex(),
	}).Info("Water event deleted")
	return nil
}
