package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/Dias221467/Hydration_Tracker/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BottleStore is the catalog's persistence boundary.
type BottleStore interface {
	CreateBottle(ctx context.Context, bottle *models.Bottle) (*models.Bottle, error)
	GetBottleByID(ctx context.Context, id primitive.ObjectID) (*models.Bottle, error)
	UpdateBottle(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error)
	DeleteBottle(ctx context.Context, id primitive.ObjectID) (int64, error)
	IncrementUseCount(ctx context.Context, id primitive.ObjectID) error
	GetBottlesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Bottle, error)
}

// BottleUpdate is a partial update; nil fields are left untouched.
type BottleUpdate struct {
	Name     *string `json:"name,omitempty"`
	AmountML *int    `json:"amount_ml,omitempty"`
	Icon     *string `json:"icon,omitempty"`
}

// BottleService encapsulates the business logic for the bottle catalog.
type BottleService struct {
	store   BottleStore
	timeout time.Duration
}

// NewBottleService creates a new instance of BottleService.
func NewBottleService(store BottleStore, timeout time.Duration) *BottleService {
	return &BottleService{store: store, timeout: timeout}
}

// CreateBottle validates and stores a new preset. When no icon is pinned the
// size band picks one.
func (s *BottleService) CreateBottle(ctx context.Context, bottle *models.Bottle) (*models.Bottle, error) {
	if bottle.UserID.IsZero() {
		return nil, ErrUnauthenticated
	}
	bottle.Name = strings.TrimSpace(bottle.Name)
	if bottle.Name == "" {
		return nil, fmt.Errorf("%w: bottle name is required", ErrInvalidAmount)
	}
	if bottle.AmountML <= 0 {
		return nil, fmt.Errorf("%w: bottle amount must be positive", ErrInvalidAmount)
	}
	if bottle.Icon == "" {
		bottle.Icon = models.IconForAmount(bottle.AmountML)
	} else if !models.ValidIcon(bottle.Icon) {
		return nil, fmt.Errorf("%w: unknown icon %q", ErrInvalidAmount, bottle.Icon)
	}
	bottle.UseCount = 0

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	created, err := s.store.CreateBottle(ctx, bottle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	logger.Log.WithField("bottle_id", created.ID.Hex()).Info("Bottle created in service layer")
	return created, nil
}

// GetBottle fetches one bottle, enforcing ownership.
func (s *BottleService) GetBottle(ctx context.Context, userID, bottleID primitive.ObjectID) (*models.Bottle, error) {
	if userID.IsZero() {
		return nil, ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bottle, err := s.store.GetBottleByID(ctx, bottleID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if bottle == nil {
		return nil, fmt.Errorf("%w: bottle %s", ErrNotFound, bottleID.Hex())
	}
	if bottle.UserID != userID {
		return nil, fmt.Errorf("%w: bottle belongs to another user", ErrForbidden)
	}
	return bottle, nil
}

// UpdateBottle applies a partial update. Missing bottles are an error here,
// unlike deletes. Changing the amount re-derives the icon unless the update
// pins one explicitly.
func (s *BottleService) UpdateBottle(ctx context.Context, userID, bottleID primitive.ObjectID, update BottleUpdate) (*models.Bottle, error) {
	existing, err := s.GetBottle(ctx, userID, bottleID)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: bottle name is required", ErrInvalidAmount)
		}
		fields["name"] = name
	}
	if update.AmountML != nil {
		if *update.AmountML <= 0 {
			return nil, fmt.Errorf("%w: bottle amount must be positive", ErrInvalidAmount)
		}
		fields["amount_ml"] = *update.AmountML
	}
	if update.Icon != nil {
		if !models.ValidIcon(*update.Icon) {
			return nil, fmt.Errorf("%w: unknown icon %q", ErrInvalidAmount, *update.Icon)
		}
		fields["icon"] = *update.Icon
	} else if update.AmountML != nil && *update.AmountML != existing.AmountML {
		fields["icon"] = models.IconForAmount(*update.AmountML)
	}
	if len(fields) == 0 {
		return existing, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	matched, err := s.store.UpdateBottle(ctx, bottleID, fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if matched == 0 {
		return nil, fmt.Errorf("%w: bottle %s", ErrNotFound, bottleID.Hex())
	}

	return s.store.GetBottleByID(ctx, bottleID)
}

// DeleteBottle removes a preset. A missing bottle is a benign no-op.
func (s *BottleService) DeleteBottle(ctx context.Context, userID, bottleID primitive.ObjectID) error {
	if userID.IsZero() {
		return ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bottle, err := s.store.GetBottleByID(ctx, bottleID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if bottle == nil {
		return nil
	}
	if bottle.UserID != userID {
		return fmt.Errorf("%w: bottle belongs to another user", ErrForbidden)
	}

	if _, err := s.store.DeleteBottle(ctx, bottleID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// ListBottles returns the user's catalog ranked for the quick-add UI:
// useCount descending, name ascending ignoring case. The ordering is
// recomputed on every call, never cached.
func (s *BottleService) ListBottles(ctx context.Context, userID primitive.ObjectID) ([]models.Bottle, error) {
	if userID.IsZero() {
		return nil, ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bottles, err := s.store.GetBottlesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	models.SortBottles(bottles)
	return bottles, nil
}
