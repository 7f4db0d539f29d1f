package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Dias221467/Hydration_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBottleStore struct {
	mu      sync.Mutex
	bottles map[primitive.ObjectID]models.Bottle
}

func newFakeBottleStore() *fakeBottleStore {
	return &fakeBottleStore{bottles: make(map[primitive.ObjectID]models.Bottle)}
}

func (f *fakeBottleStore) CreateBottle(ctx context.Context, bottle *models.Bottle) (*models.Bottle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bottle.ID = primitive.NewObjectID()
	f.bottles[bottle.ID] = *bottle
	return bottle, nil
}

func (f *fakeBottleStore) GetBottleByID(ctx context.Context, id primitive.ObjectID) (*models.Bottle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bottle, ok := f.bottles[id]
	if !ok {
		return nil, nil
	}
	return &bottle, nil
}

func (f *fakeBottleStore) UpdateBottle(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bottle, ok := f.bottles[id]
	if !ok {
		return 0, nil
	}
	if name, ok := fields["name"].(string); ok {
		bottle.Name = name
	}
	if amount, ok := fields["amount_ml"].(int); ok {
		bottle.AmountML = amount
	}
	if icon, ok := fields["icon"].(string); ok {
		bottle.Icon = icon
	}
	f.bottles[id] = bottle
	return 1, nil
}

func (f *fakeBottleStore) DeleteBottle(ctx context.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bottles[id]; !ok {
		return 0, nil
	}
	delete(f.bottles, id)
	return 1, nil
}

func (f *fakeBottleStore) IncrementUseCount(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bottle := f.bottles[id]
	bottle.UseCount++
	f.bottles[id] = bottle
	return nil
}

func (f *fakeBottleStore) GetBottlesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Bottle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Bottle
	for _, bottle := range f.bottles {
		if bottle.UserID == userID {
			out = append(out, bottle)
		}
	}
	return out, nil
}

func newTestBottleService(store *fakeBottleStore) *BottleService {
	return NewBottleService(store, time.Second)
}

func TestCreateBottlePicksIconBySizeBand(t *testing.T) {
	store := newFakeBottleStore()
	svc := newTestBottleService(store)
	userID := primitive.NewObjectID()

	tests := []struct {
		amount int
		icon   string
	}{
		{300, models.IconGlass},
		{472, models.IconGlass},
		{473, models.IconBottle},
		{946, models.IconBottle},
		{947, models.IconJug},
	}
	for _, tt := range tests {
		created, err := svc.CreateBottle(context.Background(), &models.Bottle{
			UserID:   userID,
			Name:     "Test",
			AmountML: tt.amount,
		})
		require.NoError(t, err)
		assert.Equalf(t, tt.icon, created.Icon, "icon for %d ml", tt.amount)
	}
}

func TestCreateBottleKeepsPinnedIcon(t *testing.T) {
	store := newFakeBottleStore()
	svc := newTestBottleService(store)

	created, err := svc.CreateBottle(context.Background(), &models.Bottle{
		UserID:   primitive.NewObjectID(),
		Name:     "Big glass",
		AmountML: 1200,
		Icon:     models.IconGlass,
	})
	require.NoError(t, err)
	assert.Equal(t, models.IconGlass, created.Icon)
}

func TestCreateBottleValidates(t *testing.T) {
	store := newFakeBottleStore()
	svc := newTestBottleService(store)
	userID := primitive.NewObjectID()

	_, err := svc.CreateBottle(context.Background(), &models.Bottle{UserID: userID, Name: "  ", AmountML: 500})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.CreateBottle(context.Background(), &models.Bottle{UserID: userID, Name: "Flask", AmountML: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.CreateBottle(context.Background(), &models.Bottle{UserID: userID, Name: "Flask", AmountML: 500, Icon: "barrel"})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.CreateBottle(context.Background(), &models.Bottle{Name: "Flask", AmountML: 500})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCreateBottleResetsUseCount(t *testing.T) {
	store := newFakeBottleStore()
	svc := newTestBottleService(store)

	created, err := svc.CreateBottle(context.Background(), &models.Bottle{
		UserID:   primitive.NewObjectID(),
		Name:     "Flask",
		AmountML: 500,
		UseCount: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.UseCount)
}

func TestGetBottleOwnership(t *testing.T) {
	store := newFakeBottleStore()
	svc := newTestBottleService(store)
	owner := primitive.NewObjectID()

	created, err := svc.CreateBottle(context.Background(), &models.Bottle{UserID: owner, Name: "Flask", AmountML: 500})
	require.NoError(t, err)

	_, err = svc.GetBottle(context.Background(), primitive.NewObjectID(), created.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetBottle(context.Background(), owner, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBottleRederivesIconOnAmountChange(t *testing.T) {
	store := newFakeBottleStore()
	svc := newTestBottleService(store)
	userID := primitive.NewObjectID()

	created, err := svc.CreateBottle(context.Background(), &models.Bottle{UserID: userID, Name: "Cup", AmountML: 300})
	require.NoError(t, err)
	require.Equal(t, models.IconGlass, created.Icon)

	amount := 1200
	updated, err := svc.UpdateBottle(context.Background(), userID, created.ID, BottleUpdate{AmountML: &amount})
	require.NoError(t, err)
	assert.Equal(t, 1200, updated.AmountML)
	assert.Equal(t, models.IconJug, updated.Icon)
}

func TestUpdateBottlePinnedIconSurvivesAmountChange(t *testing.T) {
	store := newFakeBottleStore()
	svc := newTestBottleService(store)
	userID := primitive.NewObjectID()

	created, err := svc.CreateBottle(context.Background(), &models.Bottle{UserID: userID, Name: "Cup", AmountML: 300})
	require.NoError(t, err)

	amount := 1200
	icon := models.IconGlass
	updated, err := svc.UpdateBottle(context.Background(), userID, created.ID, BottleUpdate{AmountML: &amount, Icon: &icon})
	require.NoError(t, err)
	assert.Equal(t, models.IconGlass, updated.Icon)
}

func TestUpdateBottleEmptyUpdateReturnsExisting(t *testing.T) {
	store := newFakeBottleStore()
	svc := newTestBottleService(store)
	userID := primitive.NewObjectID()

	created, err := svc.CreateBottle(context.Background(), &models.Bottle{UserID: userID, Name: "Cup", AmountML: 300})
	require.NoError(t, err)

	updated, err := svc.UpdateBottle(context.Background(), userID, created.ID, BottleUpdate{})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Cup", updated.Name)
}

func TestDeleteBottleMissingIsNoOp(t *testing.T) {
	store := newFakeBottleStore()
	svc := newTestBottleService(store)

	err := svc.DeleteBottle(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.NoError(t, err)
}

func TestListBottlesRankedByUsageThenName(t *testing.T) {
	store := newFakeBottleStore()
	svc := newTestBottleService(store)
	userID := primitive.NewObjectID()

	seed := []struct {
		name string
		uses int
	}{
		{"Carafe", 1},
		{"bike bottle", 3},
		{"Aeropress mug", 3},
	}
	for _, s := range seed {
		created, err := svc.CreateBottle(context.Background(), &models.Bottle{UserID: userID, Name: s.name, AmountML: 500})
		require.NoError(t, err)
		for i := 0; i < s.uses; i++ {
			require.NoError(t, store.IncrementUseCount(context.Background(), created.ID))
		}
	}

	bottles, err := svc.ListBottles(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, bottles, 3)
	// Most used first, ties broken case-insensitively by name.
	assert.Equal(t, "Aeropress mug", bottles[0].Name)
	assert.Equal(t, "bike bottle", bottles[1].Name)
	assert.Equal(t, "Carafe", bottles[2].Name)
}
