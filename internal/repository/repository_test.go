package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"fsa_tracker/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)), ErrConflict)
	assert.ErrorIs(t, translate(&pq.Error{Code: "23505"}), ErrConflict)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), ErrConflict)

	other := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(other), translate(other))
}

// openTestDB connects to the database named by TEST_DATABASE_DSN.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := ConnectWithRetry(dsn, &gorm.Config{TranslateError: true}, 1, 0)
	require.NoError(t, err)
	return db
}

func TestUserAndLocationRepositories(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	locs := NewLocationRepository(db)

	email := uuid.NewString() + "@example.com"
	u := &models.User{Name: "Rep", Email: email, Role: models.RoleRep}
	require.NoError(t, users.Create(ctx, u))
	assert.ErrorIs(t, users.Create(ctx, &models.User{Name: "Dup", Email: email}), ErrConflict)

	got, err := users.ByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	last, err := locs.LastKnown(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, last)

	old := time.Now().Add(-48 * time.Hour).UTC()
	require.NoError(t, locs.Save(ctx, &models.LocationHistory{UserID: u.ID, Latitude: 1, Longitude: 2, Timestamp: old}))
	require.NoError(t, locs.Save(ctx, &models.LocationHistory{UserID: u.ID, Latitude: 3, Longitude: 4, Timestamp: time.Now().UTC()}))

	last, err = locs.LastKnown(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, last.Latitude)

	n, err := locs.PruneBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}

func TestEventRepositoryIgnoresReplays(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	events := NewEventRepository(db)

	route := "R-" + uuid.NewString()
	ev := models.StopEvent{EventID: uuid.NewString(), RouteID: route, StopID: "S1", Kind: models.EventTransition, OccurredAt: time.Now()}
	first := ev
	require.NoError(t, events.Record(ctx, &first))
	replay := ev
	require.NoError(t, events.Record(ctx, &replay))

	list, err := events.ForStop(ctx, route, "S1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
