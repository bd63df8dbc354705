package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/nutrisense/internal/profile"
	"github.com/hrygo/nutrisense/store"
	"github.com/hrygo/nutrisense/store/db"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "nutrisense_test.db"),
	}
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)
	require.NoError(t, driver.Migrate(context.Background()))

	s := store.New(driver, p)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.CreateSnapshot(ctx, &store.Snapshot{
		UID:    "snap-1",
		UserID: "user-1",
		Days:   14,
		Source: "computed",
		Scores: `{"protein_satiety":62.5}`,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.NotZero(t, created.CreatedTs)

	got, err := s.GetLatestSnapshot(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "snap-1", got.UID)
	require.Equal(t, 14, got.Days)
	require.Equal(t, `{"protein_satiety":62.5}`, got.Scores)

	none, err := s.GetLatestSnapshot(ctx, "user-2")
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestGetLatestSnapshotPicksNewest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateSnapshot(ctx, &store.Snapshot{
		UID: "old", UserID: "user-1", Source: "computed", Scores: "{}", CreatedTs: 100,
	})
	require.NoError(t, err)
	_, err = s.CreateSnapshot(ctx, &store.Snapshot{
		UID: "new", UserID: "user-1", Source: "computed", Scores: "{}", CreatedTs: 200,
	})
	require.NoError(t, err)

	got, err := s.GetLatestSnapshot(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "new", got.UID)
}

func TestSnapshotDeleteByUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateSnapshot(ctx, &store.Snapshot{UID: "a", UserID: "user-1", Source: "computed", Scores: "{}"})
	require.NoError(t, err)

	userID := "user-1"
	require.NoError(t, s.DeleteSnapshot(ctx, &store.DeleteSnapshot{UserID: &userID}))

	got, err := s.GetLatestSnapshot(ctx, "user-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSimulationRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.CreateSimulation(ctx, &store.Simulation{
		UID:    "sim-1",
		UserID: "user-1",
		Action: "add_protein",
		Params: `{"proteinGrams":45}`,
		Result: `{"healthScoreChange":6}`,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	action := "add_protein"
	list, err := s.ListSimulations(ctx, &store.FindSimulation{UserID: &created.UserID, Action: &action})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "sim-1", list[0].UID)

	require.NoError(t, s.DeleteSimulation(ctx, &store.DeleteSimulation{ID: &created.ID}))
	list, err = s.ListSimulations(ctx, &store.FindSimulation{UserID: &created.UserID})
	require.NoError(t, err)
	require.Empty(t, list)
}
