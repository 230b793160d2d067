package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/EpicMandM/reservation-system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = models.NewDate(2024, time.January, 1)

func pending(room int64, from, to int) models.Reservation {
	return models.Reservation{
		UserID:    1,
		RoomID:    room,
		StartDate: day0.AddDays(from),
		EndDate:   day0.AddDays(to),
		Status:    models.StatusPending,
	}
}

type storeFactory func(t *testing.T) Store

func factories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) Store {
			s, err := NewMemoryStore()
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, factory := range factories() {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func TestSave_InsertAssignsID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		first, err := s.Save(ctx, pending(40, 0, 5))
		require.NoError(t, err)
		second, err := s.Save(ctx, pending(41, 0, 5))
		require.NoError(t, err)

		assert.NotZero(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)

		got, err := s.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	})
}

func TestSave_ReplacesExisting(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		saved, err := s.Save(ctx, pending(40, 0, 5))
		require.NoError(t, err)

		saved.RoomID = 42
		saved.EndDate = day0.AddDays(9)
		saved.Status = models.StatusApproved
		_, err = s.Save(ctx, saved)
		require.NoError(t, err)

		got, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved, got)

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestFindByID_Missing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		_, err := s.FindByID(context.Background(), 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFindAll(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		for i := 0; i < 3; i++ {
			_, err := s.Save(ctx, pending(int64(40+i), i, i+2))
			require.NoError(t, err)
		}

		all, err = s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i := 1; i < len(all); i++ {
			assert.Less(t, all[i-1].ID, all[i].ID)
		}
	})
}

func TestExistsAndDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		saved, err := s.Save(ctx, pending(40, 0, 5))
		require.NoError(t, err)

		exists, err := s.ExistsByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, s.DeleteByID(ctx, saved.ID))
		require.NoError(t, s.DeleteByID(ctx, saved.ID), "delete must be idempotent")

		exists, err = s.ExistsByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = s.FindByID(ctx, saved.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSetStatus(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		saved, err := s.Save(ctx, pending(40, 0, 5))
		require.NoError(t, err)

		require.NoError(t, s.SetStatus(ctx, saved.ID, models.StatusCancelled))

		got, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, got.Status)
		assert.Equal(t, saved.RoomID, got.RoomID)
		assert.Equal(t, saved.StartDate, got.StartDate)

		err = s.SetStatus(ctx, 999, models.StatusCancelled)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore_Seed(t *testing.T) {
	fixed := pending(40, 0, 5)
	fixed.ID = 10

	s, err := NewMemoryStore(pending(41, 0, 2), fixed)
	require.NoError(t, err)

	all, err := s.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(10), all[1].ID)

	next, err := s.Save(context.Background(), pending(42, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(11), next.ID, "ids continue past seeded ids")
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Save(ctx, pending(40, 0, 5))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.FindAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewSQLiteStore(dir)
	require.NoError(t, err)
	saved, err := s.Save(ctx, pending(40, 0, 5))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.FileExists(t, filepath.Join(dir, "reservations.db"))

	reopened, err := NewSQLiteStore(dir)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveDBPath(filepath.Join(dir, "nested", "custom.db"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "custom.db"), got)
	assert.DirExists(t, filepath.Join(dir, "nested"))

	got, err = resolveDBPath(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "reservations.db"), got)
}
