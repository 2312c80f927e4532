package store

import (
	"context"
	"testing"
	"time"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mockApplication(discordID, username string) *application.Application {
	return &application.Application{
		Username: username,
		Answers: application.Answers{
			Age:            21,
			Birthplace:     "Los Santos",
			Occupation:     "Mecánico",
			Qualities:      "Leal y paciente",
			CriminalRecord: "Ninguno",
			Description:    "Alto, moreno",
			Character:      "Creció en Sandy Shores",
			Motivation:     "Abrir su propio taller",
			Weaknesses:     "Impulsivo",
			RulesAccepted:  true,
		},
		Discord: application.DiscordIdentity{
			ID:        discordID,
			Username:  username,
			Verified:  true,
			Email:     username + "@example.com",
			CreatedAt: time.Date(2017, 2, 18, 17, 48, 42, 0, time.UTC),
		},
	}
}

func TestSubmit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := setupTestStore(t)

	app := mockApplication("1", "bob")
	require.NoError(s.Submit(ctx, app))
	require.NotEmpty(app.ID)
	require.Equal(application.StatusPending, app.Status)

	got, err := s.Get(ctx, app.ID)
	require.NoError(err)
	require.Equal(app.Answers, got.Answers)
	require.Equal(app.Discord, got.Discord)
	require.Equal(app.Timestamp.UnixMilli(), got.Timestamp.UnixMilli())

	err = s.Submit(ctx, mockApplication("1", "bob"))
	require.ErrorIs(err, ErrPendingExists)

	pending, err := s.Pending(ctx)
	require.NoError(err)
	require.Len(pending, 1)

	archive, err := s.Archive(ctx)
	require.NoError(err)
	require.NotNil(archive)
	require.Empty(archive)
}

func TestDecide(t *testing.T) {
	ctx := context.Background()

	t.Run("approve", func(t *testing.T) {
		require := require.New(t)
		s := setupTestStore(t)
		app := mockApplication("1", "bob")
		require.NoError(s.Submit(ctx, app))

		at := time.Now().Add(time.Minute)
		decided, err := s.Decide(ctx, app.ID, application.StatusApproved, "", at)
		require.NoError(err)
		require.Equal(application.StatusApproved, decided.Status)
		require.Equal(at.UnixMilli(), decided.UpdatedAt.UnixMilli())

		pending, err := s.Pending(ctx)
		require.NoError(err)
		require.Empty(pending)
		archive, err := s.Archive(ctx)
		require.NoError(err)
		require.Len(archive, 1)
	})

	t.Run("deny needs a reason", func(t *testing.T) {
		require := require.New(t)
		s := setupTestStore(t)
		app := mockApplication("2", "alice")
		require.NoError(s.Submit(ctx, app))

		_, err := s.Decide(ctx, app.ID, application.StatusDenied, "  ", time.Now())
		require.ErrorIs(err, ErrReasonRequired)

		decided, err := s.Decide(ctx, app.ID, application.StatusDenied, " incomplete backstory ", time.Now())
		require.NoError(err)
		require.Equal("incomplete backstory", decided.StatusReason)
	})

	t.Run("decided applications are immutable", func(t *testing.T) {
		require := require.New(t)
		s := setupTestStore(t)
		app := mockApplication("3", "carol")
		require.NoError(s.Submit(ctx, app))
		_, err := s.Decide(ctx, app.ID, application.StatusApproved, "", time.Now())
		require.NoError(err)

		_, err = s.Decide(ctx, app.ID, application.StatusDenied, "changed my mind", time.Now())
		require.ErrorIs(err, ErrAlreadyDecided)

		got, err := s.Get(ctx, app.ID)
		require.NoError(err)
		require.Equal(application.StatusApproved, got.Status)
		require.Empty(got.StatusReason)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := setupTestStore(t)
		_, err := s.Decide(ctx, "nope", application.StatusApproved, "", time.Now())
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		s := setupTestStore(t)
		_, err := s.Decide(ctx, "nope", application.StatusPending, "", time.Now())
		require.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestArchiveOrder(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := setupTestStore(t)

	first := mockApplication("1", "bob")
	second := mockApplication("2", "alice")
	require.NoError(s.Submit(ctx, first))
	require.NoError(s.Submit(ctx, second))

	now := time.Now()
	_, err := s.Decide(ctx, second.ID, application.StatusDenied, "incomplete backstory", now)
	require.NoError(err)
	_, err = s.Decide(ctx, first.ID, application.StatusApproved, "", now.Add(time.Second))
	require.NoError(err)

	archive, err := s.Archive(ctx)
	require.NoError(err)
	require.Len(archive, 2)
	require.Equal(first.ID, archive[0].ID)
	require.Equal(second.ID, archive[1].ID)
}

func TestLatest(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := setupTestStore(t)

	_, err := s.Latest(ctx, "1")
	require.ErrorIs(err, ErrNotFound)

	old := mockApplication("1", "bob")
	require.NoError(s.Submit(ctx, old))
	_, err = s.Decide(ctx, old.ID, application.StatusDenied, "too short", time.Now())
	require.NoError(err)

	time.Sleep(2 * time.Millisecond)
	fresh := mockApplication("1", "bob")
	require.NoError(s.Submit(ctx, fresh))

	got, err := s.Latest(ctx, "1")
	require.NoError(err)
	require.Equal(fresh.ID, got.ID)
	require.Equal(application.StatusPending, got.Status)
}
