package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gemini-relay-bot/internal/entities"
	"gemini-relay-bot/internal/infrastructure"
)

func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()
	client, err := infrastructure.NewSQLiteClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewUserRepository(client.DB)
}

func TestEnsureUser_CreatesWithDefaults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.Equal(t, entities.PlanFree, user.Plan)
	require.Equal(t, entities.DailyAllowance(entities.PlanFree), user.TokensRemaining)
	require.Equal(t, repo.today(), user.LastReset)
}

func TestEnsureUser_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, repo.DeductTokens(ctx, 7, 100))

	user, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, entities.DailyAllowance(entities.PlanFree)-100, user.TokensRemaining,
		"same-day EnsureUser must not refill tokens")
}

func TestEnsureUser_DailyReset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	repo.now = func() time.Time { return yesterday }

	_, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, repo.DeductTokens(ctx, 7, 900))

	repo.now = time.Now
	user, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, entities.DailyAllowance(entities.PlanFree), user.TokensRemaining)
	require.Equal(t, repo.today(), user.LastReset)
}

func TestSetPlan(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetPlan(ctx, 7, entities.PlanPro))

	user, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, entities.PlanPro, user.Plan)
	require.Equal(t, entities.DailyAllowance(entities.PlanPro), user.TokensRemaining)
}

func TestSetPlan_UnknownPlan(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.SetPlan(context.Background(), 7, "platinum")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown plan")
}

func TestSetPlan_ResetsExistingUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, repo.DeductTokens(ctx, 7, 500))

	require.NoError(t, repo.SetPlan(ctx, 7, entities.PlanPremium))

	user, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, entities.PlanPremium, user.Plan)
	require.Equal(t, entities.DailyAllowance(entities.PlanPremium), user.TokensRemaining)
}

func TestDeductTokens_FloorsAtZero(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, repo.DeductTokens(ctx, 7, 10_000_000))

	user, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 0, user.TokensRemaining)
}

func TestStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	count, total, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)
	require.Equal(t, int64(0), total)

	_, err = repo.EnsureUser(ctx, 1)
	require.NoError(t, err)
	_, err = repo.EnsureUser(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, repo.DeductTokens(ctx, 2, 100))

	count, total, err = repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, int64(2*entities.DailyAllowance(entities.PlanFree)-100), total)
}
