package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"diabot/internal/models"
	"diabot/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

func TestUserRepoCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(openTestDB(t))

	u := models.User{ID: uuid.NewString(), Email: "ann@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, u))

	got, err := repo.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewUserRepo(db)

	require.NoError(t, repo.CreateUser(ctx, models.User{ID: uuid.NewString(), Email: "a@b.co", PasswordHash: "x"}))
	err := repo.CreateUser(ctx, models.User{ID: uuid.NewString(), Email: "a@b.co", PasswordHash: "y"})
	require.ErrorIs(t, err, storage.ErrDuplicateEmail)

	var n int
	require.NoError(t, db.SQL.QueryRow(`SELECT count(*) FROM users`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestPredictionRepoListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewPredictionRepo(openTestDB(t))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []float64{0.1, 0.5, 0.9} {
		require.NoError(t, repo.InsertPrediction(ctx, models.PredictionLog{
			ID: uuid.NewString(), Probability: p, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := repo.ListRecentPredictions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0.9, got[0].Probability)
	assert.Equal(t, 0.5, got[1].Probability)
	assert.Equal(t, base.Add(2*time.Minute), got[0].CreatedAt)
}

func TestOpenCreatesFileAndParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "diabot.db")
	db, err := Open(context.Background(), "sqlite:"+path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.EnsureSchema(context.Background()))
	require.NoError(t, db.EnsureSchema(context.Background()))
	assert.FileExists(t, path)
}
