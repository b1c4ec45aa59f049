package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/repositories/kv"
	"github.com/dmitrijs2005/recipebook/internal/client/storage"
	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

func newRepo(t *testing.T) *kv.SQLiteRepository {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return kv.NewSQLiteRepository(db)
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestStore_SurvivesReload(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	first := NewStore(repo, logging.Discard())
	require.NoError(t, first.Restore(ctx))
	assert.False(t, first.IsAuthenticated())

	require.NoError(t, first.Login(ctx, "T", 7, "ana"))
	assert.True(t, first.IsAuthenticated())

	reloaded := NewStore(repo, logging.Discard())
	require.NoError(t, reloaded.Restore(ctx))
	assert.True(t, reloaded.IsAuthenticated())
	assert.Equal(t, &Session{Token: "T", UserID: 7, Username: "ana"}, reloaded.Current())

	require.NoError(t, reloaded.Logout(ctx))

	again := NewStore(repo, logging.Discard())
	require.NoError(t, again.Restore(ctx))
	assert.False(t, again.IsAuthenticated())
	assert.Nil(t, again.Current())
	assert.Empty(t, again.Token())
}

func TestStore_PersistedShape(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	s := NewStore(repo, logging.Discard())

	require.NoError(t, s.Login(ctx, "T", 7, "ana"))

	raw, err := repo.Get(ctx, common.SessionNamespace)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"T","user_id":7,"username":"ana"}`, string(raw))
}

func TestStore_LoginOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newRepo(t), logging.Discard())

	require.NoError(t, s.Login(ctx, "A", 1, "a"))
	require.NoError(t, s.Login(ctx, "B", 2, "b"))
	assert.Equal(t, "B", s.Token())
	assert.Equal(t, int64(2), s.Current().UserID)
}

func TestStore_LogoutNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newRepo(t), logging.Discard())

	var calls atomic.Int32
	s.OnLogout(func() { calls.Add(1) })

	require.NoError(t, s.Logout(ctx))
	assert.Zero(t, calls.Load(), "guest logout is a no-op")

	require.NoError(t, s.Login(ctx, "T", 1, "a"))
	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, int32(1), calls.Load())
}

func TestStore_RestoreDropsExpiredJWT(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	s := NewStore(repo, logging.Discard())
	require.NoError(t, s.Login(ctx, signed(t, time.Now().Add(-time.Minute)), 7, "ana"))

	reloaded := NewStore(repo, logging.Discard())
	require.NoError(t, reloaded.Restore(ctx))
	assert.False(t, reloaded.IsAuthenticated())

	_, err := repo.Get(ctx, common.SessionNamespace)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_RestoreKeepsLiveJWT(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	tok := signed(t, time.Now().Add(24*time.Hour))

	require.NoError(t, NewStore(repo, logging.Discard()).Login(ctx, tok, 7, "ana"))

	reloaded := NewStore(repo, logging.Discard())
	require.NoError(t, reloaded.Restore(ctx))
	assert.Equal(t, tok, reloaded.Token())
}

func TestStore_RestoreDropsCorruptRecord(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.Set(ctx, common.SessionNamespace, []byte(`{"token":""}`)))

	s := NewStore(repo, logging.Discard())
	require.NoError(t, s.Restore(ctx))
	assert.False(t, s.IsAuthenticated())

	_, err := repo.Get(ctx, common.SessionNamespace)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

type failingRepo struct{}

func (failingRepo) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk") }
func (failingRepo) Set(context.Context, string, []byte) error   { return errors.New("disk") }
func (failingRepo) Delete(context.Context, string) error        { return errors.New("disk") }

func TestStore_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	s := NewStore(failingRepo{}, logging.Discard())

	require.ErrorContains(t, s.Restore(ctx), "restore session")
	require.ErrorContains(t, s.Login(ctx, "T", 1, "a"), "save session")
	assert.False(t, s.IsAuthenticated())
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, ok := ExpiresAt(signed(t, exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = ExpiresAt("opaque-token")
	assert.False(t, ok)
}
