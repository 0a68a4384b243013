package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hostelhub/internal/kvstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, config Config) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := kvstore.New("redis://" + mr.Addr())
	require.NoError(t, kv.Connect(context.Background()))
	t.Cleanup(func() { _ = kv.Close() })
	if config.CookieBase == "" {
		config.CookieBase = "hostelhub_sess"
	}
	if config.IdleTTL == 0 {
		config.IdleTTL = 30 * time.Minute
	}
	if config.AbsoluteTTL == 0 {
		config.AbsoluteTTL = 12 * time.Hour
	}
	return NewStore(kv, config), mr
}

func TestCreateAndGet(t *testing.T) {
	store, _ := newTestStore(t, Config{})
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", RoleStudent, ClientMeta{
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent",
		Device:    "laptop",
		TabID:     "tab_a",
	})
	require.NoError(t, err)
	assert.Len(t, sess.ID, 64)
	assert.Len(t, sess.CSRFToken, 64)
	assert.NotEqual(t, sess.ID, sess.CSRFToken)

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "user-1", loaded.UserID)
	assert.Equal(t, RoleStudent, loaded.Role)
	assert.Equal(t, "tab_a", loaded.TabID)
	assert.Equal(t, sess.CSRFToken, loaded.CSRFToken)
}

func TestGetMissing(t *testing.T) {
	store, _ := newTestStore(t, Config{})

	sess, err := store.Get(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestTouchNeverExtendsPastAbsoluteTTL(t *testing.T) {
	store, mr := newTestStore(t, Config{
		IdleTTL:     5 * time.Minute,
		AbsoluteTTL: 10 * time.Minute,
	})
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", RoleStudent, ClientMeta{})
	require.NoError(t, err)
	key := "session:" + sess.ID

	// Early on, a touch slides the TTL to the idle window.
	touched, err := store.Touch(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, touched)
	assert.LessOrEqual(t, mr.TTL(key), 5*time.Minute)

	// Near the absolute ceiling only the remainder is granted.
	mr.FastForward(3 * time.Minute)
	touched, err = store.Touch(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, touched)
	assert.LessOrEqual(t, mr.TTL(key), 2*time.Minute)

	// Repeated touches can only shrink the remainder further.
	touched, err = store.Touch(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, touched)
	assert.LessOrEqual(t, mr.TTL(key), 2*time.Minute)
}

func TestTouchExpired(t *testing.T) {
	store, mr := newTestStore(t, Config{
		IdleTTL:     time.Minute,
		AbsoluteTTL: 2 * time.Minute,
	})
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", RoleStudent, ClientMeta{})
	require.NoError(t, err)

	mr.FastForward(3 * time.Minute)

	touched, err := store.Touch(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, touched)
}

func TestDeleteThenGet(t *testing.T) {
	store, _ := newTestStore(t, Config{})
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", RoleStudent, ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sess.ID, ""))

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	sessions, err := store.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestDeleteUnknownIsNoOp(t *testing.T) {
	store, _ := newTestStore(t, Config{})

	assert.NoError(t, store.Delete(context.Background(), "never-existed", ""))
	assert.NoError(t, store.Delete(context.Background(), "", ""))
}

func TestListForUserPrunesExpired(t *testing.T) {
	store, mr := newTestStore(t, Config{})
	ctx := context.Background()

	alive, err := store.Create(ctx, "user-1", RoleStudent, ClientMeta{Device: "laptop"})
	require.NoError(t, err)
	stale, err := store.Create(ctx, "user-1", RoleStudent, ClientMeta{Device: "phone"})
	require.NoError(t, err)

	// Simulate native expiry: the key vanishes, the index entry lingers.
	mr.Del("session:" + stale.ID)

	sessions, err := store.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, alive.ID, sessions[0].ID)

	// Read repair removed the dangling index entry.
	kv := kvstore.New("redis://" + mr.Addr())
	require.NoError(t, kv.Connect(ctx))
	defer kv.Close()
	count, err := kv.ZCard(ctx, "user_sessions:user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSessionCapEvictsOldest(t *testing.T) {
	store, mr := newTestStore(t, Config{MaxPerUser: 2})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, "user-1", RoleStudent, ClientMeta{})
		require.NoError(t, err)
	}

	sessions, err := store.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	kv := kvstore.New("redis://" + mr.Addr())
	require.NoError(t, kv.Connect(ctx))
	defer kv.Close()
	count, err := kv.ZCard(ctx, "user_sessions:user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestSessionCapNeverEvictsJustIssuedSession(t *testing.T) {
	store, _ := newTestStore(t, Config{MaxPerUser: 1})
	ctx := context.Background()

	// Back-to-back logins land in the same instant, so their index scores
	// can tie; the login that triggered eviction must survive it. Several
	// rounds cover both lexicographic orderings of the random IDs.
	for i := 0; i < 8; i++ {
		userID := fmt.Sprintf("user-%d", i)
		old, err := store.Create(ctx, userID, RoleStudent, ClientMeta{})
		require.NoError(t, err)
		fresh, err := store.Create(ctx, userID, RoleStudent, ClientMeta{})
		require.NoError(t, err)

		kept, err := store.Get(ctx, fresh.ID)
		require.NoError(t, err)
		require.NotNil(t, kept, "round %d: session issued by the capping login was evicted", i)

		evicted, err := store.Get(ctx, old.ID)
		require.NoError(t, err)
		assert.Nil(t, evicted, "round %d: older session survived the cap", i)

		sessions, err := store.ListForUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, fresh.ID, sessions[0].ID)
	}
}

func TestCookieName(t *testing.T) {
	store, _ := newTestStore(t, Config{CookieBase: "hostelhub_sess"})

	tests := []struct {
		name  string
		tabID string
		want  string
	}{
		{"no tab", "", "hostelhub_sess"},
		{"plain tab", "tab_a1", "hostelhub_sess_tab_a1"},
		{"hostile tab", "x;Path=/", "hostelhub_sess_xPath"},
		{"oversized tab", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "hostelhub_sess_aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.CookieName(tt.tabID))
		})
	}
}
