package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"hostelhub/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingServer struct {
	server *httptest.Server
	gets   atomic.Int64
	writes atomic.Int64
}

func newCountingServer(t *testing.T) *countingServer {
	t.Helper()
	cs := &countingServer{}
	cs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			cs.gets.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		cs.writes.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new"}`))
	}))
	t.Cleanup(cs.server.Close)
	return cs
}

func TestGetServesRepeatFromMirror(t *testing.T) {
	cs := newCountingServer(t)
	client := New(cs.server.URL, "taba")
	ctx := context.Background()

	first, err := client.Get(ctx, "/api/rooms", nil)
	require.NoError(t, err)
	second, err := client.Get(ctx, "/api/rooms", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, cs.gets.Load())
}

func TestGetBypassCacheForcesNetwork(t *testing.T) {
	cs := newCountingServer(t)
	client := New(cs.server.URL, "taba")
	ctx := context.Background()

	_, err := client.Get(ctx, "/api/rooms", nil)
	require.NoError(t, err)
	_, err = client.Get(ctx, "/api/rooms", nil, BypassCache())
	require.NoError(t, err)

	assert.EqualValues(t, 2, cs.gets.Load())
}

func TestGetUncacheablePathAlwaysFetches(t *testing.T) {
	cs := newCountingServer(t)
	client := New(cs.server.URL, "taba")
	ctx := context.Background()

	_, err := client.Get(ctx, "/api/sessions", nil)
	require.NoError(t, err)
	_, err = client.Get(ctx, "/api/sessions", nil)
	require.NoError(t, err)

	assert.EqualValues(t, 2, cs.gets.Load())
}

func TestQueryStringsCacheSeparately(t *testing.T) {
	cs := newCountingServer(t)
	client := New(cs.server.URL, "taba")
	ctx := context.Background()

	_, err := client.Get(ctx, "/api/bookings", url.Values{"status": {"pending"}})
	require.NoError(t, err)
	_, err = client.Get(ctx, "/api/bookings", url.Values{"status": {"confirmed"}})
	require.NoError(t, err)

	assert.EqualValues(t, 2, cs.gets.Load())
}

func TestMutationInvalidatesGroup(t *testing.T) {
	cs := newCountingServer(t)
	client := New(cs.server.URL, "taba")
	ctx := context.Background()

	// Prime entries from the bookings group and an unrelated one.
	_, err := client.Get(ctx, "/api/bookings", nil)
	require.NoError(t, err)
	_, err = client.Get(ctx, "/api/settings", nil)
	require.NoError(t, err)
	require.EqualValues(t, 2, cs.gets.Load())

	_, err = client.Post(ctx, "/api/bookings", map[string]string{"room_id": "7"})
	require.NoError(t, err)

	// Bookings entry is gone, settings entry survives.
	_, err = client.Get(ctx, "/api/bookings", nil)
	require.NoError(t, err)
	_, err = client.Get(ctx, "/api/settings", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cs.gets.Load())
}

func TestTabSegmentSharesMirrorKey(t *testing.T) {
	cs := newCountingServer(t)
	client := New(cs.server.URL, "taba")
	ctx := context.Background()

	_, err := client.Get(ctx, "/api/t/taba/rooms", nil)
	require.NoError(t, err)
	_, err = client.Get(ctx, "/api/rooms", nil)
	require.NoError(t, err)

	assert.EqualValues(t, 1, cs.gets.Load())
}

func TestMutationSendsCSRFAndTabHeaders(t *testing.T) {
	var gotCSRF, gotTab string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCSRF = r.Header.Get(CSRFHeader)
		gotTab = r.Header.Get(TabHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, "taba")
	client.SetCSRFToken("token-123")

	_, err := client.Post(context.Background(), "/api/bookings", nil)
	require.NoError(t, err)
	assert.Equal(t, "token-123", gotCSRF)
	assert.Equal(t, "taba", gotTab)
}

func TestOnUnauthorizedHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	fired := 0
	client := New(server.URL, "taba")
	client.OnUnauthorized = func() { fired++ }

	_, err := client.Get(context.Background(), "/api/rooms", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, fired)

	_, err = client.Get(context.Background(), "/api/rooms", nil, SkipAuthRedirect())
	assert.Error(t, err)
	assert.Equal(t, 1, fired)
}

func TestMirrorEntryExpires(t *testing.T) {
	mirror := NewMirror()
	mirror.Set("/api/rooms", []byte("payload"), 10*time.Millisecond)

	_, ok := mirror.Get("/api/rooms")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = mirror.Get("/api/rooms")
	assert.False(t, ok)
	assert.Zero(t, mirror.Len())
}

func TestMirrorInvalidateGroupMatchesPathOnly(t *testing.T) {
	mirror := NewMirror()
	mirror.Set("/api/bookings?status=pending", []byte("a"), time.Minute)
	mirror.Set("/api/bookings/me", []byte("b"), time.Minute)
	mirror.Set("/api/settings", []byte("c"), time.Minute)

	mirror.InvalidateGroup(cache.Groups[cache.GroupBookings])

	_, ok := mirror.Get("/api/bookings?status=pending")
	assert.False(t, ok)
	_, ok = mirror.Get("/api/bookings/me")
	assert.False(t, ok)
	_, ok = mirror.Get("/api/settings")
	assert.True(t, ok)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/api/rooms", normalizePath("/api/t/tab_1/rooms"))
	assert.Equal(t, "/api/bookings/me", normalizePath("/api/t/Zx9-_/bookings/me"))
	assert.Equal(t, "/api/rooms", normalizePath("/api/rooms"))
}
