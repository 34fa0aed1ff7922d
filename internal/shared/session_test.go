package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "teranga_session", "test-secret", time.Hour, false), mr
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	sm, _ := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	sess.SetUser("user-1")
	sess.Set("k", "v")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "teranga_session", cookies[0].Name)

	// A follow-up request with the cookie sees the same state.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	sess2, err := sm.Load(ctx, req2)
	require.NoError(t, err)
	require.Equal(t, "user-1", sess2.User())
	require.Equal(t, "v", sess2.Get("k"))
}

func TestSessionDestroy(t *testing.T) {
	ctx := context.Background()
	sm, mr := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetUser("user-1")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	require.True(t, mr.Exists("session:"+sess.ID))

	sm.Destroy(sess)
	rec2 := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec2, req, sess))
	require.False(t, mr.Exists("session:"+sess.ID))

	cookies := rec2.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, -1, cookies[0].MaxAge)
}

func TestCSRFTokens(t *testing.T) {
	ctx := context.Background()
	sm, _ := newTestManager(t)
	csrf := NewCSRFManager("csrf-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)

	token, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Same session keeps the same token.
	again, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, token, again)

	require.NoError(t, csrf.VerifyToken(ctx, sess, token))
	require.ErrorIs(t, csrf.VerifyToken(ctx, sess, "bogus"), ErrCSRFTokenMismatch)
	require.ErrorIs(t, csrf.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
}
