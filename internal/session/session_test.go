package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"evote/internal/domain"
	"evote/internal/service/auth"
	"evote/pkg/latency"
	"evote/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(secret string) *Manager {
	tokens := auth.NewService(secret, latency.New(false), logger.NewNop())
	return NewManager(NewCookieStore("session-test-secret", false), tokens, nil)
}

// roundTrip saves st and returns a new request carrying the resulting cookie
func roundTrip(t *testing.T, st *State) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, st.Save(rec, httptest.NewRequest("GET", "/", nil)))

	next := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	return next
}

func TestManager_FreshSession(t *testing.T) {
	m := newTestManager("k")

	st := m.Load(httptest.NewRequest("GET", "/", nil))
	assert.False(t, st.IsLoading())
	assert.Nil(t, st.CurrentUser())
	assert.NotEmpty(t, st.SessionID())
}

func TestManager_LoginPersists(t *testing.T) {
	m := newTestManager("k")
	st := m.Load(httptest.NewRequest("GET", "/", nil))

	admin := &domain.Identity{ID: "admin1", Name: "Admin User", Email: "a@b.com", Role: domain.RoleAdmin}
	require.NoError(t, st.Login(admin))
	assert.Equal(t, admin, st.CurrentUser())

	again := m.Load(roundTrip(t, st))
	assert.Equal(t, admin, again.CurrentUser())
	assert.Equal(t, st.SessionID(), again.SessionID(), "session id is stable across requests")
}

func TestManager_CookieCarriesNoMaxAge(t *testing.T) {
	m := newTestManager("k")
	st := m.Load(httptest.NewRequest("GET", "/", nil))

	rec := httptest.NewRecorder()
	require.NoError(t, st.Save(rec, httptest.NewRequest("GET", "/", nil)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Zero(t, cookies[0].MaxAge)
	assert.True(t, cookies[0].Expires.IsZero())
	assert.True(t, cookies[0].HttpOnly)
}

func TestManager_RejectsForeignToken(t *testing.T) {
	issuer := newTestManager("one-secret")
	st := issuer.Load(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, st.Login(&domain.Identity{ID: "admin1", Role: domain.RoleAdmin}))
	req := roundTrip(t, st)

	// same cookie key, different token key
	verifier := newTestManager("other-secret")
	loaded := verifier.Load(req)
	assert.Nil(t, loaded.CurrentUser())
	assert.Equal(t, st.SessionID(), loaded.SessionID())
}

func TestManager_GarbageCookie(t *testing.T) {
	m := newTestManager("k")
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-valid-cookie"})

	st := m.Load(req)
	assert.Nil(t, st.CurrentUser())
	assert.NotEmpty(t, st.SessionID())
}

func TestState_Logout(t *testing.T) {
	m := newTestManager("k")
	st := m.Load(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, st.Login(&domain.Identity{ID: "voter1", Role: domain.RoleVoter}))
	st.MarkFaceVerified("2")
	st.MarkVoted("2")

	st.Logout()
	assert.Nil(t, st.CurrentUser())
	assert.False(t, st.FaceVerified("2"))
	assert.False(t, st.HasVoted("2"))

	again := m.Load(roundTrip(t, st))
	assert.Nil(t, again.CurrentUser())
}

func TestState_ElectionFlags(t *testing.T) {
	m := newTestManager("k")
	st := m.Load(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, st.Login(&domain.Identity{ID: "voter1", Role: domain.RoleVoter}))

	st.MarkFaceVerified("2")
	again := m.Load(roundTrip(t, st))
	assert.True(t, again.FaceVerified("2"))
	assert.False(t, again.FaceVerified("1"))

	again.ClearFaceVerified("2")
	again.MarkVoted("2")
	assert.False(t, again.FaceVerified("2"))
	assert.True(t, again.HasVoted("2"))

	// a new login starts with clean flags
	require.NoError(t, again.Login(&domain.Identity{ID: "voter1", Role: domain.RoleVoter}))
	assert.False(t, again.HasVoted("2"))
}

func TestState_CurrentUserIsCopy(t *testing.T) {
	m := newTestManager("k")
	st := m.Load(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, st.Login(&domain.Identity{ID: "admin1", Name: "Admin User", Role: domain.RoleAdmin}))

	u := st.CurrentUser()
	u.Role = domain.RoleVoter
	assert.Equal(t, domain.RoleAdmin, st.CurrentUser().Role)
}

func TestNilStateIsLoading(t *testing.T) {
	var st *State
	assert.True(t, st.IsLoading())
	assert.Nil(t, st.CurrentUser())
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	st := &State{id: "x"}
	got, ok := FromContext(NewContext(context.Background(), st))
	require.True(t, ok)
	assert.Same(t, st, got)
}
