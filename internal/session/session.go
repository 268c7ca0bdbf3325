// Package session holds the signed-in subject of a browser session.
package session

import (
	"context"
	"net/http"
	"strings"

	"evote/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// CookieName is the browser-session cookie carrying the state
const CookieName = "evote_session"

const (
	keySessionID = "sid"
	keyIdentity  = "identity"
	keyFacePfx   = "face:"
	keyVotedPfx  = "voted:"
)

// TokenCodec signs and verifies the identity kept in the cookie
type TokenCodec interface {
	IssueToken(identity *domain.Identity) (string, error)
	ParseToken(token string) (*domain.Identity, error)
}

// NewCookieStore returns a cookie store whose cookies end with the browser session
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Manager hydrates and persists per-request State
type Manager struct {
	store  sessions.Store
	tokens TokenCodec
	logger *zap.Logger
}

func NewManager(store sessions.Store, tokens TokenCodec, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, tokens: tokens, logger: logger}
}

// Load reads the session cookie. A cookie that cannot be decoded or carries
// an invalid identity yields a state with no subject.
func (m *Manager) Load(r *http.Request) *State {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		m.logger.Debug("Discarding unreadable session cookie", zap.Error(err))
		if sess == nil {
			sess = sessions.NewSession(m.store, CookieName)
			sess.Options = &sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
		}
		sess.IsNew = true
		clearValues(sess)
	}

	st := &State{sess: sess, store: m.store, tokens: m.tokens}

	if id, ok := sess.Values[keySessionID].(string); ok && id != "" {
		st.id = id
	} else {
		st.id = uuid.NewString()
		sess.Values[keySessionID] = st.id
	}

	if token, ok := sess.Values[keyIdentity].(string); ok && token != "" {
		identity, err := m.tokens.ParseToken(token)
		if err != nil {
			delete(sess.Values, keyIdentity)
		} else {
			st.identity = identity
		}
	}

	st.hydrated = true
	return st
}

// State is the session of one request
type State struct {
	sess     *sessions.Session
	store    sessions.Store
	tokens   TokenCodec
	id       string
	identity *domain.Identity
	hydrated bool
}

// Login makes identity the current subject. Per-election flags from an
// earlier subject are dropped.
func (s *State) Login(identity *domain.Identity) error {
	token, err := s.tokens.IssueToken(identity)
	if err != nil {
		return err
	}
	s.clearElectionFlags()
	s.sess.Values[keyIdentity] = token
	cp := *identity
	s.identity = &cp
	return nil
}

// Logout clears the current subject
func (s *State) Logout() {
	s.clearElectionFlags()
	delete(s.sess.Values, keyIdentity)
	s.identity = nil
}

// CurrentUser returns the subject or nil
func (s *State) CurrentUser() *domain.Identity {
	if s == nil || s.identity == nil {
		return nil
	}
	cp := *s.identity
	return &cp
}

// IsLoading is true until the cookie has been read
func (s *State) IsLoading() bool {
	return s == nil || !s.hydrated
}

// SessionID identifies the browser session. It keys server-side data such as
// the pending OTP challenge.
func (s *State) SessionID() string {
	return s.id
}

// Session exposes the underlying cookie session for flash messages
func (s *State) Session() *sessions.Session {
	return s.sess
}

// MarkFaceVerified records a successful face scan for an election
func (s *State) MarkFaceVerified(electionID string) {
	s.sess.Values[keyFacePfx+electionID] = true
}

// ClearFaceVerified forgets the face scan for an election
func (s *State) ClearFaceVerified(electionID string) {
	delete(s.sess.Values, keyFacePfx+electionID)
}

func (s *State) FaceVerified(electionID string) bool {
	v, _ := s.sess.Values[keyFacePfx+electionID].(bool)
	return v
}

// MarkVoted records that a ballot was submitted from this session
func (s *State) MarkVoted(electionID string) {
	s.sess.Values[keyVotedPfx+electionID] = true
}

func (s *State) HasVoted(electionID string) bool {
	v, _ := s.sess.Values[keyVotedPfx+electionID].(bool)
	return v
}

// Save writes the cookie. It must run before the response body.
func (s *State) Save(w http.ResponseWriter, r *http.Request) error {
	return s.store.Save(r, w, s.sess)
}

func (s *State) clearElectionFlags() {
	for k := range s.sess.Values {
		key, ok := k.(string)
		if !ok {
			continue
		}
		if strings.HasPrefix(key, keyFacePfx) || strings.HasPrefix(key, keyVotedPfx) {
			delete(s.sess.Values, k)
		}
	}
}

func clearValues(sess *sessions.Session) {
	for k := range sess.Values {
		delete(sess.Values, k)
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying st
func NewContext(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, contextKey{}, st)
}

// FromContext returns the State stored by NewContext
func FromContext(ctx context.Context) (*State, bool) {
	st, ok := ctx.Value(contextKey{}).(*State)
	return st, ok
}
