package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sicea/console/internal/api"
	"github.com/sicea/console/internal/models"
)

// State is the resolved authentication state handed to page views: the
// session id, the decrypted backend token and the cached profile.
type State struct {
	SessionID string
	Token     string
	User      *models.UserProfile
}

// Manager owns session lifecycle. It is constructed explicitly and injected
// into handlers rather than looked up globally, so tests can run isolated
// session scenarios.
type Manager struct {
	store  *Store
	client *api.Client
	secret string
}

func NewManager(store *Store, client *api.Client, secret string) *Manager {
	return &Manager{store: store, client: client, secret: secret}
}

// Login authenticates against the backend and, on success, persists the
// session and sets the cookie. Invalid credentials leave no session behind.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, email, password string) (*models.UserProfile, error) {
	res, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	sealed, err := sealToken(m.secret, res.Token)
	if err != nil {
		return nil, err
	}
	userJSON, err := json.Marshal(res.User)
	if err != nil {
		return nil, err
	}
	sess := &Session{ID: uuid.NewString(), Token: sealed, UserJSON: userJSON}
	if err := m.store.Create(sess); err != nil {
		return nil, err
	}
	setCookie(w, m.secret, sess.ID)
	return &res.User, nil
}

// Logout notifies the backend best-effort and unconditionally destroys the
// local session and cookie.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if st, ok := m.resolve(r); ok {
		if err := m.client.Logout(ctx, st.Token); err != nil {
			slog.Debug("backend logout failed", "error", err)
		}
		if err := m.store.Delete(st.SessionID); err != nil {
			slog.Warn("delete session", "error", err)
		}
	}
	clearCookie(w)
}

// Current resolves and verifies the request's session. The stored token is
// re-validated against /users/me/ and the cached profile refreshed; any
// verification failure destroys the session so the route guard redirects.
func (m *Manager) Current(ctx context.Context, w http.ResponseWriter, r *http.Request) (*State, bool) {
	st, ok := m.resolve(r)
	if !ok {
		return nil, false
	}
	profile, err := m.client.Me(ctx, st.Token)
	if err != nil {
		// Any verification failure, auth or network, invalidates the session.
		m.Destroy(w, st.SessionID)
		return nil, false
	}
	st.User = profile
	if userJSON, jerr := json.Marshal(profile); jerr == nil {
		if sess, gerr := m.store.Get(st.SessionID); gerr == nil {
			sess.UserJSON = userJSON
			if serr := m.store.Save(sess); serr != nil {
				slog.Warn("refresh session profile", "error", serr)
			}
		}
	}
	return st, true
}

// Destroy removes a session row and clears the cookie. Handlers call this
// when any backend call answers 401, forcing a re-login.
func (m *Manager) Destroy(w http.ResponseWriter, sessionID string) {
	if err := m.store.Delete(sessionID); err != nil {
		slog.Warn("delete session", "error", err)
	}
	clearCookie(w)
}

// resolve maps a cookie to stored state without contacting the backend.
func (m *Manager) resolve(r *http.Request) (*State, bool) {
	id, ok := parseCookie(r, m.secret)
	if !ok {
		return nil, false
	}
	sess, err := m.store.Get(id)
	if err != nil {
		return nil, false
	}
	token, err := openToken(m.secret, sess.Token)
	if err != nil {
		slog.Warn("unsealing stored token failed", "session", id)
		return nil, false
	}
	st := &State{SessionID: sess.ID, Token: token}
	if len(sess.UserJSON) > 0 {
		var u models.UserProfile
		if err := json.Unmarshal(sess.UserJSON, &u); err == nil {
			st.User = &u
		}
	}
	return st, true
}
