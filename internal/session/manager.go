package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mhartig/shopfront/internal/api"
	"github.com/mhartig/shopfront/internal/credstore"
	"github.com/mhartig/shopfront/internal/domain"
	"github.com/mhartig/shopfront/internal/metrics"
)

// Snapshot is the reactive read of the session exposed to consumer views.
type Snapshot struct {
	User            *domain.User
	IsAuthenticated bool
	IsLoading       bool
}

// ActionResult is what login, register, and profile updates hand back to
// the caller for display. Remote failures never surface as Go errors.
type ActionResult struct {
	Success bool
	Error   string
	Details map[string]string
}

func actionOK() ActionResult {
	return ActionResult{Success: true}
}

func actionFailed(err *api.CallError, fallback string) ActionResult {
	if err == nil {
		return ActionResult{Error: fallback}
	}
	return ActionResult{Error: err.Message, Details: err.Details}
}

// Manager orchestrates login, registration, logout, and token refresh. It is
// the sole writer of the gateway's cached token and of the credential store.
//
// Concurrent invocations of the same action are collapsed into one flight
// that runs under the first caller's context, so that caller's cancellation
// or deadline applies to every collapsed caller. Distinct actions may still
// interleave, last writer wins.
type Manager struct {
	client *api.Client
	store  credstore.Store

	mu      sync.RWMutex
	user    *domain.User
	loading int

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int

	group singleflight.Group
}

// NewManager creates a session manager. The session starts empty; call
// Bootstrap to hydrate it from the credential store.
func NewManager(client *api.Client, store credstore.Store) *Manager {
	return &Manager{
		client: client,
		store:  store,
		subs:   make(map[int]chan Snapshot),
	}
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		User:            m.user,
		IsAuthenticated: m.user != nil,
		IsLoading:       m.loading > 0,
	}
}

// Subscribe registers an observer of session state. The returned channel
// receives a Snapshot after every state change; sends are non-blocking, so a
// subscriber that falls behind sees the latest state on its next receive.
// The cancel func removes the subscription and closes the channel.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Snapshot, 1)
	m.subs[id] = ch

	cancel := func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (m *Manager) notify() {
	snap := m.Snapshot()

	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		// Latest-wins: drop the stale pending snapshot if the subscriber
		// has not drained it yet.
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (m *Manager) beginAction() {
	m.mu.Lock()
	m.loading++
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) endAction() {
	m.mu.Lock()
	m.loading--
	m.mu.Unlock()
	m.notify()
}

// Bootstrap hydrates the session from the credential store on startup.
// A stored user record that fails to parse is treated as corruption: all
// credential keys are wiped and the session comes up anonymous. Bootstrap
// never fails.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.beginAction()
	defer m.endAction()

	storedUser, okUser, errUser := m.store.Get(ctx, credstore.KeyUser)
	accessToken, okToken, errToken := m.store.Get(ctx, credstore.KeyAccessToken)

	if errUser != nil || errToken != nil {
		slog.Warn("Failed to read credential store, starting anonymous",
			"user_error", errUser, "token_error", errToken)
		return
	}

	if !okUser || !okToken {
		return
	}

	var user domain.User
	if err := json.Unmarshal([]byte(storedUser), &user); err != nil {
		slog.Warn("Stored user record is corrupt, wiping credentials", "error", err)
		m.wipeStore(ctx)
		return
	}

	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	m.client.SetAccessToken(accessToken)
	metrics.SessionAuthenticated.Set(1)

	slog.Info("Session restored from credential store", "user_id", user.ID.String())
}

// Login authenticates with the server. On success the in-memory user, the
// gateway token, and the credential store are updated together; on failure
// nothing changes and the normalized error is returned for display.
func (m *Manager) Login(ctx context.Context, creds domain.LoginRequest) ActionResult {
	res, _, _ := m.group.Do("login", func() (any, error) {
		return m.authenticate(ctx, "login", func() api.Result[domain.AuthResult] {
			return m.client.Login(ctx, creds)
		}), nil
	})
	return res.(ActionResult)
}

// Register creates an account; a successful registration logs the user in
// immediately, with the same persistence contract as Login.
func (m *Manager) Register(ctx context.Context, data domain.RegisterRequest) ActionResult {
	res, _, _ := m.group.Do("register", func() (any, error) {
		return m.authenticate(ctx, "register", func() api.Result[domain.AuthResult] {
			return m.client.Register(ctx, data)
		}), nil
	})
	return res.(ActionResult)
}

func (m *Manager) authenticate(ctx context.Context, action string, call func() api.Result[domain.AuthResult]) ActionResult {
	m.beginAction()
	defer m.endAction()

	res := call()
	if !res.Ok() {
		metrics.SessionActionsTotal.WithLabelValues(action, "failure").Inc()
		return actionFailed(res.Err, action+" failed")
	}

	m.installAuth(ctx, res.Data)
	metrics.SessionActionsTotal.WithLabelValues(action, "success").Inc()
	slog.Info("Session authenticated", "action", action, "user_id", res.Data.User.ID.String())
	return actionOK()
}

// installAuth atomically replaces the session: memory first, then the
// gateway token, then the store mirror.
func (m *Manager) installAuth(ctx context.Context, auth domain.AuthResult) {
	user := auth.User

	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()

	m.client.SetAccessToken(auth.AccessToken)
	metrics.SessionAuthenticated.Set(1)

	m.persistAuth(ctx, auth)
	m.notify()
}

func (m *Manager) persistAuth(ctx context.Context, auth domain.AuthResult) {
	encoded, err := json.Marshal(auth.User)
	if err != nil {
		slog.Error("Failed to encode user for storage", "error", err)
		return
	}

	if err := m.store.Set(ctx, credstore.KeyUser, string(encoded)); err != nil {
		slog.Error("Failed to persist user", "error", err)
	}
	if err := m.store.Set(ctx, credstore.KeyAccessToken, auth.AccessToken); err != nil {
		slog.Error("Failed to persist access token", "error", err)
	}
	if err := m.store.Set(ctx, credstore.KeyRefreshToken, auth.RefreshToken); err != nil {
		slog.Error("Failed to persist refresh token", "error", err)
	}
}

// Logout clears the session unconditionally: memory, gateway token, and all
// stored credential keys. Idempotent, never fails.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	m.client.SetAccessToken("")
	metrics.SessionAuthenticated.Set(0)
	m.wipeStore(ctx)
	m.notify()

	metrics.SessionActionsTotal.WithLabelValues("logout", "success").Inc()
	slog.Info("Session cleared")
}

func (m *Manager) wipeStore(ctx context.Context) {
	if err := m.store.Delete(ctx, credstore.Keys...); err != nil {
		slog.Error("Failed to wipe credential store", "error", err)
	}
}

// RefreshAuth exchanges the stored refresh token for a fresh token pair,
// rotating the refresh token if the server chooses to. Any failure,
// including a missing token, ends the session: refresh failure is never a
// retryable error, it means "session over".
func (m *Manager) RefreshAuth(ctx context.Context) {
	m.group.Do("refresh", func() (any, error) {
		m.refreshAuth(ctx)
		return nil, nil
	})
}

func (m *Manager) refreshAuth(ctx context.Context) {
	m.beginAction()
	defer m.endAction()

	refreshToken, ok, err := m.store.Get(ctx, credstore.KeyRefreshToken)
	if err != nil || !ok || refreshToken == "" {
		if err == nil {
			err = domain.ErrNoRefreshToken
		}
		metrics.SessionRefreshesTotal.WithLabelValues("no_token").Inc()
		slog.Info("Token refresh impossible, ending session", "error", err)
		m.Logout(ctx)
		return
	}

	res := m.client.RefreshToken(ctx, refreshToken)
	if !res.Ok() {
		metrics.SessionRefreshesTotal.WithLabelValues("rejected").Inc()
		slog.Info("Token refresh rejected, ending session", "error", res.Err.Message)
		m.Logout(ctx)
		return
	}

	m.installAuth(ctx, res.Data)
	metrics.SessionRefreshesTotal.WithLabelValues("success").Inc()
	slog.Debug("Token refresh complete", "user_id", res.Data.User.ID.String())
}

// UpdateProfile sends changed fields to the server and, on success, replaces
// the in-memory and stored user with the server's returned representation.
// Tokens are untouched. On failure the session is unchanged.
func (m *Manager) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) ActionResult {
	res, _, _ := m.group.Do("update_profile", func() (any, error) {
		return m.updateProfile(ctx, req), nil
	})
	return res.(ActionResult)
}

func (m *Manager) updateProfile(ctx context.Context, req domain.UpdateProfileRequest) ActionResult {
	m.beginAction()
	defer m.endAction()

	res := m.client.UpdateProfile(ctx, req)
	if !res.Ok() {
		metrics.SessionActionsTotal.WithLabelValues("update_profile", "failure").Inc()
		return actionFailed(res.Err, "profile update failed")
	}

	user := res.Data

	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()

	if encoded, err := json.Marshal(user); err == nil {
		if err := m.store.Set(ctx, credstore.KeyUser, string(encoded)); err != nil {
			slog.Error("Failed to persist updated user", "error", err)
		}
	}
	m.notify()

	metrics.SessionActionsTotal.WithLabelValues("update_profile", "success").Inc()
	return actionOK()
}
