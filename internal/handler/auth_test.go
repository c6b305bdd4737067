package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/danyluis/restaurant-seating/internal/config"
	"github.com/danyluis/restaurant-seating/internal/repository"
	"github.com/danyluis/restaurant-seating/internal/utils"
)

// fakeUserStore keeps staff accounts in memory.
type fakeUserStore struct {
	nextID uint64
	byID   map[uint64]repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[uint64]repository.User{}}
}

func (s *fakeUserStore) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.nextID++
	s.byID[s.nextID] = repository.User{ID: s.nextID, Email: email, PasswordHash: hash, Role: role, IsActive: true}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (repository.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, sql.ErrNoRows
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uint64) (repository.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return repository.User{}, sql.ErrNoRows
	}
	return u, nil
}

type fakeRefresh struct {
	userID uint64
	exp    time.Time
}

// fakeTokenStore mirrors the refresh-token table keyed by token hash.
type fakeTokenStore struct {
	byHash map[string]fakeRefresh
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{byHash: map[string]fakeRefresh{}}
}

func (s *fakeTokenStore) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	s.byHash[tokenHash] = fakeRefresh{userID: userID, exp: exp}
	return nil
}

func (s *fakeTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	r, ok := s.byHash[tokenHash]
	if !ok || time.Now().After(r.exp) {
		return 0, sql.ErrNoRows
	}
	return r.userID, nil
}

func (s *fakeTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	delete(s.byHash, tokenHash)
	return nil
}

func (s *fakeTokenStore) RevokeAllForUser(ctx context.Context, userID uint64) error {
	for hash, r := range s.byHash {
		if r.userID == userID {
			delete(s.byHash, hash)
		}
	}
	return nil
}

func newAuthHandler() (*echo.Echo, *AuthHandler, *fakeTokenStore) {
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
	}
	tokens := newFakeTokenStore()
	return echo.New(), NewAuthHandler(cfg, newFakeUserStore(), tokens), tokens
}

// asUser invokes a protected handler with the JWT subject already
// resolved, the way the auth middleware leaves it in the context.
func asUser(t *testing.T, e *echo.Echo, h echo.HandlerFunc, uid any, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != nil {
		c.Set("user_id", uid)
	}
	require.NoError(t, h(c))
	return rec
}

func TestRegisterAndLogin(t *testing.T) {
	e, h, tokens := newAuthHandler()

	rec, out := doJSON(t, e, h.Register, http.MethodPost, "/v1/auth/register", `{"email":"host@example.com","password":"pw","role":"HOST"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	user := out["user"].(map[string]any)
	assert.Equal(t, "host@example.com", user["email"])
	assert.Equal(t, "HOST", user["role"])
	assert.Len(t, tokens.byHash, 1)

	rec, _ = doJSON(t, e, h.Login, http.MethodPost, "/v1/auth/login", `{"email":"host@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, e, h.Login, http.MethodPost, "/v1/auth/login", `{"email":"host@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	e, h, _ := newAuthHandler()

	_, out := doJSON(t, e, h.Register, http.MethodPost, "/v1/auth/register", `{"email":"host@example.com","password":"pw"}`)
	raw := out["refresh"].(map[string]any)["token"].(string)

	rec, out := doJSON(t, e, h.Refresh, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+raw+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, raw, out["refresh"].(map[string]any)["token"])

	// The presented token was revoked during rotation.
	rec, _ = doJSON(t, e, h.Refresh, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+raw+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutAllEndsEverySession(t *testing.T) {
	e, h, tokens := newAuthHandler()

	_, first := doJSON(t, e, h.Register, http.MethodPost, "/v1/auth/register", `{"email":"host@example.com","password":"pw"}`)
	_, second := doJSON(t, e, h.Login, http.MethodPost, "/v1/auth/login", `{"email":"host@example.com","password":"pw"}`)
	require.Len(t, tokens.byHash, 2)

	uid := first["user"].(map[string]any)["id"].(float64)
	rec := asUser(t, e, h.LogoutAll, uid, http.MethodPost, "/v1/auth/logout-all")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, tokens.byHash)

	// Both refresh tokens are now dead.
	for _, out := range []map[string]any{first, second} {
		raw := out["refresh"].(map[string]any)["token"].(string)
		rec, _ := doJSON(t, e, h.Refresh, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+raw+`"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestLogoutAllRequiresIdentity(t *testing.T) {
	e, h, _ := newAuthHandler()
	rec := asUser(t, e, h.LogoutAll, nil, http.MethodPost, "/v1/auth/logout-all")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
