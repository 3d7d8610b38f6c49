package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/api"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, password string) (*api.LoginResponse, error) {
	args := m.Called(ctx, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.LoginResponse), args.Error(1)
}

type memoryTokens struct {
	token string
}

func (m *memoryTokens) LoadToken() (string, error) { return m.token, nil }
func (m *memoryTokens) SaveToken(t string) error   { m.token = t; return nil }
func (m *memoryTokens) ClearToken() error          { m.token = ""; return nil }

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin": true,
		"exp":   jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestHolder_LoginSuccess(t *testing.T) {
	auth := new(MockAuthenticator)
	tokens := &memoryTokens{}
	rec := &notify.Recorder{}
	h := &Holder{Auth: auth, Tokens: tokens, Notifier: rec}

	auth.On("Login", mock.Anything, "secret").Return(&api.LoginResponse{Success: true, Token: "tok"}, nil)

	s, err := h.Login(context.Background(), "secret")

	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok", tokens.token)
	assert.Empty(t, rec.Errors())
	auth.AssertExpectations(t)
}

func TestHolder_LoginWrongPassword(t *testing.T) {
	auth := new(MockAuthenticator)
	tokens := &memoryTokens{}
	rec := &notify.Recorder{}
	h := &Holder{Auth: auth, Tokens: tokens, Notifier: rec}

	auth.On("Login", mock.Anything, "wrong").
		Return(nil, &api.StatusError{StatusCode: http.StatusUnauthorized, Detail: "Invalid password"}).
		Once()

	s, err := h.Login(context.Background(), "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, s.Authenticated())
	assert.Empty(t, tokens.token)
	assert.Equal(t, []string{"Invalid password"}, rec.Errors())
	auth.AssertNumberOfCalls(t, "Login", 1)
}

func TestHolder_LoginUnsuccessfulBody(t *testing.T) {
	auth := new(MockAuthenticator)
	tokens := &memoryTokens{}
	h := &Holder{Auth: auth, Tokens: tokens}

	auth.On("Login", mock.Anything, "x").Return(&api.LoginResponse{Success: false}, nil)

	_, err := h.Login(context.Background(), "x")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, tokens.token)
}

func TestHolder_LoginTransportError(t *testing.T) {
	auth := new(MockAuthenticator)
	tokens := &memoryTokens{}
	rec := &notify.Recorder{}
	h := &Holder{Auth: auth, Tokens: tokens, Notifier: rec}
	boom := errors.New("connection refused")

	auth.On("Login", mock.Anything, "secret").Return(nil, boom)

	_, err := h.Login(context.Background(), "secret")

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, tokens.token)
	assert.Len(t, rec.Errors(), 1)
}

func TestHolder_Logout(t *testing.T) {
	tokens := &memoryTokens{token: "tok"}
	h := &Holder{Tokens: tokens}

	require.NoError(t, h.Logout())
	assert.Empty(t, tokens.token)
}

func TestHolder_Restore(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		h := &Holder{Tokens: &memoryTokens{}, Now: func() time.Time { return now }}
		s, err := h.Restore()
		require.NoError(t, err)
		assert.False(t, s.Authenticated())
	})

	t.Run("opaque token is trusted", func(t *testing.T) {
		h := &Holder{Tokens: &memoryTokens{token: "opaque"}, Now: func() time.Time { return now }}
		s, err := h.Restore()
		require.NoError(t, err)
		assert.Equal(t, "opaque", s.Token)
	})

	t.Run("live jwt", func(t *testing.T) {
		tok := signed(t, now.Add(time.Hour))
		h := &Holder{Tokens: &memoryTokens{token: tok}, Now: func() time.Time { return now }}
		s, err := h.Restore()
		require.NoError(t, err)
		assert.Equal(t, tok, s.Token)
	})

	t.Run("expired jwt is cleared", func(t *testing.T) {
		tokens := &memoryTokens{token: signed(t, now.Add(-time.Hour))}
		h := &Holder{Tokens: tokens, Now: func() time.Time { return now }}
		s, err := h.Restore()
		assert.ErrorIs(t, err, ErrExpired)
		assert.False(t, s.Authenticated())
		assert.Empty(t, tokens.token)
	})
}

func TestLocalTokenStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	defer st.Close()
	tokens := LocalTokenStore{Store: st}

	require.NoError(t, tokens.SaveToken("tok"))
	v, ok, err := st.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	require.NoError(t, tokens.ClearToken())
	got, err := tokens.LoadToken()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCookieTokenStore(t *testing.T) {
	cs := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	sess, _ := cs.Get(r, CookieName)
	require.NoError(t, CookieTokenStore{Session: sess, Request: r, Writer: w}.SaveToken("tok"))

	// Replay the cookie on a new request.
	r2 := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	sess2, err := cs.Get(r2, CookieName)
	require.NoError(t, err)
	tok, err := CookieTokenStore{Session: sess2, Request: r2, Writer: httptest.NewRecorder()}.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}
