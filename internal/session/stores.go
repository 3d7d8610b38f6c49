package session

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/store"
)

// TokenKey is the fixed local storage key of the CLI token.
const TokenKey = "admin_token"

// LocalTokenStore keeps the token in the console's local storage.
type LocalTokenStore struct {
	Store *store.Store
}

func (l LocalTokenStore) LoadToken() (string, error) {
	token, _, err := l.Store.Get(TokenKey)
	return token, err
}

func (l LocalTokenStore) SaveToken(token string) error {
	return l.Store.Set(TokenKey, token)
}

func (l LocalTokenStore) ClearToken() error {
	return l.Store.Remove(TokenKey)
}

const (
	CookieName = "admin-session"
	tokenValue = "token"
)

// CookieTokenStore keeps the token in the signed admin-session cookie of a
// single request. Saves are written to w immediately.
type CookieTokenStore struct {
	Session *sessions.Session
	Request *http.Request
	Writer  http.ResponseWriter
}

func (c CookieTokenStore) LoadToken() (string, error) {
	token, _ := c.Session.Values[tokenValue].(string)
	return token, nil
}

func (c CookieTokenStore) SaveToken(token string) error {
	c.Session.Values[tokenValue] = token
	c.Session.Values["authenticated"] = true
	return c.Session.Save(c.Request, c.Writer)
}

func (c CookieTokenStore) ClearToken() error {
	delete(c.Session.Values, tokenValue)
	c.Session.Values["authenticated"] = false
	return c.Session.Save(c.Request, c.Writer)
}
