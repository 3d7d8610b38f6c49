// Package session holds the admin's bearer token. A Session value is passed
// explicitly to whatever needs to call the API; where the token lives
// between requests is up to the TokenStore.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/api"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
)

var (
	ErrInvalidCredentials = errors.New("session: invalid password")
	ErrExpired            = errors.New("session: token expired")
)

type Session struct {
	Token string
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

type Authenticator interface {
	Login(ctx context.Context, password string) (*api.LoginResponse, error)
}

type Holder struct {
	Auth     Authenticator
	Tokens   TokenStore
	Notifier notify.Notifier
	Now      func() time.Time
}

func (h *Holder) notifier() notify.Notifier {
	if h.Notifier == nil {
		return notify.Discard
	}
	return h.Notifier
}

func (h *Holder) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// Login exchanges password for a token and stores it. Nothing is stored
// unless the API accepted the password.
func (h *Holder) Login(ctx context.Context, password string) (Session, error) {
	resp, err := h.Auth.Login(ctx, password)
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		notify.Error(h.notifier(), "Invalid password")
		return Session{}, ErrInvalidCredentials
	case err != nil:
		notify.Error(h.notifier(), "Login failed, please try again")
		return Session{}, fmt.Errorf("login: %w", err)
	case !resp.Success || resp.Token == "":
		notify.Error(h.notifier(), "Invalid password")
		return Session{}, ErrInvalidCredentials
	}

	if err := h.Tokens.SaveToken(resp.Token); err != nil {
		notify.Error(h.notifier(), "Login failed, please try again")
		return Session{}, fmt.Errorf("store token: %w", err)
	}
	notify.Success(h.notifier(), "Login successful!")
	return Session{Token: resp.Token}, nil
}

// Logout clears the stored token. It never calls the API.
func (h *Holder) Logout() error {
	if err := h.Tokens.ClearToken(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Restore returns the stored session without asking the API. A JWT whose
// exp claim has passed is cleared and reported as ErrExpired; any other
// stored token is trusted until a call is rejected.
func (h *Holder) Restore() (Session, error) {
	token, err := h.Tokens.LoadToken()
	if err != nil {
		return Session{}, fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return Session{}, nil
	}
	if Expired(token, h.now()) {
		if err := h.Tokens.ClearToken(); err != nil {
			return Session{}, fmt.Errorf("clear token: %w", err)
		}
		return Session{}, ErrExpired
	}
	return Session{Token: token}, nil
}

// Expired reports whether token is a JWT carrying an exp claim before now.
// The signature is not checked; opaque tokens never expire here.
func Expired(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
