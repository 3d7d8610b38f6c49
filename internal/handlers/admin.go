package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/api"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/dashboard"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/session"
)

type AdminHandler struct {
	API            *api.Client
	SessionStore   sessions.Store
	Templates      *TemplateCache
	MaxUploadBytes int64
}

type sessionKey struct{}

func sessionFrom(ctx context.Context) session.Session {
	s, _ := ctx.Value(sessionKey{}).(session.Session)
	return s
}

// client returns the API client bound to the request's session.
func (h *AdminHandler) client(r *http.Request) *api.Client {
	return h.API.WithToken(sessionFrom(r.Context()).Token)
}

func (h *AdminHandler) cookie(r *http.Request) *sessions.Session {
	// A cookie that fails to decode still yields a usable empty session.
	s, err := h.SessionStore.Get(r, session.CookieName)
	if err != nil {
		slog.Debug("Discarding unreadable admin session", "error", err)
	}
	return s
}

func (h *AdminHandler) holder(cookie *sessions.Session, w http.ResponseWriter, r *http.Request) *session.Holder {
	return &session.Holder{
		Auth:     h.API,
		Tokens:   session.CookieTokenStore{Session: cookie, Request: r, Writer: w},
		Notifier: flashNotifier{session: cookie},
	}
}

func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, cookie *sessions.Session, name string, data map[string]interface{}) {
	tmpl := h.Templates.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["CsrfField"] = csrf.TemplateField(r)
	data["Flashes"] = GetFlash(cookie)
	data["LoggedIn"] = sessionFrom(r.Context()).Authenticated()
	if err := cookie.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("Failed to render template", "template", name, "error", err)
	}
}

func (h *AdminHandler) redirect(w http.ResponseWriter, r *http.Request, cookie *sessions.Session, to string) {
	if err := cookie.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// loggedOut ends the session when err says the API rejected its token and
// reports whether it did so; the response is then already written.
func (h *AdminHandler) loggedOut(w http.ResponseWriter, r *http.Request, cookie *sessions.Session, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	slog.Info("API rejected session token, logging out", "path", r.URL.Path)
	if err := h.holder(cookie, w, r).Logout(); err != nil {
		slog.Error("Failed to clear session", "error", err)
	}
	cookie.AddFlash(FlashMessage{Type: notify.TypeError, Message: "Session expired, please log in again"})
	h.redirect(w, r, cookie, "/login")
	return true
}

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	if s, err := h.holder(cookie, w, r).Restore(); err == nil && s.Authenticated() {
		h.redirect(w, r, cookie, "/admin")
		return
	}
	h.render(w, r, cookie, "login.html", nil)
}

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)

	if _, err := h.holder(cookie, w, r).Login(r.Context(), r.FormValue("password")); err != nil {
		if !errors.Is(err, session.ErrInvalidCredentials) {
			slog.Error("Login failed", "error", err)
		}
		h.redirect(w, r, cookie, "/login")
		return
	}

	slog.Info("Login successful, redirecting to /admin")
	h.redirect(w, r, cookie, "/admin")
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	if err := h.holder(cookie, w, r).Logout(); err != nil {
		slog.Error("Failed to clear session", "error", err)
	}
	cookie.AddFlash(FlashMessage{Type: notify.TypeSuccess, Message: "Logged out successfully!"})
	h.redirect(w, r, cookie, "/login")
}

// AuthMiddleware ensures the user is logged in
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie := h.cookie(r)
		s, err := h.holder(cookie, w, r).Restore()
		switch {
		case errors.Is(err, session.ErrExpired):
			cookie.AddFlash(FlashMessage{Type: notify.TypeError, Message: "Session expired, please log in again"})
			h.redirect(w, r, cookie, "/login")
			return
		case err != nil || !s.Authenticated():
			slog.Debug("AuthMiddleware: not authenticated, redirecting to /login", "path", r.URL.Path)
			cookie.AddFlash(FlashMessage{Type: notify.TypeError, Message: "You must be logged in to access this page."})
			h.redirect(w, r, cookie, "/login")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	view, err := dashboard.Load(r.Context(), h.client(r), flashNotifier{session: cookie})
	if err != nil {
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		slog.Error("Error fetching analytics", "error", err)
	}
	h.render(w, r, cookie, "dashboard.html", map[string]interface{}{
		"View": view,
	})
}
