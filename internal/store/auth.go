package store

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/bekizod/Blog-Post/internal/notify"
	"github.com/bekizod/Blog-Post/internal/session"
)

func reduceAuth(s AuthState, a Action) AuthState {
	switch a := a.(type) {
	case LoginPending:
		s.Loading = true
		s.Error = ""
		s.ValidationErrors = nil
	case LoginFulfilled:
		s.Loading = false
		s.Token = a.Token
		s.IsAuthenticated = true
	case LoginRejected:
		s.Loading = false
		s.Error = a.Message
		s.ValidationErrors = maps.Clone(a.Fields)
	case SessionRestored:
		s.Token = a.Token
		s.IsAuthenticated = a.Token != ""
	case LoggedOut:
		s = AuthState{}
	case AuthErrorsCleared:
		s.Error = ""
		s.ValidationErrors = nil
	}
	return s
}

// Login exchanges credentials for a token, persists it as the session cookie and
// marks the session authenticated. On failure the token is left as it was.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.Dispatch(LoginPending{})

	res, err := s.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		msg := errorMessage(err, "Login failed")
		s.Dispatch(LoginRejected{Message: msg, Fields: api.FieldErrors(err)})
		s.notify(ctx, notify.LevelError, "auth/login", msg)
		return err
	}

	if _, err := s.sessions.Set(ctx, res.AccessToken); err != nil {
		s.Dispatch(LoginRejected{Message: "Login failed"})
		s.notify(ctx, notify.LevelError, "auth/login", "Login failed")
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.Dispatch(LoginFulfilled{Token: res.AccessToken})
	s.notify(ctx, notify.LevelSuccess, "auth/login", res.Message)
	return nil
}

// Logout removes the session cookie and resets the session. The profile is left
// for the caller to clear.
func (s *Store) Logout(ctx context.Context) error {
	err := s.sessions.Remove(ctx)
	if err != nil {
		s.logger.Warn("failed to remove session cookie", "error", err)
	}

	s.Dispatch(LoggedOut{})
	s.notify(ctx, notify.LevelSuccess, "auth/logout", "Logged out successfully")
	return err
}

// Initialize restores the session from the persisted cookie. A missing, expired or
// unreadable cookie leaves the session as it is. Safe to call any number of times.
func (s *Store) Initialize(ctx context.Context) {
	cookie, err := s.sessions.Get(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			s.logger.Debug("no session restored", "error", err)
		}
		return
	}
	s.Dispatch(SessionRestored{Token: cookie.Value})
}

// ClearAuthErrors drops the login error and field errors
func (s *Store) ClearAuthErrors() {
	s.Dispatch(AuthErrorsCleared{})
}
