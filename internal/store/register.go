package store

import (
	"context"
	"maps"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/bekizod/Blog-Post/internal/notify"
)

func reduceRegister(s RegisterState, a Action) RegisterState {
	switch a := a.(type) {
	case RegisterPending:
		s.Loading = true
		s.Error = ""
		s.ValidationErrors = nil
		s.Success = false
	case RegisterFulfilled:
		s.Loading = false
		s.Success = true
		s.Message = a.Message
		s.RegisteredUser = a.User
	case RegisterRejected:
		s.Loading = false
		s.Error = a.Message
		s.ValidationErrors = maps.Clone(a.Fields)
	case RegisterErrorsCleared:
		s.Error = ""
		s.ValidationErrors = nil
	case RegisterStateReset:
		s = RegisterState{}
	}
	return s
}

// Register creates an account. Navigation after success is left to the caller.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) error {
	s.Dispatch(RegisterPending{})

	res, err := s.api.Register(ctx, req)
	if err != nil {
		msg := errorMessage(err, "Registration failed")
		s.Dispatch(RegisterRejected{Message: msg, Fields: api.FieldErrors(err)})
		s.notify(ctx, notify.LevelError, "register/register", msg)
		return err
	}

	s.Dispatch(RegisterFulfilled{Message: res.Message, User: res.User})
	s.notify(ctx, notify.LevelSuccess, "register/register", res.Message)
	return nil
}

// ClearRegisterErrors drops registration errors without resetting progress
func (s *Store) ClearRegisterErrors() {
	s.Dispatch(RegisterErrorsCleared{})
}

// ResetRegisterState returns the registration slice to its initial state
func (s *Store) ResetRegisterState() {
	s.Dispatch(RegisterStateReset{})
}
