package store

import (
	"context"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/bekizod/Blog-Post/internal/notify"
)

func reduceProfile(s ProfileState, a Action) ProfileState {
	switch a := a.(type) {
	case ProfilePending:
		s.Loading = true
		s.Error = ""
	case ProfileFulfilled:
		p := a.Profile
		s.Loading = false
		s.Profile = &p
	case ProfileRejected:
		s.Loading = false
		s.Error = a.Message
	case ProfileCleared:
		s = ProfileState{}
	case ProfileErrorCleared:
		s.Error = ""
	}
	return s
}

// FetchProfile loads the profile of the session's user. Without a session it
// fails at once and makes no request.
func (s *Store) FetchProfile(ctx context.Context) error {
	s.Dispatch(ProfilePending{Op: OpFetchProfile})

	if s.State().Auth.Token == "" {
		s.Dispatch(ProfileRejected{Op: OpFetchProfile, Message: msgNoToken})
		return api.ErrNoToken
	}

	profile, err := s.api.GetProfile(s.authed(ctx))
	if err != nil {
		s.Dispatch(ProfileRejected{Op: OpFetchProfile, Message: errorMessage(err, "Failed to fetch profile")})
		return err
	}

	s.Dispatch(ProfileFulfilled{Op: OpFetchProfile, Profile: *profile})
	return nil
}

// UpdateProfile sends the changed fields and stores the server's copy
func (s *Store) UpdateProfile(ctx context.Context, in api.ProfileUpdate) error {
	s.Dispatch(ProfilePending{Op: OpUpdateProfile})

	if s.State().Auth.Token == "" {
		s.Dispatch(ProfileRejected{Op: OpUpdateProfile, Message: msgNoToken})
		s.notify(ctx, notify.LevelError, "profile/update", msgNoToken)
		return api.ErrNoToken
	}

	profile, err := s.api.UpdateProfile(s.authed(ctx), in)
	if err != nil {
		msg := errorMessage(err, "Failed to update profile")
		s.Dispatch(ProfileRejected{Op: OpUpdateProfile, Message: msg})
		s.notify(ctx, notify.LevelError, "profile/update", errorMessage(err, "Update failed"))
		return err
	}

	s.Dispatch(ProfileFulfilled{Op: OpUpdateProfile, Profile: *profile})
	s.notify(ctx, notify.LevelSuccess, "profile/update", "Profile updated successfully")
	return nil
}

// ClearProfile forgets the profile, typically after Logout
func (s *Store) ClearProfile() {
	s.Dispatch(ProfileCleared{})
}

// ClearProfileError drops the profile error
func (s *Store) ClearProfileError() {
	s.Dispatch(ProfileErrorCleared{})
}
