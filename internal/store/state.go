package store

import "github.com/bekizod/Blog-Post/internal/api"

// State is the whole state tree. Snapshots are immutable: reducers replace maps
// and slices instead of writing into them.
type State struct {
	Auth     AuthState
	Register RegisterState
	Profile  ProfileState
	Post     PostState
}

// AuthState is the session slice. Token is empty when there is no session.
type AuthState struct {
	Token            string
	IsAuthenticated  bool
	Loading          bool
	Error            string
	ValidationErrors map[string]string
}

// RegisterState tracks one registration attempt
type RegisterState struct {
	Loading          bool
	Error            string
	ValidationErrors map[string]string
	Success          bool
	Message          string
	RegisteredUser   *api.RegisteredUser
}

// ProfileState holds the current user's profile
type ProfileState struct {
	Profile *api.Profile
	Loading bool
	Error   string
}

// PostState holds posts normalized by id. The page list and the current post are
// views over Entities, so a mutation of one post is visible through both.
type PostState struct {
	Entities map[int64]api.Post
	IDs      []int64
	// CurrentID is zero when no post is open
	CurrentID          int64
	Comments           []api.Comment
	CommentsPostID     int64
	PostsPagination    api.Pagination
	CommentsPagination api.Pagination
	SearchQuery        string
	Error              string
	// InFlight counts requests that have not completed yet
	InFlight int
	// Latest is the newest sequence number issued per request kind
	Latest map[PostOp]uint64
}

// InitialState returns the state of a fresh store
func InitialState() State {
	return State{
		Post: initialPostState(),
	}
}

func initialPostState() PostState {
	return PostState{
		Entities:           map[int64]api.Post{},
		IDs:                []int64{},
		Comments:           []api.Comment{},
		PostsPagination:    api.DefaultPagination(),
		CommentsPagination: api.DefaultPagination(),
		Latest:             map[PostOp]uint64{},
	}
}

// reduce is the root reducer
func reduce(s State, a Action, guard bool) State {
	s.Auth = reduceAuth(s.Auth, a)
	s.Register = reduceRegister(s.Register, a)
	s.Profile = reduceProfile(s.Profile, a)
	s.Post = reducePost(s.Post, a, guard)
	return s
}
