package store

import "github.com/bekizod/Blog-Post/internal/api"

// Action is a request for a state transition. Asynchronous operations dispatch a
// pending action before the call and a fulfilled or rejected action after it.
type Action interface {
	Type() string
}

// Session actions

type LoginPending struct{}

type LoginFulfilled struct {
	Token string
}

type LoginRejected struct {
	Message string
	Fields  map[string]string
}

type LoggedOut struct{}

// SessionRestored carries a token read back from the persisted cookie
type SessionRestored struct {
	Token string
}

type AuthErrorsCleared struct{}

func (LoginPending) Type() string { return "auth/login/pending" }
func (LoginFulfilled) Type() string { return "auth/login/fulfilled" }
func (LoginRejected) Type() string { return "auth/login/rejected" }
func (LoggedOut) Type() string { return "auth/logout" }
func (SessionRestored) Type() string { return "auth/initialize" }
func (AuthErrorsCleared) Type() string { return "auth/clearErrors" }

// Registration actions

type RegisterPending struct{}

type RegisterFulfilled struct {
	Message string
	User    *api.RegisteredUser
}

type RegisterRejected struct {
	Message string
	Fields  map[string]string
}

type RegisterErrorsCleared struct{}

type RegisterStateReset struct{}

func (RegisterPending) Type() string { return "register/register/pending" }
func (RegisterFulfilled) Type() string { return "register/register/fulfilled" }
func (RegisterRejected) Type() string { return "register/register/rejected" }
func (RegisterErrorsCleared) Type() string { return "register/clearErrors" }
func (RegisterStateReset) Type() string { return "register/reset" }

// Profile actions

// ProfileOp names the profile request an action belongs to
type ProfileOp string

const (
	OpFetchProfile  ProfileOp = "fetch"
	OpUpdateProfile ProfileOp = "update"
)

type ProfilePending struct {
	Op ProfileOp
}

type ProfileFulfilled struct {
	Op      ProfileOp
	Profile api.Profile
}

type ProfileRejected struct {
	Op      ProfileOp
	Message string
}

type ProfileCleared struct{}

type ProfileErrorCleared struct{}

func (a ProfilePending) Type() string { return "profile/" + string(a.Op) + "/pending" }
func (a ProfileFulfilled) Type() string { return "profile/" + string(a.Op) + "/fulfilled" }
func (a ProfileRejected) Type() string { return "profile/" + string(a.Op) + "/rejected" }
func (ProfileCleared) Type() string { return "profile/clear" }
func (ProfileErrorCleared) Type() string { return "profile/clearError" }

// Post and comment actions

// PostOp names the post request an action belongs to
type PostOp string

const (
	OpFetchPosts    PostOp = "fetchPosts"
	OpFetchPost     PostOp = "fetchPostById"
	OpFetchComments PostOp = "fetchPostComments"
	OpCreatePost    PostOp = "createPost"
	OpUpdatePost    PostOp = "updatePost"
	OpDeletePost    PostOp = "deletePost"
	OpAddComment    PostOp = "addComment"
	OpToggleLike    PostOp = "toggleLike"
)

// PostPending starts a request. Seq orders requests of the same Op.
type PostPending struct {
	Op  PostOp
	Seq uint64
}

type PostRejected struct {
	Op      PostOp
	Seq     uint64
	Message string
}

type PostsFetched struct {
	Seq  uint64
	Page api.PostPage
}

type PostFetched struct {
	Seq  uint64
	Post api.Post
}

type CommentsFetched struct {
	Seq    uint64
	PostID int64
	Page   api.CommentPage
}

type PostCreated struct {
	Seq  uint64
	Post api.Post
}

type PostUpdated struct {
	Seq  uint64
	Post api.Post
}

type PostDeleted struct {
	Seq uint64
	ID  int64
}

type CommentAdded struct {
	Seq     uint64
	PostID  int64
	Comment api.Comment
}

type LikeToggled struct {
	Seq     uint64
	PostID  int64
	IsLiked bool
}

type LikeStatusChecked struct {
	PostID  int64
	IsLiked bool
}

type PageSet struct {
	Page int
}

type SearchQuerySet struct {
	Query string
}

type CurrentPostReset struct{}

func (a PostPending) Type() string { return "post/" + string(a.Op) + "/pending" }
func (a PostRejected) Type() string { return "post/" + string(a.Op) + "/rejected" }
func (PostsFetched) Type() string { return "post/fetchPosts/fulfilled" }
func (PostFetched) Type() string { return "post/fetchPostById/fulfilled" }
func (CommentsFetched) Type() string { return "post/fetchPostComments/fulfilled" }
func (PostCreated) Type() string { return "post/createPost/fulfilled" }
func (PostUpdated) Type() string { return "post/updatePost/fulfilled" }
func (PostDeleted) Type() string { return "post/deletePost/fulfilled" }
func (CommentAdded) Type() string { return "post/addComment/fulfilled" }
func (LikeToggled) Type() string { return "post/toggleLike/fulfilled" }
func (LikeStatusChecked) Type() string { return "post/checkLikeStatus/fulfilled" }
func (PageSet) Type() string { return "post/setPostsPage" }
func (SearchQuerySet) Type() string { return "post/setSearchQuery" }
func (CurrentPostReset) Type() string { return "post/resetCurrentPost" }
