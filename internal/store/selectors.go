package store

import (
	"slices"

	"github.com/bekizod/Blog-Post/internal/api"
)

// Posts returns the current page of posts in server order
func (s PostState) Posts() []api.Post {
	out := make([]api.Post, 0, len(s.IDs))
	for _, id := range s.IDs {
		if p, ok := s.Entities[id]; ok {
			out = append(out, clonePost(p))
		}
	}
	return out
}

// CurrentPost returns the open post
func (s PostState) CurrentPost() (api.Post, bool) {
	if s.CurrentID == 0 {
		return api.Post{}, false
	}
	p, ok := s.Entities[s.CurrentID]
	if !ok {
		return api.Post{}, false
	}
	return clonePost(p), true
}

// PostByID returns a post from the list or the open post
func (s PostState) PostByID(id int64) (api.Post, bool) {
	p, ok := s.Entities[id]
	if !ok {
		return api.Post{}, false
	}
	return clonePost(p), true
}

// CommentList returns the comments of the open post's current comment page
func (s PostState) CommentList() []api.Comment {
	return slices.Clone(orEmpty(s.Comments))
}

// Loading reports whether any post request is still in flight
func (s PostState) Loading() bool {
	return s.InFlight > 0
}

func clonePost(p api.Post) api.Post {
	p.Comments = slices.Clone(p.Comments)
	return p
}

// Authenticated reports whether a session token is held
func (s State) Authenticated() bool {
	return s.Auth.IsAuthenticated && s.Auth.Token != ""
}
