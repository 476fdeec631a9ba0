package store

import (
	"context"
	"maps"
	"slices"

	"github.com/bekizod/Blog-Post/internal/api"
)

// guarded lists the request kinds whose completions can be superseded
var guarded = map[PostOp]bool{
	OpFetchPosts:    true,
	OpFetchPost:     true,
	OpFetchComments: true,
}

func reducePost(s PostState, a Action, guard bool) PostState {
	switch a := a.(type) {
	case PostPending:
		s.InFlight++
		s.Error = ""
		latest := maps.Clone(s.Latest)
		if latest == nil {
			latest = make(map[PostOp]uint64)
		}
		latest[a.Op] = max(latest[a.Op], a.Seq)
		s.Latest = latest

	case PostRejected:
		s = s.completed()
		if s.superseded(a.Op, a.Seq, guard) {
			break
		}
		s.Error = a.Message

	case PostsFetched:
		s = s.completed()
		if s.superseded(OpFetchPosts, a.Seq, guard) {
			break
		}
		s = s.withPage(a.Page)

	case PostFetched:
		s = s.completed()
		if s.superseded(OpFetchPost, a.Seq, guard) {
			break
		}
		s = s.withEntity(a.Post)
		s.CurrentID = a.Post.ID

	case CommentsFetched:
		s = s.completed()
		if s.superseded(OpFetchComments, a.Seq, guard) {
			break
		}
		s.Comments = orEmpty(a.Page.Data)
		s.CommentsPagination = a.Page.Pagination
		s.CommentsPostID = a.PostID

	case PostCreated:
		s = s.completed()
		s = s.withEntity(a.Post)
		ids := make([]int64, 0, len(s.IDs)+1)
		ids = append(ids, a.Post.ID)
		for _, id := range s.IDs {
			if id != a.Post.ID {
				ids = append(ids, id)
			}
		}
		s.IDs = ids

	case PostUpdated:
		s = s.completed()
		if s.referenced(a.Post.ID) {
			s = s.withEntity(a.Post)
		}

	case PostDeleted:
		s = s.completed()
		s.IDs = slices.DeleteFunc(slices.Clone(s.IDs), func(id int64) bool { return id == a.ID })
		if s.CurrentID == a.ID {
			s.CurrentID = 0
		}
		s = s.pruned()

	case CommentAdded:
		s = s.completed()
		if s.CommentsPostID == 0 || s.CommentsPostID == a.PostID {
			s.Comments = append([]api.Comment{a.Comment}, s.Comments...)
		}
		if p, ok := s.Entities[a.PostID]; ok {
			p.CommentCount++
			p.Comments = append([]api.Comment{a.Comment}, p.Comments...)
			s = s.withEntity(p)
		}

	case LikeToggled:
		s = s.completed()
		if p, ok := s.Entities[a.PostID]; ok {
			if a.IsLiked {
				p.LikesCount++
			} else {
				p.LikesCount--
			}
			p.IsLiked = a.IsLiked
			s = s.withEntity(p)
		}

	case LikeStatusChecked:
		if p, ok := s.Entities[a.PostID]; ok {
			p.IsLiked = a.IsLiked
			s = s.withEntity(p)
		}

	case PageSet:
		s.PostsPagination.Page = a.Page

	case SearchQuerySet:
		s.SearchQuery = a.Query

	case CurrentPostReset:
		s.CurrentID = 0
		s = s.pruned()
	}
	return s
}

func (s PostState) completed() PostState {
	if s.InFlight > 0 {
		s.InFlight--
	}
	return s
}

// superseded reports whether a completion belongs to a request older than the
// newest one of its kind. Only consulted when the guard is on.
func (s PostState) superseded(op PostOp, seq uint64, guard bool) bool {
	return guard && guarded[op] && seq < s.Latest[op]
}

func (s PostState) referenced(id int64) bool {
	return s.CurrentID == id || slices.Contains(s.IDs, id)
}

func (s PostState) withEntity(p api.Post) PostState {
	entities := make(map[int64]api.Post, len(s.Entities)+1)
	maps.Copy(entities, s.Entities)
	entities[p.ID] = p
	s.Entities = entities
	return s
}

// withPage replaces the list with a server page. The open post stays known even
// when it is not on the page; when it is, the page copy wins but keeps the
// preview comments a list item does not carry.
func (s PostState) withPage(page api.PostPage) PostState {
	entities := make(map[int64]api.Post, len(page.Data)+1)
	ids := make([]int64, 0, len(page.Data))
	for _, p := range page.Data {
		if _, dup := entities[p.ID]; !dup {
			ids = append(ids, p.ID)
		}
		entities[p.ID] = p
	}

	if cur, ok := s.Entities[s.CurrentID]; ok && s.CurrentID != 0 {
		if listed, ok := entities[cur.ID]; ok {
			if listed.Comments == nil {
				listed.Comments = cur.Comments
				entities[cur.ID] = listed
			}
		} else {
			entities[cur.ID] = cur
		}
	}

	s.Entities = entities
	s.IDs = ids
	s.PostsPagination = page.Pagination
	return s
}

// pruned drops entities that neither the list nor the open post refer to
func (s PostState) pruned() PostState {
	entities := make(map[int64]api.Post, len(s.IDs)+1)
	for _, id := range s.IDs {
		if p, ok := s.Entities[id]; ok {
			entities[id] = p
		}
	}
	if p, ok := s.Entities[s.CurrentID]; ok && s.CurrentID != 0 {
		entities[s.CurrentID] = p
	}
	s.Entities = entities
	return s
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// begin issues a sequence number for op and marks the request pending
func (s *Store) begin(op PostOp) uint64 {
	seq := s.seq.Add(1)
	s.Dispatch(PostPending{Op: op, Seq: seq})
	return seq
}

func (s *Store) fail(op PostOp, seq uint64, err error, fallback string) error {
	s.Dispatch(PostRejected{Op: op, Seq: seq, Message: errorMessage(err, fallback)})
	return err
}

// FetchPosts replaces the list and its pagination with one server page.
// Zero Page and Limit default to 1 and the configured page size.
func (s *Store) FetchPosts(ctx context.Context, q api.PostQuery) error {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = s.pageSize
	}

	seq := s.begin(OpFetchPosts)
	page, err := s.api.ListPosts(s.authed(ctx), q)
	if err != nil {
		return s.fail(OpFetchPosts, seq, err, "Failed to fetch posts")
	}
	s.Dispatch(PostsFetched{Seq: seq, Page: *page})
	return nil
}

// FetchPost opens a post, replacing the current post with its full detail
func (s *Store) FetchPost(ctx context.Context, id int64) error {
	seq := s.begin(OpFetchPost)
	post, err := s.api.GetPost(s.authed(ctx), id)
	if err != nil {
		return s.fail(OpFetchPost, seq, err, "Failed to fetch post")
	}
	s.Dispatch(PostFetched{Seq: seq, Post: *post})
	return nil
}

// FetchComments replaces the comment list with one page of postID's comments
func (s *Store) FetchComments(ctx context.Context, postID int64, page, limit int) error {
	if limit < 1 {
		limit = s.pageSize
	}

	seq := s.begin(OpFetchComments)
	res, err := s.api.ListComments(s.authed(ctx), postID, page, limit)
	if err != nil {
		return s.fail(OpFetchComments, seq, err, "Failed to fetch comments")
	}
	s.Dispatch(CommentsFetched{Seq: seq, PostID: postID, Page: *res})
	return nil
}

// CreatePost publishes a post and puts the server's copy first in the list.
// Pagination is left alone until the next fetch.
func (s *Store) CreatePost(ctx context.Context, title, content string) (*api.Post, error) {
	seq := s.begin(OpCreatePost)
	post, err := s.api.CreatePost(s.authed(ctx), api.PostInput{Title: title, Content: content})
	if err != nil {
		return nil, s.fail(OpCreatePost, seq, err, "Failed to create post")
	}
	s.Dispatch(PostCreated{Seq: seq, Post: *post})
	return post, nil
}

// UpdatePost sends a post's title and content and stores the returned post
func (s *Store) UpdatePost(ctx context.Context, id int64, title, content string) error {
	seq := s.begin(OpUpdatePost)
	post, err := s.api.UpdatePost(s.authed(ctx), id, api.PostInput{Title: title, Content: content})
	if err != nil {
		return s.fail(OpUpdatePost, seq, err, "Failed to update post")
	}
	s.Dispatch(PostUpdated{Seq: seq, Post: *post})
	return nil
}

// DeletePost removes a post; the open post is closed if it was the one deleted
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	seq := s.begin(OpDeletePost)
	if err := s.api.DeletePost(s.authed(ctx), id); err != nil {
		return s.fail(OpDeletePost, seq, err, "Failed to delete post")
	}
	s.Dispatch(PostDeleted{Seq: seq, ID: id})
	return nil
}

// AddComment posts a comment, prepends it and bumps the post's comment count once
func (s *Store) AddComment(ctx context.Context, postID int64, content string) error {
	seq := s.begin(OpAddComment)
	comment, err := s.api.AddComment(s.authed(ctx), postID, content)
	if err != nil {
		return s.fail(OpAddComment, seq, err, "Failed to add comment")
	}
	s.Dispatch(CommentAdded{Seq: seq, PostID: postID, Comment: *comment})
	return nil
}

// ToggleLike flips the like, reads the resulting state back from the server and
// adjusts the post's like count by one in that direction.
func (s *Store) ToggleLike(ctx context.Context, postID int64) error {
	seq := s.begin(OpToggleLike)
	ctx = s.authed(ctx)

	if err := s.api.ToggleLike(ctx, postID); err != nil {
		return s.fail(OpToggleLike, seq, err, "Failed to toggle like")
	}
	liked, err := s.api.CheckLike(ctx, postID)
	if err != nil {
		return s.fail(OpToggleLike, seq, err, "Failed to toggle like")
	}
	s.Dispatch(LikeToggled{Seq: seq, PostID: postID, IsLiked: liked})
	return nil
}

// CheckLikeStatus syncs whether the viewer likes postID without touching counts.
// Failures are not recorded in state.
func (s *Store) CheckLikeStatus(ctx context.Context, postID int64) error {
	liked, err := s.api.CheckLike(s.authed(ctx), postID)
	if err != nil {
		s.logger.Debug("like status check failed", "post_id", postID, "error", err)
		return err
	}
	s.Dispatch(LikeStatusChecked{PostID: postID, IsLiked: liked})
	return nil
}

// SetPage sets the requested list page without fetching it
func (s *Store) SetPage(page int) {
	s.Dispatch(PageSet{Page: page})
}

// SetSearchQuery sets the list filter without fetching
func (s *Store) SetSearchQuery(q string) {
	s.Dispatch(SearchQuerySet{Query: q})
}

// ResetCurrentPost closes the open post
func (s *Store) ResetCurrentPost() {
	s.Dispatch(CurrentPostReset{})
}
