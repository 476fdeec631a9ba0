package devapi

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Repository keeps every record in memory. Ids are assigned from 1 in insertion
// order per kind.
type Repository struct {
	mu sync.RWMutex

	users    map[int64]*user
	posts    map[int64]*post
	comments map[int64][]*comment
	likes    map[int64]map[int64]struct{}

	nextUserID    int64
	nextPostID    int64
	nextCommentID int64

	now func() time.Time
}

// NewRepository creates an empty repository
func NewRepository() *Repository {
	return &Repository{
		users:    make(map[int64]*user),
		posts:    make(map[int64]*post),
		comments: make(map[int64][]*comment),
		likes:    make(map[int64]map[int64]struct{}),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser stores u and assigns its id. Email and username are unique,
// case-insensitively.
func (r *Repository) CreateUser(u user) (*user, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, ErrEmailTaken
		}
		if strings.EqualFold(existing.UserName, u.UserName) {
			return nil, ErrUserNameTaken
		}
	}

	r.nextUserID++
	u.ID = r.nextUserID
	u.CreatedAt = r.now()
	r.users[u.ID] = &u
	cp := u
	return &cp, nil
}

// UserByEmail looks a user up by email
func (r *Repository) UserByEmail(email string) (*user, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

// UserByID looks a user up by id
func (r *Repository) UserByID(id int64) (*user, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// UpdateUser applies fn to the stored user, then re-checks uniqueness
func (r *Repository) UpdateUser(id int64, fn func(u *user)) (*user, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	next := *stored
	fn(&next)

	for otherID, other := range r.users {
		if otherID == id {
			continue
		}
		if strings.EqualFold(other.Email, next.Email) {
			return nil, ErrEmailTaken
		}
		if strings.EqualFold(other.UserName, next.UserName) {
			return nil, ErrUserNameTaken
		}
	}

	r.users[id] = &next
	cp := next
	return &cp, nil
}

// CreatePost stores a new post
func (r *Repository) CreatePost(authorID int64, title, content string) *post {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextPostID++
	now := r.now()
	p := &post{
		ID:        r.nextPostID,
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.posts[p.ID] = p
	cp := *p
	return &cp
}

// GetPost returns a post by id
func (r *Repository) GetPost(id int64) (*post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

// ListPosts returns posts newest first, filtered by a case-insensitive search on
// title and content, together with the number of matches.
func (r *Repository) ListPosts(search string, offset, limit int) ([]post, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	matched := make([]post, 0, len(r.posts))
	for _, p := range r.posts {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Content), needle) {
			matched = append(matched, *p)
		}
	}
	slices.SortFunc(matched, func(a, b post) int {
		return int(b.ID - a.ID)
	})

	return window(matched, offset, limit), len(matched)
}

// UpdatePost replaces title and content of a post owned by userID
func (r *Repository) UpdatePost(id, userID int64, title, content string) (*post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	if p.AuthorID != userID {
		return nil, ErrForbidden
	}

	next := *p
	next.Title = title
	next.Content = content
	next.UpdatedAt = r.now()
	r.posts[id] = &next
	cp := next
	return &cp, nil
}

// DeletePost removes a post owned by userID with its comments and likes
func (r *Repository) DeletePost(id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	if p.AuthorID != userID {
		return ErrForbidden
	}

	delete(r.posts, id)
	delete(r.comments, id)
	delete(r.likes, id)
	return nil
}

// AddComment stores a comment on an existing post
func (r *Repository) AddComment(postID, authorID int64, content string) (*comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[postID]; !ok {
		return nil, ErrPostNotFound
	}

	r.nextCommentID++
	now := r.now()
	c := &comment{
		ID:        r.nextCommentID,
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.comments[postID] = append(r.comments[postID], c)
	cp := *c
	return &cp, nil
}

// ListComments returns a post's comments newest first with their total
func (r *Repository) ListComments(postID int64, offset, limit int) ([]comment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.posts[postID]; !ok {
		return nil, 0, ErrPostNotFound
	}

	stored := r.comments[postID]
	all := make([]comment, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		all = append(all, *stored[i])
	}
	return window(all, offset, limit), len(all), nil
}

// CommentCount returns how many comments a post has
func (r *Repository) CommentCount(postID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.comments[postID])
}

// ToggleLike flips userID's like on a post and reports the resulting state
func (r *Repository) ToggleLike(postID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[postID]; !ok {
		return false, ErrPostNotFound
	}

	likers, ok := r.likes[postID]
	if !ok {
		likers = make(map[int64]struct{})
		r.likes[postID] = likers
	}
	if _, liked := likers[userID]; liked {
		delete(likers, userID)
		return false, nil
	}
	likers[userID] = struct{}{}
	return true, nil
}

// LikeState returns a post's like count and whether userID likes it
func (r *Repository) LikeState(postID, userID int64) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	likers := r.likes[postID]
	_, liked := likers[userID]
	return len(likers), liked
}

// Counts returns the number of users and posts
func (r *Repository) Counts() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), len(r.posts)
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
