package devapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/bekizod/Blog-Post/internal/form"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MaxPageLimit caps the limit query parameter of list endpoints
	MaxPageLimit = 100
	// previewComments is how many recent comments GET /posts/:id embeds
	previewComments = 3
)

// Service implements the blog rules on top of the repository
type Service struct {
	repo   *Repository
	tokens *TokenIssuer
	logger *slog.Logger
}

// NewService creates a new service
func NewService(repo *Repository, tokens *TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Register creates an account
func (s *Service) Register(ctx context.Context, in form.Register) (*api.RegisteredUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.repo.CreateUser(user{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		UserName:     in.UserName,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered", "user_id", u.ID, "username", u.UserName)
	return &api.RegisteredUser{ID: u.ID, Email: u.Email, UserName: u.UserName}, nil
}

// Login checks credentials and issues an access token
func (s *Service) Login(ctx context.Context, in form.Login) (string, error) {
	u, err := s.repo.UserByEmail(in.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidLogin
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(in.Password)); err != nil {
		return "", ErrInvalidLogin
	}

	token, err := s.tokens.Issue(u.ID, u.UserName)
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "User logged in", "user_id", u.ID)
	return token, nil
}

// Authenticate resolves an access token to a user id
func (s *Service) Authenticate(token string) (int64, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return 0, err
	}
	if _, err := s.repo.UserByID(id); err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Profile returns a user's profile
func (s *Service) Profile(userID int64) (*api.Profile, error) {
	u, err := s.repo.UserByID(userID)
	if err != nil {
		return nil, err
	}
	return toProfile(u), nil
}

// UpdateProfile applies the non-nil fields of in
func (s *Service) UpdateProfile(userID int64, in form.Profile) (*api.Profile, error) {
	u, err := s.repo.UpdateUser(userID, func(u *user) {
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.FirstName != nil {
			u.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			u.LastName = *in.LastName
		}
		if in.UserName != nil {
			u.UserName = *in.UserName
		}
	})
	if err != nil {
		return nil, err
	}
	return toProfile(u), nil
}

// ListPosts returns one page of posts as seen by viewerID (0 for anonymous)
func (s *Service) ListPosts(viewerID int64, search string, page, limit int) api.PostPage {
	_, total := s.repo.ListPosts(search, 0, 0)
	pagination := api.NewPagination(total, page, limit)

	records, _ := s.repo.ListPosts(search, (pagination.Page-1)*pagination.Limit, pagination.Limit)
	data := make([]api.Post, 0, len(records))
	for i := range records {
		data = append(data, s.view(&records[i], viewerID))
	}
	return api.PostPage{Data: data, Pagination: pagination}
}

// GetPost returns a post with its most recent comments embedded
func (s *Service) GetPost(viewerID, postID int64) (*api.Post, error) {
	p, err := s.repo.GetPost(postID)
	if err != nil {
		return nil, err
	}
	view := s.view(p, viewerID)

	recent, _, err := s.repo.ListComments(postID, 0, previewComments)
	if err != nil {
		return nil, err
	}
	view.Comments = s.commentViews(recent)
	return &view, nil
}

// CreatePost stores a post authored by userID
func (s *Service) CreatePost(ctx context.Context, userID int64, in form.Post) api.Post {
	p := s.repo.CreatePost(userID, in.Title, in.Content)
	s.logger.InfoContext(ctx, "Post created", "post_id", p.ID, "user_id", userID)
	return s.view(p, userID)
}

// UpdatePost edits a post owned by userID
func (s *Service) UpdatePost(ctx context.Context, userID, postID int64, in form.Post) (*api.Post, error) {
	p, err := s.repo.UpdatePost(postID, userID, in.Title, in.Content)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Post updated", "post_id", postID, "user_id", userID)
	view := s.view(p, userID)
	return &view, nil
}

// DeletePost removes a post owned by userID
func (s *Service) DeletePost(ctx context.Context, userID, postID int64) error {
	if err := s.repo.DeletePost(postID, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Post deleted", "post_id", postID, "user_id", userID)
	return nil
}

// ListComments returns one page of a post's comments, newest first
func (s *Service) ListComments(postID int64, page, limit int) (*api.CommentPage, error) {
	_, total, err := s.repo.ListComments(postID, 0, 0)
	if err != nil {
		return nil, err
	}
	pagination := api.NewPagination(total, page, limit)

	records, _, err := s.repo.ListComments(postID, (pagination.Page-1)*pagination.Limit, pagination.Limit)
	if err != nil {
		return nil, err
	}
	return &api.CommentPage{Data: s.commentViews(records), Pagination: pagination}, nil
}

// AddComment stores a comment by userID on a post
func (s *Service) AddComment(ctx context.Context, userID, postID int64, in form.Comment) (*api.Comment, error) {
	c, err := s.repo.AddComment(postID, userID, in.Content)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Comment added", "post_id", postID, "comment_id", c.ID, "user_id", userID)
	view := s.commentViews([]comment{*c})[0]
	return &view, nil
}

// ToggleLike flips userID's like on a post
func (s *Service) ToggleLike(ctx context.Context, userID, postID int64) error {
	liked, err := s.repo.ToggleLike(postID, userID)
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Like toggled", "post_id", postID, "user_id", userID, "liked", liked)
	return nil
}

// IsLiked reports whether userID likes a post
func (s *Service) IsLiked(userID, postID int64) (bool, error) {
	if _, err := s.repo.GetPost(postID); err != nil {
		return false, err
	}
	_, liked := s.repo.LikeState(postID, userID)
	return liked, nil
}

// Health reports record counts
func (s *Service) Health() HealthResponse {
	users, posts := s.repo.Counts()
	return HealthResponse{Status: "healthy", Users: users, Posts: posts}
}

func (s *Service) view(p *post, viewerID int64) api.Post {
	likes, liked := s.repo.LikeState(p.ID, viewerID)
	return api.Post{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Author:       s.author(p.AuthorID),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		LikesCount:   likes,
		CommentCount: s.repo.CommentCount(p.ID),
		IsLiked:      viewerID != 0 && liked,
	}
}

func (s *Service) commentViews(records []comment) []api.Comment {
	out := make([]api.Comment, 0, len(records))
	for _, c := range records {
		out = append(out, api.Comment{
			ID:        c.ID,
			Content:   c.Content,
			Author:    s.author(c.AuthorID),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return out
}

func (s *Service) author(id int64) api.Author {
	u, err := s.repo.UserByID(id)
	if err != nil {
		return api.Author{ID: id}
	}
	return api.Author{ID: u.ID, Username: u.UserName, Email: u.Email}
}

func toProfile(u *user) *api.Profile {
	return &api.Profile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.UserName,
	}
}
