package devapi

import (
	"context"
	"fmt"

	"github.com/bekizod/Blog-Post/internal/form"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo-password"
)

var demoPosts = []form.Post{
	{Title: "Welcome to the blog", Content: "This post was created by the development API seed."},
	{Title: "Writing in Go", Content: "Small interfaces, explicit errors and a context on every blocking call."},
	{Title: "Pagination", Content: "Posts are listed newest first, ten per page unless a limit is given."},
}

// Seed creates a demo account with a few posts and comments
func Seed(ctx context.Context, svc *Service) error {
	u, err := svc.Register(ctx, form.Register{
		Email:     DemoEmail,
		FirstName: "Demo",
		LastName:  "User",
		UserName:  "demo",
		Password:  DemoPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	for _, in := range demoPosts {
		p := svc.CreatePost(ctx, u.ID, in)
		if _, err := svc.AddComment(ctx, u.ID, p.ID, form.Comment{Content: "First!"}); err != nil {
			return fmt.Errorf("failed to seed comment: %w", err)
		}
	}
	return nil
}
