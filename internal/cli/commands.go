package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/bekizod/Blog-Post/internal/form"

	"github.com/spf13/pflag"
)

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.StringP("email", "e", "", "account email")
	password := fs.StringP("password", "p", "", "account password (prompted when omitted)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *password == "" && *email != "" {
		*password = a.prompt("Password")
	}

	in := form.Login{Email: *email, Password: *password}
	if fields := form.Validate(in); fields != nil {
		return &ValidationError{Fields: fields}
	}

	a.store.ClearAuthErrors()
	if err := a.store.Login(ctx, in.Email, in.Password); err != nil {
		if fields := a.store.State().Auth.ValidationErrors; len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		return errors.New(a.store.State().Auth.Error)
	}
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	email := fs.String("email", "", "account email")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	userName := fs.String("username", "", "username (letters and numbers)")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *password == "" && *email != "" {
		*password = a.prompt("Password")
	}

	in := form.Register{Email: *email, FirstName: *first, LastName: *last, UserName: *userName, Password: *password}
	if fields := form.Validate(in); fields != nil {
		return &ValidationError{Fields: fields}
	}

	a.store.ResetRegisterState()
	err := a.store.Register(ctx, api.RegisterRequest{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		UserName:  in.UserName,
		Password:  in.Password,
	})
	st := a.store.State().Register
	if err != nil {
		if len(st.ValidationErrors) > 0 {
			return &ValidationError{Fields: st.ValidationErrors}
		}
		return errors.New(st.Error)
	}

	if st.RegisteredUser != nil {
		fmt.Fprintf(a.out, "Account %s created (id %d). Log in with: blogctl login --email %s\n",
			st.RegisteredUser.UserName, st.RegisteredUser.ID, st.RegisteredUser.Email)
	}
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	err := a.store.Logout(ctx)
	a.store.ClearProfile()
	return err
}

func (a *App) profile(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "update" {
		return a.updateProfile(ctx, args[1:])
	}
	if len(args) > 0 && args[0] != "show" {
		return fmt.Errorf("%w: profile [show|update]", ErrUsage)
	}

	if err := a.store.FetchProfile(ctx); err != nil {
		return errors.New(a.store.State().Profile.Error)
	}
	renderProfile(a.out, a.store.State().Profile.Profile)
	return nil
}

func (a *App) updateProfile(ctx context.Context, args []string) error {
	fs := newFlagSet("profile update")
	email := fs.String("email", "", "new email")
	first := fs.String("first-name", "", "new first name")
	last := fs.String("last-name", "", "new last name")
	userName := fs.String("username", "", "new username")
	if err := parse(fs, args); err != nil {
		return err
	}

	var in form.Profile
	if fs.Changed("email") {
		in.Email = email
	}
	if fs.Changed("first-name") {
		in.FirstName = first
	}
	if fs.Changed("last-name") {
		in.LastName = last
	}
	if fs.Changed("username") {
		in.UserName = userName
	}
	if fs.NFlag() == 0 {
		return fmt.Errorf("%w: profile update needs at least one of --email, --first-name, --last-name, --username", ErrUsage)
	}
	if fields := form.Validate(in); fields != nil {
		return &ValidationError{Fields: fields}
	}

	a.store.ClearProfileError()
	err := a.store.UpdateProfile(ctx, api.ProfileUpdate{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		UserName:  in.UserName,
	})
	if err != nil {
		if fields := api.FieldErrors(err); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		return errors.New(a.store.State().Profile.Error)
	}
	renderProfile(a.out, a.store.State().Profile.Profile)
	return nil
}

func (a *App) posts(ctx context.Context, args []string) error {
	fs := newFlagSet("posts")
	page := fs.IntP("page", "p", 1, "page number")
	limit := fs.IntP("limit", "l", 0, "posts per page (default from PAGE_SIZE)")
	search := fs.StringP("search", "s", "", "only posts whose title or content contains this text")
	if err := parse(fs, args); err != nil {
		return err
	}

	a.store.SetSearchQuery(*search)
	a.store.SetPage(*page)
	if err := a.store.FetchPosts(ctx, api.PostQuery{Page: *page, Limit: *limit, Search: *search}); err != nil {
		return errors.New(a.store.State().Post.Error)
	}
	a.syncLikes(ctx, a.store.State().Post.IDs)
	renderPostList(a.out, a.store.State().Post)
	return nil
}

func (a *App) post(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: post <show|create|edit|delete>", ErrUsage)
	}

	switch args[0] {
	case "show":
		return a.showPost(ctx, args[1:])
	case "create":
		return a.createPost(ctx, args[1:])
	case "edit":
		return a.editPost(ctx, args[1:])
	case "delete":
		return a.deletePost(ctx, args[1:])
	default:
		return fmt.Errorf("%w: unknown post command %q", ErrUsage, args[0])
	}
}

func (a *App) showPost(ctx context.Context, args []string) error {
	fs := newFlagSet("post show")
	page := fs.Int("comments-page", 1, "comments page")
	limit := fs.Int("comments-limit", 0, "comments per page")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := postID(fs.Args())
	if err != nil {
		return err
	}

	if err := a.store.FetchPost(ctx, id); err != nil {
		return errors.New(a.store.State().Post.Error)
	}
	a.syncLikes(ctx, []int64{id})
	if err := a.store.FetchComments(ctx, id, *page, *limit); err != nil {
		return errors.New(a.store.State().Post.Error)
	}

	st := a.store.State().Post
	current, ok := st.CurrentPost()
	if !ok {
		return fmt.Errorf("post %d is not available", id)
	}
	renderPost(a.out, current, st.CommentList(), st.CommentsPagination)
	return nil
}

func (a *App) createPost(ctx context.Context, args []string) error {
	fs := newFlagSet("post create")
	title := fs.StringP("title", "t", "", "post title")
	content := fs.StringP("content", "c", "", "post content")
	if err := parse(fs, args); err != nil {
		return err
	}

	in := form.Post{Title: strings.TrimSpace(*title), Content: *content}
	if fields := form.Validate(in); fields != nil {
		return &ValidationError{Fields: fields}
	}

	created, err := a.store.CreatePost(ctx, in.Title, in.Content)
	if err != nil {
		return errors.New(a.store.State().Post.Error)
	}
	fmt.Fprintf(a.out, "Created post %d: %s\n", created.ID, created.Title)
	return nil
}

func (a *App) editPost(ctx context.Context, args []string) error {
	fs := newFlagSet("post edit")
	title := fs.StringP("title", "t", "", "new title")
	content := fs.StringP("content", "c", "", "new content")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := postID(fs.Args())
	if err != nil {
		return err
	}

	if err := a.store.FetchPost(ctx, id); err != nil {
		return errors.New(a.store.State().Post.Error)
	}
	current, _ := a.store.State().Post.PostByID(id)

	in := form.Post{Title: current.Title, Content: current.Content}
	if fs.Changed("title") {
		in.Title = strings.TrimSpace(*title)
	}
	if fs.Changed("content") {
		in.Content = *content
	}
	if fields := form.Validate(in); fields != nil {
		return &ValidationError{Fields: fields}
	}

	if err := a.store.UpdatePost(ctx, id, in.Title, in.Content); err != nil {
		return errors.New(a.store.State().Post.Error)
	}
	fmt.Fprintf(a.out, "Updated post %d\n", id)
	return nil
}

func (a *App) deletePost(ctx context.Context, args []string) error {
	fs := newFlagSet("post delete")
	yes := fs.BoolP("yes", "y", false, "do not ask for confirmation")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := postID(fs.Args())
	if err != nil {
		return err
	}

	if !*yes && !a.confirm("Are you sure you want to delete this post?") {
		return ErrAborted
	}

	if err := a.store.DeletePost(ctx, id); err != nil {
		return errors.New(a.store.State().Post.Error)
	}
	fmt.Fprintf(a.out, "Deleted post %d\n", id)
	return nil
}

func (a *App) comment(ctx context.Context, args []string) error {
	fs := newFlagSet("comment")
	if err := parse(fs, args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("%w: comment <post-id> <text>", ErrUsage)
	}
	id, err := postID(rest[:1])
	if err != nil {
		return err
	}

	in := form.Comment{Content: strings.TrimSpace(strings.Join(rest[1:], " "))}
	if fields := form.Validate(in); fields != nil {
		return &ValidationError{Fields: fields}
	}

	if err := a.store.AddComment(ctx, id, in.Content); err != nil {
		return errors.New(a.store.State().Post.Error)
	}
	fmt.Fprintf(a.out, "Commented on post %d\n", id)
	return nil
}

func (a *App) like(ctx context.Context, args []string) error {
	id, err := postID(args)
	if err != nil {
		return err
	}

	// load the post so the count shown reflects the toggle
	if err := a.store.FetchPost(ctx, id); err != nil {
		return errors.New(a.store.State().Post.Error)
	}
	if err := a.store.ToggleLike(ctx, id); err != nil {
		return errors.New(a.store.State().Post.Error)
	}

	p, _ := a.store.State().Post.PostByID(id)
	verb := "Unliked"
	if p.IsLiked {
		verb = "Liked"
	}
	fmt.Fprintf(a.out, "%s post %d (%d likes)\n", verb, id, p.LikesCount)
	return nil
}

// syncLikes paints the viewer's like state on loaded posts. A failed check keeps
// whatever the fetch returned.
func (a *App) syncLikes(ctx context.Context, ids []int64) {
	for _, id := range ids {
		if err := a.store.CheckLikeStatus(ctx, id); err != nil {
			a.logger.Debug("like status unavailable", "post_id", id, "error", err)
		}
	}
}

func postID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one post id", ErrUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid post id %q", ErrUsage, args[0])
	}
	return id, nil
}
