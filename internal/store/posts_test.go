package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageOf(posts ...api.Post) *api.PostPage {
	return &api.PostPage{Data: posts, Pagination: api.NewPagination(len(posts), 1, 10)}
}

// openPost seeds the fixture with post in both the list and as the current post
func openPost(t *testing.T, f *fixture, post api.Post) {
	t.Helper()
	f.api.listPostsFunc = func(context.Context, api.PostQuery) (*api.PostPage, error) {
		return pageOf(post, samplePost(post.ID+1, 0, 0)), nil
	}
	f.api.getPostFunc = func(context.Context, int64) (*api.Post, error) {
		p := post
		return &p, nil
	}
	require.NoError(t, f.store.FetchPosts(context.Background(), api.PostQuery{}))
	require.NoError(t, f.store.FetchPost(context.Background(), post.ID))
}

func TestFetchPosts_ReplacesPagination(t *testing.T) {
	f := newFixture(t)
	f.api.listPostsFunc = func(_ context.Context, q api.PostQuery) (*api.PostPage, error) {
		assert.Equal(t, 2, q.Page)
		assert.Equal(t, 5, q.Limit)
		assert.Equal(t, "go", q.Search)
		return &api.PostPage{
			Data:       []api.Post{samplePost(6, 0, 0), samplePost(7, 0, 0)},
			Pagination: api.Pagination{Total: 12, Page: 2, Limit: 5, TotalPages: 3},
		}, nil
	}

	require.NoError(t, f.store.FetchPosts(context.Background(), api.PostQuery{Page: 2, Limit: 5, Search: "go"}))

	st := f.store.State().Post
	assert.Equal(t, api.Pagination{Total: 12, Page: 2, Limit: 5, TotalPages: 3}, st.PostsPagination)
	assert.True(t, st.PostsPagination.Consistent())
	assert.Len(t, st.Posts(), 2)
	assert.Equal(t, int64(6), st.Posts()[0].ID)
	assert.False(t, st.Loading())
}

func TestFetchPosts_DefaultsToConfiguredPageSize(t *testing.T) {
	f := newFixture(t, WithPageSize(25))
	f.api.listPostsFunc = func(_ context.Context, q api.PostQuery) (*api.PostPage, error) {
		assert.Equal(t, 1, q.Page)
		assert.Equal(t, 25, q.Limit)
		return pageOf(), nil
	}

	require.NoError(t, f.store.FetchPosts(context.Background(), api.PostQuery{}))
	assert.Empty(t, f.store.State().Post.Posts())
}

func TestFetchPosts_ErrorLeavesDataUntouched(t *testing.T) {
	f := newFixture(t)
	f.api.listPostsFunc = func(context.Context, api.PostQuery) (*api.PostPage, error) {
		return pageOf(samplePost(1, 0, 0)), nil
	}
	require.NoError(t, f.store.FetchPosts(context.Background(), api.PostQuery{}))

	f.api.listPostsFunc = func(context.Context, api.PostQuery) (*api.PostPage, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	require.Error(t, f.store.FetchPosts(context.Background(), api.PostQuery{Page: 2}))

	st := f.store.State().Post
	assert.Equal(t, "Failed to fetch posts", st.Error)
	require.Len(t, st.Posts(), 1)
	assert.Equal(t, 1, st.PostsPagination.Page)
}

func TestCreatePost_PrependsWithoutTouchingPagination(t *testing.T) {
	f := newFixture(t)
	f.authenticate("tok")
	f.api.listPostsFunc = func(context.Context, api.PostQuery) (*api.PostPage, error) {
		return pageOf(samplePost(1, 0, 0), samplePost(2, 0, 0)), nil
	}
	require.NoError(t, f.store.FetchPosts(context.Background(), api.PostQuery{}))
	before := f.store.State().Post.PostsPagination

	f.api.createPostFunc = func(ctx context.Context, in api.PostInput) (*api.Post, error) {
		assert.Equal(t, "tok", api.TokenFrom(ctx))
		p := samplePost(9, 0, 0)
		p.Title = in.Title
		return &p, nil
	}
	created, err := f.store.CreatePost(context.Background(), "Fresh", "body")
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)

	st := f.store.State().Post
	posts := st.Posts()
	require.Len(t, posts, 3)
	assert.Equal(t, int64(9), posts[0].ID)
	assert.Equal(t, "Fresh", posts[0].Title)
	assert.Equal(t, before, st.PostsPagination)
}

func TestUpdatePost_UpdatesBothViews(t *testing.T) {
	f := newFixture(t)
	openPost(t, f, samplePost(4, 1, 1))

	f.api.updatePostFunc = func(_ context.Context, id int64, in api.PostInput) (*api.Post, error) {
		p := samplePost(id, 1, 1)
		p.Title, p.Content = in.Title, in.Content
		return &p, nil
	}
	require.NoError(t, f.store.UpdatePost(context.Background(), 4, "New title", "New content"))

	st := f.store.State().Post
	cur, ok := st.CurrentPost()
	require.True(t, ok)
	assert.Equal(t, "New title", cur.Title)
	listed, ok := st.PostByID(4)
	require.True(t, ok)
	assert.Equal(t, "New title", listed.Title)
	assert.Equal(t, "New title", st.Posts()[0].Title)
}

func TestUpdatePost_Forbidden(t *testing.T) {
	f := newFixture(t)
	openPost(t, f, samplePost(4, 0, 0))
	f.api.updatePostFunc = func(context.Context, int64, api.PostInput) (*api.Post, error) {
		return nil, &api.Error{Kind: api.KindGeneral, Status: 403, Message: "You are not authorized to update this post"}
	}

	require.Error(t, f.store.UpdatePost(context.Background(), 4, "x", "y"))

	st := f.store.State().Post
	assert.Equal(t, "You are not authorized to update this post", st.Error)
	cur, _ := st.CurrentPost()
	assert.Equal(t, "Post title", cur.Title)
}

func TestDeletePost_ClearsCurrent(t *testing.T) {
	f := newFixture(t)
	openPost(t, f, samplePost(4, 0, 0))
	f.api.deletePostFunc = func(_ context.Context, id int64) error {
		assert.Equal(t, int64(4), id)
		return nil
	}

	require.NoError(t, f.store.DeletePost(context.Background(), 4))

	st := f.store.State().Post
	_, ok := st.CurrentPost()
	assert.False(t, ok)
	_, ok = st.PostByID(4)
	assert.False(t, ok)
	require.Len(t, st.Posts(), 1)
	assert.Equal(t, int64(5), st.Posts()[0].ID)
}

func TestAddComment_IncrementsOnceInBothViews(t *testing.T) {
	f := newFixture(t)
	openPost(t, f, samplePost(4, 0, 2))
	f.store.Dispatch(CommentsFetched{PostID: 4, Page: api.CommentPage{
		Data:       []api.Comment{{ID: 1, Content: "first"}},
		Pagination: api.NewPagination(1, 1, 10),
	}})

	f.api.addCommentFunc = func(_ context.Context, postID int64, content string) (*api.Comment, error) {
		return &api.Comment{ID: 2, Content: content}, nil
	}
	require.NoError(t, f.store.AddComment(context.Background(), 4, "hello"))

	st := f.store.State().Post
	cur, _ := st.CurrentPost()
	assert.Equal(t, 3, cur.CommentCount)
	listed, _ := st.PostByID(4)
	assert.Equal(t, 3, listed.CommentCount)
	assert.Equal(t, 3, st.Posts()[0].CommentCount)

	comments := st.CommentList()
	require.Len(t, comments, 2)
	assert.Equal(t, "hello", comments[0].Content)
	require.Len(t, cur.Comments, 1)
	assert.Equal(t, "hello", cur.Comments[0].Content)
}

func TestAddComment_OtherPostLeavesCommentList(t *testing.T) {
	f := newFixture(t)
	openPost(t, f, samplePost(4, 0, 0))
	f.store.Dispatch(CommentsFetched{PostID: 4, Page: api.CommentPage{Data: []api.Comment{{ID: 1}}}})

	f.api.addCommentFunc = func(context.Context, int64, string) (*api.Comment, error) {
		return &api.Comment{ID: 8, Content: "elsewhere"}, nil
	}
	require.NoError(t, f.store.AddComment(context.Background(), 5, "elsewhere"))

	st := f.store.State().Post
	assert.Len(t, st.CommentList(), 1)
	other, _ := st.PostByID(5)
	assert.Equal(t, 1, other.CommentCount)
}

func TestToggleLike_ReadsBackStatus(t *testing.T) {
	f := newFixture(t)
	openPost(t, f, samplePost(4, 3, 0))

	var order []string
	f.api.toggleLikeFunc = func(context.Context, int64) error {
		order = append(order, "toggle")
		return nil
	}
	f.api.checkLikeFunc = func(context.Context, int64) (bool, error) {
		order = append(order, "check")
		return true, nil
	}

	require.NoError(t, f.store.ToggleLike(context.Background(), 4))
	assert.Equal(t, []string{"toggle", "check"}, order)

	st := f.store.State().Post
	cur, _ := st.CurrentPost()
	assert.True(t, cur.IsLiked)
	assert.Equal(t, 4, cur.LikesCount)
	listed := st.Posts()[0]
	assert.True(t, listed.IsLiked)
	assert.Equal(t, 4, listed.LikesCount)
}

func TestToggleLike_Unlike(t *testing.T) {
	f := newFixture(t)
	p := samplePost(4, 3, 0)
	p.IsLiked = true
	openPost(t, f, p)
	f.api.toggleLikeFunc = func(context.Context, int64) error { return nil }
	f.api.checkLikeFunc = func(context.Context, int64) (bool, error) { return false, nil }

	require.NoError(t, f.store.ToggleLike(context.Background(), 4))

	cur, _ := f.store.State().Post.CurrentPost()
	assert.False(t, cur.IsLiked)
	assert.Equal(t, 2, cur.LikesCount)
}

func TestCheckLikeStatus_DoesNotTouchCounts(t *testing.T) {
	f := newFixture(t)
	openPost(t, f, samplePost(4, 3, 0))
	f.api.checkLikeFunc = func(context.Context, int64) (bool, error) { return true, nil }

	require.NoError(t, f.store.CheckLikeStatus(context.Background(), 4))

	cur, _ := f.store.State().Post.CurrentPost()
	assert.True(t, cur.IsLiked)
	assert.Equal(t, 3, cur.LikesCount)
}

func TestSetters(t *testing.T) {
	f := newFixture(t)
	calls := 0
	f.api.listPostsFunc = func(context.Context, api.PostQuery) (*api.PostPage, error) {
		calls++
		return pageOf(), nil
	}

	f.store.SetPage(3)
	f.store.SetSearchQuery("golang")

	st := f.store.State().Post
	assert.Equal(t, 3, st.PostsPagination.Page)
	assert.Equal(t, "golang", st.SearchQuery)
	assert.Equal(t, 0, calls)
}

func TestResetCurrentPost(t *testing.T) {
	f := newFixture(t)
	openPost(t, f, samplePost(4, 0, 0))

	f.store.ResetCurrentPost()

	st := f.store.State().Post
	_, ok := st.CurrentPost()
	assert.False(t, ok)
	_, ok = st.PostByID(4)
	assert.True(t, ok, "Expected post to remain in the list")
}

func TestFetchPosts_KeepsOpenPostOffPage(t *testing.T) {
	f := newFixture(t)
	openPost(t, f, samplePost(4, 0, 0))

	f.api.listPostsFunc = func(context.Context, api.PostQuery) (*api.PostPage, error) {
		return pageOf(samplePost(20, 0, 0)), nil
	}
	require.NoError(t, f.store.FetchPosts(context.Background(), api.PostQuery{Page: 2}))

	st := f.store.State().Post
	cur, ok := st.CurrentPost()
	require.True(t, ok)
	assert.Equal(t, int64(4), cur.ID)
	require.Len(t, st.Posts(), 1)
	assert.Equal(t, int64(20), st.Posts()[0].ID)
}

// racePages issues FetchPosts for page 1 then page 2 and resolves page 2 first
func racePages(t *testing.T, f *fixture) {
	t.Helper()
	type call struct {
		started chan struct{}
		release chan struct{}
	}
	calls := map[int]*call{
		1: {make(chan struct{}), make(chan struct{})},
		2: {make(chan struct{}), make(chan struct{})},
	}
	f.api.listPostsFunc = func(_ context.Context, q api.PostQuery) (*api.PostPage, error) {
		c := calls[q.Page]
		close(c.started)
		<-c.release
		return &api.PostPage{
			Data:       []api.Post{samplePost(int64(q.Page*100), 0, 0)},
			Pagination: api.NewPagination(20, q.Page, 10),
		}, nil
	}

	var wg1, wg2 sync.WaitGroup
	wg1.Add(1)
	go func() {
		defer wg1.Done()
		_ = f.store.FetchPosts(context.Background(), api.PostQuery{Page: 1, Limit: 10})
	}()
	<-calls[1].started

	wg2.Add(1)
	go func() {
		defer wg2.Done()
		_ = f.store.FetchPosts(context.Background(), api.PostQuery{Page: 2, Limit: 10})
	}()
	<-calls[2].started

	close(calls[2].release)
	wg2.Wait()
	close(calls[1].release)
	wg1.Wait()
}

func TestFetchPosts_OutOfOrderLastResolvedWins(t *testing.T) {
	f := newFixture(t)
	racePages(t, f)

	st := f.store.State().Post
	assert.Equal(t, 1, st.PostsPagination.Page)
	assert.Equal(t, int64(100), st.Posts()[0].ID)
	assert.False(t, st.Loading())
}

func TestFetchPosts_OutOfOrderWithGuard(t *testing.T) {
	f := newFixture(t, WithStaleResponseGuard())
	racePages(t, f)

	st := f.store.State().Post
	assert.Equal(t, 2, st.PostsPagination.Page)
	assert.Equal(t, int64(200), st.Posts()[0].ID)
	assert.False(t, st.Loading())
}

func TestStaleGuardDropsSupersededError(t *testing.T) {
	s := initialPostState()
	s = reducePost(s, PostPending{Op: OpFetchPost, Seq: 1}, true)
	s = reducePost(s, PostPending{Op: OpFetchPost, Seq: 2}, true)
	s = reducePost(s, PostFetched{Seq: 2, Post: samplePost(2, 0, 0)}, true)
	s = reducePost(s, PostRejected{Op: OpFetchPost, Seq: 1, Message: "Failed to fetch post"}, true)

	assert.Empty(t, s.Error)
	assert.Equal(t, int64(2), s.CurrentID)
	assert.Equal(t, 0, s.InFlight)
}

func TestReducersDoNotMutateSnapshots(t *testing.T) {
	f := newFixture(t)
	openPost(t, f, samplePost(4, 3, 0))
	before := f.store.State()

	f.store.Dispatch(LikeToggled{PostID: 4, IsLiked: true})
	f.store.Dispatch(CommentAdded{PostID: 4, Comment: api.Comment{ID: 1}})

	old, _ := before.Post.PostByID(4)
	assert.Equal(t, 3, old.LikesCount)
	assert.Equal(t, 0, old.CommentCount)
}
