package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	apiErr, ok := AsError(err)
	require.True(t, ok, "expected *Error, got %T", err)
	assert.Equal(t, status, apiErr.Status)
}

func TestNew_TimeoutAppliesToCopyOfCallerClient(t *testing.T) {
	caller := &http.Client{}

	c, err := New("http://localhost:8080", WithTimeout(3*time.Second), WithHTTPClient(caller))
	require.NoError(t, err)
	if c.http.Timeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %v", c.http.Timeout)
	}
	if caller.Timeout != 0 {
		t.Errorf("Expected caller's client to be untouched, got timeout %v", caller.Timeout)
	}

	c, err = New("http://localhost:8080", WithHTTPClient(caller))
	require.NoError(t, err)
	assert.Same(t, caller, c.http)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)

	_, err = New("://nope")
	assert.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body.Email)

		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Login successful",
			"data":    map[string]string{"accessToken": "tok-1"},
		})
	})

	res, err := c.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.AccessToken)
	assert.Equal(t, "Login successful", res.Message)
}

func TestLogin_ErrorStatusIn200Body(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "error",
			"message": "Validation failed",
			"errors":  map[string]string{"email": "email is invalid"},
		})
	})

	_, err := c.Login(context.Background(), LoginRequest{Email: "x", Password: "y"})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, "Validation failed", apiErr.Message)
	assert.Equal(t, map[string]string{"email": "email is invalid"}, FieldErrors(err))
}

func TestLogin_UnauthorizedWithoutMessageUsesFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "y"})
	require.Error(t, err)
	assertStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Login failed", Message(err, "unused"))
}

func TestLogin_MissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "ok"})
	})

	_, err := c.Login(context.Background(), LoginRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTokenReceived))
	assert.Equal(t, "No token received", Message(err, "Login failed"))
}

func TestRegister_ErrorField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"error":      "Conflict",
			"message":    "Email already registered",
			"statusCode": 409,
		})
	})

	_, err := c.Register(context.Background(), RegisterRequest{Email: "a@b.c"})
	require.Error(t, err)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindGeneral, apiErr.Kind)
	assert.Equal(t, "Email already registered", apiErr.Message)
}

func TestListPosts_QueryAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "go", r.URL.Query().Get("search"))
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, PostPage{
			Data:       []Post{{ID: 6, Title: "six"}},
			Pagination: NewPagination(7, 2, 5),
		})
	})

	ctx := WithToken(context.Background(), "tok-9")
	page, err := c.ListPosts(ctx, PostQuery{Page: 2, Limit: 5, Search: "go"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(6), page.Data[0].ID)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.Consistent())
}

func TestListPosts_ViewerLikeState(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":1,"title":"a","likesCount":2,"isLikedByMe":true},
			{"id":2,"title":"b","likesCount":1,"isLiked":true},
			{"id":3,"title":"c","likesCount":0,"isLikedByMe":false,"isLiked":true},
			{"id":4,"title":"d","likesCount":0}
		],"pagination":{"total":4,"page":1,"limit":10,"totalPages":1}}`))
	})

	page, err := c.ListPosts(context.Background(), PostQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 4)

	want := []bool{true, true, false, false}
	for i, p := range page.Data {
		if p.IsLiked != want[i] {
			t.Errorf("Post %d: Expected IsLiked %v, got %v", p.ID, want[i], p.IsLiked)
		}
	}
	assert.Equal(t, "a", page.Data[0].Title)
	assert.Equal(t, 2, page.Data[0].LikesCount)
}

func TestPost_EncodesIsLikedByMe(t *testing.T) {
	data, err := json.Marshal(Post{ID: 1, IsLiked: true})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isLikedByMe":true`)

	var back Post
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.IsLiked)
}

func TestListPosts_Defaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"pagination": NewPagination(0, 1, 10)})
	})

	page, err := c.ListPosts(context.Background(), PostQuery{})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestDeletePost_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/posts/42", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.DeletePost(WithToken(context.Background(), "t"), 42))
}

func TestUpdatePost_Forbidden(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "You are not authorized to update this post"})
	})

	_, err := c.UpdatePost(context.Background(), 1, PostInput{Title: "t", Content: "c"})
	require.Error(t, err)
	assertStatus(t, err, http.StatusForbidden)
	assert.Equal(t, "You are not authorized to update this post", Message(err, "Failed to update post"))
}

func TestGetPost_ServerErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetPost(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, "request failed with status code 500", Message(err, "Failed to fetch post"))
}

func TestToggleAndCheckLike(t *testing.T) {
	liked := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/posts/3/likes":
			liked = !liked
			writeJSON(w, http.StatusOK, map[string]string{"message": "Like toggled"})
		case r.Method == http.MethodGet && r.URL.Path == "/posts/3/likes/check":
			writeJSON(w, http.StatusOK, LikeStatus{IsLiked: liked})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := WithToken(context.Background(), "t")
	require.NoError(t, c.ToggleLike(ctx, 3))
	isLiked, err := c.CheckLike(ctx, 3)
	require.NoError(t, err)
	assert.True(t, isLiked)
}

func TestGetProfile_NoTokenSkipsNetwork(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := c.GetProfile(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, 0, calls)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = c.ListComments(context.Background(), 1, 1, 10)
	require.Error(t, err)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.Equal(t, "Failed to fetch comments", Message(err, "Failed to fetch comments"))
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total, page, limit int
		want               Pagination
	}{
		{11, 2, 5, Pagination{Total: 11, Page: 2, Limit: 5, TotalPages: 3}},
		{10, 9, 5, Pagination{Total: 10, Page: 2, Limit: 5, TotalPages: 2}},
		{0, 1, 10, Pagination{Total: 0, Page: 1, Limit: 10, TotalPages: 0}},
		{3, 0, 0, Pagination{Total: 3, Page: 1, Limit: 1, TotalPages: 3}},
	}
	for _, tt := range tests {
		got := NewPagination(tt.total, tt.page, tt.limit)
		assert.Equal(t, tt.want, got)
		assert.True(t, got.Consistent(), "pagination %+v should be consistent", got)
	}

	assert.False(t, Pagination{Total: 11, Page: 1, Limit: 5, TotalPages: 2}.Consistent())
}

func TestPushMetrics(t *testing.T) {
	var (
		method, path string
		body         []byte
	)
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(gateway.Close)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeletePost(context.Background(), 1))

	err := PushMetrics(context.Background(), gateway.URL, "blogctl", "host-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/blogctl/instance/host-1", path)
	assert.Contains(t, string(body), "blogclient_api_request_duration_seconds")
}

func TestPushMetrics_GatewayError(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(gateway.Close)

	err := PushMetrics(context.Background(), gateway.URL, "blogctl", "")
	assert.Error(t, err)
}
