package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
)

func newLoginHandler(access, refresh string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(LoginResponse{AccessToken: access, RefreshToken: refresh})
	}
}

func TestLoginStoresTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "stock_bot", req.Username)
		assert.Equal(t, "pw", req.Password)
		json.NewEncoder(w).Encode(LoginResponse{AccessToken: "acc-1", RefreshToken: "ref-1"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "stock_bot", "pw")
	require.NoError(t, c.Login(context.Background()))
	assert.Equal(t, "acc-1", c.token())
}

func TestLoginFailsWithAuthError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "bad credentials"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "stock_bot", "wrong")
	err := c.Login(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsAuthError(err))
}

func TestRequestRequiresLogin(t *testing.T) {
	c := NewClient("http://unused", "stock_bot", "pw")
	_, err := c.GetMyPosts(context.Background(), 0, 0)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestRequestRefreshesOnceOn401(t *testing.T) {
	refreshCalls := 0
	var postTokens []string

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", newLoginHandler("stale", "ref-1"))
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		var req RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ref-1", req.RefreshToken)
		json.NewEncoder(w).Encode(RefreshResponse{AccessToken: "fresh"})
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		postTokens = append(postTokens, token)
		if token != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string][]ApiPost{"posts": {}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "stock_bot", "pw")
	require.NoError(t, c.Login(context.Background()))

	_, err := c.GetMyPosts(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, []string{"Bearer stale", "Bearer fresh"}, postTokens)
}

func TestSecondUnauthorizedPropagates(t *testing.T) {
	refreshCalls := 0
	postCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", newLoginHandler("stale", "ref-1"))
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		json.NewEncoder(w).Encode(RefreshResponse{AccessToken: "still-stale"})
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		postCalls++
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "stock_bot", "pw")
	require.NoError(t, c.Login(context.Background()))

	_, err := c.GetMyPosts(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Equal(t, 1, refreshCalls, "a second 401 must not trigger another refresh")
	assert.Equal(t, 2, postCalls, "the original request is retried exactly once")
}

func TestRefreshWithoutTokenFails(t *testing.T) {
	c := NewClient("http://unused", "stock_bot", "pw")
	err := c.refreshAccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsAuthError(err))
}

func TestCreatePostSendsMultipartForm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", newLoginHandler("acc", "ref"))
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "오늘의 시장 요약", r.FormValue("content"))

		var tags []string
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("tags")), &tags))
		assert.Equal(t, []string{"주식", "경제"}, tags)

		json.NewEncoder(w).Encode(ApiPost{ID: "post-1", Content: r.FormValue("content"), AuthorUsername: "stock_bot"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "stock_bot", "pw")
	require.NoError(t, c.Login(context.Background()))

	post, err := c.CreatePost(context.Background(), "오늘의 시장 요약", []string{"주식", "경제"})
	require.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
}

func TestGetMyPostsDefaultPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", newLoginHandler("acc", "ref"))
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string][]ApiPost{"posts": {{ID: "p1"}}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "stock_bot", "pw")
	require.NoError(t, c.Login(context.Background()))

	posts, err := c.GetMyPosts(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
}

func TestGetCommentsMapsAuthors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", newLoginHandler("acc", "ref"))
	mux.HandleFunc("/comments/post/post-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"comments":[{"id":"c1","postId":"post-1","content":"좋은 글이네요","author":{"username":"human1","nickname":"사람일","role":"user"}}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "stock_bot", "pw")
	require.NoError(t, c.Login(context.Background()))

	comments, err := c.GetComments(context.Background(), "post-1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "사람일", comments[0].AuthorNickname)
	assert.Equal(t, "user", comments[0].AuthorRole)
}
