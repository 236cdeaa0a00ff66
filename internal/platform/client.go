package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
)

// DefaultPage and DefaultLimit are the backend's pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Client는 Kimitter 백엔드를 위한 세션 바운드 어댑터입니다.
// 봇 계정 하나의 자격 증명과 토큰 쌍을 수명 내내 단독으로 보유합니다.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	username string
	password string

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewClient(baseURL, username, password string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
		username:   username,
		password:   password,
	}
}

// Ensure Client implements Platform interface
var _ ports.Platform = (*Client)(nil)

func (c *Client) Username() string {
	return c.username
}

// Login exchanges the stored credentials for an access/refresh token pair.
func (c *Client) Login(ctx context.Context) error {
	reqBody, _ := json.Marshal(LoginRequest{Username: c.username, Password: c.password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/login", bytes.NewReader(reqBody))
	if err != nil {
		return domain.NewAuthError("login", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return domain.NewAuthError("login", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.NewAuthError("login", fmt.Errorf("status %d: %s", resp.StatusCode, readErrorMessage(resp.Body)))
	}

	var res LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return domain.NewAuthError("login", err)
	}

	c.mu.Lock()
	c.accessToken = res.AccessToken
	c.refreshToken = res.RefreshToken
	c.mu.Unlock()

	log.Info().Str("bot", c.username).Msg("logged in")
	return nil
}

// refreshAccessToken exchanges the stored refresh token for a new
// access token. The refresh token itself is kept.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	c.mu.Lock()
	refresh := c.refreshToken
	c.mu.Unlock()

	if refresh == "" {
		return domain.NewAuthError("refresh", errors.New("no refresh token held"))
	}

	reqBody, _ := json.Marshal(RefreshRequest{RefreshToken: refresh})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/refresh", bytes.NewReader(reqBody))
	if err != nil {
		return domain.NewAuthError("refresh", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return domain.NewAuthError("refresh", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.NewAuthError("refresh", fmt.Errorf("status %d: %s", resp.StatusCode, readErrorMessage(resp.Body)))
	}

	var res RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return domain.NewAuthError("refresh", err)
	}

	c.mu.Lock()
	c.accessToken = res.AccessToken
	c.mu.Unlock()

	log.Debug().Str("bot", c.username).Msg("access token refreshed")
	return nil
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// request sends one authenticated call. makeBody rebuilds the request
// body on demand so the call can be replayed after a token refresh.
// On a 401 it refreshes once and retries once; a second 401 (or any
// other failure) propagates to the caller.
func (c *Client) request(ctx context.Context, method, endpoint string, makeBody func() (io.Reader, string)) ([]byte, error) {
	if c.token() == "" {
		return nil, domain.ErrNotAuthenticated
	}

	send := func() (*http.Response, error) {
		var body io.Reader
		var contentType string
		if makeBody != nil {
			body, contentType = makeBody()
		}
		req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token())
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return c.HTTPClient.Do(req)
	}

	resp, err := send()
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if err := c.refreshAccessToken(ctx); err != nil {
			return nil, err
		}
		resp, err = send()
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		var errRes ErrorResponse
		json.Unmarshal(data, &errRes)
		return nil, fmt.Errorf("%s %s failed (%d): %s", method, endpoint, resp.StatusCode, errRes.Message)
	}
	return data, nil
}

func jsonBody(v any) func() (io.Reader, string) {
	return func() (io.Reader, string) {
		data, _ := json.Marshal(v)
		return bytes.NewReader(data), "application/json"
	}
}

// CreatePost publishes a new post as a multipart form: a text content
// field plus the tag list as a JSON-encoded array field.
func (c *Client) CreatePost(ctx context.Context, content string, tags []string) (*domain.Post, error) {
	makeBody := func() (io.Reader, string) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		w.WriteField("content", content)
		tagsJSON, _ := json.Marshal(tags)
		w.WriteField("tags", string(tagsJSON))
		w.Close()
		return &buf, w.FormDataContentType()
	}

	data, err := c.request(ctx, http.MethodPost, "/posts", makeBody)
	if err != nil {
		return nil, err
	}

	var p ApiPost
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &domain.Post{
		ID:             p.ID,
		Content:        p.Content,
		AuthorUsername: p.AuthorUsername,
		Tags:           p.Tags,
		CreatedAt:      p.CreatedAt,
	}, nil
}

func (c *Client) CreateComment(ctx context.Context, postID, content string) error {
	_, err := c.request(ctx, http.MethodPost, "/comments/post/"+postID, jsonBody(map[string]string{"content": content}))
	return err
}

func (c *Client) ReplyToComment(ctx context.Context, commentID, content string) error {
	_, err := c.request(ctx, http.MethodPost, "/comments/"+commentID+"/replies", jsonBody(map[string]string{"content": content}))
	return err
}

func (c *Client) GetComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	data, err := c.request(ctx, http.MethodGet, "/comments/post/"+postID, nil)
	if err != nil {
		return nil, err
	}

	var res struct {
		Comments []ApiComment `json:"comments"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}

	var comments []domain.Comment
	for _, ac := range res.Comments {
		comments = append(comments, domain.Comment{
			ID:             ac.ID,
			PostID:         ac.PostID,
			Content:        ac.Content,
			AuthorUsername: ac.Author.Username,
			AuthorNickname: ac.Author.Nickname,
			AuthorRole:     ac.Author.Role,
			CreatedAt:      ac.CreatedAt,
		})
	}
	return comments, nil
}

// GetMyPosts fetches the bot's own recent posts. Non-positive page or
// limit fall back to the backend defaults {page:1, limit:20}.
func (c *Client) GetMyPosts(ctx context.Context, page, limit int) ([]domain.Post, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	data, err := c.request(ctx, http.MethodGet, fmt.Sprintf("/posts?page=%d&limit=%d", page, limit), nil)
	if err != nil {
		return nil, err
	}

	var res struct {
		Posts []ApiPost `json:"posts"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}

	var posts []domain.Post
	for _, p := range res.Posts {
		posts = append(posts, domain.Post{
			ID:             p.ID,
			Content:        p.Content,
			AuthorUsername: p.AuthorUsername,
			Tags:           p.Tags,
			CreatedAt:      p.CreatedAt,
		})
	}
	return posts, nil
}

func readErrorMessage(r io.Reader) string {
	var errRes ErrorResponse
	json.NewDecoder(r).Decode(&errRes)
	return errRes.Message
}
