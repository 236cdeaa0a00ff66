package platform

import "time"

// LoginRequest 로그인 요청
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse 로그인 응답
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshRequest 토큰 갱신 요청
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse 토큰 갱신 응답
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// ApiPost represents a post as returned by the Kimitter backend.
type ApiPost struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	AuthorUsername string    `json:"authorUsername"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ApiComment represents a comment as returned by the Kimitter backend.
type ApiComment struct {
	ID      string `json:"id"`
	PostID  string `json:"postId"`
	Content string `json:"content"`
	Author  struct {
		Username string `json:"username"`
		Nickname string `json:"nickname"`
		Role     string `json:"role"`
	} `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrorResponse 백엔드 공통 에러 응답
type ErrorResponse struct {
	Message string `json:"message"`
}
