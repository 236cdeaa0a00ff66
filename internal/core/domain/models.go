package domain

import "time"

// BotType은 콘텐츠 도메인별 봇 계정의 종류입니다.
type BotType string

const (
	BotTypeStock     BotType = "stock"
	BotTypePolitical BotType = "political"
	BotTypeGeneral   BotType = "general"
)

// RoleBot is the author role the backend assigns to bot accounts.
// Inbound events authored by this role never receive a generated reply.
const RoleBot = "bot"

// Post represents a post on the Kimitter backend.
type Post struct {
	ID             string
	Content        string
	AuthorUsername string
	Tags           []string
	CreatedAt      time.Time
}

// Comment represents a comment (or nested reply) on a post.
type Comment struct {
	ID             string
	PostID         string
	Content        string
	AuthorUsername string
	AuthorNickname string
	AuthorRole     string
	CreatedAt      time.Time
}

// CommentAuthor identifies who wrote an inbound webhook comment.
type CommentAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// WebhookEvent는 백엔드가 댓글 생성 시 전달하는 인바운드 이벤트입니다.
// 이 서브시스템에서는 절대 영속화되지 않습니다.
type WebhookEvent struct {
	PostID             string        `json:"postId"`
	CommentID          string        `json:"commentId"`
	CommentContent     string        `json:"commentContent"`
	CommentAuthor      CommentAuthor `json:"commentAuthor"`
	PostAuthorUsername string        `json:"postAuthorUsername"`
	ParentCommentID    *string       `json:"parentCommentId"`
}

// StockQuote is a single ticker's current price snapshot.
type StockQuote struct {
	Ticker       string
	Name         string
	CurrentPrice float64
	ChangeRate   float64
	ChangeAmount float64
	Volume       int64
}

// TrendingStock is one entry of the volume ranking. Rank is 1-based.
type TrendingStock struct {
	Rank         int
	Ticker       string
	Name         string
	CurrentPrice float64
	ChangeRate   float64
	Volume       int64
}

// NewsItem is a single search result with markup already stripped.
type NewsItem struct {
	Title       string
	Description string
	Link        string
	PublishedAt time.Time
}
