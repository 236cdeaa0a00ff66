package ports

import (
	"context"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
)

// Platform is one bot identity's session-bound view of the Kimitter
// backend. Each implementation holds exactly one identity's credentials
// and tokens for its lifetime.
type Platform interface {
	Username() string
	Login(ctx context.Context) error
	CreatePost(ctx context.Context, content string, tags []string) (*domain.Post, error)
	CreateComment(ctx context.Context, postID, content string) error
	ReplyToComment(ctx context.Context, commentID, content string) error
	GetComments(ctx context.Context, postID string) ([]domain.Comment, error)
	GetMyPosts(ctx context.Context, page, limit int) ([]domain.Post, error)
}

// Brain generates post bodies and comment replies for a bot type.
type Brain interface {
	GeneratePost(ctx context.Context, botType domain.BotType, rawData string) (string, error)
	GenerateReply(ctx context.Context, botType domain.BotType, postContent string, thread []domain.Comment, userComment string) (string, error)
}

// MarketData serves price and ranking queries. Failures are logged
// inside the gateway; callers only ever see a nil quote or an empty
// ranking, never an error.
type MarketData interface {
	GetStockPrice(ctx context.Context, ticker string) *domain.StockQuote
	GetTrendingStocks(ctx context.Context, count int) []domain.TrendingStock
}

// News serves filtered news headlines. Same contract as MarketData:
// failures collapse to an empty slice.
type News interface {
	GetPoliticalNews(ctx context.Context) []domain.NewsItem
	GetGeneralNews(ctx context.Context) []domain.NewsItem
}

// Storage is the bot activity log: daily post/comment counters per bot.
type Storage interface {
	GetPostStats(bot string) (count int, lastDate string, err error)
	IncrementPostCount(bot string, date string) error
	GetCommentStats(bot string) (count int, lastDate string, err error)
	IncrementCommentCount(bot string, date string) error
}

// Notifier pushes operator notifications. Implementations must be safe
// to skip entirely (a nil Notifier is tolerated everywhere).
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}
