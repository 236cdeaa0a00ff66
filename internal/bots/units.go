package bots

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
)

// Fixed tag sets per content domain.
var (
	stockTags     = []string{"주식", "경제"}
	politicalTags = []string{"뉴스", "정치"}
	generalTags   = []string{"뉴스", "일상"}
)

// NewStockBot builds the trading-volume briefing bot.
func NewStockBot(client ports.Platform, brain ports.Brain, store ports.Storage, notifier ports.Notifier, market ports.MarketData) *Bot {
	return &Bot{
		Type:     domain.BotTypeStock,
		Client:   client,
		Brain:    brain,
		Store:    store,
		Notifier: notifier,
		tags:     stockTags,
		now:      time.Now,
		fetch: func(ctx context.Context) string {
			return summarizeTrending(market.GetTrendingStocks(ctx, 10))
		},
	}
}

// NewPoliticalNewsBot builds the political headline briefing bot.
func NewPoliticalNewsBot(client ports.Platform, brain ports.Brain, store ports.Storage, notifier ports.Notifier, news ports.News) *Bot {
	return &Bot{
		Type:     domain.BotTypePolitical,
		Client:   client,
		Brain:    brain,
		Store:    store,
		Notifier: notifier,
		tags:     politicalTags,
		now:      time.Now,
		fetch: func(ctx context.Context) string {
			return summarizeNews("최근 24시간 정치 뉴스", news.GetPoliticalNews(ctx))
		},
	}
}

// NewGeneralNewsBot builds the everyday-news bot.
func NewGeneralNewsBot(client ports.Platform, brain ports.Brain, store ports.Storage, notifier ports.Notifier, news ports.News) *Bot {
	return &Bot{
		Type:     domain.BotTypeGeneral,
		Client:   client,
		Brain:    brain,
		Store:    store,
		Notifier: notifier,
		tags:     generalTags,
		now:      time.Now,
		fetch: func(ctx context.Context) string {
			return summarizeNews("오늘의 주요 뉴스", news.GetGeneralNews(ctx))
		},
	}
}

// summarizeTrending renders the volume ranking as the generation
// prompt's raw data blob. Empty ranking yields "".
func summarizeTrending(stocks []domain.TrendingStock) string {
	if len(stocks) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("오늘의 거래량 상위 종목\n")
	for _, s := range stocks {
		sb.WriteString(fmt.Sprintf("%d. %s(%s) 현재가 %.0f원, 등락률 %+.2f%%, 거래량 %d\n",
			s.Rank, s.Name, s.Ticker, s.CurrentPrice, s.ChangeRate, s.Volume))
	}
	return sb.String()
}

func summarizeNews(header string, items []domain.NewsItem) string {
	if len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	for _, it := range items {
		sb.WriteString("- ")
		sb.WriteString(it.Title)
		if it.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(it.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
