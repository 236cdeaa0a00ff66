package bots

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
)

// recentPostWindow is how many of the bot's own latest posts the
// duplicate guard inspects.
const recentPostWindow = 5

// Bot은 콘텐츠 도메인 하나를 담당하는 게시 파이프라인입니다.
// Run은 어떤 실패도 호출자에게 전파하지 않습니다.
type Bot struct {
	Type     domain.BotType
	Client   ports.Platform
	Brain    ports.Brain
	Store    ports.Storage
	Notifier ports.Notifier

	fetch func(ctx context.Context) string
	tags  []string

	now func() time.Time
}

// Run executes the fixed pipeline: fetch → generate → dedup guard →
// post. Every failure (including panics) is logged and swallowed at
// this boundary so one bot's bad day never reaches the scheduler.
func (b *Bot) Run(ctx context.Context) {
	logger := log.With().Str("bot", string(b.Type)).Logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("bot pipeline panicked")
		}
	}()

	raw := b.fetch(ctx)
	if raw == "" {
		logger.Info().Msg("no data to post, skipping run")
		return
	}

	content, err := b.Brain.GeneratePost(ctx, b.Type, raw)
	if err != nil || content == "" {
		logger.Warn().Err(err).Msg("generation produced no content, skipping run")
		return
	}

	posted, err := b.hasPostedToday(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("recent post check failed, skipping run")
		return
	}
	if posted {
		logger.Info().Msg("already posted today, skipping run")
		return
	}

	post, err := b.Client.CreatePost(ctx, content, b.tags)
	if err != nil {
		logger.Error().Err(err).Msg("post creation failed")
		b.notify(ctx, "게시 실패", string(b.Type)+" 봇의 게시글 등록이 실패했습니다: "+err.Error())
		return
	}

	logger.Info().Str("post_id", post.ID).Msg("posted")
	if b.Store != nil {
		if err := b.Store.IncrementPostCount(b.Client.Username(), KSTDateString(b.now())); err != nil {
			logger.Warn().Err(err).Msg("activity log update failed")
		}
	}
	b.notify(ctx, "새 게시글", content)
}

// hasPostedToday fetches the bot's latest posts and compares KST
// calendar dates against "now". A post from the prior KST day returns
// false even if it is less than 24 hours old.
func (b *Bot) hasPostedToday(ctx context.Context) (bool, error) {
	posts, err := b.Client.GetMyPosts(ctx, 1, recentPostWindow)
	if err != nil {
		return false, err
	}

	ny, nm, nd := KSTDate(b.now())
	for _, p := range posts {
		py, pm, pd := KSTDate(p.CreatedAt)
		if py == ny && pm == nm && pd == nd {
			return true, nil
		}
	}
	return false, nil
}

func (b *Bot) notify(ctx context.Context, title, body string) {
	if b.Notifier == nil {
		return
	}
	if err := b.Notifier.Notify(ctx, title, body); err != nil {
		log.Warn().Err(err).Str("bot", string(b.Type)).Msg("operator notification failed")
	}
}
