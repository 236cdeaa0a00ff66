package webhook

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/0yeonnnn0/kimitter-sub000/internal/bots"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
)

// Handler는 인바운드 댓글 이벤트에 대한 반응형 답글 파이프라인입니다.
// HTTP 응답은 이미 전송된 뒤이므로 어떤 실패도 전파하지 않습니다.
type Handler struct {
	Registry *Registry
	Brain    ports.Brain
	Store    ports.Storage

	now func() time.Time
}

func NewHandler(registry *Registry, brain ports.Brain, store ports.Storage) *Handler {
	return &Handler{
		Registry: registry,
		Brain:    brain,
		Store:    store,
		now:      time.Now,
	}
}

// HandleCommentEvent resolves the event to a bot identity, generates a
// contextual reply and posts it. Every failure is logged and swallowed.
func (h *Handler) HandleCommentEvent(ctx context.Context, ev domain.WebhookEvent) {
	logger := log.With().
		Str("post_id", ev.PostID).
		Str("comment_id", ev.CommentID).
		Str("author", ev.CommentAuthor.Username).
		Logger()

	// Loop prevention: never answer another bot.
	if ev.CommentAuthor.Role == domain.RoleBot {
		logger.Info().Msg("comment authored by a bot, skipping reply")
		return
	}

	botType, client, ok := h.Registry.Resolve(ev.PostAuthorUsername)
	if !ok {
		logger.Warn().Str("post_author", ev.PostAuthorUsername).Msg("post not owned by a known bot, skipping reply")
		return
	}

	// Best-effort context: thread and post body. Either failing leaves
	// the reply running on whatever context is available.
	thread, err := client.GetComments(ctx, ev.PostID)
	if err != nil {
		logger.Warn().Err(err).Msg("thread fetch failed, continuing with empty thread")
		thread = nil
	}
	postContent := h.lookupPostContent(ctx, client, ev.PostID)

	reply, err := h.Brain.GenerateReply(ctx, botType, postContent, thread, ev.CommentContent)
	if err != nil || reply == "" {
		logger.Warn().Err(err).Msg("reply generation produced no content")
		return
	}

	if ev.ParentCommentID != nil {
		err = client.ReplyToComment(ctx, ev.CommentID, reply)
	} else {
		err = client.CreateComment(ctx, ev.PostID, reply)
	}
	if err != nil {
		logger.Error().Err(err).Msg("reply posting failed")
		return
	}

	logger.Info().Str("bot", string(botType)).Msg("replied")
	if h.Store != nil {
		if err := h.Store.IncrementCommentCount(client.Username(), bots.KSTDateString(h.now())); err != nil {
			logger.Warn().Err(err).Msg("activity log update failed")
		}
	}
}

// lookupPostContent recovers the post body from the bot's own recent
// posts. The backend exposes no single-post endpoint, so a post that
// has already rotated out of the first page is summarized by its
// thread alone.
func (h *Handler) lookupPostContent(ctx context.Context, client ports.Platform, postID string) string {
	posts, err := client.GetMyPosts(ctx, 0, 0)
	if err != nil {
		log.Warn().Err(err).Str("post_id", postID).Msg("post lookup failed, continuing without post body")
		return ""
	}
	for _, p := range posts {
		if p.ID == postID {
			return p.Content
		}
	}
	return ""
}
