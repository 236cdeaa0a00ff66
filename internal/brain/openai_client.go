package brain

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
)

const (
	generationTemperature = 0.7
	postMaxTokens         = 1500
	replyMaxTokens        = 500
)

// OpenAIBrain은 챗 컴플리션 API 기반의 무상태 콘텐츠 생성기입니다.
// 레이트 리밋 계열 오류에서는 폴백 모델로 한 번 더 시도합니다.
type OpenAIBrain struct {
	Client        *openai.Client
	Model         string
	FallbackModel string
}

func NewOpenAIBrain(apiKey, model, fallbackModel string) (*OpenAIBrain, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIBrain{
		Client:        openai.NewClient(apiKey),
		Model:         model,
		FallbackModel: fallbackModel,
	}, nil
}

// NewOpenAIBrainWithConfig builds a brain against a custom API base
// URL. Used by tests to point at a fake completions server.
func NewOpenAIBrainWithConfig(cfg openai.ClientConfig, model, fallbackModel string) *OpenAIBrain {
	return &OpenAIBrain{
		Client:        openai.NewClientWithConfig(cfg),
		Model:         model,
		FallbackModel: fallbackModel,
	}
}

// Ensure implementation
var _ ports.Brain = (*OpenAIBrain)(nil)

// GeneratePost produces a post body for the bot type from the raw data
// blob collected by its pipeline.
func (b *OpenAIBrain) GeneratePost(ctx context.Context, botType domain.BotType, rawData string) (string, error) {
	return b.complete(ctx, postPromptFor(botType), rawData, postMaxTokens)
}

// GenerateReply produces a contextual answer to a user comment on one
// of the bot's own posts. The thread is rendered one comment per line
// as "[role] nickname: content".
func (b *OpenAIBrain) GenerateReply(ctx context.Context, botType domain.BotType, postContent string, thread []domain.Comment, userComment string) (string, error) {
	var sb strings.Builder
	sb.WriteString("[게시글]\n")
	sb.WriteString(postContent)
	sb.WriteString("\n\n[댓글 목록]\n")
	sb.WriteString(RenderThread(thread))
	sb.WriteString("\n\n[새 댓글]\n")
	sb.WriteString(userComment)

	return b.complete(ctx, replyPromptFor(botType), sb.String(), replyMaxTokens)
}

// RenderThread formats a comment thread for the prompt.
func RenderThread(thread []domain.Comment) string {
	lines := make([]string, 0, len(thread))
	for _, c := range thread {
		nickname := c.AuthorNickname
		if nickname == "" {
			nickname = c.AuthorUsername
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", c.AuthorRole, nickname, c.Content))
	}
	return strings.Join(lines, "\n")
}

func (b *OpenAIBrain) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	text, err := b.completeWith(ctx, b.Model, system, user, maxTokens)
	if err != nil && b.FallbackModel != "" && isRateLimitish(err) {
		log.Warn().Err(err).Str("model", b.Model).Str("fallback", b.FallbackModel).Msg("retrying with fallback model")
		text, err = b.completeWith(ctx, b.FallbackModel, system, user, maxTokens)
	}
	if err != nil {
		log.Error().Err(err).Msg("generation failed")
		return "", err
	}
	return text, nil
}

func (b *OpenAIBrain) completeWith(ctx context.Context, model, system, user string, maxTokens int) (string, error) {
	resp, err := b.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: generationTemperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("model returned no content")
	}

	log.Info().
		Str("model", model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("content generated")

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func isRateLimitish(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "overloaded")
}
