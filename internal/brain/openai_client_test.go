package brain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionJSON(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46},
	}
}

func newTestBrain(t *testing.T, handler http.HandlerFunc, model, fallback string) *OpenAIBrain {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewOpenAIBrainWithConfig(cfg, model, fallback)
}

func TestGeneratePostRequestShape(t *testing.T) {
	var req capturedRequest
	b := newTestBrain(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(completionJSON("생성된 게시글"))
	}, "model-a", "")

	text, err := b.GeneratePost(context.Background(), domain.BotTypeStock, "오늘의 거래량 상위 종목\n1. 삼성전자")
	require.NoError(t, err)
	assert.Equal(t, "생성된 게시글", text)

	assert.Equal(t, "model-a", req.Model)
	assert.InDelta(t, 0.7, req.Temperature, 0.001)
	assert.Equal(t, 1500, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "주식")
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Contains(t, req.Messages[1].Content, "삼성전자")
}

func TestGenerateReplyUsesReplyBudget(t *testing.T) {
	var req capturedRequest
	b := newTestBrain(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(completionJSON("답글입니다"))
	}, "model-a", "")

	thread := []domain.Comment{
		{AuthorRole: "user", AuthorNickname: "사람일", Content: "어떻게 보세요?"},
		{AuthorRole: "bot", AuthorNickname: "주식이", Content: "참고만 해주세요."},
	}
	_, err := b.GenerateReply(context.Background(), domain.BotTypeStock, "게시글 본문", thread, "추가 질문입니다")
	require.NoError(t, err)

	assert.Equal(t, 500, req.MaxTokens)
	assert.Contains(t, req.Messages[1].Content, "[user] 사람일: 어떻게 보세요?")
	assert.Contains(t, req.Messages[1].Content, "게시글 본문")
	assert.Contains(t, req.Messages[1].Content, "추가 질문입니다")
}

func TestFallbackModelOnRateLimit(t *testing.T) {
	var models []string
	b := newTestBrain(t, func(w http.ResponseWriter, r *http.Request) {
		var req capturedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		models = append(models, req.Model)
		if req.Model == "model-a" {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "rate limit exceeded", "type": "requests"}})
			return
		}
		json.NewEncoder(w).Encode(completionJSON("폴백 결과"))
	}, "model-a", "model-b")

	text, err := b.GeneratePost(context.Background(), domain.BotTypeGeneral, "데이터")
	require.NoError(t, err)
	assert.Equal(t, "폴백 결과", text)
	assert.Equal(t, []string{"model-a", "model-b"}, models)
}

func TestEmptyCompletionIsAnError(t *testing.T) {
	b := newTestBrain(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionJSON(""))
	}, "model-a", "")

	_, err := b.GeneratePost(context.Background(), domain.BotTypeStock, "데이터")
	assert.Error(t, err)
}

func TestRenderThreadFallsBackToUsername(t *testing.T) {
	out := RenderThread([]domain.Comment{
		{AuthorRole: "user", AuthorUsername: "human1", Content: "질문"},
	})
	assert.Equal(t, "[user] human1: 질문", out)
}

func TestUnknownBotTypeUsesGeneralPrompt(t *testing.T) {
	assert.Equal(t, postPrompts[domain.BotTypeGeneral], postPromptFor(domain.BotType("unknown")))
	assert.Equal(t, replyPrompts[domain.BotTypeGeneral], replyPromptFor(domain.BotType("unknown")))
}
