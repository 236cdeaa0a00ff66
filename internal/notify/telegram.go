package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
)

// TelegramNotifier는 운영자 채팅으로 봇 활동과 실패를 단방향 보고합니다.
type TelegramNotifier struct {
	Bot    *tgbotapi.BotAPI
	ChatID int64
}

func NewTelegramNotifier(token string, chatIDStr string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id: %v", err)
	}

	return &TelegramNotifier{Bot: bot, ChatID: chatID}, nil
}

var _ ports.Notifier = (*TelegramNotifier)(nil)

func (n *TelegramNotifier) Notify(ctx context.Context, title, body string) error {
	msgText := fmt.Sprintf("*[%s]*\n\n%s", escapeMarkdown(title), escapeMarkdown(body))
	msg := tgbotapi.NewMessage(n.ChatID, msgText)
	msg.ParseMode = "Markdown"

	_, err := n.Bot.Send(msg)
	return err
}

// escapeMarkdown은 텔레그램 마크다운 파싱 에러를 방지하기 위해 특수문자를 이스케이프합니다.
func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
