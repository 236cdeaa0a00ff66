package webhook

import (
	"context"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
	"github.com/0yeonnnn0/kimitter-sub000/internal/platform"
)

// Credentials is one webhook-eligible bot identity's login pair.
type Credentials struct {
	Username string
	Password string
}

// Registry는 인바운드 이벤트를 봇 정체성으로 해석하는 읽기 전용 맵입니다.
// 시작 시 한 번 구성된 뒤에는 핸들러가 읽기만 합니다.
type Registry struct {
	typeByUsername map[string]domain.BotType
	clientByType   map[domain.BotType]ports.Platform
}

func NewRegistry() *Registry {
	return &Registry{
		typeByUsername: make(map[string]domain.BotType),
		clientByType:   make(map[domain.BotType]ports.Platform),
	}
}

// Add registers a bot identity. Only valid during startup, before the
// registry is handed to the webhook handler.
func (r *Registry) Add(botType domain.BotType, client ports.Platform) {
	r.typeByUsername[client.Username()] = botType
	r.clientByType[botType] = client
}

// Resolve maps a post author's username to its bot type and client.
func (r *Registry) Resolve(username string) (domain.BotType, ports.Platform, bool) {
	botType, ok := r.typeByUsername[username]
	if !ok {
		return "", nil, false
	}
	client, ok := r.clientByType[botType]
	return botType, client, ok
}

// Clients returns the registered clients keyed by bot type.
func (r *Registry) Clients() map[domain.BotType]ports.Platform {
	out := make(map[domain.BotType]ports.Platform, len(r.clientByType))
	for t, c := range r.clientByType {
		out[t] = c
	}
	return out
}

// InitializeBotClients constructs and logs in one session-bound client
// per webhook-eligible bot identity, building the registry the reply
// handler resolves events against. Any login failure aborts startup.
func InitializeBotClients(ctx context.Context, baseURL string, creds map[domain.BotType]Credentials) (*Registry, error) {
	reg := NewRegistry()
	for botType, c := range creds {
		client := platform.NewClient(baseURL, c.Username, c.Password)
		if err := client.Login(ctx); err != nil {
			return nil, err
		}
		reg.Add(botType, client)
	}
	return reg, nil
}
