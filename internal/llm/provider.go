package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
)

// Message is one entry of the conversation sent to a provider
type Message struct {
	Role    string
	Content domain.Content
}

// Request contains chat completion parameters
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	TopP        float64
}

// Response contains the completion result
type Response struct {
	Content    string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// DefaultModel returns the model used when a request names none
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete returns the assistant reply for the conversation
	Complete(ctx context.Context, req Request) (*Response, error)
}

// ProviderConfig carries the settings shared by every provider
type ProviderConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
	// HTTPClient overrides the client built from Timeout, e.g. for tracing
	HTTPClient *http.Client
}

// Client returns the configured HTTP client or a new one bounded by Timeout
func (c ProviderConfig) Client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// ProviderFactory creates a new provider instance
type ProviderFactory func(cfg ProviderConfig) (Provider, error)

// FromTurns converts request turns into provider messages, system prompt first
func FromTurns(system string, turns []domain.Turn) []Message {
	msgs := make([]Message, 0, len(turns)+1)
	msgs = append(msgs, Message{Role: string(domain.RoleSystem), Content: domain.TextContent(system)})
	for _, t := range turns {
		msgs = append(msgs, Message{Role: string(t.Role), Content: t.Content})
	}
	return msgs
}
