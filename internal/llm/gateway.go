package llm

import (
	"context"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/rs/zerolog/log"
)

// GatewayConfig holds the sampling settings sent with every completion
type GatewayConfig struct {
	Model       string
	Temperature float64
	TopP        float64
	Timeout     time.Duration
}

// Gateway sends completions to the primary provider and falls back to the
// secondary credential once when the primary is rate limited.
type Gateway struct {
	primary   Provider
	secondary Provider
	cfg       GatewayConfig
}

// NewGateway creates a new completion gateway. secondary may be nil.
func NewGateway(primary, secondary Provider, cfg GatewayConfig) *Gateway {
	return &Gateway{
		primary:   primary,
		secondary: secondary,
		cfg:       cfg,
	}
}

// Complete returns the assistant reply for messages
func (g *Gateway) Complete(ctx context.Context, messages []Message) (string, error) {
	req := Request{
		Model:       g.cfg.Model,
		Messages:    messages,
		Temperature: g.cfg.Temperature,
		TopP:        g.cfg.TopP,
	}

	resp, err := g.call(ctx, g.primary, req)
	if err != nil && IsRateLimited(err) && g.secondary != nil {
		log.Warn().
			Err(err).
			Str("provider", g.primary.Name()).
			Msg("Primary key rate limited, retrying with secondary key")
		resp, err = g.call(ctx, g.secondary, req)
	}
	if err != nil {
		return "", domain.WrapUpstream("Failed to get a reply from the assistant", err)
	}

	log.Debug().
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("Completion received")

	return resp.Content, nil
}

func (g *Gateway) call(ctx context.Context, p Provider, req Request) (*Response, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	return p.Complete(ctx, req)
}
