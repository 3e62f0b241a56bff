package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/llm"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

const defaultModel = "gemini-2.5-flash"

type Provider struct {
	apiKey   string
	model    string
	endpoint string
}

func NewProvider(cfg llm.ProviderConfig) (llm.Provider, error) {
	return &Provider{
		apiKey:   cfg.APIKey,
		model:    cfg.DefaultModel,
		endpoint: cfg.BaseURL,
	}, nil
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return defaultModel
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	model := req.Model
	if model == "" {
		model = p.DefaultModel()
	}

	opts := []option.ClientOption{option.WithAPIKey(p.apiKey)}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	system, history, last := splitConversation(req.Messages)

	generativeModel := client.GenerativeModel(model)
	generativeModel.SetTemperature(float32(req.Temperature))
	generativeModel.SetTopP(float32(req.TopP))
	if system != "" {
		generativeModel.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	cs := generativeModel.StartChat()
	cs.History = history

	start := time.Now()
	resp, err := cs.SendMessage(ctx, genai.Text(last))
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, classifyError(err)
	}

	var output strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				output.WriteString(string(text))
			}
		}
	}

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llm.Response{
		Content:    output.String(),
		Model:      model,
		TokensUsed: tokensUsed,
		LatencyMs:  latency,
	}, nil
}

// splitConversation separates system turns from the chat history. The final
// non-system turn becomes the message to send; assistant turns use the
// "model" role.
func splitConversation(msgs []llm.Message) (string, []*genai.Content, string) {
	var system []string
	var turns []llm.Message
	for _, m := range msgs {
		if m.Role == string(domain.RoleSystem) {
			system = append(system, m.Content.String())
			continue
		}
		turns = append(turns, m)
	}

	if len(turns) == 0 {
		return strings.Join(system, "\n\n"), nil, ""
	}

	history := make([]*genai.Content, 0, len(turns)-1)
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == string(domain.RoleAssistant) {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content.String())},
		})
	}

	return strings.Join(system, "\n\n"), history, turns[len(turns)-1].Content.String()
}

// classifyError converts quota failures into llm.APIError so the gateway can
// detect them.
func classifyError(err error) error {
	ae, ok := apierror.FromError(err)
	if !ok {
		return fmt.Errorf("gemini generation error: %w", err)
	}

	apiErr := &llm.APIError{Provider: "gemini", Message: ae.Error(), StatusCode: ae.HTTPCode()}
	if st := ae.GRPCStatus(); st != nil {
		apiErr.Code = st.Code().String()
		apiErr.Message = st.Message()
		if st.Code() == codes.ResourceExhausted {
			apiErr.StatusCode = http.StatusTooManyRequests
		}
	}
	if apiErr.StatusCode < 0 {
		apiErr.StatusCode = 0
	}
	if reason := ae.Reason(); reason != "" && apiErr.Code == "" {
		apiErr.Code = reason
	}

	return errors.Join(apiErr, err)
}
