package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jordanarrivado/ajs-portfolio/internal/device"
	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/llm"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// Completer produces the assistant reply for a conversation
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// ChatService answers visitor messages and records each exchange
type ChatService struct {
	gateway      Completer
	repo         domain.ChatLogRepository
	loc          *time.Location
	writeTimeout time.Duration
	now          func() time.Time
}

// NewChatService creates a new chat service
func NewChatService(gateway Completer, repo domain.ChatLogRepository, loc *time.Location, writeTimeout time.Duration) *ChatService {
	return &ChatService{
		gateway:      gateway,
		repo:         repo,
		loc:          loc,
		writeTimeout: writeTimeout,
		now:          time.Now,
	}
}

// Chat validates the request, asks the assistant for a reply and stores the
// exchange. A storage failure is logged and does not fail the call.
func (s *ChatService) Chat(ctx context.Context, req domain.ChatRequest, userAgent string) (*domain.ChatReply, error) {
	if err := validate.Struct(req); err != nil {
		return nil, domain.NewValidationError("Invalid messages array")
	}

	agent := device.Agent(userAgent)
	client := device.Parse(agent)
	persona := domain.ParsePersona(req.Personality)

	system := llm.BuildSystemPrompt(persona, device.Summary(client))

	reply, err := s.gateway.Complete(ctx, llm.FromTurns(system, req.Messages))
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := &domain.ConversationLog{
		UserAgent:   agent,
		Device:      client,
		Messages:    domain.NormalizeTurns(req.Messages),
		AIResponse:  reply,
		Personality: req.Personality,
		Timestamp:   domain.FormatDisplay(now, s.loc),
		CreatedAt:   now,
	}

	result := &domain.ChatReply{
		Message:   reply,
		Device:    client,
		Timestamp: entry.Timestamp,
		CreatedAt: now,
	}

	if err := s.persist(ctx, entry); err != nil {
		log.Error().
			Err(err).
			Str("personality", req.Personality).
			Msg("Failed to save chat log")
		return result, nil
	}

	result.Logged = true
	log.Debug().Str("log_id", entry.ID).Msg("Chat log saved")

	return result, nil
}

// persist writes the log on a context that survives client disconnects
func (s *ChatService) persist(ctx context.Context, entry *domain.ConversationLog) error {
	writeCtx := context.WithoutCancel(ctx)
	if s.writeTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(writeCtx, s.writeTimeout)
		defer cancel()
	}
	return s.repo.Create(writeCtx, entry)
}
