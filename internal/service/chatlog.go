package service

import (
	"context"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
)

const (
	DefaultPage          = 1
	DefaultLimit         = 10
	DefaultAnalyticsDays = 30

	isoLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ChatLogService serves the read side of the dashboard
type ChatLogService struct {
	repo domain.ChatLogRepository
	now  func() time.Time
}

// NewChatLogService creates a new chat log service
func NewChatLogService(repo domain.ChatLogRepository) *ChatLogService {
	return &ChatLogService{
		repo: repo,
		now:  time.Now,
	}
}

// List returns one page of logs, newest first
func (s *ChatLogService) List(ctx context.Context, params domain.ListParams) (*domain.LogPage, error) {
	if err := validate.Struct(params); err != nil {
		return nil, domain.NewValidationError("page and limit must be between 1 and 2147483647")
	}

	logs, total, err := s.repo.List(ctx, params.Filter, params.Page, params.Limit)
	if err != nil {
		return nil, err
	}

	return &domain.LogPage{
		Logs:       logs,
		Pagination: domain.NewPagination(params.Page, params.Limit, total),
	}, nil
}

// Get returns a single log
func (s *ChatLogService) Get(ctx context.Context, id string) (*domain.ConversationLog, error) {
	return s.repo.Get(ctx, id)
}

// Analytics summarizes logs created in the last days days
func (s *ChatLogService) Analytics(ctx context.Context, days int, filter domain.ChatLogFilter) (*domain.AnalyticsReport, error) {
	if days <= 0 {
		return nil, domain.NewValidationError("days must be a positive integer")
	}

	end := s.now()
	start := end.AddDate(0, 0, -days)
	filter.Start = &start
	filter.End = &end

	analytics, err := s.repo.Aggregate(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &domain.AnalyticsReport{
		DateRange: domain.DateRange{
			Start: start.UTC().Format(isoLayout),
			End:   end.UTC().Format(isoLayout),
			Days:  days,
		},
		Analytics: analytics,
	}, nil
}
