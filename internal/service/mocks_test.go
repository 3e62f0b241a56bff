package service

import (
	"context"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockChatLogRepository mocks the ChatLogRepository interface
type MockChatLogRepository struct {
	mock.Mock
}

func (m *MockChatLogRepository) Create(ctx context.Context, l *domain.ConversationLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockChatLogRepository) Get(ctx context.Context, id string) (*domain.ConversationLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversationLog), args.Error(1)
}

func (m *MockChatLogRepository) Delete(ctx context.Context, id string) (*domain.ConversationLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversationLog), args.Error(1)
}

func (m *MockChatLogRepository) List(ctx context.Context, filter domain.ChatLogFilter, page, limit int) ([]domain.ConversationLog, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.ConversationLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockChatLogRepository) Aggregate(ctx context.Context, filter domain.ChatLogFilter) (*domain.Analytics, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analytics), args.Error(1)
}

func (m *MockChatLogRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCompleter mocks the completion gateway
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}
