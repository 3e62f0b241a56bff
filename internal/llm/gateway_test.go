package llm_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string         { return m.name }
func (m *MockProvider) DefaultModel() string { return "test-model" }
func (m *MockProvider) IsConfigured() bool   { return true }

func (m *MockProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

var testMessages = []llm.Message{
	{Role: "system", Content: domain.TextContent("be nice")},
	{Role: "user", Content: domain.TextContent("Hi")},
}

func newGateway(primary, secondary llm.Provider) *llm.Gateway {
	return llm.NewGateway(primary, secondary, llm.GatewayConfig{
		Model:       "openai/gpt-4.1",
		Temperature: 0.7,
		TopP:        1,
		Timeout:     time.Second,
	})
}

func TestGateway_Primary(t *testing.T) {
	primary := &MockProvider{name: "primary"}
	secondary := &MockProvider{name: "secondary"}

	primary.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Model == "openai/gpt-4.1" && req.Temperature == 0.7 && req.TopP == 1 && len(req.Messages) == 2
	})).Return(&llm.Response{Content: "Hello"}, nil).Once()

	reply, err := newGateway(primary, secondary).Complete(context.Background(), testMessages)

	require.NoError(t, err)
	assert.Equal(t, "Hello", reply)
	primary.AssertExpectations(t)
	secondary.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGateway_FallbackOnRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"status 429", &llm.APIError{Provider: "openai", StatusCode: http.StatusTooManyRequests}},
		{"code RateLimitReached", &llm.APIError{Provider: "openai", StatusCode: http.StatusForbidden, Code: "RateLimitReached"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &MockProvider{name: "primary"}
			secondary := &MockProvider{name: "secondary"}

			primary.On("Complete", mock.Anything, mock.Anything).Return(nil, tt.err).Once()
			secondary.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
				return len(req.Messages) == 2 && req.Messages[1].Content.String() == "Hi"
			})).Return(&llm.Response{Content: "Hey from key two"}, nil).Once()

			reply, err := newGateway(primary, secondary).Complete(context.Background(), testMessages)

			require.NoError(t, err)
			assert.Equal(t, "Hey from key two", reply)
			primary.AssertExpectations(t)
			secondary.AssertExpectations(t)
		})
	}
}

func TestGateway_NoFallbackOnOtherErrors(t *testing.T) {
	primary := &MockProvider{name: "primary"}
	secondary := &MockProvider{name: "secondary"}

	primary.On("Complete", mock.Anything, mock.Anything).
		Return(nil, &llm.APIError{Provider: "openai", StatusCode: http.StatusInternalServerError}).Once()

	_, err := newGateway(primary, secondary).Complete(context.Background(), testMessages)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	secondary.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGateway_SecondaryFailure(t *testing.T) {
	primary := &MockProvider{name: "primary"}
	secondary := &MockProvider{name: "secondary"}

	limited := &llm.APIError{Provider: "openai", StatusCode: http.StatusTooManyRequests}
	primary.On("Complete", mock.Anything, mock.Anything).Return(nil, limited).Once()
	secondary.On("Complete", mock.Anything, mock.Anything).Return(nil, limited).Once()

	_, err := newGateway(primary, secondary).Complete(context.Background(), testMessages)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	primary.AssertNumberOfCalls(t, "Complete", 1)
	secondary.AssertNumberOfCalls(t, "Complete", 1)
}

func TestGateway_EmptyReply(t *testing.T) {
	primary := &MockProvider{name: "primary"}
	primary.On("Complete", mock.Anything, mock.Anything).Return(&llm.Response{}, nil).Once()

	reply, err := newGateway(primary, nil).Complete(context.Background(), testMessages)

	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestGateway_NoSecondary(t *testing.T) {
	primary := &MockProvider{name: "primary"}
	primary.On("Complete", mock.Anything, mock.Anything).
		Return(nil, &llm.APIError{Provider: "openai", StatusCode: http.StatusTooManyRequests}).Once()

	_, err := newGateway(primary, nil).Complete(context.Background(), testMessages)

	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, llm.IsRateLimited(&llm.APIError{StatusCode: 429}))
	assert.True(t, llm.IsRateLimited(&llm.APIError{StatusCode: 400, Code: "rate_limit_exceeded"}))
	assert.True(t, llm.IsRateLimited(&llm.APIError{StatusCode: 0, Code: "RESOURCE_EXHAUSTED"}))
	assert.True(t, llm.IsRateLimited(errors.Join(errors.New("wrapped"), &llm.APIError{StatusCode: 429})))
	assert.False(t, llm.IsRateLimited(&llm.APIError{StatusCode: 500}))
	assert.False(t, llm.IsRateLimited(context.DeadlineExceeded))
	assert.False(t, llm.IsRateLimited(nil))
}
