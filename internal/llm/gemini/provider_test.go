package gemini

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestSplitConversation(t *testing.T) {
	system, history, last := splitConversation([]llm.Message{
		{Role: "system", Content: domain.TextContent("persona")},
		{Role: "user", Content: domain.TextContent("Hi")},
		{Role: "assistant", Content: domain.TextContent("Hello")},
		{Role: "user", Content: domain.PartedContent(domain.TextPart("What "), domain.TextPart("projects?"))},
	})

	assert.Equal(t, "persona", system)
	assert.Equal(t, "What projects?", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, genai.Text("Hello"), history[1].Parts[0])
}

func TestSplitConversation_OnlySystem(t *testing.T) {
	system, history, last := splitConversation([]llm.Message{
		{Role: "system", Content: domain.TextContent("persona")},
	})

	assert.Equal(t, "persona", system)
	assert.Empty(t, history)
	assert.Empty(t, last)
}

func TestClassifyError(t *testing.T) {
	grpcErr := classifyError(status.Error(codes.ResourceExhausted, "quota exceeded"))
	assert.True(t, llm.IsRateLimited(grpcErr))

	httpErr := classifyError(&googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota"})
	assert.True(t, llm.IsRateLimited(httpErr))

	other := classifyError(status.Error(codes.InvalidArgument, "bad"))
	assert.False(t, llm.IsRateLimited(other))

	plain := errors.New("dial tcp: timeout")
	wrapped := classifyError(plain)
	assert.False(t, llm.IsRateLimited(wrapped))
	assert.ErrorIs(t, wrapped, plain)
}
