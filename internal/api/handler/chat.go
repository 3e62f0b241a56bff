package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jordanarrivado/ajs-portfolio/internal/api/response"
	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/service"
	"github.com/rs/zerolog/log"
)

const invalidMessages = "Invalid messages array"

// chatBody keeps messages raw so a non-array value can be told apart from a
// malformed body
type chatBody struct {
	Messages    json.RawMessage `json:"messages"`
	Personality string          `json:"personality"`
}

// ChatHandler handles the visitor chat endpoint
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat answers a conversation and returns {message}
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var body chatBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBare(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	raw := bytes.TrimSpace(body.Messages)
	if len(raw) == 0 || raw[0] != '[' {
		writeBare(w, http.StatusBadRequest, invalidMessages)
		return
	}

	req := domain.ChatRequest{Personality: body.Personality}
	if err := json.Unmarshal(raw, &req.Messages); err != nil {
		writeBare(w, http.StatusBadRequest, invalidMessages)
		return
	}

	reply, err := h.chatService.Chat(r.Context(), req, r.UserAgent())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeBare(w, http.StatusBadRequest, domain.Message(err))
			return
		}
		log.Error().Err(err).Msg("Chat request failed")
		writeBare(w, http.StatusInternalServerError, domain.Message(err))
		return
	}

	response.Write(w, http.StatusOK, map[string]string{"message": reply.Message})
}

func writeBare(w http.ResponseWriter, status int, msg string) {
	response.Write(w, status, map[string]string{"error": msg})
}
