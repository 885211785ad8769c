package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ruxixa/chat-app/internal/application/conversation"
	"github.com/ruxixa/chat-app/internal/application/message"
	"github.com/ruxixa/chat-app/internal/domain"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
	"github.com/ruxixa/chat-app/internal/infrastructure/http/middleware"
)

// ConversationsHandler serves /api/conversations: pair get-or-create plus
// the message ledger routes beneath a conversation.
type ConversationsHandler struct {
	getOrCreate  *conversation.GetOrCreate
	sendMessage  *message.Send
	listMessages *message.List
	validate     *validator.Validate
	log          zerolog.Logger
}

func NewConversationsHandler(getOrCreate *conversation.GetOrCreate, sendMessage *message.Send, listMessages *message.List, log zerolog.Logger) *ConversationsHandler {
	return &ConversationsHandler{
		getOrCreate:  getOrCreate,
		sendMessage:  sendMessage,
		listMessages: listMessages,
		validate:     validator.New(),
		log:          log,
	}
}

// Create handles POST /api/conversations. Body: { "user1Id", "user2Id" }.
// Responds 201 with the canonical conversation_id whether the pair is new
// or already known, so repeated first-contact calls are idempotent.
func (h *ConversationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		User1ID int64 `json:"user1Id" validate:"required,gt=0"`
		User2ID int64 `json:"user2Id" validate:"required,gt=0"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "no user IDs provided")
		return
	}
	result, err := h.getOrCreate.Execute(r.Context(), conversation.GetOrCreateInput{
		User1ID: domain.NewUserID(body.User1ID),
		User2ID: domain.NewUserID(body.User2ID),
	})
	if err != nil {
		switch {
		case errors.Is(err, domerrors.ErrSelfConversation):
			writeErr(w, http.StatusBadRequest, "", err.Error())
		case errors.Is(err, domerrors.ErrUserNotFound):
			writeErr(w, http.StatusNotFound, "", err.Error())
		default:
			h.log.Error().Err(err).Msg("get or create conversation failed")
			writeErr(w, http.StatusInternalServerError, "", "internal server error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{
		"conversation_id": result.Conversation.ID.Int64(),
	})
}

// ListMessages handles GET /api/conversations/{conversationID}/messages.
// Returns the full history in append order; optional limit/before query
// params page through it without changing the order guarantee.
func (h *ConversationsHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	convoID, ok := conversationIDParam(w, r)
	if !ok {
		return
	}
	input := message.ListInput{ConversationID: convoID}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeErr(w, http.StatusBadRequest, "", "invalid limit")
			return
		}
		input.Limit = n
	}
	if raw := r.URL.Query().Get("before"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			writeErr(w, http.StatusBadRequest, "", "invalid before cursor")
			return
		}
		input.Before = domain.NewMessageID(n)
	}
	result, err := h.listMessages.Execute(r.Context(), input)
	if err != nil {
		if errors.Is(err, domerrors.ErrConversationNotFound) {
			writeErr(w, http.StatusNotFound, "", err.Error())
			return
		}
		h.log.Error().Err(err).Msg("list messages failed")
		writeErr(w, http.StatusInternalServerError, "", "internal server error")
		return
	}
	items := make([]MessageView, 0, len(result.Messages))
	for _, m := range result.Messages {
		items = append(items, toMessageView(m))
	}
	writeJSON(w, http.StatusOK, items)
}

// SendMessage handles POST /api/conversations/{conversationID}/messages.
// Body: { "senderId", "receiverId", "messageText" }.
func (h *ConversationsHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	convoID, ok := conversationIDParam(w, r)
	if !ok {
		return
	}
	var body struct {
		SenderID    int64  `json:"senderId" validate:"required,gt=0"`
		ReceiverID  int64  `json:"receiverId" validate:"required,gt=0"`
		MessageText string `json:"messageText" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "missing message data")
		return
	}
	result, err := h.sendMessage.Execute(r.Context(), message.SendInput{
		ConversationID: convoID,
		SenderID:       domain.NewUserID(body.SenderID),
		ReceiverID:     domain.NewUserID(body.ReceiverID),
		Text:           body.MessageText,
	})
	if err != nil {
		switch {
		case errors.Is(err, domerrors.ErrEmptyMessage),
			errors.Is(err, domerrors.ErrSelfMessage),
			errors.Is(err, domerrors.ErrNotParticipant):
			writeErr(w, http.StatusBadRequest, "", err.Error())
		case errors.Is(err, domerrors.ErrConversationNotFound):
			writeErr(w, http.StatusNotFound, "", err.Error())
		default:
			h.log.Error().Err(err).Msg("send message failed")
			writeErr(w, http.StatusInternalServerError, "", "internal server error")
		}
		return
	}
	middleware.RecordMessageAppended()
	writeJSON(w, http.StatusCreated, map[string]int64{
		"message_id": result.Message.ID.Int64(),
	})
}

func conversationIDParam(w http.ResponseWriter, r *http.Request) (domain.ConversationID, bool) {
	raw := chi.URLParam(r, "conversationID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeErr(w, http.StatusBadRequest, "", "invalid conversation id")
		return 0, false
	}
	return domain.NewConversationID(id), true
}
