package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ruxixa/chat-app/internal/application/directory"
	"github.com/ruxixa/chat-app/internal/domain"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
	"github.com/ruxixa/chat-app/internal/infrastructure/http/middleware"
)

// UsersHandler serves the user directory: GET /api/users, GET /api/users/{userID}
// and GET /api/@me. All routes sit behind the Basic auth middleware.
type UsersHandler struct {
	listUsers  *directory.ListUsers
	getUser    *directory.GetUser
	getProfile *directory.GetProfile
	log        zerolog.Logger
}

func NewUsersHandler(listUsers *directory.ListUsers, getUser *directory.GetUser, getProfile *directory.GetProfile, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{listUsers: listUsers, getUser: getUser, getProfile: getProfile, log: log}
}

// List returns every user profile. Excluding the caller's own entry is the
// client's concern, not the directory's.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.listUsers.Execute(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list users failed")
		writeErr(w, http.StatusInternalServerError, "", "internal server error")
		return
	}
	items := make([]UserProfile, 0, len(users))
	for _, u := range users {
		items = append(items, toUserProfile(u))
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one user profile by ID.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	user, err := h.getUser.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domerrors.ErrUserNotFound) {
			writeErr(w, http.StatusNotFound, "", err.Error())
			return
		}
		h.log.Error().Err(err).Msg("get user failed")
		writeErr(w, http.StatusInternalServerError, "", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toUserProfile(user))
}

// MeResponse is the JSON shape for GET /api/@me.
type MeResponse struct {
	User          UserProfile        `json:"user"`
	Conversations []ConversationView `json:"conversations"`
}

// Me returns the caller's profile together with all their conversations.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())
	if caller == nil {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	profile, err := h.getProfile.Execute(r.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, domerrors.ErrUserNotFound) {
			writeErr(w, http.StatusNotFound, "", err.Error())
			return
		}
		h.log.Error().Err(err).Msg("get profile failed")
		writeErr(w, http.StatusInternalServerError, "", "internal server error")
		return
	}
	convos := make([]ConversationView, 0, len(profile.Conversations))
	for _, c := range profile.Conversations {
		convos = append(convos, toConversationView(c))
	}
	writeJSON(w, http.StatusOK, MeResponse{
		User:          toUserProfile(profile.User),
		Conversations: convos,
	})
}

func userIDParam(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeErr(w, http.StatusBadRequest, "", "invalid user id")
		return 0, false
	}
	return domain.NewUserID(id), true
}
