package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ruxixa/chat-app/internal/application/auth"
	"github.com/ruxixa/chat-app/internal/application/ports"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
)

// AdminHandler handles /admin/* (create user). Requires X-Admin-Secret.
// Account creation is deliberately outside the messaging API; this is the
// operator-facing registration path.
type AdminHandler struct {
	register *auth.RegisterUser
	emitter  ports.WebhookEmitter
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAdminHandler(register *auth.RegisterUser, emitter ports.WebhookEmitter, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		register: register,
		emitter:  emitter,
		validate: validator.New(),
		log:      log,
	}
}

// CreateUser handles POST /admin/users. Body: { "username", "password", "fullName", "profilePicture" }.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username       string `json:"username" validate:"required,min=2,max=64"`
		Password       string `json:"password" validate:"required,min=8,max=128"`
		FullName       string `json:"fullName" validate:"max=255"`
		ProfilePicture string `json:"profilePicture" validate:"omitempty,url,max=2048"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.register.Execute(r.Context(), auth.RegisterUserInput{
		Username:       body.Username,
		Password:       body.Password,
		FullName:       body.FullName,
		ProfilePicture: body.ProfilePicture,
	})
	if err != nil {
		AuditEmit(h.log, r, h.emitter, "user.create", body.Username, "", false, err.Error())
		switch {
		case errors.Is(err, domerrors.ErrUserExists):
			writeErr(w, http.StatusConflict, "", err.Error())
		case errors.Is(err, domerrors.ErrInvalidCredentials):
			writeErr(w, http.StatusBadRequest, "", "invalid username")
		default:
			h.log.Error().Err(err).Msg("create user failed")
			writeErr(w, http.StatusInternalServerError, "", "internal server error")
		}
		return
	}
	AuditEmit(h.log, r, h.emitter, "user.create", result.User.Username, result.User.ID.String(), true, "")
	writeJSON(w, http.StatusCreated, toUserProfile(result.User))
}
