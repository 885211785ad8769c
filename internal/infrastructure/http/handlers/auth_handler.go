package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/infrastructure/http/middleware"
)

// AuthHandler serves POST /login. The real credential check already ran in
// the BasicAuthenticator middleware, so reaching the handler means the
// caller is valid; the route exists as a cheap probe for clients.
type AuthHandler struct {
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

func NewAuthHandler(emitter ports.WebhookEmitter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{emitter: emitter, log: log}
}

// Login responds 204 No Content for an authenticated caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	AuditEmit(h.log, r, h.emitter, "auth.login", user.Username, user.ID.String(), true, "")
	w.WriteHeader(http.StatusNoContent)
}
