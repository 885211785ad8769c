package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ruxixa/chat-app/internal/application/auth"
	"github.com/ruxixa/chat-app/internal/application/ports"
	domerrors "github.com/ruxixa/chat-app/internal/domain/errors"
)

// BasicAuthenticator verifies the Basic credential header on every request
// and sets the resolved user in context (see UserFromContext). There is no
// session or token: the credential is re-checked against the store each call.
type BasicAuthenticator struct {
	verify  *auth.VerifyCredentials
	lockout ports.LoginLockoutStore
	log     zerolog.Logger
}

func NewBasicAuthenticator(verify *auth.VerifyCredentials, lockout ports.LoginLockoutStore, log zerolog.Logger) *BasicAuthenticator {
	return &BasicAuthenticator{verify: verify, lockout: lockout, log: log}
}

func (m *BasicAuthenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			RecordCredentialCheck(false)
			writeAuthErr(w, http.StatusUnauthorized, "missing_credentials", domerrors.ErrMissingCredentials.Error())
			return
		}

		if m.lockout != nil {
			if locked, retryAfter := m.lockout.IsLocked(r.Context(), username); locked {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeAuthErr(w, http.StatusTooManyRequests, "account_locked", "too many failed attempts")
				return
			}
		}

		user, err := m.verify.Execute(r.Context(), username, password)
		if err != nil {
			switch {
			case errors.Is(err, domerrors.ErrMissingCredentials):
				RecordCredentialCheck(false)
				writeAuthErr(w, http.StatusUnauthorized, "missing_credentials", err.Error())
			case errors.Is(err, domerrors.ErrInvalidCredentials):
				if m.lockout != nil {
					m.lockout.RecordFailure(r.Context(), username)
				}
				RecordCredentialCheck(false)
				writeAuthErr(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
			default:
				m.log.Error().Err(err).Msg("credential lookup failed")
				writeAuthErr(w, http.StatusInternalServerError, "internal_error", "internal server error")
			}
			return
		}

		if m.lockout != nil {
			m.lockout.RecordSuccess(r.Context(), username)
		}
		RecordCredentialCheck(true)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func writeAuthErr(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message, "code": errCode})
}
