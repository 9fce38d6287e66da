package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/bingobot/internal/api/apierr"
	"github.com/mcoot/bingobot/internal/model"
)

type contextKey string

const callerContextKey contextKey = "caller"

// PlayerIDHeader names the header that identifies the calling player
const PlayerIDHeader = "X-Player-ID"

// PlayerAttr logs the claimed player id of a request
func PlayerAttr(r *http.Request) slog.Attr {
	id := strings.TrimSpace(r.Header.Get(PlayerIDHeader))
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("player_id", id)
}

// Caller is the identity attached to a request
type Caller struct {
	ID         model.PlayerID
	Privileged bool
}

// Identity resolves the caller from the request. A bearer token makes the
// caller privileged when it matches adminKeyHash; a wrong token is rejected.
// With an empty hash no caller is ever privileged.
func Identity(adminKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := Caller{ID: model.PlayerID(strings.TrimSpace(r.Header.Get(PlayerIDHeader)))}

			if token := extractToken(r); token != "" {
				if adminKeyHash == "" || bcrypt.CompareHashAndPassword([]byte(adminKeyHash), []byte(token)) != nil {
					apierr.WriteError(w, apierr.NewUnauthorizedError())
					return
				}
				caller.Privileged = true
			}

			ctx := context.WithValue(r.Context(), callerContextKey, &caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePlayer rejects requests without a player id
func RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := GetCaller(r.Context())
		if caller == nil || caller.ID == "" {
			apierr.WriteError(w, apierr.NewUnauthorizedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken extracts the admin key from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetCaller returns the caller from the request context
func GetCaller(ctx context.Context) *Caller {
	caller, _ := ctx.Value(callerContextKey).(*Caller)
	return caller
}

// MustGetCaller returns the caller or panics
func MustGetCaller(ctx context.Context) *Caller {
	caller := GetCaller(ctx)
	if caller == nil {
		panic("no caller in context - identity middleware not applied?")
	}
	return caller
}
