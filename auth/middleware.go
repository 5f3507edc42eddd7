package auth

import (
	"context"
	"net/http"
	"strings"

	"support-chat/contract"
	"support-chat/domain"
)

type contextKey string

const (
	ParticipantIDKey contextKey = "participant_id"
	RoleKey          contextKey = "role"
)

// Middleware rejects requests without a valid bearer credential before
// any connection state exists, and injects the verified identity into the
// request context for the websocket handshake.
//
// Browser websocket clients cannot set headers on the upgrade request, so
// the credential is also accepted as a "token" query parameter.
func Middleware(authenticator contract.Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credential := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if credential == "" {
			credential = r.URL.Query().Get("token")
		}

		participantID, role, err := authenticator.Authenticate(credential)
		if err != nil {
			http.Error(w, "invalid credential, need login", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ParticipantIDKey, participantID)
		ctx = context.WithValue(ctx, RoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext recovers what Middleware stored.
func IdentityFromContext(ctx context.Context) (participantID string, role domain.Role, ok bool) {
	participantID, ok = ctx.Value(ParticipantIDKey).(string)
	if !ok {
		return "", "", false
	}
	role, ok = ctx.Value(RoleKey).(domain.Role)
	return participantID, role, ok
}
