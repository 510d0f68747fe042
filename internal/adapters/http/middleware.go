package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/security"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
)

type contextKey string

const actorKey contextKey = "actor"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), contextKey("request_id"), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware resolves the caller into an Actor. With a verifier
// configured the bearer token must be a valid platform JWT; without one
// (tests, local runs) the raw bearer value is taken as the subject id and
// the role comes from the X-Actor-Role header.
func authMiddleware(verifier *security.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", requestIDFromContext(r.Context()))
				return
			}
			token := strings.TrimSpace(authHeader[len("bearer "):])
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "empty bearer token", requestIDFromContext(r.Context()))
				return
			}

			var subject, role string
			if verifier != nil {
				claims, err := verifier.Verify(token)
				if err != nil {
					writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token", requestIDFromContext(r.Context()))
					return
				}
				subject = claims.SubjectID
				role = claims.Role
			} else {
				subject = token
				role = strings.ToLower(strings.TrimSpace(r.Header.Get("X-Actor-Role")))
				if role == "" {
					if strings.HasPrefix(subject, "admin:") {
						role = "admin"
						subject = strings.TrimPrefix(subject, "admin:")
					} else {
						role = "user"
					}
				}
			}

			actor := application.Actor{
				SubjectID: subject,
				Role:      role,
				RequestID: requestIDFromContext(r.Context()),
			}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// webhookAuthMiddleware guards the processor callback endpoint with the
// shared secret agreed with the gateway.
func webhookAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				provided := strings.TrimSpace(r.Header.Get("X-Webhook-Secret"))
				if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
					writeError(w, http.StatusUnauthorized, "unauthorized", "invalid webhook secret", requestIDFromContext(r.Context()))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func actorFromContext(ctx context.Context) application.Actor {
	if value := ctx.Value(actorKey); value != nil {
		if actor, ok := value.(application.Actor); ok {
			return actor
		}
	}
	return application.Actor{}
}

func requestIDFromContext(ctx context.Context) string {
	if value := ctx.Value(contextKey("request_id")); value != nil {
		if requestID, ok := value.(string); ok {
			return requestID
		}
	}
	return ""
}
