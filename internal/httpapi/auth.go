package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pmuigai-sys/hosq/internal/models"
	"github.com/pmuigai-sys/hosq/internal/store"
)

type actorContextKey struct{}

// AuthMiddleware resolves "Authorization: Bearer <user_id>.<secret>"
// to a staff role. Public endpoints (patient registration and
// tracking) pass through without an actor.
func AuthMiddleware(st store.QueueStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r) {
			next.ServeHTTP(w, r)
			return
		}
		userID, secret := credentialsFromRequest(r)
		if userID == "" || secret == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}
		actor, err := st.AuthenticateStaff(r.Context(), userID, secret)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			case errors.Is(err, store.ErrAccessDenied):
				writeError(w, http.StatusForbidden, "access_denied", "staff account is inactive")
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			}
			return
		}
		ctx := context.WithValue(r.Context(), actorContextKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFromContext(ctx context.Context) (models.StaffRole, bool) {
	value := ctx.Value(actorContextKey{})
	if value == nil {
		return models.StaffRole{}, false
	}
	actor, ok := value.(models.StaffRole)
	return actor, ok
}

func requireActor(w http.ResponseWriter, r *http.Request) (models.StaffRole, bool) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return models.StaffRole{}, false
	}
	return actor, true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (models.StaffRole, bool) {
	actor, ok := requireActor(w, r)
	if !ok {
		return models.StaffRole{}, false
	}
	if actor.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "access_denied", "admin role required")
		return models.StaffRole{}, false
	}
	return actor, true
}

func credentialsFromRequest(r *http.Request) (string, string) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return "", ""
	}
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

func isPublicEndpoint(r *http.Request) bool {
	switch {
	case r.URL.Path == "/healthz" || r.URL.Path == "/metrics":
		return true
	case r.URL.Path == "/api/register":
		return r.Method == http.MethodPost
	case r.URL.Path == "/api/stages":
		return r.Method == http.MethodGet
	case strings.HasPrefix(r.URL.Path, "/api/entries/"):
		// Patient trackers read entry state and history without auth.
		if r.Method != http.MethodGet {
			return false
		}
		return !strings.HasSuffix(r.URL.Path, "/sms-logs")
	default:
		return r.Method == http.MethodOptions
	}
}
