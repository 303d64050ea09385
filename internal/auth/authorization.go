package auth

import (
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/complaint-management/internal"
	"github.com/frahmantamala/complaint-management/internal/transport"
)

// RoleAuthorization gates handlers on the authenticated user's role.
type RoleAuthorization struct {
	base   *transport.BaseHandler
	logger *slog.Logger
}

func NewRoleAuthorization(logger *slog.Logger) *RoleAuthorization {
	return &RoleAuthorization{
		base:   transport.NewBaseHandler(logger),
		logger: logger,
	}
}

// RequireAdmin rejects requests from non-admin users with 403.
func (ra *RoleAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.base.HandleServiceError(w, errors.ErrMissingToken)
				return
			}

			if !user.IsAdmin() {
				ra.logger.WarnContext(r.Context(), "access denied: admin role required",
					"user_id", user.ID,
					"role", user.Role)
				ra.base.HandleServiceError(w, errors.ErrAdminRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
