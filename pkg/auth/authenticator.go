package auth

import (
	"log/slog"

	"github.com/samber/lo"
)

type authenticator struct {
	authorizedUserIDs []string
}

func NewAuthenticator(authorizedUserIDs []string) *authenticator {
	slog.Info("authorized user IDs", "user_ids", authorizedUserIDs)

	return &authenticator{
		authorizedUserIDs: authorizedUserIDs,
	}
}

// Enabled reports whether an allowlist was configured. Without one every
// authenticated principal is let through.
func (a *authenticator) Enabled() bool {
	return len(a.authorizedUserIDs) > 0
}

func (a *authenticator) IsAuthorized(userID string) bool {
	if userID == "" {
		return false
	}
	return lo.Contains(a.authorizedUserIDs, userID)
}
