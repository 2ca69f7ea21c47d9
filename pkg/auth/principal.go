package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

// PrincipalHeader carries the base64 encoded JSON identity set by the hosting
// platform after it has authenticated the user.
const PrincipalHeader = "X-MS-CLIENT-PRINCIPAL"

// PrincipalFromRequest decodes the platform identity. It returns
// domain.ErrNotAuthenticated when the header is absent.
func PrincipalFromRequest(r *http.Request) (*domain.Identity, error) {
	raw := strings.TrimSpace(r.Header.Get(PrincipalHeader))
	if raw == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return DecodePrincipal(raw)
}

func DecodePrincipal(raw string) (*domain.Identity, error) {
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// some proxies strip padding
		if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "=")); err != nil {
			return nil, fmt.Errorf("decoding principal header: %w", err)
		}
	}

	var id domain.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("parsing principal: %w", err)
	}
	if id.UserID == "" {
		return nil, fmt.Errorf("principal without user id: %w", domain.ErrNotAuthenticated)
	}
	return &id, nil
}

// EncodePrincipal is the inverse of DecodePrincipal.
func EncodePrincipal(id domain.Identity) (string, error) {
	data, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("encoding principal: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
