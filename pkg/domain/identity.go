package domain

// Identity is the client principal injected by the hosting platform.
type Identity struct {
	IdentityProvider string   `json:"identityProvider,omitempty"`
	UserID           string   `json:"userId,omitempty"`
	UserDetails      string   `json:"userDetails,omitempty"`
	UserRoles        []string `json:"userRoles,omitempty"`
}

type IdentityResponse struct {
	ClientPrincipal *Identity `json:"clientPrincipal"`
}
