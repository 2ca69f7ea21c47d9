package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

// WhoAmI asks the gateway which principal the platform attached to the caller.
func (c *Client) WhoAmI(ctx context.Context) (*domain.Identity, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.rootURL(identityPath), nil, "")
	if err != nil {
		return nil, err
	}

	res, err := doJSON[domain.IdentityResponse](c, req)
	if err != nil {
		return nil, fmt.Errorf("fetching identity: %w", err)
	}
	if res.ClientPrincipal == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return res.ClientPrincipal, nil
}
