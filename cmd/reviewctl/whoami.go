package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

func newWhoAmICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity the gateway sees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := c.session.identity.WhoAmI(cmd.Context())
			var apiErr *domain.APIError
			if errors.Is(err, domain.ErrNotAuthenticated) || (errors.As(err, &apiErr) && apiErr.StatusCode == 401) {
				fmt.Fprintln(c.out, "Not signed in")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(c.out, "%s (%s via %s)\n", id.UserDetails, id.UserID, id.IdentityProvider)
			if len(id.UserRoles) > 0 {
				fmt.Fprintf(c.out, "roles: %s\n", strings.Join(id.UserRoles, ", "))
			}
			return nil
		},
	}
}
