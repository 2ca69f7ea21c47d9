package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dskvich/doc-reviewer/pkg/api/response"
	"github.com/dskvich/doc-reviewer/pkg/auth"
	"github.com/dskvich/doc-reviewer/pkg/domain"
	"github.com/dskvich/doc-reviewer/pkg/logger"
)

type identity struct {
	writer response.JSONResponseWriter
}

func NewIdentity() *identity {
	return &identity{writer: response.JSONResponseWriter{}}
}

// Me answers with the platform principal of the caller.
func (i *identity) Me(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromRequest(r)
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		i.writer.WriteResponse(w, http.StatusUnauthorized, domain.IdentityResponse{})
		return
	case err != nil:
		slog.WarnContext(r.Context(), "malformed principal header", logger.Err(err))
		i.writer.WriteErrorResponse(w, http.StatusBadRequest, "Malformed client principal")
		return
	}

	i.writer.WriteSuccessResponse(w, domain.IdentityResponse{ClientPrincipal: principal})
}
