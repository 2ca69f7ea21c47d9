package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

// Process posts the selection and period dates to a pipeline endpoint
// exactly once.
func (c *Client) Process(ctx context.Context, pipeline domain.Pipeline, payload domain.ProcessingRequest) (*domain.ProcessingResult, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, c.apiURL(pipeline.Path, nil), payload)
	if err != nil {
		return nil, err
	}

	res, err := doJSON[domain.ProcessingResult](c, req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", pipeline.Path, err)
	}
	return &res, nil
}
