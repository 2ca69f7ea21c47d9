package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

const (
	listPromptsEndpoint      = "list_prompts"
	createPromptEndpoint     = "create_prompt"
	updatePromptEndpoint     = "update_prompt"
	selectLivePromptEndpoint = "select_live_prompt"
	deletePromptEndpoint     = "delete_prompt"
)

func (c *Client) ListPrompts(ctx context.Context) (*domain.PromptList, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.apiURL(listPromptsEndpoint, nil), nil, "")
	if err != nil {
		return nil, err
	}

	list, err := doJSON[domain.PromptList](c, req)
	if err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	return &list, nil
}

func (c *Client) CreatePrompt(ctx context.Context, p domain.Prompt) (*domain.Prompt, error) {
	return c.savePrompt(ctx, createPromptEndpoint, p)
}

func (c *Client) UpdatePrompt(ctx context.Context, p domain.Prompt) (*domain.Prompt, error) {
	return c.savePrompt(ctx, updatePromptEndpoint, p)
}

func (c *Client) savePrompt(ctx context.Context, endpoint string, p domain.Prompt) (*domain.Prompt, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, c.apiURL(endpoint, nil), p)
	if err != nil {
		return nil, err
	}

	saved, err := doJSON[domain.Prompt](c, req)
	if err != nil {
		return nil, fmt.Errorf("saving prompt %s: %w", p.ID, err)
	}
	if saved.ID == "" {
		return nil, fmt.Errorf("saving prompt %s: %w: missing id", p.ID, domain.ErrUnexpectedResponse)
	}
	return &saved, nil
}

func (c *Client) SelectLivePrompt(ctx context.Context, id string) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, c.apiURL(selectLivePromptEndpoint, nil), domain.SelectLivePromptRequest{ID: id})
	if err != nil {
		return err
	}

	if err := c.doNoContent(req); err != nil {
		return fmt.Errorf("selecting live prompt %s: %w", id, err)
	}
	return nil
}

func (c *Client) DeletePrompt(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", id)

	req, err := c.newRequest(ctx, http.MethodDelete, c.apiURL(deletePromptEndpoint, query), nil, "")
	if err != nil {
		return err
	}

	if err := c.doNoContent(req); err != nil {
		return fmt.Errorf("deleting prompt %s: %w", id, err)
	}
	return nil
}
