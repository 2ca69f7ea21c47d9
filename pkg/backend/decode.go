package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

const maxErrorBody = 4 << 10

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// decode turns a response into either a typed value or an error; callers
// never see a partially decoded body.
func decode[T any](resp *http.Response) (T, error) {
	var zero T

	if !isSuccess(resp.StatusCode) {
		return zero, apiError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("reading response body: %w", err)
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return zero, fmt.Errorf("%w: %s", domain.ErrUnexpectedResponse, snippet(body))
	}
	return v, nil
}

type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

// apiError reads a non-2xx body. JSON bodies contribute message/error/errors;
// plain-text bodies become the message.
func apiError(resp *http.Response) *domain.APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e := &domain.APIError{StatusCode: resp.StatusCode}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Message = eb.Message
		if e.Message == "" {
			e.Message = eb.Error
		}
		e.Errors = parseErrors(eb.Errors)
		return e
	}

	e.Message = strings.TrimSpace(string(body))
	return e
}

func parseErrors(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "…"
	}
	return s
}
