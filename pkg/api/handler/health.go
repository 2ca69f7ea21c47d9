package handler

import (
	"net/http"
	"time"

	"github.com/dskvich/doc-reviewer/pkg/api/response"
)

type health struct {
	started time.Time
	writer  response.JSONResponseWriter
}

func NewHealth() *health {
	return &health{started: time.Now(), writer: response.JSONResponseWriter{}}
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (h *health) Check(w http.ResponseWriter, _ *http.Request) {
	h.writer.WriteSuccessResponse(w, healthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Truncate(time.Second).String(),
	})
}
