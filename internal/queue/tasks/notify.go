package tasks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/collabhub/engine/internal/notify"
	"github.com/collabhub/engine/pkg/logger"
)

// NotifyTaskHandler forwards entity JSON to the external matcher service.
// It runs in cmd/worker; the HTTP caller never waits on it.
type NotifyTaskHandler struct {
	matcherURL string
	httpClient *http.Client
}

func NewNotifyTaskHandler(matcherURL string) *NotifyTaskHandler {
	return &NotifyTaskHandler{
		matcherURL: matcherURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Register wires the handler's task types onto the mux.
func (h *NotifyTaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(notify.TaskProjectCreated, h.HandleProjectCreated)
	mux.HandleFunc(notify.TaskProfileParsed, h.HandleProfileParsed)
}

func (h *NotifyTaskHandler) HandleProjectCreated(ctx context.Context, t *asynq.Task) error {
	return h.post(ctx, "/api/projects/", t.Payload())
}

func (h *NotifyTaskHandler) HandleProfileParsed(ctx context.Context, t *asynq.Task) error {
	return h.post(ctx, "/api/process-resume/", t.Payload())
}

func (h *NotifyTaskHandler) post(ctx context.Context, path string, body []byte) error {
	if h.matcherURL == "" {
		logger.L().Debug("matcher url not configured, dropping notification", zap.String("path", path))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.matcherURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build matcher request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		logger.L().Warn("matcher service unreachable", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		// retryable per asynq MaxRetry
		return fmt.Errorf("matcher returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		logger.L().Warn("matcher rejected notification", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil
	}

	logger.L().Info("notification delivered", zap.String("path", path), zap.Int("status", resp.StatusCode))
	return nil
}
