// Package handler provides HTTP handlers for the CodeGuardian application.
package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/codeguardian-ai/codeguardian/internal/config"
	"github.com/codeguardian-ai/codeguardian/internal/core"
)

// signatureHeader carries GitHub's HMAC-SHA256 digest of the request body,
// formatted "sha256=<hex>".
const signatureHeader = "X-Hub-Signature-256"

// WebhookHandler processes incoming pull request webhooks from GitHub.
type WebhookHandler struct {
	cfg        *config.Config
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with the given configuration and dispatcher.
func NewWebhookHandler(cfg *config.Config, dispatcher core.JobDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle verifies and acknowledges a webhook delivery. The signature is
// checked against the exact raw body bytes before any JSON decoding, since
// re-encoding would change the digest. Qualifying events are acknowledged
// first and dispatched after, so GitHub's delivery timeout is never exposed
// to the diff fetch or the model call.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		http.Error(w, "Could not read request body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get(signatureHeader)
	if signature == "" {
		h.logger.Warn("webhook delivery without signature header")
		http.Error(w, "No signature found", http.StatusUnauthorized)
		return
	}

	if err := github.ValidateSignature(signature, body, []byte(h.cfg.WebhookSecret)); err != nil {
		h.logger.Warn("invalid webhook signature", "error", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var payload github.PullRequestEvent
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Error("could not parse webhook payload", "error", err)
		http.Error(w, "Could not parse webhook", http.StatusBadRequest)
		return
	}

	if !core.IsReviewableAction(payload.GetAction()) {
		h.logger.Debug("ignoring pull request action", "action", payload.GetAction())
		_, _ = fmt.Fprint(w, "Event ignored")
		return
	}

	event, err := core.FromPullRequestEvent(&payload)
	if err != nil {
		h.logger.Error("webhook payload is missing required fields", "error", err)
		http.Error(w, "Could not parse webhook", http.StatusBadRequest)
		return
	}

	// Acknowledge before any slow work starts.
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "Event received. Processing will start shortly.")

	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		// The response is already on the wire; all we can do is log.
		h.logger.Error("failed to dispatch review job", "error", err, "repo", event.RepoFullName, "pr", event.PRNumber)
		return
	}

	h.logger.Info("review job dispatched", "repo", event.RepoFullName, "pr", event.PRNumber)
}
