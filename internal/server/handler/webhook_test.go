package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeguardian-ai/codeguardian/internal/config"
	"github.com/codeguardian-ai/codeguardian/internal/core"
)

const testSecret = "hook-secret"

type fakeDispatcher struct {
	err    error
	events []*core.PullRequestEvent
}

func (f *fakeDispatcher) Dispatch(_ context.Context, event *core.PullRequestEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeDispatcher) Stop() {}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func payload(action string) []byte {
	return fmt.Appendf(nil, `{
		"action": %q,
		"repository": {
			"name": "widget",
			"full_name": "alice/widget",
			"owner": {"login": "alice"}
		},
		"pull_request": {
			"number": 42,
			"title": "Add feature",
			"html_url": "https://github.com/alice/widget/pull/42",
			"diff_url": "https://github.com/alice/widget/pull/42.diff"
		}
	}`, action)
}

func newHandler(dispatcher core.JobDispatcher) *WebhookHandler {
	cfg := &config.Config{WebhookSecret: testSecret}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewWebhookHandler(cfg, dispatcher, logger)
}

func deliver(h *WebhookHandler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", strings.NewReader(string(body)))
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandleMissingSignature(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newHandler(dispatcher)

	rec := deliver(h, payload("opened"), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No signature found", strings.TrimSpace(rec.Body.String()))
	assert.Empty(t, dispatcher.events)
}

func TestHandleInvalidSignature(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newHandler(dispatcher)

	rec := deliver(h, payload("opened"), sign("wrong-secret", payload("opened")))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid signature", strings.TrimSpace(rec.Body.String()))
	assert.Empty(t, dispatcher.events)
}

func TestHandleValidSignatureAccepted(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newHandler(dispatcher)

	body := payload("opened")
	rec := deliver(h, body, sign(testSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Event received. Processing will start shortly.", rec.Body.String())
	require.Len(t, dispatcher.events, 1)

	event := dispatcher.events[0]
	assert.Equal(t, "alice/widget", event.RepoFullName)
	assert.Equal(t, 42, event.PRNumber)
	assert.Equal(t, "https://github.com/alice/widget/pull/42.diff", event.DiffURL)
}

func TestHandleTamperedBody(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newHandler(dispatcher)

	body := payload("opened")
	signature := sign(testSecret, body)

	// Flipping any single byte after signing must fail verification.
	tampered := append([]byte(nil), body...)
	tampered[len(tampered)/2] ^= 0x01

	rec := deliver(h, tampered, signature)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid signature", strings.TrimSpace(rec.Body.String()))
	assert.Empty(t, dispatcher.events)
}

func TestHandleIgnoredActions(t *testing.T) {
	for _, action := range []string{"closed", "synchronize", "edited", "labeled"} {
		t.Run(action, func(t *testing.T) {
			dispatcher := &fakeDispatcher{}
			h := newHandler(dispatcher)

			body := payload(action)
			rec := deliver(h, body, sign(testSecret, body))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "Event ignored", rec.Body.String())
			assert.Empty(t, dispatcher.events)
		})
	}
}

func TestHandleReopenedActionDispatches(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newHandler(dispatcher)

	body := payload("reopened")
	rec := deliver(h, body, sign(testSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, "reopened", dispatcher.events[0].Action)
}

func TestHandleMalformedBody(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newHandler(dispatcher)

	body := []byte(`{"action": "opened", "repository":`)
	rec := deliver(h, body, sign(testSecret, body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, dispatcher.events)
}

func TestHandleIncompletePayload(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := newHandler(dispatcher)

	// Valid JSON and a qualifying action, but no pull request details.
	body := []byte(`{"action": "opened", "repository": {"name": "widget", "full_name": "alice/widget", "owner": {"login": "alice"}}}`)
	rec := deliver(h, body, sign(testSecret, body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, dispatcher.events)
}

func TestHandleDispatchFailureAfterAcknowledgment(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("queue is full")}
	h := newHandler(dispatcher)

	body := payload("opened")
	rec := deliver(h, body, sign(testSecret, body))

	// The delivery was already acknowledged; the failure stays internal.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Event received. Processing will start shortly.", rec.Body.String())
}
