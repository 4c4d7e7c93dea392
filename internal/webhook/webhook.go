// Package webhook sends automation payloads to external endpoints and keeps
// a capped call log. Every call is a single attempt; a failed delivery is
// recorded and never retried.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/settings"
)

const payloadSummaryLimit = 100

type Sender struct {
	client  *http.Client
	callLog *settings.CallLog
}

func NewSender(timeout time.Duration, callLog *settings.CallLog) *Sender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sender{
		client:  &http.Client{Timeout: timeout},
		callLog: callLog,
	}
}

// Send POSTs the payload as JSON to url and records the outcome in the call
// log. Transport errors produce an entry with status code 0. The returned
// entry mirrors what was logged.
func (s *Sender) Send(ctx context.Context, tool string, url string, payload any) domain.WebhookCallEntry {
	entry := domain.WebhookCallEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Tool:      tool,
		URL:       url,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		body = []byte("{}")
	}
	entry.PayloadSummary = summarize(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		s.callLog.Append(ctx, entry)
		return entry
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.callLog.Append(ctx, entry)
		return entry
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	entry.StatusCode = resp.StatusCode
	entry.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	s.callLog.Append(ctx, entry)
	return entry
}

// summarize caps the logged payload at payloadSummaryLimit runes, never
// cutting through a multi-byte character.
func summarize(body []byte) string {
	runes := []rune(string(body))
	if len(runes) > payloadSummaryLimit {
		return string(runes[:payloadSummaryLimit])
	}
	return string(runes)
}
