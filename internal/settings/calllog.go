package settings

import (
	"context"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/kvstore"
)

const callLogKey = "agency.webhook_call_log"

// maxCallLogEntries caps the outbound call log; the oldest entries are
// evicted on insert.
const maxCallLogEntries = 500

// CallLog is the bounded diagnostic record of outbound webhook calls.
type CallLog struct {
	kv kvstore.Store
}

func NewCallLog(kv kvstore.Store) *CallLog {
	return &CallLog{kv: kv}
}

func (s *CallLog) List(ctx context.Context) []domain.WebhookCallEntry {
	entries := []domain.WebhookCallEntry{}
	s.kv.Load(ctx, callLogKey, &entries)
	return entries
}

func (s *CallLog) Append(ctx context.Context, entry domain.WebhookCallEntry) {
	entries := s.List(ctx)
	entries = append(entries, entry)
	if len(entries) > maxCallLogEntries {
		entries = entries[len(entries)-maxCallLogEntries:]
	}
	s.kv.Save(ctx, callLogKey, entries)
}

func (s *CallLog) Clear(ctx context.Context) {
	s.kv.Save(ctx, callLogKey, []domain.WebhookCallEntry{})
}
