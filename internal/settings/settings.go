// Package settings holds the locally persisted configuration stores. Each
// store owns one key in the key-value store; reads merge the stored blob over
// hard-coded defaults so fields added later still get defaults for old blobs,
// and saves are full overwrites (callers read-modify-write).
package settings

import (
	"context"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/kvstore"
)

const (
	integrationKey = "agency.integrations"
	automationKey  = "agency.automation"
)

type Integration struct {
	kv kvstore.Store
}

func NewIntegration(kv kvstore.Store) *Integration {
	return &Integration{kv: kv}
}

func DefaultIntegrationConfig() domain.IntegrationConfig {
	return domain.IntegrationConfig{}
}

func (s *Integration) Get(ctx context.Context) domain.IntegrationConfig {
	cfg := DefaultIntegrationConfig()
	s.kv.Load(ctx, integrationKey, &cfg)
	return cfg
}

func (s *Integration) Save(ctx context.Context, cfg domain.IntegrationConfig) {
	s.kv.Save(ctx, integrationKey, cfg)
}

type Automation struct {
	kv kvstore.Store
}

func NewAutomation(kv kvstore.Store) *Automation {
	return &Automation{kv: kv}
}

func DefaultAutomationToggles() domain.AutomationToggles {
	return domain.AutomationToggles{
		LeadAlerts:      true,
		CampaignReports: true,
	}
}

func (s *Automation) Get(ctx context.Context) domain.AutomationToggles {
	toggles := DefaultAutomationToggles()
	s.kv.Load(ctx, automationKey, &toggles)
	return toggles
}

func (s *Automation) Save(ctx context.Context, toggles domain.AutomationToggles) {
	s.kv.Save(ctx, automationKey, toggles)
}
