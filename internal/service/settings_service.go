package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConfigStore is the persistence surface for the store-configuration
// singleton.
type ConfigStore interface {
	GetOrInitConfig(ctx context.Context) (*models.StoreConfig, error)
	UpdateConfig(ctx context.Context, patch map[string]any) (*models.StoreConfig, error)
}

// SettingsService owns the single mutable store-configuration record.
type SettingsService struct {
	store  ConfigStore
	logger *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(store ConfigStore) *SettingsService {
	return &SettingsService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// SettingsPatch is the whitelist of mutable configuration fields. A nil
// field is left untouched; partial-update semantics, not replace.
type SettingsPatch struct {
	StoreName             *string           `json:"storeName"`
	SupportEmail          *string           `json:"supportEmail"`
	Currency              *string           `json:"currency"`
	ShippingFlatRate      *decimal.Decimal  `json:"shippingFlatRate"`
	FreeShippingThreshold *decimal.Decimal  `json:"freeShippingThreshold"`
	MaintenanceMode       *bool             `json:"maintenanceMode"`
	SocialLinks           *SocialLinksPatch `json:"socialLinks"`
}

// SocialLinksPatch updates the store's social profiles.
type SocialLinksPatch struct {
	Instagram *string `json:"instagram"`
	Tiktok    *string `json:"tiktok"`
}

func (p *SettingsPatch) columns() map[string]any {
	patch := map[string]any{}
	if p.StoreName != nil {
		patch["store_name"] = *p.StoreName
	}
	if p.SupportEmail != nil {
		patch["support_email"] = *p.SupportEmail
	}
	if p.Currency != nil {
		patch["currency"] = *p.Currency
	}
	if p.ShippingFlatRate != nil {
		patch["shipping_flat_rate"] = *p.ShippingFlatRate
	}
	if p.FreeShippingThreshold != nil {
		patch["free_shipping_threshold"] = *p.FreeShippingThreshold
	}
	if p.MaintenanceMode != nil {
		patch["maintenance_mode"] = *p.MaintenanceMode
	}
	if p.SocialLinks != nil {
		if p.SocialLinks.Instagram != nil {
			patch["instagram_url"] = *p.SocialLinks.Instagram
		}
		if p.SocialLinks.Tiktok != nil {
			patch["tiktok_url"] = *p.SocialLinks.Tiktok
		}
	}
	return patch
}

// Get returns the configuration record, creating it with defaults on first
// access. Repeated calls always yield the same single row.
func (s *SettingsService) Get(ctx context.Context) (*models.StoreConfig, error) {
	ctx, span := util.StartSpan(ctx, "SettingsService.Get")
	defer span.End()

	return s.store.GetOrInitConfig(ctx)
}

// Update applies a whitelisted partial update. Staff only.
func (s *SettingsService) Update(ctx context.Context, patch *SettingsPatch, caller models.Caller) (*models.StoreConfig, error) {
	ctx, span := util.StartSpan(ctx, "SettingsService.Update")
	defer span.End()

	if !caller.Staff {
		return nil, ErrForbidden
	}

	cfg, err := s.store.UpdateConfig(ctx, patch.columns())
	if err != nil {
		return nil, err
	}
	s.logger.Info("Store configuration updated")
	return cfg, nil
}
