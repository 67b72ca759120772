package settings

import (
	"context"
)

// SettingsService manages venue-wide defaults.
type SettingsService interface {
	GetRateConfig(ctx context.Context) (RateConfigResponse, error)
	UpdateRateConfig(ctx context.Context, req UpdateRateConfigRequest) (RateConfigResponse, error)
}
