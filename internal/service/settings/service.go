package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"

	"github.com/turnilab/turni-backend-go/internal/domain/settings"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
)

// rateConfigID pins the single global row.
const rateConfigID = "default"

type SettingsServiceImpl struct {
	rates settings.RateConfigRepository
}

func NewSettingsService(rates settings.RateConfigRepository) settings.SettingsService {
	return &SettingsServiceImpl{rates: rates}
}

// GetRateConfig implements settings.SettingsService. An unset config
// reads as zero-rate hourly rather than an error.
func (s *SettingsServiceImpl) GetRateConfig(ctx context.Context) (settings.RateConfigResponse, error) {
	cfg, err := s.rates.Get(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrRateConfigNotFound) {
			return settings.ToResponse(settings.RateConfig{
				DefaultRate: decimal.Zero,
				DefaultType: shift.RateHourly,
			}), nil
		}
		return settings.RateConfigResponse{}, err
	}
	return settings.ToResponse(cfg), nil
}

// UpdateRateConfig implements settings.SettingsService. Founder only.
func (s *SettingsServiceImpl) UpdateRateConfig(ctx context.Context, req settings.UpdateRateConfigRequest) (settings.RateConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.RateConfigResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return settings.RateConfigResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, _ := claims["user_id"].(string)
	roleStr, _ := claims["role"].(string)
	if user.Role(roleStr) != user.RoleFounder {
		return settings.RateConfigResponse{}, user.ErrFounderAccessRequired
	}

	cfg, err := s.rates.Get(ctx)
	if err != nil {
		if !errors.Is(err, settings.ErrRateConfigNotFound) {
			return settings.RateConfigResponse{}, err
		}
		cfg = settings.RateConfig{
			ID:          rateConfigID,
			DefaultRate: decimal.Zero,
			DefaultType: shift.RateHourly,
		}
	}

	if req.DefaultRate != nil {
		cfg.DefaultRate = *req.DefaultRate
	}
	if req.DefaultType != nil {
		cfg.DefaultType = shift.RateType(*req.DefaultType)
	}
	cfg.UpdatedBy = &userID

	stored, err := s.rates.Upsert(ctx, cfg)
	if err != nil {
		return settings.RateConfigResponse{}, err
	}

	return settings.ToResponse(stored), nil
}
