package settings

import (
	"github.com/shopspring/decimal"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
	"github.com/turnilab/turni-backend-go/internal/pkg/validator"
)

type UpdateRateConfigRequest struct {
	DefaultRate *decimal.Decimal `json:"default_rate,omitempty"`
	DefaultType *string          `json:"default_type,omitempty"`
}

func (r *UpdateRateConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DefaultRate == nil && r.DefaultType == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "default_rate",
			Message: "nothing to update",
		})
	}
	if r.DefaultRate != nil && r.DefaultRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "default_rate",
			Message: "default_rate must not be negative",
		})
	}
	if r.DefaultType != nil && !validator.IsInSlice(*r.DefaultType, shift.ValidRateTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "default_type",
			Message: "default_type must be one of hourly, minute, daily",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RateConfigResponse struct {
	DefaultRate string `json:"default_rate"`
	DefaultType string `json:"default_type"`
	UpdatedAt   string `json:"updated_at"`
}

func ToResponse(cfg RateConfig) RateConfigResponse {
	return RateConfigResponse{
		DefaultRate: cfg.DefaultRate.StringFixed(2),
		DefaultType: string(cfg.DefaultType),
		UpdatedAt:   cfg.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
