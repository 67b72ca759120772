package settings

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
)

// RateConfig is the single global record consulted at shift creation when
// a request does not carry its own rate.
type RateConfig struct {
	ID          string
	DefaultRate decimal.Decimal
	DefaultType shift.RateType
	UpdatedBy   *string
	UpdatedAt   time.Time
}
