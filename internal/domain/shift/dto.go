package shift

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/turnilab/turni-backend-go/internal/pkg/validator"
)

type CreateShiftRequest struct {
	// A batch assignment creates one independent shift per collaborator.
	CollaboratorIDs []string `json:"collaborator_ids"`

	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	Location  string `json:"location"`

	VenueLatitude  *float64 `json:"venue_latitude,omitempty"`
	VenueLongitude *float64 `json:"venue_longitude,omitempty"`

	HasBreak       bool    `json:"has_break"`
	BreakStartTime *string `json:"break_start_time,omitempty"`
	BreakEndTime   *string `json:"break_end_time,omitempty"`

	// When omitted, the global rate config supplies both.
	PayoutRate *decimal.Decimal `json:"payout_rate,omitempty"`
	RateType   *string          `json:"rate_type,omitempty"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.CollaboratorIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "collaborator_ids",
			Message: "at least one collaborator is required",
		})
	}
	for _, id := range r.CollaboratorIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "collaborator_ids",
				Message: "collaborator ids must be UUIDs",
			})
			break
		}
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be YYYY-MM-DD",
		})
	}
	if !validator.IsValidClock(r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be HH:MM",
		})
	}
	if !validator.IsValidClock(r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be HH:MM",
		})
	}
	if r.HasBreak {
		if r.BreakStartTime == nil || !validator.IsValidClock(*r.BreakStartTime) {
			errs = append(errs, validator.ValidationError{
				Field:   "break_start_time",
				Message: "break_start_time must be HH:MM when has_break is set",
			})
		}
		if r.BreakEndTime == nil || !validator.IsValidClock(*r.BreakEndTime) {
			errs = append(errs, validator.ValidationError{
				Field:   "break_end_time",
				Message: "break_end_time must be HH:MM when has_break is set",
			})
		}
	}
	if r.RateType != nil && !validator.IsInSlice(*r.RateType, ValidRateTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "rate_type",
			Message: "rate_type must be one of hourly, minute, daily",
		})
	}
	if r.PayoutRate != nil && r.PayoutRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "payout_rate",
			Message: "payout_rate must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShiftRequest struct {
	ID string `json:"-"`

	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Location  *string `json:"location,omitempty"`

	VenueLatitude  *float64 `json:"venue_latitude,omitempty"`
	VenueLongitude *float64 `json:"venue_longitude,omitempty"`

	HasBreak       *bool   `json:"has_break,omitempty"`
	BreakStartTime *string `json:"break_start_time,omitempty"`
	BreakEndTime   *string `json:"break_end_time,omitempty"`

	PayoutRate *decimal.Decimal `json:"payout_rate,omitempty"`
	RateType   *string          `json:"rate_type,omitempty"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be YYYY-MM-DD",
			})
		}
	}
	for field, v := range map[string]*string{
		"start_time":       r.StartTime,
		"end_time":         r.EndTime,
		"break_start_time": r.BreakStartTime,
		"break_end_time":   r.BreakEndTime,
	} {
		if v != nil && !validator.IsValidClock(*v) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be HH:MM",
			})
		}
	}
	if r.RateType != nil && !validator.IsInSlice(*r.RateType, ValidRateTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "rate_type",
			Message: "rate_type must be one of hourly, minute, daily",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckInRequest struct {
	ID        string   `json:"-"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftFilter struct {
	CollaboratorID *string `json:"collaborator_id,omitempty"`
	Status         *string `json:"status,omitempty"`
	Month          *string `json:"month,omitempty"` // YYYY-MM
	StartDate      *string `json:"start_date,omitempty"`
	EndDate        *string `json:"end_date,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ShiftFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Status != nil && *f.Status != "" && !validator.IsInSlice(*f.Status, ValidStatuses()) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "unknown status value"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID               string `json:"id"`
	CollaboratorID   string `json:"collaborator_id"`
	CollaboratorName string `json:"collaborator_name"`
	CollaboratorRole string `json:"collaborator_role"`

	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location,omitempty"`

	HasBreak       bool    `json:"has_break"`
	BreakStartTime *string `json:"break_start_time,omitempty"`
	BreakEndTime   *string `json:"break_end_time,omitempty"`

	RealStartTime       *string  `json:"real_start_time,omitempty"`
	RealEndTime         *string  `json:"real_end_time,omitempty"`
	StartLatitude       *float64 `json:"start_latitude,omitempty"`
	StartLongitude      *float64 `json:"start_longitude,omitempty"`
	VenueDistanceMeters *float64 `json:"venue_distance_meters,omitempty"`

	PayoutRate string `json:"payout_rate"`
	RateType   string `json:"rate_type"`
	Status     string `json:"status"`

	Cost           string `json:"cost"`
	PayableMinutes int    `json:"payable_minutes"`

	CreatedBy     string  `json:"created_by"`
	CreatorName   string  `json:"creator_name"`
	CreatedAt     string  `json:"created_at"`
	AdminOverride bool    `json:"admin_override,omitempty"`
	ForcedBy      *string `json:"forced_by,omitempty"`
	CompletedAt   *string `json:"completed_at,omitempty"`
	SystemClosed  bool    `json:"system_closed,omitempty"`
}

type ListShiftResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Shifts     []ShiftResponse `json:"shifts"`
}

// FormatTimestamp renders an optional timestamp the way the store does.
func FormatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format("2006-01-02 15:04:05")
	return &v
}
