package shift

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
	"github.com/turnilab/turni-backend-go/internal/pkg/timewindow"
)

// Status values are the persisted contract inherited from the existing
// store and must not be renamed.
type Status string

const (
	StatusAssigned   Status = "assegnato"
	StatusAccepted   Status = "accettato"
	StatusInProgress Status = "in-corso"
	StatusCompleted  Status = "completato"
	StatusRejected   Status = "rifiutato"
	StatusExpired    Status = "scaduto"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusExpired
}

func ValidStatuses() []string {
	return []string{
		string(StatusAssigned), string(StatusAccepted), string(StatusInProgress),
		string(StatusCompleted), string(StatusRejected), string(StatusExpired),
	}
}

type RateType string

const (
	RateHourly RateType = "hourly"
	RateMinute RateType = "minute"
	RateDaily  RateType = "daily"
)

func ValidRateTypes() []string {
	return []string{string(RateHourly), string(RateMinute), string(RateDaily)}
}

// Position is a GPS fix captured at check-in.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Shift is one scheduled work assignment for one collaborator. A batch
// assignment is N independent Shift rows, never one entity.
type Shift struct {
	ID string

	// Assignment. Role is snapshotted at creation so permission checks
	// stay stable even if the user's role later changes.
	CollaboratorID   string
	CollaboratorName string
	CollaboratorRole user.Role

	// Schedule. Date is YYYY-MM-DD, times are HH:MM; an end time earlier
	// than the start time means the shift crosses midnight.
	Date      string
	StartTime string
	EndTime   string
	Location  string

	// Optional venue coordinates; when set, check-in records the
	// collaborator's distance from the venue.
	VenueLatitude  *float64
	VenueLongitude *float64

	HasBreak       bool
	BreakStartTime *string
	BreakEndTime   *string

	// Actuals, null until check-in/check-out.
	RealStartTime       *time.Time
	RealEndTime         *time.Time
	StartLatitude       *float64
	StartLongitude      *float64
	VenueDistanceMeters *float64

	PayoutRate decimal.Decimal
	RateType   RateType

	Status Status

	// Audit trail.
	CreatedBy     string
	CreatorName   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	AdminOverride bool
	ForcedBy      *string
	CompletedAt   *time.Time
	SystemClosed  bool
}

// ScheduledSpan resolves the shift's scheduled start and end instants.
func (s *Shift) ScheduledSpan() (time.Time, time.Time, error) {
	return timewindow.ResolveShiftSpan(s.Date, s.StartTime, s.EndTime)
}

// BreakSpan resolves the break interval against the scheduled span.
// Returns ErrBreakOutsideShift via timewindow when containment fails.
func (s *Shift) BreakSpan() (time.Time, time.Time, error) {
	if !s.HasBreak || s.BreakStartTime == nil || s.BreakEndTime == nil {
		return time.Time{}, time.Time{}, ErrNoBreak
	}
	start, end, err := s.ScheduledSpan()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return timewindow.ResolveBreakSpan(start, end, *s.BreakStartTime, *s.BreakEndTime, s.Date)
}
