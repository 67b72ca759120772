package shift

import (
	"time"

	"github.com/turnilab/turni-backend-go/internal/domain/user"
)

// Event identifies a lifecycle transition.
type Event string

const (
	EventAccept        Event = "accept"
	EventReject        Event = "reject"
	EventCheckIn       Event = "check-in"
	EventCheckOut      Event = "check-out"
	EventAutoClose     Event = "auto-close"
	EventExpire        Event = "expire"
	EventForceComplete Event = "force-complete"
	EventEmergencyStop Event = "emergency-stop"
)

const (
	// CheckInEarlyWindow is how long before the scheduled start a
	// collaborator may clock in.
	CheckInEarlyWindow = time.Hour

	// ExpiryGrace is how long past the scheduled end an unanswered
	// assignment survives before the sweeper expires it.
	ExpiryGrace = 30 * time.Minute
)

// Actor is the authenticated caller of a transition. It is passed
// explicitly into every lifecycle call; guards never read ambient state.
type Actor struct {
	UserID string
	Name   string
	Role   user.Role
}

// CanActOn enforces the management permission rule threaded through every
// mutating admin action: an admin may not touch a shift assigned to
// themself or to another admin; the founder may act on anyone's shift.
func CanActOn(s Shift, actor Actor) error {
	if actor.Role != user.RoleAdmin && actor.Role != user.RoleFounder {
		return ErrManagerAccessRequired
	}
	if actor.Role == user.RoleAdmin && actor.UserID == s.CollaboratorID {
		return ErrCannotActOnOwnShift
	}
	if !user.Manages(actor.Role, s.CollaboratorRole) {
		return ErrFounderRequired
	}
	return nil
}

// guard checks whether actor may fire event on s at instant now, without
// applying any effect. GPS acquisition is checked at apply time, not here.
func guard(s Shift, event Event, actor Actor, now time.Time) error {
	isOwn := actor.UserID == s.CollaboratorID

	switch event {
	case EventAccept, EventReject:
		if s.Status != StatusAssigned {
			return transitionErr(s)
		}
		if !isOwn {
			return ErrNotYourShift
		}
		return nil

	case EventCheckIn:
		if s.Status != StatusAccepted {
			return transitionErr(s)
		}
		if !isOwn {
			return ErrNotYourShift
		}
		start, _, err := s.ScheduledSpan()
		if err != nil {
			return err
		}
		if now.Before(start.Add(-CheckInEarlyWindow)) {
			return ErrTooEarlyToCheckIn
		}
		return nil

	case EventCheckOut:
		if s.Status != StatusInProgress {
			return transitionErr(s)
		}
		if isOwn {
			return nil
		}
		// Manual close by an admin/founder is always allowed, subject to
		// the management rule.
		return CanActOn(s, actor)

	case EventForceComplete:
		if s.Status.Terminal() || s.Status == StatusInProgress {
			return transitionErr(s)
		}
		if err := CanActOn(s, actor); err != nil {
			return err
		}
		start, _, err := s.ScheduledSpan()
		if err != nil {
			return err
		}
		if now.Before(start) {
			return ErrShiftNotStarted
		}
		return nil

	case EventEmergencyStop:
		if s.Status != StatusInProgress {
			return transitionErr(s)
		}
		return CanActOn(s, actor)

	default:
		return ErrInvalidTransition
	}
}

func transitionErr(s Shift) error {
	if s.Status.Terminal() {
		return ErrShiftTerminal
	}
	return ErrInvalidTransition
}

// NextTransitions lists the events actor may fire on s at instant now.
// The UI renders exactly these as enabled actions.
func NextTransitions(s Shift, actor Actor, now time.Time) []Event {
	events := []Event{
		EventAccept, EventReject, EventCheckIn, EventCheckOut,
		EventForceComplete, EventEmergencyStop,
	}
	var valid []Event
	for _, ev := range events {
		if guard(s, ev, actor, now) == nil {
			valid = append(valid, ev)
		}
	}
	return valid
}

// Apply fires event on a copy of s and returns the updated shift, or a
// guard violation with the shift untouched. gps is required for check-in
// only; a nil gps aborts the transition with ErrGpsUnavailable so an
// abandoned position request leaves no partial state.
func Apply(s Shift, event Event, actor Actor, now time.Time, gps *Position) (Shift, error) {
	if err := guard(s, event, actor, now); err != nil {
		return s, err
	}

	switch event {
	case EventAccept:
		s.Status = StatusAccepted

	case EventReject:
		s.Status = StatusRejected

	case EventCheckIn:
		if gps == nil {
			return s, ErrGpsUnavailable
		}
		s.Status = StatusInProgress
		t := now
		s.RealStartTime = &t
		lat, lon := gps.Latitude, gps.Longitude
		s.StartLatitude = &lat
		s.StartLongitude = &lon

	case EventCheckOut:
		s.Status = StatusCompleted
		t := now
		s.RealEndTime = &t
		s.CompletedAt = &t

	case EventForceComplete:
		s.Status = StatusCompleted
		s.AdminOverride = true
		forcedBy := actor.UserID
		s.ForcedBy = &forcedBy
		t := now
		s.CompletedAt = &t

	case EventEmergencyStop:
		s.Status = StatusCompleted
		t := now
		s.RealEndTime = &t
		s.CompletedAt = &t
		forcedBy := actor.UserID
		s.ForcedBy = &forcedBy
	}

	return s, nil
}

// Sweep applies the system transitions: in-progress shifts past their
// scheduled end are completed with the scheduled end as the real end, and
// assignments unanswered past the grace window expire. Idempotent: a
// terminal shift is returned unchanged with applied=false, so two racing
// sweepers converge on the same terminal state.
func Sweep(s Shift, now time.Time) (Shift, Event, bool) {
	if s.Status.Terminal() {
		return s, "", false
	}

	_, end, err := s.ScheduledSpan()
	if err != nil {
		return s, "", false
	}

	switch s.Status {
	case StatusInProgress:
		if !now.Before(end) {
			s.Status = StatusCompleted
			endCopy := end
			s.RealEndTime = &endCopy
			s.CompletedAt = &endCopy
			s.SystemClosed = true
			return s, EventAutoClose, true
		}
	case StatusAssigned:
		if now.After(end.Add(ExpiryGrace)) {
			s.Status = StatusExpired
			return s, EventExpire, true
		}
	}

	return s, "", false
}
