package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
)

var (
	collaborator = Actor{UserID: "c1", Name: "Anna", Role: user.RoleCollaborator}
	otherCollab  = Actor{UserID: "c2", Name: "Luca", Role: user.RoleCollaborator}
	admin        = Actor{UserID: "a1", Name: "Marco", Role: user.RoleAdmin}
	founder      = Actor{UserID: "f1", Name: "Giulia", Role: user.RoleFounder}
)

func testShift(status Status) Shift {
	return Shift{
		ID:               "s1",
		CollaboratorID:   "c1",
		CollaboratorName: "Anna",
		CollaboratorRole: user.RoleCollaborator,
		Date:             "2024-03-10",
		StartTime:        "18:00",
		EndTime:          "22:00",
		Status:           status,
		CreatedBy:        "a1",
	}
}

func at(hour, min int) time.Time {
	return time.Date(2024, 3, 10, hour, min, 0, 0, time.Local)
}

func TestApply_AcceptAndReject(t *testing.T) {
	s := testShift(StatusAssigned)

	accepted, err := Apply(s, EventAccept, collaborator, at(12, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, accepted.Status)

	rejected, err := Apply(s, EventReject, collaborator, at(12, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
}

func TestApply_OnlyAssignedCollaboratorMayAnswer(t *testing.T) {
	s := testShift(StatusAssigned)

	_, err := Apply(s, EventAccept, otherCollab, at(12, 0), nil)
	assert.ErrorIs(t, err, ErrNotYourShift)

	_, err = Apply(s, EventAccept, admin, at(12, 0), nil)
	assert.ErrorIs(t, err, ErrNotYourShift)
}

func TestApply_CheckInWindow(t *testing.T) {
	s := testShift(StatusAccepted)
	gps := &Position{Latitude: 45.46, Longitude: 9.18}

	// Window opens one hour before the scheduled start.
	_, err := Apply(s, EventCheckIn, collaborator, at(16, 59), gps)
	assert.ErrorIs(t, err, ErrTooEarlyToCheckIn)

	got, err := Apply(s, EventCheckIn, collaborator, at(17, 0), gps)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
	require.NotNil(t, got.RealStartTime)
	assert.Equal(t, at(17, 0), *got.RealStartTime)
	require.NotNil(t, got.StartLatitude)
	assert.Equal(t, 45.46, *got.StartLatitude)
}

func TestApply_CheckInWithoutPositionAborts(t *testing.T) {
	s := testShift(StatusAccepted)

	got, err := Apply(s, EventCheckIn, collaborator, at(18, 0), nil)
	assert.ErrorIs(t, err, ErrGpsUnavailable)
	// No partial transition.
	assert.Equal(t, StatusAccepted, got.Status)
	assert.Nil(t, got.RealStartTime)
}

func TestApply_CheckOut(t *testing.T) {
	s := testShift(StatusInProgress)

	got, err := Apply(s, EventCheckOut, collaborator, at(22, 15), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.RealEndTime)
	assert.Equal(t, at(22, 15), *got.RealEndTime)
}

func TestApply_CheckOutByManager(t *testing.T) {
	s := testShift(StatusInProgress)

	got, err := Apply(s, EventCheckOut, admin, at(22, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestApply_AdminNeverActsOnAdminShift(t *testing.T) {
	s := testShift(StatusInProgress)
	s.CollaboratorID = "a2"
	s.CollaboratorRole = user.RoleAdmin

	for _, ev := range []Event{EventCheckOut, EventEmergencyStop} {
		_, err := Apply(s, ev, admin, at(22, 0), nil)
		assert.ErrorIs(t, err, ErrFounderRequired, "event %s", ev)
	}

	assigned := testShift(StatusAssigned)
	assigned.CollaboratorID = "a2"
	assigned.CollaboratorRole = user.RoleAdmin
	_, err := Apply(assigned, EventForceComplete, admin, at(19, 0), nil)
	assert.ErrorIs(t, err, ErrFounderRequired)

	// The founder may act on anyone's shift.
	_, err = Apply(s, EventEmergencyStop, founder, at(22, 0), nil)
	assert.NoError(t, err)
}

func TestApply_AdminCannotActOnOwnShift(t *testing.T) {
	s := testShift(StatusInProgress)
	s.CollaboratorID = admin.UserID
	s.CollaboratorRole = user.RoleAdmin

	_, err := Apply(s, EventEmergencyStop, admin, at(22, 0), nil)
	assert.ErrorIs(t, err, ErrCannotActOnOwnShift)
}

// The self-management bar applies to admins only. A founder working a
// shift themself may still force it closed.
func TestApply_FounderMayActOnOwnShift(t *testing.T) {
	s := testShift(StatusInProgress)
	s.CollaboratorID = founder.UserID
	s.CollaboratorRole = user.RoleFounder

	got, err := Apply(s, EventEmergencyStop, founder, at(22, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	assigned := testShift(StatusAssigned)
	assigned.CollaboratorID = founder.UserID
	assigned.CollaboratorRole = user.RoleFounder
	got, err = Apply(assigned, EventForceComplete, founder, at(19, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.True(t, got.AdminOverride)
}

func TestApply_ForceComplete(t *testing.T) {
	s := testShift(StatusAssigned)

	_, err := Apply(s, EventForceComplete, admin, at(17, 59), nil)
	assert.ErrorIs(t, err, ErrShiftNotStarted)

	got, err := Apply(s, EventForceComplete, admin, at(18, 30), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.True(t, got.AdminOverride)
	require.NotNil(t, got.ForcedBy)
	assert.Equal(t, admin.UserID, *got.ForcedBy)
	// No real timestamps: the calculator falls back to the full schedule.
	assert.Nil(t, got.RealStartTime)
	assert.Nil(t, got.RealEndTime)
}

func TestApply_ForceCompleteNotFromInProgress(t *testing.T) {
	s := testShift(StatusInProgress)

	_, err := Apply(s, EventForceComplete, admin, at(19, 0), nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApply_EmergencyStop(t *testing.T) {
	s := testShift(StatusInProgress)

	got, err := Apply(s, EventEmergencyStop, founder, at(20, 30), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.RealEndTime)
	assert.Equal(t, at(20, 30), *got.RealEndTime)
}

func TestApply_TerminalShiftRefusesEverything(t *testing.T) {
	for _, status := range []Status{StatusCompleted, StatusRejected, StatusExpired} {
		s := testShift(status)
		for _, ev := range []Event{EventAccept, EventReject, EventCheckIn, EventCheckOut, EventForceComplete, EventEmergencyStop} {
			_, err := Apply(s, ev, founder, at(19, 0), &Position{})
			assert.ErrorIs(t, err, ErrShiftTerminal, "status %s event %s", status, ev)
		}
	}
}

func TestSweep_AutoCloseAtScheduledEnd(t *testing.T) {
	s := testShift(StatusInProgress)
	start := at(18, 0)
	s.RealStartTime = &start

	_, _, applied := Sweep(s, at(21, 59))
	assert.False(t, applied)

	got, ev, applied := Sweep(s, at(22, 0))
	require.True(t, applied)
	assert.Equal(t, EventAutoClose, ev)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.True(t, got.SystemClosed)
	require.NotNil(t, got.RealEndTime)
	assert.Equal(t, at(22, 0), *got.RealEndTime)
}

func TestSweep_ExpiryGraceBoundary(t *testing.T) {
	s := testShift(StatusAssigned)

	_, _, applied := Sweep(s, at(22, 29))
	assert.False(t, applied, "29 minutes past the end is inside the grace window")

	got, ev, applied := Sweep(s, at(22, 31))
	require.True(t, applied)
	assert.Equal(t, EventExpire, ev)
	assert.Equal(t, StatusExpired, got.Status)
}

func TestSweep_Idempotent(t *testing.T) {
	s := testShift(StatusInProgress)

	first, _, applied := Sweep(s, at(23, 0))
	require.True(t, applied)

	second, _, applied := Sweep(first, at(23, 5))
	assert.False(t, applied)
	assert.Equal(t, first, second)
}

func TestSweep_AcceptedShiftIsLeftAlone(t *testing.T) {
	// Only unanswered assignments expire; an accepted shift the
	// collaborator never started stays accepted.
	s := testShift(StatusAccepted)

	_, _, applied := Sweep(s, at(23, 30))
	assert.False(t, applied)
}

func TestNextTransitions(t *testing.T) {
	assigned := testShift(StatusAssigned)

	assert.ElementsMatch(t,
		[]Event{EventAccept, EventReject},
		NextTransitions(assigned, collaborator, at(12, 0)))

	assert.ElementsMatch(t,
		[]Event{EventForceComplete},
		NextTransitions(assigned, admin, at(19, 0)))

	assert.Empty(t, NextTransitions(assigned, admin, at(12, 0)),
		"force completion needs the scheduled start to have passed")

	accepted := testShift(StatusAccepted)
	assert.ElementsMatch(t,
		[]Event{EventCheckIn},
		NextTransitions(accepted, collaborator, at(17, 30)))
	assert.Empty(t, NextTransitions(accepted, collaborator, at(10, 0)))

	inProgress := testShift(StatusInProgress)
	assert.ElementsMatch(t,
		[]Event{EventCheckOut},
		NextTransitions(inProgress, collaborator, at(20, 0)))
	assert.ElementsMatch(t,
		[]Event{EventCheckOut, EventEmergencyStop},
		NextTransitions(inProgress, founder, at(20, 0)))
}
