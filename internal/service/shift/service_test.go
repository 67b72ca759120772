package shift

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnilab/turni-backend-go/internal/domain/settings"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
	"github.com/turnilab/turni-backend-go/internal/pkg/cron"
)

type memShiftRepo struct {
	shifts map[string]shift.Shift
}

func newMemShiftRepo() *memShiftRepo {
	return &memShiftRepo{shifts: make(map[string]shift.Shift)}
}

func (r *memShiftRepo) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.shifts[s.ID] = s
	return s, nil
}

func (r *memShiftRepo) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (r *memShiftRepo) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.Shift, int64, error) {
	var out []shift.Shift
	for _, s := range r.shifts {
		if filter.CollaboratorID != nil && s.CollaboratorID != *filter.CollaboratorID {
			continue
		}
		if filter.Status != nil && string(s.Status) != *filter.Status {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *memShiftRepo) GetLive(ctx context.Context, since, until time.Time) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range r.shifts {
		if !s.Status.Terminal() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memShiftRepo) Update(ctx context.Context, s shift.Shift) error {
	if _, ok := r.shifts[s.ID]; !ok {
		return shift.ErrShiftNotFound
	}
	r.shifts[s.ID] = s
	return nil
}

func (r *memShiftRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.shifts[id]; !ok {
		return shift.ErrShiftNotFound
	}
	delete(r.shifts, id)
	return nil
}

type memUserRepo struct {
	users map[string]user.User
}

func (r *memUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *memUserRepo) List(ctx context.Context, activeOnly bool) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		if activeOnly && !u.Active {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) Update(ctx context.Context, u user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Active = active
	r.users[id] = u
	return nil
}

func (r *memUserRepo) SetPushToken(ctx context.Context, id string, token *string) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PushToken = token
	r.users[id] = u
	return nil
}

type memRateRepo struct {
	cfg *settings.RateConfig
}

func (r *memRateRepo) Get(ctx context.Context) (settings.RateConfig, error) {
	if r.cfg == nil {
		return settings.RateConfig{}, settings.ErrRateConfigNotFound
	}
	return *r.cfg, nil
}

func (r *memRateRepo) Upsert(ctx context.Context, cfg settings.RateConfig) (settings.RateConfig, error) {
	r.cfg = &cfg
	return cfg, nil
}

type testClock struct {
	t *time.Time
}

func (c testClock) Now() time.Time { return *c.t }

func actorCtx(t *testing.T, id, name string, role user.Role) context.Context {
	t.Helper()
	tok := jwt.New()
	require.NoError(t, tok.Set("user_id", id))
	require.NoError(t, tok.Set("name", name))
	require.NoError(t, tok.Set("role", string(role)))
	return jwtauth.NewContext(context.Background(), tok, nil)
}

const (
	founderID = "5f0c1d2e-3a4b-4c5d-8e6f-7a8b9c0d1e2f"
	adminID   = "6a1b2c3d-4e5f-4a6b-9c7d-8e9f0a1b2c3d"
	admin2ID  = "7b2c3d4e-5f6a-4b7c-8d8e-9f0a1b2c3d4e"
	collabID  = "8c3d4e5f-6a7b-4c8d-9e9f-0a1b2c3d4e5f"
	collab2ID = "9d4e5f6a-7b8c-4d9e-8f0a-1b2c3d4e5f6a"
)

func newFixture() (*ShiftServiceImpl, *memShiftRepo, *memUserRepo, *memRateRepo, *time.Time) {
	shiftRepo := newMemShiftRepo()
	userRepo := &memUserRepo{users: map[string]user.User{
		founderID: {ID: founderID, Email: "giulia@example.com", Name: "Giulia", Role: user.RoleFounder, Active: true},
		adminID:   {ID: adminID, Email: "marco@example.com", Name: "Marco", Role: user.RoleAdmin, Active: true},
		admin2ID:  {ID: admin2ID, Email: "sara@example.com", Name: "Sara", Role: user.RoleAdmin, Active: true},
		collabID:  {ID: collabID, Email: "anna@example.com", Name: "Anna", Role: user.RoleCollaborator, Active: true},
	}}
	rateRepo := &memRateRepo{}

	current := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
	svc := NewShiftService(nil, shiftRepo, userRepo, rateRepo, nil).
		WithNow(func() time.Time { return current })

	return svc, shiftRepo, userRepo, rateRepo, &current
}

func fptr(f float64) *float64 { return &f }

func TestOvernightShiftFullLifecycle(t *testing.T) {
	svc, shiftRepo, _, _, current := newFixture()
	founderCtx := actorCtx(t, founderID, "Giulia", user.RoleFounder)
	collabCtx := actorCtx(t, collabID, "Anna", user.RoleCollaborator)

	rate := decimal.NewFromInt(12)
	hourly := string(shift.RateHourly)
	created, err := svc.Create(founderCtx, shift.CreateShiftRequest{
		CollaboratorIDs: []string{collabID},
		Date:            "2024-03-10",
		StartTime:       "20:00",
		EndTime:         "02:00",
		Location:        "Osteria del Porto",
		PayoutRate:      &rate,
		RateType:        &hourly,
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	id := created[0].ID
	assert.Equal(t, string(shift.StatusAssigned), created[0].Status)

	// Collaborator accepts in the afternoon.
	*current = time.Date(2024, 3, 10, 15, 0, 0, 0, time.Local)
	accepted, err := svc.Accept(collabCtx, id)
	require.NoError(t, err)
	assert.Equal(t, string(shift.StatusAccepted), accepted.Status)

	// Check-in ten minutes early with a GPS fix.
	*current = time.Date(2024, 3, 10, 19, 50, 0, 0, time.Local)
	started, err := svc.CheckIn(collabCtx, shift.CheckInRequest{
		ID:        id,
		Latitude:  fptr(45.4642),
		Longitude: fptr(9.1900),
	})
	require.NoError(t, err)
	assert.Equal(t, string(shift.StatusInProgress), started.Status)
	require.NotNil(t, started.RealStartTime)

	// Nobody checks out; the sweeper closes the shift past 02:00.
	sweepAt := time.Date(2024, 3, 11, 2, 0, 0, 0, time.Local)
	jobs := cron.NewShiftJobs(shiftRepo, nil, testClock{&sweepAt}, 2)
	changed, err := jobs.SweepOnce(context.Background(), sweepAt)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	// Payable time is clamped to the schedule: 20:00 to 02:00 is 360
	// minutes at 12/h.
	*current = sweepAt.Add(time.Hour)
	final, err := svc.Get(founderCtx, id)
	require.NoError(t, err)
	assert.Equal(t, string(shift.StatusCompleted), final.Status)
	assert.True(t, final.SystemClosed)
	assert.Equal(t, 360, final.PayableMinutes)
	assert.Equal(t, "72.00", final.Cost)
}

func TestCreateRequiresManager(t *testing.T) {
	svc, _, _, _, _ := newFixture()
	collabCtx := actorCtx(t, collabID, "Anna", user.RoleCollaborator)

	_, err := svc.Create(collabCtx, shift.CreateShiftRequest{
		CollaboratorIDs: []string{collabID},
		Date:            "2024-03-10",
		StartTime:       "18:00",
		EndTime:         "22:00",
	})
	assert.ErrorIs(t, err, shift.ErrManagerAccessRequired)
}

func TestAdminCannotAssignAdmin(t *testing.T) {
	svc, _, _, _, _ := newFixture()
	adminCtx := actorCtx(t, adminID, "Marco", user.RoleAdmin)

	_, err := svc.Create(adminCtx, shift.CreateShiftRequest{
		CollaboratorIDs: []string{admin2ID},
		Date:            "2024-03-10",
		StartTime:       "18:00",
		EndTime:         "22:00",
	})
	assert.ErrorIs(t, err, shift.ErrFounderRequired)

	_, err = svc.Create(adminCtx, shift.CreateShiftRequest{
		CollaboratorIDs: []string{adminID},
		Date:            "2024-03-10",
		StartTime:       "18:00",
		EndTime:         "22:00",
	})
	assert.ErrorIs(t, err, shift.ErrCannotActOnOwnShift)
}

func TestCheckInWithoutPositionLeavesShiftUntouched(t *testing.T) {
	svc, shiftRepo, _, _, current := newFixture()
	founderCtx := actorCtx(t, founderID, "Giulia", user.RoleFounder)
	collabCtx := actorCtx(t, collabID, "Anna", user.RoleCollaborator)

	rate := decimal.NewFromInt(10)
	hourly := string(shift.RateHourly)
	created, err := svc.Create(founderCtx, shift.CreateShiftRequest{
		CollaboratorIDs: []string{collabID},
		Date:            "2024-03-10",
		StartTime:       "18:00",
		EndTime:         "22:00",
		PayoutRate:      &rate,
		RateType:        &hourly,
	})
	require.NoError(t, err)
	id := created[0].ID

	_, err = svc.Accept(collabCtx, id)
	require.NoError(t, err)

	*current = time.Date(2024, 3, 10, 17, 30, 0, 0, time.Local)
	_, err = svc.CheckIn(collabCtx, shift.CheckInRequest{ID: id})
	assert.ErrorIs(t, err, shift.ErrGpsUnavailable)

	stored, err := shiftRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusAccepted, stored.Status)
	assert.Nil(t, stored.RealStartTime)
}

func TestCheckInRecordsVenueDistance(t *testing.T) {
	svc, shiftRepo, _, _, current := newFixture()
	founderCtx := actorCtx(t, founderID, "Giulia", user.RoleFounder)
	collabCtx := actorCtx(t, collabID, "Anna", user.RoleCollaborator)

	rate := decimal.NewFromInt(10)
	hourly := string(shift.RateHourly)
	created, err := svc.Create(founderCtx, shift.CreateShiftRequest{
		CollaboratorIDs: []string{collabID},
		Date:            "2024-03-10",
		StartTime:       "18:00",
		EndTime:         "22:00",
		VenueLatitude:   fptr(45.4642),
		VenueLongitude:  fptr(9.1900),
		PayoutRate:      &rate,
		RateType:        &hourly,
	})
	require.NoError(t, err)
	id := created[0].ID

	_, err = svc.Accept(collabCtx, id)
	require.NoError(t, err)

	*current = time.Date(2024, 3, 10, 17, 55, 0, 0, time.Local)
	_, err = svc.CheckIn(collabCtx, shift.CheckInRequest{
		ID:        id,
		Latitude:  fptr(45.4706),
		Longitude: fptr(9.1793),
	})
	require.NoError(t, err)

	stored, err := shiftRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored.VenueDistanceMeters)
	assert.InDelta(t, 1100, *stored.VenueDistanceMeters, 150)
}

func TestCreateFallsBackToRateConfig(t *testing.T) {
	svc, _, _, rateRepo, _ := newFixture()
	founderCtx := actorCtx(t, founderID, "Giulia", user.RoleFounder)

	rateRepo.cfg = &settings.RateConfig{
		ID:          "cfg",
		DefaultRate: decimal.NewFromInt(200),
		DefaultType: shift.RateDaily,
	}

	created, err := svc.Create(founderCtx, shift.CreateShiftRequest{
		CollaboratorIDs: []string{collabID},
		Date:            "2024-03-10",
		StartTime:       "18:00",
		EndTime:         "22:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "200.00", created[0].PayoutRate)
	assert.Equal(t, string(shift.RateDaily), created[0].RateType)
}

func TestBatchCreateAssignsEachCollaborator(t *testing.T) {
	svc, shiftRepo, _, _, _ := newFixture()
	founderCtx := actorCtx(t, founderID, "Giulia", user.RoleFounder)

	rate := decimal.NewFromInt(10)
	hourly := string(shift.RateHourly)
	created, err := svc.Create(founderCtx, shift.CreateShiftRequest{
		CollaboratorIDs: []string{collabID, adminID},
		Date:            "2024-03-10",
		StartTime:       "18:00",
		EndTime:         "22:00",
		PayoutRate:      &rate,
		RateType:        &hourly,
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEqual(t, created[0].ID, created[1].ID)
	assert.Len(t, shiftRepo.shifts, 2)
}

func TestCollaboratorCannotReadOthersShift(t *testing.T) {
	svc, _, _, _, _ := newFixture()
	founderCtx := actorCtx(t, founderID, "Giulia", user.RoleFounder)
	otherCtx := actorCtx(t, collab2ID, "Luca", user.RoleCollaborator)

	rate := decimal.NewFromInt(10)
	hourly := string(shift.RateHourly)
	created, err := svc.Create(founderCtx, shift.CreateShiftRequest{
		CollaboratorIDs: []string{collabID},
		Date:            "2024-03-10",
		StartTime:       "18:00",
		EndTime:         "22:00",
		PayoutRate:      &rate,
		RateType:        &hourly,
	})
	require.NoError(t, err)

	_, err = svc.Get(otherCtx, created[0].ID)
	assert.ErrorIs(t, err, shift.ErrNotYourShift)
}

func TestUpdateRejectsTerminalShift(t *testing.T) {
	svc, shiftRepo, _, _, _ := newFixture()
	founderCtx := actorCtx(t, founderID, "Giulia", user.RoleFounder)

	rate := decimal.NewFromInt(10)
	hourly := string(shift.RateHourly)
	created, err := svc.Create(founderCtx, shift.CreateShiftRequest{
		CollaboratorIDs: []string{collabID},
		Date:            "2024-03-10",
		StartTime:       "18:00",
		EndTime:         "22:00",
		PayoutRate:      &rate,
		RateType:        &hourly,
	})
	require.NoError(t, err)
	id := created[0].ID

	s := shiftRepo.shifts[id]
	s.Status = shift.StatusRejected
	shiftRepo.shifts[id] = s

	loc := "Bar Centrale"
	_, err = svc.Update(founderCtx, shift.UpdateShiftRequest{ID: id, Location: &loc})
	assert.ErrorIs(t, err, shift.ErrShiftTerminal)
}
