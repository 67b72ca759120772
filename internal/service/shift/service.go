package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/turnilab/turni-backend-go/internal/domain/fiscal"
	"github.com/turnilab/turni-backend-go/internal/domain/notification"
	"github.com/turnilab/turni-backend-go/internal/domain/settings"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
	"github.com/turnilab/turni-backend-go/internal/pkg/database"
	"github.com/turnilab/turni-backend-go/internal/pkg/utils"
	"github.com/turnilab/turni-backend-go/internal/repository/postgresql"
)

type ShiftServiceImpl struct {
	db     *database.DB
	shifts shift.ShiftRepository
	users  user.UserRepository
	rates  settings.RateConfigRepository
	notifs notification.Service

	// now is swappable so transition windows can be tested.
	now func() time.Time
}

func NewShiftService(db *database.DB, shifts shift.ShiftRepository, users user.UserRepository, rates settings.RateConfigRepository, notifs notification.Service) *ShiftServiceImpl {
	return &ShiftServiceImpl{
		db:     db,
		shifts: shifts,
		users:  users,
		rates:  rates,
		notifs: notifs,
		now:    time.Now,
	}
}

// WithNow overrides the service clock. Intended for tests.
func (svc *ShiftServiceImpl) WithNow(now func() time.Time) *ShiftServiceImpl {
	svc.now = now
	return svc
}

func actorFromContext(ctx context.Context) (shift.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return shift.Actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return shift.Actor{}, fmt.Errorf("user_id claim is missing or invalid")
	}
	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return shift.Actor{}, fmt.Errorf("role claim is missing or invalid")
	}
	name, _ := claims["name"].(string)

	return shift.Actor{UserID: userID, Name: name, Role: user.Role(roleStr)}, nil
}

func isManager(r user.Role) bool {
	return r == user.RoleAdmin || r == user.RoleFounder
}

// Create implements shift.ShiftService. A batch request creates one
// independent shift per collaborator inside a single transaction.
func (svc *ShiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) ([]shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !isManager(actor.Role) {
		return nil, shift.ErrManagerAccessRequired
	}

	rate, rateType, err := svc.resolveRate(ctx, req.PayoutRate, req.RateType)
	if err != nil {
		return nil, err
	}

	var created []shift.Shift
	err = postgresql.WithTransaction(ctx, svc.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		for _, collaboratorID := range req.CollaboratorIDs {
			u, err := svc.users.GetByID(txCtx, collaboratorID)
			if err != nil {
				return err
			}
			if !u.Active {
				return user.ErrUserInactive
			}
			if actor.Role == user.RoleAdmin && u.ID == actor.UserID {
				return shift.ErrCannotActOnOwnShift
			}
			if !user.Manages(actor.Role, u.Role) {
				return shift.ErrFounderRequired
			}

			s := shift.Shift{
				ID:               uuid.New().String(),
				CollaboratorID:   u.ID,
				CollaboratorName: u.Name,
				CollaboratorRole: u.Role,
				Date:             req.Date,
				StartTime:        req.StartTime,
				EndTime:          req.EndTime,
				Location:         req.Location,
				VenueLatitude:    req.VenueLatitude,
				VenueLongitude:   req.VenueLongitude,
				HasBreak:         req.HasBreak,
				BreakStartTime:   req.BreakStartTime,
				BreakEndTime:     req.BreakEndTime,
				PayoutRate:       rate,
				RateType:         rateType,
				Status:           shift.StatusAssigned,
				CreatedBy:        actor.UserID,
				CreatorName:      actor.Name,
			}

			if _, _, err := s.ScheduledSpan(); err != nil {
				return err
			}
			if s.HasBreak {
				if _, _, err := s.BreakSpan(); err != nil {
					return err
				}
			}

			stored, err := svc.shifts.Create(txCtx, s)
			if err != nil {
				return err
			}
			created = append(created, stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, s := range created {
		svc.queueNotification(ctx, s.CollaboratorID, &actor, notification.TypeShiftAssigned,
			"Nuovo turno assegnato",
			fmt.Sprintf("Turno del %s dalle %s alle %s", s.Date, s.StartTime, s.EndTime),
			s,
		)
	}

	responses := make([]shift.ShiftResponse, len(created))
	for i, s := range created {
		responses[i] = svc.toResponse(s)
	}
	return responses, nil
}

// resolveRate fills in the payout terms from the request or, when the
// request omits them, from the global rate config.
func (svc *ShiftServiceImpl) resolveRate(ctx context.Context, reqRate *decimal.Decimal, reqType *string) (decimal.Decimal, shift.RateType, error) {
	if reqRate != nil && reqType != nil {
		return *reqRate, shift.RateType(*reqType), nil
	}

	cfg, err := svc.rates.Get(ctx)
	if err != nil {
		if !errors.Is(err, settings.ErrRateConfigNotFound) {
			return decimal.Decimal{}, "", err
		}
		cfg = settings.RateConfig{DefaultRate: decimal.Zero, DefaultType: shift.RateHourly}
	}

	rate := cfg.DefaultRate
	if reqRate != nil {
		rate = *reqRate
	}
	rateType := cfg.DefaultType
	if reqType != nil {
		rateType = shift.RateType(*reqType)
	}
	return rate, rateType, nil
}

// Get implements shift.ShiftService.
func (svc *ShiftServiceImpl) Get(ctx context.Context, id string) (shift.ShiftResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	s, err := svc.shifts.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if !isManager(actor.Role) && s.CollaboratorID != actor.UserID {
		return shift.ShiftResponse{}, shift.ErrNotYourShift
	}

	return svc.toResponse(s), nil
}

// List implements shift.ShiftService. Managers only.
func (svc *ShiftServiceImpl) List(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftResponse, error) {
	if err := filter.Validate(); err != nil {
		return shift.ListShiftResponse{}, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return shift.ListShiftResponse{}, err
	}
	if !isManager(actor.Role) {
		return shift.ListShiftResponse{}, shift.ErrManagerAccessRequired
	}

	return svc.list(ctx, filter)
}

// GetMy implements shift.ShiftService. The caller's own shifts only.
func (svc *ShiftServiceImpl) GetMy(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftResponse, error) {
	if err := filter.Validate(); err != nil {
		return shift.ListShiftResponse{}, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return shift.ListShiftResponse{}, err
	}

	filter.CollaboratorID = &actor.UserID
	return svc.list(ctx, filter)
}

func (svc *ShiftServiceImpl) list(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftResponse, error) {
	shifts, total, err := svc.shifts.List(ctx, filter)
	if err != nil {
		return shift.ListShiftResponse{}, err
	}

	responses := make([]shift.ShiftResponse, len(shifts))
	for i, s := range shifts {
		responses[i] = svc.toResponse(s)
	}

	return shift.ListShiftResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Shifts:     responses,
	}, nil
}

// Transitions implements shift.ShiftService.
func (svc *ShiftServiceImpl) Transitions(ctx context.Context, id string) ([]shift.Event, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s, err := svc.shifts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isManager(actor.Role) && s.CollaboratorID != actor.UserID {
		return nil, shift.ErrNotYourShift
	}

	return shift.NextTransitions(s, actor, svc.now()), nil
}

// Accept implements shift.ShiftService.
func (svc *ShiftServiceImpl) Accept(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return svc.applyEvent(ctx, id, shift.EventAccept, nil)
}

// Reject implements shift.ShiftService.
func (svc *ShiftServiceImpl) Reject(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return svc.applyEvent(ctx, id, shift.EventReject, nil)
}

// CheckIn implements shift.ShiftService. The transition is atomic with
// GPS acquisition: no position, no state change.
func (svc *ShiftServiceImpl) CheckIn(ctx context.Context, req shift.CheckInRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	var gps *shift.Position
	if req.Latitude != nil && req.Longitude != nil {
		gps = &shift.Position{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	return svc.applyEvent(ctx, req.ID, shift.EventCheckIn, gps)
}

// CheckOut implements shift.ShiftService.
func (svc *ShiftServiceImpl) CheckOut(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return svc.applyEvent(ctx, id, shift.EventCheckOut, nil)
}

// ForceComplete implements shift.ShiftService.
func (svc *ShiftServiceImpl) ForceComplete(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return svc.applyEvent(ctx, id, shift.EventForceComplete, nil)
}

// EmergencyStop implements shift.ShiftService.
func (svc *ShiftServiceImpl) EmergencyStop(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return svc.applyEvent(ctx, id, shift.EventEmergencyStop, nil)
}

func (svc *ShiftServiceImpl) applyEvent(ctx context.Context, id string, event shift.Event, gps *shift.Position) (shift.ShiftResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	s, err := svc.shifts.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	updated, err := shift.Apply(s, event, actor, svc.now(), gps)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	if event == shift.EventCheckIn &&
		updated.VenueLatitude != nil && updated.VenueLongitude != nil &&
		updated.StartLatitude != nil && updated.StartLongitude != nil {
		d := utils.HaversineDistance(
			*updated.StartLatitude, *updated.StartLongitude,
			*updated.VenueLatitude, *updated.VenueLongitude,
		)
		updated.VenueDistanceMeters = &d
	}

	if err := svc.shifts.Update(ctx, updated); err != nil {
		return shift.ShiftResponse{}, err
	}

	svc.notifyTransition(ctx, updated, event, actor)

	return svc.toResponse(updated), nil
}

// Update implements shift.ShiftService. Only managers may edit, only
// non-terminal shifts, and the management rule applies.
func (svc *ShiftServiceImpl) Update(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	s, err := svc.shifts.GetByID(ctx, req.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if s.Status.Terminal() {
		return shift.ShiftResponse{}, shift.ErrShiftTerminal
	}
	if err := shift.CanActOn(s, actor); err != nil {
		return shift.ShiftResponse{}, err
	}

	if req.Date != nil {
		s.Date = *req.Date
	}
	if req.StartTime != nil {
		s.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		s.EndTime = *req.EndTime
	}
	if req.Location != nil {
		s.Location = *req.Location
	}
	if req.VenueLatitude != nil {
		s.VenueLatitude = req.VenueLatitude
	}
	if req.VenueLongitude != nil {
		s.VenueLongitude = req.VenueLongitude
	}
	if req.HasBreak != nil {
		s.HasBreak = *req.HasBreak
		if !s.HasBreak {
			s.BreakStartTime = nil
			s.BreakEndTime = nil
		}
	}
	if req.BreakStartTime != nil {
		s.BreakStartTime = req.BreakStartTime
	}
	if req.BreakEndTime != nil {
		s.BreakEndTime = req.BreakEndTime
	}
	if req.PayoutRate != nil {
		s.PayoutRate = *req.PayoutRate
	}
	if req.RateType != nil {
		s.RateType = shift.RateType(*req.RateType)
	}

	if _, _, err := s.ScheduledSpan(); err != nil {
		return shift.ShiftResponse{}, err
	}
	if s.HasBreak {
		if _, _, err := s.BreakSpan(); err != nil {
			return shift.ShiftResponse{}, err
		}
	}

	if err := svc.shifts.Update(ctx, s); err != nil {
		return shift.ShiftResponse{}, err
	}

	svc.queueNotification(ctx, s.CollaboratorID, &actor, notification.TypeShiftUpdated,
		"Turno modificato",
		fmt.Sprintf("Il turno del %s è stato modificato", s.Date),
		s,
	)

	return svc.toResponse(s), nil
}

// Delete implements shift.ShiftService.
func (svc *ShiftServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	s, err := svc.shifts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := shift.CanActOn(s, actor); err != nil {
		return err
	}

	if err := svc.shifts.Delete(ctx, id); err != nil {
		return err
	}

	svc.queueNotification(ctx, s.CollaboratorID, &actor, notification.TypeShiftDeleted,
		"Turno annullato",
		fmt.Sprintf("Il turno del %s è stato annullato", s.Date),
		s,
	)

	return nil
}

func (svc *ShiftServiceImpl) notifyTransition(ctx context.Context, s shift.Shift, event shift.Event, actor shift.Actor) {
	switch event {
	case shift.EventAccept:
		svc.queueNotification(ctx, s.CreatedBy, &actor, notification.TypeShiftAccepted,
			"Turno accettato",
			fmt.Sprintf("%s ha accettato il turno del %s", s.CollaboratorName, s.Date), s)
	case shift.EventReject:
		svc.queueNotification(ctx, s.CreatedBy, &actor, notification.TypeShiftRejected,
			"Turno rifiutato",
			fmt.Sprintf("%s ha rifiutato il turno del %s", s.CollaboratorName, s.Date), s)
	case shift.EventCheckIn:
		svc.queueNotification(ctx, s.CreatedBy, &actor, notification.TypeShiftStarted,
			"Turno iniziato",
			fmt.Sprintf("%s ha iniziato il turno del %s", s.CollaboratorName, s.Date), s)
	case shift.EventCheckOut:
		svc.queueNotification(ctx, s.CreatedBy, &actor, notification.TypeShiftCompleted,
			"Turno completato",
			fmt.Sprintf("%s ha completato il turno del %s", s.CollaboratorName, s.Date), s)
	case shift.EventForceComplete, shift.EventEmergencyStop:
		svc.queueNotification(ctx, s.CollaboratorID, &actor, notification.TypeShiftForced,
			"Turno chiuso da un responsabile",
			fmt.Sprintf("Il turno del %s è stato chiuso da %s", s.Date, actor.Name), s)
	}
}

func (svc *ShiftServiceImpl) queueNotification(ctx context.Context, recipientID string, actor *shift.Actor, t notification.NotificationType, title, message string, s shift.Shift) {
	if svc.notifs == nil || recipientID == "" || (actor != nil && recipientID == actor.UserID) {
		return
	}
	var senderID *string
	if actor != nil {
		id := actor.UserID
		senderID = &id
	}
	_ = svc.notifs.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        t,
		Title:       title,
		Message:     message,
		Data: map[string]interface{}{
			"shift_id": s.ID,
			"date":     s.Date,
			"status":   string(s.Status),
		},
	})
}

func (svc *ShiftServiceImpl) toResponse(s shift.Shift) shift.ShiftResponse {
	result := fiscal.Calculate(s)

	return shift.ShiftResponse{
		ID:               s.ID,
		CollaboratorID:   s.CollaboratorID,
		CollaboratorName: s.CollaboratorName,
		CollaboratorRole: string(s.CollaboratorRole),

		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Location:  s.Location,

		HasBreak:       s.HasBreak,
		BreakStartTime: s.BreakStartTime,
		BreakEndTime:   s.BreakEndTime,

		RealStartTime:       shift.FormatTimestamp(s.RealStartTime),
		RealEndTime:         shift.FormatTimestamp(s.RealEndTime),
		StartLatitude:       s.StartLatitude,
		StartLongitude:      s.StartLongitude,
		VenueDistanceMeters: s.VenueDistanceMeters,

		PayoutRate: s.PayoutRate.StringFixed(2),
		RateType:   string(s.RateType),
		Status:     string(s.Status),

		Cost:           result.CostString(),
		PayableMinutes: result.Minutes,

		CreatedBy:     s.CreatedBy,
		CreatorName:   s.CreatorName,
		CreatedAt:     s.CreatedAt.Format("2006-01-02 15:04:05"),
		AdminOverride: s.AdminOverride,
		ForcedBy:      s.ForcedBy,
		CompletedAt:   shift.FormatTimestamp(s.CompletedAt),
		SystemClosed:  s.SystemClosed,
	}
}
