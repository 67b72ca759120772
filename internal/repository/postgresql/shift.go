package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/turnilab/turni-backend-go/internal/domain/shift"
	"github.com/turnilab/turni-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	id, collaborator_id, collaborator_name, collaborator_role,
	date, start_time, end_time, location,
	venue_latitude, venue_longitude,
	has_break, break_start_time, break_end_time,
	real_start_time, real_end_time,
	start_latitude, start_longitude, venue_distance_meters,
	payout_rate, rate_type, status,
	created_by, creator_name, created_at, updated_at,
	admin_override, forced_by, completed_at, system_closed`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.CollaboratorID, &s.CollaboratorName, &s.CollaboratorRole,
		&s.Date, &s.StartTime, &s.EndTime, &s.Location,
		&s.VenueLatitude, &s.VenueLongitude,
		&s.HasBreak, &s.BreakStartTime, &s.BreakEndTime,
		&s.RealStartTime, &s.RealEndTime,
		&s.StartLatitude, &s.StartLongitude, &s.VenueDistanceMeters,
		&s.PayoutRate, &s.RateType, &s.Status,
		&s.CreatedBy, &s.CreatorName, &s.CreatedAt, &s.UpdatedAt,
		&s.AdminOverride, &s.ForcedBy, &s.CompletedAt, &s.SystemClosed,
	)
	return s, err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (
			id, collaborator_id, collaborator_name, collaborator_role,
			date, start_time, end_time, location,
			venue_latitude, venue_longitude,
			has_break, break_start_time, break_end_time,
			payout_rate, rate_type, status,
			created_by, creator_name
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID,
		s.CollaboratorID,
		s.CollaboratorName,
		s.CollaboratorRole,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.Location,
		s.VenueLatitude,
		s.VenueLongitude,
		s.HasBreak,
		s.BreakStartTime,
		s.BreakEndTime,
		s.PayoutRate,
		s.RateType,
		s.Status,
		s.CreatedBy,
		s.CreatorName,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by ID: %w", err)
	}

	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.Shift, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.CollaboratorID != nil && *filter.CollaboratorID != "" {
		baseWhere += fmt.Sprintf(" AND collaborator_id = $%d", argIdx)
		args = append(args, *filter.CollaboratorID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Month != nil && *filter.Month != "" {
		baseWhere += fmt.Sprintf(" AND date LIKE $%d", argIdx)
		args = append(args, *filter.Month+"-%")
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM shifts WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shifts: %w", err)
	}

	selectQuery := fmt.Sprintf(
		"SELECT "+shiftColumns+" FROM shifts WHERE %s ORDER BY date DESC, start_time DESC LIMIT $%d OFFSET $%d",
		baseWhere, argIdx, argIdx+1,
	)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	return shifts, total, nil
}

// GetLive implements shift.ShiftRepository. It returns the sweeper's
// working set: every non-terminal shift dated inside the window.
func (r *shiftRepository) GetLive(ctx context.Context, since, until time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + `
		FROM shifts
		WHERE status IN ($1, $2, $3)
		  AND date >= $4
		  AND date <= $5
		ORDER BY date, start_time`

	rows, err := q.Query(ctx, query,
		shift.StatusAssigned, shift.StatusAccepted, shift.StatusInProgress,
		since.Format("2006-01-02"), until.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query live shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan live shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	return shifts, nil
}

// Update implements shift.ShiftRepository. The whole mutable row is
// written so the last writer wins and racing sweepers converge.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts SET
			collaborator_id = $2, collaborator_name = $3, collaborator_role = $4,
			date = $5, start_time = $6, end_time = $7, location = $8,
			venue_latitude = $9, venue_longitude = $10,
			has_break = $11, break_start_time = $12, break_end_time = $13,
			real_start_time = $14, real_end_time = $15,
			start_latitude = $16, start_longitude = $17, venue_distance_meters = $18,
			payout_rate = $19, rate_type = $20, status = $21,
			admin_override = $22, forced_by = $23, completed_at = $24, system_closed = $25,
			updated_at = $26
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		s.ID,
		s.CollaboratorID, s.CollaboratorName, s.CollaboratorRole,
		s.Date, s.StartTime, s.EndTime, s.Location,
		s.VenueLatitude, s.VenueLongitude,
		s.HasBreak, s.BreakStartTime, s.BreakEndTime,
		s.RealStartTime, s.RealEndTime,
		s.StartLatitude, s.StartLongitude, s.VenueDistanceMeters,
		s.PayoutRate, s.RateType, s.Status,
		s.AdminOverride, s.ForcedBy, s.CompletedAt, s.SystemClosed,
		time.Now(),
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to update shift: %w", err)
	}

	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}

	return nil
}
