package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/go-chi/jwtauth/v5"

	"github.com/turnilab/turni-backend-go/internal/domain/report"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
)

// listPageSize bounds one repository read while assembling a report.
const listPageSize = 500

type ReportServiceImpl struct {
	shifts shift.ShiftRepository
}

func NewReportService(shifts shift.ShiftRepository) report.ReportService {
	return &ReportServiceImpl{shifts: shifts}
}

type caller struct {
	UserID string
	Role   user.Role
}

func callerFromContext(ctx context.Context) (caller, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return caller{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return caller{}, fmt.Errorf("user_id claim is missing or invalid")
	}
	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return caller{}, fmt.Errorf("role claim is missing or invalid")
	}
	return caller{UserID: userID, Role: user.Role(roleStr)}, nil
}

// GetReport implements report.ReportService.
func (r *ReportServiceImpl) GetReport(ctx context.Context, req report.ReportRequest) (report.Summary, error) {
	if err := req.Validate(); err != nil {
		return report.Summary{}, err
	}

	c, err := callerFromContext(ctx)
	if err != nil {
		return report.Summary{}, err
	}

	switch req.Kind {
	case report.KindFull, report.KindAudit:
		if c.Role != user.RoleFounder {
			return report.Summary{}, report.ErrFounderRequired
		}
	case report.KindIndividual:
		if c.Role == user.RoleCollaborator {
			if req.CollaboratorID != c.UserID {
				return report.Summary{}, report.ErrNotYourReport
			}
		}
	default:
		return report.Summary{}, report.ErrInvalidKind
	}

	shifts, err := r.collect(ctx, req)
	if err != nil {
		return report.Summary{}, err
	}

	return report.Aggregate(shifts, req.Kind, req.Month), nil
}

// collect pages through the repository until the requested shifts are
// all in memory.
func (r *ReportServiceImpl) collect(ctx context.Context, req report.ReportRequest) ([]shift.Shift, error) {
	filter := shift.ShiftFilter{
		Page:  1,
		Limit: listPageSize,
	}
	if req.Month != "" {
		filter.Month = &req.Month
	}
	if req.Kind == report.KindIndividual {
		filter.CollaboratorID = &req.CollaboratorID
	}

	var all []shift.Shift
	for {
		page, total, err := r.shifts.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if int64(len(all)) >= total || len(page) == 0 {
			return all, nil
		}
		filter.Page++
	}
}

// ExportCSV implements report.ReportService. Founder only.
func (r *ReportServiceImpl) ExportCSV(ctx context.Context, req report.ReportRequest) ([]byte, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if c.Role != user.RoleFounder {
		return nil, report.ErrFounderRequired
	}

	summary, err := r.GetReport(ctx, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	audit := summary.Kind == report.KindAudit
	header := []string{"shift_id", "collaborator_id", "collaborator_name", "date", "start_time", "end_time", "location", "status"}
	if audit {
		header = append(header, "created_by", "creator_name", "created_at")
	} else {
		header = append(header, "cost", "payable_minutes")
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range summary.Rows {
		record := []string{
			row.ShiftID, row.CollaboratorID, row.CollaboratorName,
			row.Date, row.StartTime, row.EndTime, row.Location, row.Status,
		}
		if audit {
			record = append(record, row.CreatedBy, row.CreatorName, row.CreatedAt)
		} else {
			record = append(record, row.Cost, strconv.Itoa(row.PayableMinutes))
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	if !audit {
		totals := []string{"TOTAL", "", "", "", "", "", "", "", summary.TotalCost, strconv.Itoa(summary.TotalPayableMinutes)}
		if err := w.Write(totals); err != nil {
			return nil, fmt.Errorf("failed to write CSV totals: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}
