// Package report folds shift collections through the fiscal calculator
// into the rows and grand totals used by payroll and audit exports.
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/turnilab/turni-backend-go/internal/domain/fiscal"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
)

type Kind string

const (
	// KindIndividual reports one collaborator's shifts with money figures.
	KindIndividual Kind = "INDIVIDUAL"
	// KindFull aggregates every collaborator.
	KindFull Kind = "FULL"
	// KindAudit is the creation log: who created which shift, for whom,
	// and when. It computes no money.
	KindAudit Kind = "AUDIT"
)

func ValidKinds() []string {
	return []string{string(KindIndividual), string(KindFull), string(KindAudit)}
}

type Row struct {
	ShiftID          string `json:"shift_id"`
	CollaboratorID   string `json:"collaborator_id"`
	CollaboratorName string `json:"collaborator_name"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Location         string `json:"location,omitempty"`
	Status           string `json:"status"`

	// Money columns, empty in AUDIT mode.
	Cost           string `json:"cost,omitempty"`
	PayableMinutes int    `json:"payable_minutes"`

	// Audit columns.
	CreatedBy   string `json:"created_by,omitempty"`
	CreatorName string `json:"creator_name,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type Summary struct {
	Kind                Kind   `json:"kind"`
	Month               string `json:"month,omitempty"`
	Rows                []Row  `json:"rows"`
	TotalCost           string `json:"total_cost"`
	TotalPayableMinutes int    `json:"total_payable_minutes"`
}

// Aggregate produces the report rows and grand totals for the given
// shifts. Rows are listed for every shift for context, but totals are
// summed only over completed ones. month filters by YYYY-MM prefix of
// the shift date; empty means no filter.
func Aggregate(shifts []shift.Shift, kind Kind, month string) Summary {
	filtered := make([]shift.Shift, 0, len(shifts))
	for _, s := range shifts {
		if month != "" && !strings.HasPrefix(s.Date, month) {
			continue
		}
		filtered = append(filtered, s)
	}

	if kind == KindAudit {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	} else {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Date > filtered[j].Date
		})
	}

	rows := make([]Row, 0, len(filtered))
	totalCost := decimal.Zero
	totalMinutes := 0

	for _, s := range filtered {
		row := Row{
			ShiftID:          s.ID,
			CollaboratorID:   s.CollaboratorID,
			CollaboratorName: s.CollaboratorName,
			Date:             s.Date,
			StartTime:        s.StartTime,
			EndTime:          s.EndTime,
			Location:         s.Location,
			Status:           string(s.Status),
		}

		if kind == KindAudit {
			row.CreatedBy = s.CreatedBy
			row.CreatorName = s.CreatorName
			row.CreatedAt = s.CreatedAt.Format("2006-01-02 15:04:05")
		} else {
			res := fiscal.Calculate(s)
			row.Cost = res.CostString()
			row.PayableMinutes = res.Minutes
			if s.Status == shift.StatusCompleted {
				totalCost = totalCost.Add(res.Cost)
				totalMinutes += res.Minutes
			}
		}

		rows = append(rows, row)
	}

	return Summary{
		Kind:                kind,
		Month:               month,
		Rows:                rows,
		TotalCost:           totalCost.StringFixed(2),
		TotalPayableMinutes: totalMinutes,
	}
}
