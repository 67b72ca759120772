package report

import (
	"github.com/turnilab/turni-backend-go/internal/pkg/validator"
)

// ReportRequest carries the query parameters of a report lookup. Month
// is optional; when empty the report covers every shift on record.
type ReportRequest struct {
	Kind           Kind
	Month          string
	CollaboratorID string
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(string(r.Kind)) {
		errs.Add("kind", "kind is required")
	} else if !validator.IsInSlice(string(r.Kind), ValidKinds()) {
		errs.Add("kind", "kind must be one of: INDIVIDUAL, FULL, AUDIT")
	}

	if !validator.IsEmpty(r.Month) && !validator.IsValidMonth(r.Month) {
		errs.Add("month", "month must be in YYYY-MM format")
	}

	if r.Kind == KindIndividual && validator.IsEmpty(r.CollaboratorID) {
		errs.Add("collaborator_id", "collaborator_id is required for individual reports")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
