package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnilab/turni-backend-go/internal/pkg/validator"
)

func TestReportRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		req      ReportRequest
		wantErrs []string
	}{
		{
			name: "full report with month",
			req:  ReportRequest{Kind: KindFull, Month: "2024-03"},
		},
		{
			name: "month is optional",
			req:  ReportRequest{Kind: KindFull},
		},
		{
			name:     "malformed month still rejected",
			req:      ReportRequest{Kind: KindFull, Month: "march-2024"},
			wantErrs: []string{"month"},
		},
		{
			name:     "kind required",
			req:      ReportRequest{Month: "2024-03"},
			wantErrs: []string{"kind"},
		},
		{
			name:     "individual needs collaborator",
			req:      ReportRequest{Kind: KindIndividual, Month: "2024-03"},
			wantErrs: []string{"collaborator_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if len(tt.wantErrs) == 0 {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			for _, field := range tt.wantErrs {
				found := false
				for _, fe := range verrs {
					if fe.Field == field {
						found = true
					}
				}
				assert.True(t, found, "expected error on field %s", field)
			}
		})
	}
}
