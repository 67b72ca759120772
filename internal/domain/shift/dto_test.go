package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnilab/turni-backend-go/internal/pkg/validator"
)

func TestCreateShiftRequestValidate_CollaboratorIDs(t *testing.T) {
	base := CreateShiftRequest{
		Date:      "2024-03-10",
		StartTime: "18:00",
		EndTime:   "22:00",
	}

	req := base
	req.CollaboratorIDs = []string{"8c3d4e5f-6a7b-4c8d-9e9f-0a1b2c3d4e5f"}
	assert.NoError(t, req.Validate())

	req = base
	req.CollaboratorIDs = []string{"anna"}
	err := req.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "collaborator_ids")

	req = base
	err = req.Validate()
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "collaborator_ids")
}

func TestCreateShiftRequestValidate_BreakFields(t *testing.T) {
	start := "19:00"
	req := CreateShiftRequest{
		CollaboratorIDs: []string{"8c3d4e5f-6a7b-4c8d-9e9f-0a1b2c3d4e5f"},
		Date:            "2024-03-10",
		StartTime:       "18:00",
		EndTime:         "22:00",
		HasBreak:        true,
		BreakStartTime:  &start,
	}

	err := req.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "break_end_time")
}
