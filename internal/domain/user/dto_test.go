package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnilab/turni-backend-go/internal/pkg/validator"
)

func TestCreateUserRequestValidate(t *testing.T) {
	valid := CreateUserRequest{
		Email:    "anna@example.com",
		Password: "password123",
		Name:     "Anna",
		Role:     "COLLABORATORE",
	}
	assert.NoError(t, valid.Validate())

	short := valid
	short.Password = "short12"
	err := short.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "password")

	badRole := valid
	badRole.Role = "MANAGER"
	err = badRole.Validate()
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "role")
}
