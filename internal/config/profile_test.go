package config

import (
	"testing"

	"account_service/internal/model"

	"github.com/stretchr/testify/assert"
)

func fullContactRequest() model.RegisterRequest {
	return model.RegisterRequest{
		Name:             "Ana",
		Surname:          "García",
		Username:         "ana",
		Password:         "p1",
		Email:            "ana@example.com",
		Phone:            "5551234567",
		Address:          "Calle 1",
		HouseholdContact: "Luis García",
		SecurityQuestion: "First pet?",
		SecurityAnswer:   "rex",
	}
}

func TestProfile_MissingFields_Contact(t *testing.T) {
	assert.Empty(t, ProfileContact.MissingFields(fullContactRequest()))

	req := fullContactRequest()
	req.Email = ""
	req.SecurityAnswer = ""
	missing := ProfileContact.MissingFields(req)
	assert.ElementsMatch(t, []string{"email", "security_answer"}, missing)
}

func TestProfile_MissingFields_Role(t *testing.T) {
	req := model.RegisterRequest{
		Name:             "Ana",
		Surname:          "García",
		Username:         "ana",
		Password:         "p1",
		Role:             model.RoleAdmin,
		SecurityQuestion: "First pet?",
		SecurityAnswer:   "rex",
	}
	assert.Empty(t, ProfileRole.MissingFields(req))

	req.Role = ""
	assert.Equal(t, []string{"role"}, ProfileRole.MissingFields(req))
}

func TestLoadProfile(t *testing.T) {
	t.Setenv("ACCOUNT_PROFILE", "")
	assert.Equal(t, ProfileContact, LoadProfile())

	t.Setenv("ACCOUNT_PROFILE", "role")
	assert.Equal(t, ProfileRole, LoadProfile())

	t.Setenv("ACCOUNT_PROFILE", "bogus")
	assert.Equal(t, ProfileContact, LoadProfile())
}

func TestRequiresEmail(t *testing.T) {
	assert.True(t, ProfileContact.RequiresEmail())
	assert.False(t, ProfileRole.RequiresEmail())
}
