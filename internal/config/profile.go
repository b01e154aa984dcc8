package config

import (
	"log"
	"os"

	"account_service/internal/model"
)

// Profile selects which registration field set a deployment requires.
type Profile string

const (
	// ProfileContact is the contact-rich field set (email, phone, address,
	// household contact).
	ProfileContact Profile = "contact"
	// ProfileRole is the reduced field set carrying only a role string.
	ProfileRole Profile = "role"
)

// LoadProfile reads ACCOUNT_PROFILE from the environment, defaulting to the
// contact-rich profile.
func LoadProfile() Profile {
	switch v := os.Getenv("ACCOUNT_PROFILE"); v {
	case "", string(ProfileContact):
		return ProfileContact
	case string(ProfileRole):
		return ProfileRole
	default:
		log.Printf("Unknown ACCOUNT_PROFILE %q, defaulting to %q", v, ProfileContact)
		return ProfileContact
	}
}

// RequiresEmail reports whether the profile carries an email field that must
// be present and unique.
func (p Profile) RequiresEmail() bool {
	return p == ProfileContact
}

// MissingFields returns the names of required registration fields that are
// empty for this profile.
func (p Profile) MissingFields(req model.RegisterRequest) []string {
	type field struct{ name, value string }

	required := []field{
		{"name", req.Name},
		{"surname", req.Surname},
		{"username", req.Username},
		{"password", req.Password},
		{"security_question", req.SecurityQuestion},
		{"security_answer", req.SecurityAnswer},
	}
	if p == ProfileRole {
		required = append(required, field{"role", req.Role})
	} else {
		required = append(required,
			field{"email", req.Email},
			field{"phone", req.Phone},
			field{"address", req.Address},
			field{"household_contact", req.HouseholdContact},
		)
	}

	var missing []string
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
