package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account record in the system
type User struct {
	GUID             string `json:"guid"`
	Username         string `json:"username"`
	Name             string `json:"name"`
	Surname          string `json:"surname"`
	PasswordHash     string `json:"-"` // Do not expose password hash in JSON responses
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Address          string `json:"address,omitempty"`
	HouseholdContact string `json:"household_contact,omitempty"`
	Role             string `json:"role,omitempty"`
	SecurityQuestion string `json:"security_question"`
	// Hash of the security answer, never serialized
	SecurityAnswerHash string    `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}

// RegisterRequest carries the registration payload. Which fields are
// required depends on the configured deployment profile, so presence is
// validated in the service rather than with binding tags.
type RegisterRequest struct {
	Name             string `json:"name"`
	Surname          string `json:"surname"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	HouseholdContact string `json:"household_contact"`
	Role             string `json:"role"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

// UserPatch is a partial update: only non-nil fields are applied.
type UserPatch struct {
	Name             *string `json:"name,omitempty"`
	Surname          *string `json:"surname,omitempty"`
	Username         *string `json:"username,omitempty"`
	Password         *string `json:"password,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
	HouseholdContact *string `json:"household_contact,omitempty"`
	Role             *string `json:"role,omitempty"`
	SecurityQuestion *string `json:"security_question,omitempty"`
	SecurityAnswer   *string `json:"security_answer,omitempty"`
}
