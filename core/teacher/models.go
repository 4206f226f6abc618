package teacher

import (
	"github.com/go-playground/validator/v10"

	"github.com/mergington/activities/core"
)

// Roles
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var Roles = []string{RoleTeacher, RoleAdmin}

// Teacher is a staff account allowed to manage activity registrations.
type Teacher struct {
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

func (t *Teacher) SetPassword(pwd string) error {
	hash, err := HashPassword(pwd)
	if err != nil {
		return err
	}
	t.PasswordHash = hash
	return nil
}

func (t Teacher) CheckPassword(pwd string) error {
	return CheckPassword(t.PasswordHash, pwd)
}

func (t Teacher) IsAdmin() bool {
	return t.Role == RoleAdmin
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	Username    string `json:"username" validate:"required,alphanum_"`
	DisplayName string `json:"display_name" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=teacher admin"`
	Password    string `json:"password" validate:"required"`
}

// Validate cleans the fields then applies the field validators and the password policy.
func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Username = core.CleanString(nt.Username, true /* lower */)
	nt.DisplayName = core.CleanString(nt.DisplayName)
	nt.Role = core.CleanString(nt.Role, true /* lower */)
	if nt.Role == "" {
		nt.Role = RoleTeacher
	}
	return validate.Struct(nt)
}
