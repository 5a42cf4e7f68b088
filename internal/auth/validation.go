package auth

import (
	"errors"
	"strings"

	"github.com/asaskevich/govalidator"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	minUsernameLength       = 5
	minUpdatePasswordLength = 8

	// maxPasswordBytes is bcrypt's input limit.
	maxPasswordBytes = 72

	birthdayLayout = "2006-01-02"
)

// Violation is one failed rule on one field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations lists every failed rule of a request. It implements error so
// handlers can return it directly.
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, len(v))
	for i, violation := range v {
		parts[i] = violation.Field + ": " + violation.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Registration is the body of a sign-up request.
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"`
}

// Validate checks every rule and returns all violations, or nil.
func (r Registration) Validate() error {
	var v Violations
	v.check("username", r.Username,
		validation.Required.Error("username is required"),
		usernameLength, usernameCharset)
	v.check("password", r.Password,
		validation.Required.Error("password is required"),
		passwordMaxBytes)
	v.check("email", r.Email,
		validation.Required.Error("email is required"),
		emailFormat)
	v.check("birthday", r.Birthday, birthdayFormat)
	return v.err()
}

// ProfileUpdate is the body of a profile update. Nil fields are left unchanged.
type ProfileUpdate struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
	Birthday *string `json:"birthday"`
}

// Validate checks every supplied field and returns all violations, or nil.
// A field that is present must not be empty.
func (p ProfileUpdate) Validate() error {
	var v Violations
	if p.Username != nil {
		v.check("username", *p.Username,
			validation.Required.Error("username must not be empty"),
			usernameLength, usernameCharset)
	}
	if p.Password != nil {
		v.check("password", *p.Password,
			validation.Required.Error("password must not be empty"),
			validation.Length(minUpdatePasswordLength, 0).Error("password must be at least 8 characters"),
			passwordMaxBytes)
	}
	if p.Email != nil {
		v.check("email", *p.Email,
			validation.Required.Error("email must not be empty"),
			emailFormat)
	}
	if p.Birthday != nil {
		v.check("birthday", *p.Birthday, birthdayFormat)
	}
	return v.err()
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Username == nil && p.Password == nil && p.Email == nil && p.Birthday == nil
}

// Shared rules. Format rules skip empty values, so an empty required field
// reports only its Required violation. The email rule checks syntax only;
// is.Email would also resolve the domain.
var (
	usernameLength  = validation.Length(minUsernameLength, 0).Error("username must be at least 5 characters")
	usernameCharset = is.Alphanumeric.Error("username contains non alphanumeric characters - not allowed")
	emailFormat     = validation.NewStringRule(govalidator.IsEmail, "email does not appear to be valid")
	birthdayFormat  = validation.Date(birthdayLayout).Error("birthday must be a date in YYYY-MM-DD format")

	passwordMaxBytes = validation.By(func(value interface{}) error {
		if s, _ := value.(string); len(s) > maxPasswordBytes {
			return errors.New("password must be at most 72 bytes")
		}
		return nil
	})
)

// check applies each rule to value on its own so that every failure is
// recorded, not just the first.
func (v *Violations) check(field string, value string, rules ...validation.Rule) {
	for _, rule := range rules {
		if err := validation.Validate(value, rule); err != nil {
			*v = append(*v, Violation{Field: field, Message: err.Error()})
		}
	}
}

func (v Violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
