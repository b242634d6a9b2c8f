package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrPasswordMismatch is returned when the register confirmation differs.
var ErrPasswordMismatch = errors.New("Passwords do not match")

// LoginForm is the login page input.
type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Validate checks required fields.
func (f *LoginForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	return validationError(validate.Struct(f))
}

// RegisterForm is the sign-up page input.
type RegisterForm struct {
	Username        string `validate:"required,min=3,max=50"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required"`
}

// Validate checks the fields and that both passwords match.
func (f *RegisterForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	if f.Password != f.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return validationError(validate.Struct(f))
}

// PostForm is the create/edit post input.
type PostForm struct {
	Title    string `validate:"required,max=200"`
	Text     string `validate:"required"`
	TagNames []string
	Image    *Upload
}

// Validate checks required fields and normalises tag names.
func (f *PostForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Text = strings.TrimSpace(f.Text)
	f.TagNames = NormalizeTagNames(f.TagNames)
	return validationError(validate.Struct(f))
}

// CommentForm is the comment box input.
type CommentForm struct {
	Text  string `validate:"required"`
	Image *Upload
}

// Validate rejects blank comments.
func (f *CommentForm) Validate() error {
	f.Text = strings.TrimSpace(f.Text)
	return validationError(validate.Struct(f))
}

// ProfileForm is the profile edit input.
type ProfileForm struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
}

func (f *ProfileForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	return validationError(validate.Struct(f))
}

// Upload is a file picked in a form, forwarded as a multipart part.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NormalizeTagNames trims, drops blanks and removes case-insensitive duplicates
// while keeping the first spelling.
func NormalizeTagNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		for _, part := range strings.Split(raw, ",") {
			name := strings.TrimSpace(part)
			key := strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, name)
		}
	}
	return out
}

// validationError turns validator output into a single user-facing error.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}
