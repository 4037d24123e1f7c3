package repository

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/chatapp-auth/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func userValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		if err := validate.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register basicemail validation: %v", err))
		}
	})
	return validate
}

// NormalizeEmail trims and lower-cases an email the same way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PrepareUser applies the data model normalization and defaults to u and
// validates it.  Every backend calls this before inserting.
func PrepareUser(u *model.User) error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	if err := userValidator().Struct(u); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
