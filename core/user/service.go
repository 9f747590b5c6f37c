package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
)

var (
	// errors
	ErrUsernameExists = errors.New("a user with this username already exists")
	ErrAuthFailed     = errors.New("authentication failed")
)

// CheckUniqueness returns a *core.ValidationError when the username is already taken.
func CheckUniqueness(ctx context.Context, repo core.Repository[User], username string) error {
	_, err := repo.Query().Filter("username", username).First(ctx)
	switch {
	case err == nil:
		return core.NewValidationError(
			ErrUsernameExists,
			core.FieldError{Field: "username", Error: ErrUsernameExists.Error()},
		)
	case errors.Cause(err) == core.ErrNotFound:
		return nil
	default:
		return errors.Wrap(err, "checking username uniqueness")
	}
}

// Create stages a new User built from a cleaned & validated NewUser and saves it.
func Create(ctx context.Context, repo core.Repository[User], nu NewUser, now time.Time) (*User, error) {
	if err := CheckUniqueness(ctx, repo, nu.Username); err != nil {
		return nil, err
	}

	usr := &User{
		Username:  nu.Username,
		FullName:  nu.FullName,
		Role:      nu.Role,
		CreatedAt: now.UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	repo.Add(usr)
	if err := repo.SaveChanges(ctx); err != nil {
		return nil, errors.Wrap(err, "saving user")
	}
	return usr, nil
}

// GetByUsername finds a user by its (case-insensitive) username.
func GetByUsername(ctx context.Context, repo core.Repository[User], username string) (*User, error) {
	usr, err := repo.Query().Filter("username", core.CleanString(username, true /* lower */)).First(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "finding user by username")
	}
	return usr, nil
}

// Authenticate returns the user matching the credentials or ErrAuthFailed.
func Authenticate(ctx context.Context, repo core.Repository[User], username, password string) (*User, error) {
	usr, err := GetByUsername(ctx, repo, username)
	if err != nil {
		if errors.Cause(err) == core.ErrNotFound {
			return nil, ErrAuthFailed
		}
		return nil, err
	}
	if err = usr.CheckPassword(password); err != nil {
		return nil, ErrAuthFailed
	}
	return usr, nil
}

// ResetPassword hashes and saves a new password for the user.
func ResetPassword(ctx context.Context, repo core.Repository[User], usr *User, password string) error {
	if err := usr.SetPassword(password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	repo.Update(usr)
	return errors.Wrap(repo.SaveChanges(ctx), "saving user")
}

// ValidatePassword applies the password policy outside of a NewUser, eg. on a password reset.
func ValidatePassword(usr *User, password string) error {
	if tag := checkPassword(password, usr.FullName, usr.Username); tag != "" {
		return core.NewValidationError(
			errors.New(passwordPolicyTexts[tag]),
			core.FieldError{Field: "password", Error: passwordPolicyTexts[tag]},
		)
	}
	return nil
}
