package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mwhited/notekeeper/internal/domain"
	"github.com/mwhited/notekeeper/internal/repo"
)

// validate checks registration field lengths. A single instance is safe for
// concurrent use and caches struct metadata across calls.
var validate = validator.New(validator.WithRequiredStructEnabled())

// registerRules carries the size constraints for the credential fields.
// The bcrypt upper bound of 72 bytes is why password has a max.
type registerRules struct {
	Username string `validate:"min=6"`
	Password string `validate:"min=8,max=72"`
}

// RegisterInput is the raw registration payload. Username and Password are
// pointers so a field absent from the request body is distinguishable from
// an empty string — absence is a different validation failure.
type RegisterInput struct {
	Username *string
	Password *string
	Fullname *string
}

// UserService implements registration and credential verification.
type UserService struct {
	users repo.UserRepo
}

// NewUserService constructs a UserService backed by the provided UserRepo.
func NewUserService(users repo.UserRepo) *UserService {
	return &UserService{users: users}
}

// Register validates the input, hashes the password, and persists the user.
// Field-format failures return domain.ErrValidation with a field-specific
// message; a taken username returns domain.ErrDuplicate.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if in.Username == nil {
		return domain.User{}, fmt.Errorf("%w: Missing 'username' in request body", domain.ErrValidation)
	}
	if in.Password == nil {
		return domain.User{}, fmt.Errorf("%w: Missing 'password' in request body", domain.ErrValidation)
	}

	for _, field := range []string{*in.Username, *in.Password} {
		if strings.TrimSpace(field) != field {
			return domain.User{}, fmt.Errorf("%w: Cannot start or end with whitespace", domain.ErrValidation)
		}
	}

	rules := registerRules{Username: *in.Username, Password: *in.Password}
	if err := validate.Struct(rules); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return domain.User{}, fmt.Errorf("%w: %s", domain.ErrValidation, sizeMessage(fieldErrs[0]))
		}
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: hash password: %w", err)
	}

	user := domain.User{
		Username:     *in.Username,
		PasswordHash: string(digest),
	}
	if in.Fullname != nil {
		user.Fullname = strings.TrimSpace(*in.Fullname)
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.User{}, fmt.Errorf("%w: The username already exists", domain.ErrDuplicate)
		}
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	return created, nil
}

// Authenticate verifies a username/password pair against the stored bcrypt
// digest. Any failure — unknown username or wrong password — returns
// domain.ErrUnauthorized, with no hint which of the two it was.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, fmt.Errorf("service.UserService.Authenticate: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}
	return user, nil
}

// GetByID returns a user by primary key. Used by the token refresh path to
// confirm the identity in a still-valid token maps to a real user.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return user, nil
}

// sizeMessage renders a validator length failure as the API's canonical
// field-size message.
func sizeMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("Field: '%s' must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("Field: '%s' must be at most %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("Field: '%s' is invalid", field)
	}
}
