package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mwhited/notekeeper/internal/domain"
	"github.com/mwhited/notekeeper/internal/repo"
	"github.com/mwhited/notekeeper/internal/service"
)

// ---- mock UserRepo ---------------------------------------------------------

type mockUserRepo struct {
	create        func(ctx context.Context, user domain.User) (domain.User, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByUsername func(ctx context.Context, username string) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.getByUsername(ctx, username)
}

// compile-time check
var _ repo.UserRepo = (*mockUserRepo)(nil)

func strptr(s string) *string { return &s }

// ---- Register --------------------------------------------------------------

func TestUserService_Register_OK(t *testing.T) {
	var stored domain.User
	svc := service.NewUserService(&mockUserRepo{
		create: func(_ context.Context, user domain.User) (domain.User, error) {
			stored = user
			user.ID = uuid.New()
			return user, nil
		},
	})

	got, err := svc.Register(context.Background(), service.RegisterInput{
		Username: strptr("frodo.baggins"),
		Password: strptr("theonering"),
		Fullname: strptr("  Frodo Baggins  "),
	})

	require.NoError(t, err)
	assert.Equal(t, "frodo.baggins", got.Username)
	assert.Equal(t, "Frodo Baggins", got.Fullname, "fullname is trimmed")

	// The stored hash verifies against the original password and is not the
	// password itself.
	assert.NotEqual(t, "theonering", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("theonering")))
}

func TestUserService_Register_MissingUsername(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Password: strptr("longenough"),
	})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "Missing 'username' in request body")
}

func TestUserService_Register_MissingPassword(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: strptr("frodo.baggins"),
	})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "Missing 'password' in request body")
}

func TestUserService_Register_SurroundingWhitespace(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: strptr(" frodo.baggins"),
		Password: strptr("longenough"),
	})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "Cannot start or end with whitespace")
}

func TestUserService_Register_UsernameTooShort(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: strptr("frodo"),
		Password: strptr("longenough"),
	})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "Field: 'username' must be at least 6 characters long")
}

func TestUserService_Register_PasswordTooShort(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: strptr("frodo.baggins"),
		Password: strptr("short"),
	})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "Field: 'password' must be at least 8 characters long")
}

func TestUserService_Register_PasswordTooLong(t *testing.T) {
	// bcrypt rejects inputs over 72 bytes; validation catches it first.
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}
	svc := service.NewUserService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: strptr("frodo.baggins"),
		Password: strptr(string(long)),
	})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "Field: 'password' must be at most 72 characters long")
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{
		create: func(_ context.Context, _ domain.User) (domain.User, error) {
			return domain.User{}, domain.ErrDuplicate
		},
	})

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: strptr("frodo.baggins"),
		Password: strptr("theonering"),
	})

	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.ErrorContains(t, err, "The username already exists")
}

// ---- Authenticate ----------------------------------------------------------

func TestUserService_Authenticate_OK(t *testing.T) {
	digest, err := bcrypt.GenerateFromPassword([]byte("theonering"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := service.NewUserService(&mockUserRepo{
		getByUsername: func(_ context.Context, username string) (domain.User, error) {
			return domain.User{ID: uuid.New(), Username: username, PasswordHash: string(digest)}, nil
		},
	})

	got, err := svc.Authenticate(context.Background(), "frodo.baggins", "theonering")

	require.NoError(t, err)
	assert.Equal(t, "frodo.baggins", got.Username)
}

func TestUserService_Authenticate_UnknownUsername(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{
		getByUsername: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	})

	_, err := svc.Authenticate(context.Background(), "nobody", "whatever")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	digest, err := bcrypt.GenerateFromPassword([]byte("theonering"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := service.NewUserService(&mockUserRepo{
		getByUsername: func(_ context.Context, username string) (domain.User, error) {
			return domain.User{Username: username, PasswordHash: string(digest)}, nil
		},
	})

	// Wrong password and unknown username are indistinguishable to callers.
	_, err = svc.Authenticate(context.Background(), "frodo.baggins", "wrong")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ---- GetByID ---------------------------------------------------------------

func TestUserService_GetByID_Missing(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
