package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhited/notekeeper/internal/domain"
	"github.com/mwhited/notekeeper/internal/handler"
	"github.com/mwhited/notekeeper/internal/service"
)

// ---- mock UserServicer -------------------------------------------------------

type mockUserServicer struct {
	register     func(ctx context.Context, in service.RegisterInput) (domain.User, error)
	authenticate func(ctx context.Context, username, password string) (domain.User, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserServicer) Register(ctx context.Context, in service.RegisterInput) (domain.User, error) {
	return m.register(ctx, in)
}
func (m *mockUserServicer) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	return m.authenticate(ctx, username, password)
}
func (m *mockUserServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

// compile-time check: mockUserServicer must satisfy handler.UserServicer.
var _ handler.UserServicer = (*mockUserServicer)(nil)

// ---- POST /users -------------------------------------------------------------

func TestRegisterUser_201(t *testing.T) {
	userID := uuid.New()
	svc := &mockUserServicer{
		register: func(_ context.Context, in service.RegisterInput) (domain.User, error) {
			require.NotNil(t, in.Username)
			assert.Equal(t, "frodo.baggins", *in.Username)
			return domain.User{ID: userID, Username: *in.Username, PasswordHash: "secret-hash"}, nil
		},
	}
	router, _ := newTestRouter(t, nil, nil, nil, svc)

	body := jsonBody(t, map[string]any{"username": "frodo.baggins", "password": "theonering"})
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/users/"+userID.String(), rec.Header().Get("Location"))

	// The password hash never leaves the server.
	assert.NotContains(t, rec.Body.String(), "secret-hash")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterUser_422_WrongFieldType(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil, nil, &mockUserServicer{})

	body := strings.NewReader(`{"username": 42, "password": "theonering"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Incorrect field type: expected string", errorMessage(t, rec))
}

func TestRegisterUser_422_ValidationFailure(t *testing.T) {
	svc := &mockUserServicer{
		register: func(_ context.Context, _ service.RegisterInput) (domain.User, error) {
			return domain.User{}, fmt.Errorf("%w: Field: 'username' must be at least 6 characters long", domain.ErrValidation)
		},
	}
	router, _ := newTestRouter(t, nil, nil, nil, svc)

	body := jsonBody(t, map[string]any{"username": "frodo", "password": "theonering"})
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Field: 'username' must be at least 6 characters long", errorMessage(t, rec))
}

func TestRegisterUser_400_DuplicateUsername(t *testing.T) {
	svc := &mockUserServicer{
		register: func(_ context.Context, _ service.RegisterInput) (domain.User, error) {
			return domain.User{}, fmt.Errorf("%w: The username already exists", domain.ErrDuplicate)
		},
	}
	router, _ := newTestRouter(t, nil, nil, nil, svc)

	body := jsonBody(t, map[string]any{"username": "frodo.baggins", "password": "theonering"})
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "The username already exists", errorMessage(t, rec))
}

// ---- POST /login -------------------------------------------------------------

func TestLogin_200_ReturnsVerifiableToken(t *testing.T) {
	user := domain.User{ID: uuid.New(), Username: "frodo.baggins"}
	svc := &mockUserServicer{
		authenticate: func(_ context.Context, username, password string) (domain.User, error) {
			assert.Equal(t, "frodo.baggins", username)
			assert.Equal(t, "theonering", password)
			return user, nil
		},
	}
	router, tokens := newTestRouter(t, nil, nil, nil, svc)

	body := jsonBody(t, map[string]any{"username": "frodo.baggins", "password": "theonering"})
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AuthToken string `json:"authToken"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.AuthToken)

	// The handed-out token must verify against the same signer and carry
	// the authenticated identity.
	id, err := tokens.Verify(resp.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, "frodo.baggins", id.Username)
}

func TestLogin_401_BadCredentials(t *testing.T) {
	svc := &mockUserServicer{
		authenticate: func(_ context.Context, _, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrUnauthorized
		},
	}
	router, _ := newTestRouter(t, nil, nil, nil, svc)

	body := jsonBody(t, map[string]any{"username": "frodo.baggins", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", errorMessage(t, rec))
}

// ---- POST /refresh -----------------------------------------------------------

func TestRefresh_200(t *testing.T) {
	svc := &mockUserServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			assert.Equal(t, testUserID, id)
			return domain.User{ID: id, Username: "test.user"}, nil
		},
	}
	router, tokens := newTestRouter(t, nil, nil, nil, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, tokens, http.MethodPost, "/refresh", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AuthToken string `json:"authToken"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	id, err := tokens.Verify(resp.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id.UserID)
}

func TestRefresh_401_WithoutToken(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil, nil, &mockUserServicer{})

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_401_DeletedAccount(t *testing.T) {
	svc := &mockUserServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) {
			return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", domain.ErrNotFound)
		},
	}
	router, tokens := newTestRouter(t, nil, nil, nil, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, tokens, http.MethodPost, "/refresh", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
