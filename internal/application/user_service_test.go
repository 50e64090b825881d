package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-todo/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

func newUserService(tokens TokenIssuer) *UserService {
	return NewUserService(memory.NewStore().Users(), helpers.BcryptHasher{Cost: bcrypt.MinCost}, tokens, quietLogger())
}

func requireKind(t *testing.T, err error, kind Kind) *AppError {
	t.Helper()
	ae, ok := AsAppError(err)
	require.True(t, ok, "expected *AppError, got %v", err)
	require.Equal(t, kind, ae.Kind)
	return ae
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(fakeTokens{})

	u, err := svc.Register(ctx, RegisterInput{Name: "Ann", Email: "  Ann@Example.COM ", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, "password123", u.Password)

	_, err = svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	ae := requireKind(t, err, KindConflict)
	assert.Equal(t, "Email already exists", ae.Message)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"short name", RegisterInput{Name: "A", Email: "a@example.com", Password: "password123"}, "name"},
		{"bad email", RegisterInput{Name: "Ann", Email: "nope", Password: "password123"}, "email"},
		{"short password", RegisterInput{Name: "Ann", Email: "a@example.com", Password: "short"}, "password"},
		{"missing password", RegisterInput{Name: "Ann", Email: "a@example.com"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newUserService(fakeTokens{}).Register(context.Background(), tt.in)
			ae := requireKind(t, err, KindValidation)
			details, ok := ae.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.field)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(fakeTokens{})
	u, err := svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(ctx, LoginInput{Email: "ANN@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "token-"+u.ID, res.Token)
		assert.Equal(t, u.ID, res.UserID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "bob@example.com", Password: "password123"})
		ae := requireKind(t, err, KindNotFound)
		assert.Equal(t, "User not found", ae.Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "ann@example.com", Password: "x"})
		ae := requireKind(t, err, KindUnauthorized)
		assert.Equal(t, "Invalid password", ae.Message)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "ann", Password: "password123"})
		requireKind(t, err, KindValidation)
	})

	t.Run("token failure", func(t *testing.T) {
		svc.Tokens = fakeTokens{err: errors.New("no key")}
		defer func() { svc.Tokens = fakeTokens{} }()
		_, err := svc.Login(ctx, LoginInput{Email: "ann@example.com", Password: "password123"})
		ae := requireKind(t, err, KindInternal)
		assert.Equal(t, "Token generation failed", ae.Message)
	})
}

func TestLoginWithRealTokens(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour, "test")
	svc := newUserService(jwt)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginInput{Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)
	claims, err := jwt.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, "ann@example.com", claims.Email)
}
