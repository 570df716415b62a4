package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	byEmail map[string]*User
	byID    map[string]*User
}

func newRepoMock() *repoMock {
	return &repoMock{byEmail: map[string]*User{}, byID: map[string]*User{}}
}

func (m *repoMock) Create(_ context.Context, u *User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	return nil
}

func (m *repoMock) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *repoMock) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func testTokens() TokenConfig {
	return TokenConfig{Secret: "test-secret", Issuer: "ecommerce-api", Audience: "ecommerce-clients", TTL: time.Hour}
}

func TestRegister(t *testing.T) {
	repo := newRepoMock()
	svc := NewService(repo, testTokens())

	res, err := svc.Register(context.Background(), RegisterInput{
		Email:     "jane@example.com",
		Password:  "hunter22",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, RoleCustomer, res.User.Role)
	require.NotEqual(t, "hunter22", res.User.PasswordHash)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.Equal(t, res.User.ID, claims["sub"])
	require.Equal(t, RoleCustomer, claims["role"])
	require.Equal(t, "ecommerce-api", claims["iss"])

	_, err = svc.Register(context.Background(), RegisterInput{Email: "jane@example.com", Password: "other"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	repo := newRepoMock()
	svc := NewService(repo, testTokens())

	_, err := svc.Register(context.Background(), RegisterInput{Email: "jane@example.com", Password: "hunter22"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		res, err := svc.Login(context.Background(), "jane@example.com", "hunter22")
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)
		require.Equal(t, "jane@example.com", res.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "jane@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "hunter22")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
