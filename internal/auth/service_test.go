package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/teranga-resto/teranga-resto/internal/shared"
	"github.com/teranga-resto/teranga-resto/internal/users"
)

type memoryRepository struct {
	users map[string]users.User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: map[string]users.User{}}
}

func (m *memoryRepository) List(_ context.Context) ([]users.User, error) {
	var out []users.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryRepository) Get(_ context.Context, id string) (users.User, error) {
	u, ok := m.users[id]
	if !ok {
		return users.User{}, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	return u, nil
}

func (m *memoryRepository) FindByEmail(_ context.Context, email string) (users.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, fmt.Errorf("%w: no account for %s", shared.ErrNotFound, email)
}

func (m *memoryRepository) Create(_ context.Context, u users.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *memoryRepository) UpdateRole(_ context.Context, id, role string) (users.User, error) {
	u, ok := m.users[id]
	if !ok {
		return users.User{}, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	u.Role = role
	m.users[id] = u
	return u, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, "")

	u, err := svc.Register(context.Background(), "Awa", "Awa@Example.com", "motdepasse")
	require.NoError(t, err)
	require.Equal(t, "awa@example.com", u.Email)
	require.Equal(t, users.RoleUser, u.Role)
	require.NotEqual(t, "motdepasse", u.PasswordHash)

	got, err := svc.Authenticate(context.Background(), "awa@example.com", "motdepasse")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), "awa@example.com", "mauvais-mdp")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "inconnu@example.com", "motdepasse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRegisterPromotesAdminEmail(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, "patron@example.com")

	admin, err := svc.Register(context.Background(), "Patron", "Patron@Example.com", "motdepasse")
	require.NoError(t, err)
	require.Equal(t, users.RoleAdmin, admin.Role)

	other, err := svc.Register(context.Background(), "Moussa", "moussa@example.com", "motdepasse")
	require.NoError(t, err)
	require.Equal(t, users.RoleUser, other.Role)
}

func TestRegisterValidation(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, "")

	_, err := svc.Register(context.Background(), "", "a@example.com", "motdepasse")
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Register(context.Background(), "Awa", "a@example.com", "court")
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Register(context.Background(), "Awa", "a@example.com", "motdepasse")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "Awa bis", "a@example.com", "motdepasse")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestStoredHashIsBcrypt(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, "")

	u, err := svc.Register(context.Background(), "Awa", "a@example.com", "motdepasse")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("motdepasse")))
}
