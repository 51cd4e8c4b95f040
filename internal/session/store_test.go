package session_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/internal/session"
	"github.com/civicai/civic-client/pkg/logger"
)

func openStore(t *testing.T, path string) *session.Store {
	t.Helper()
	s, err := session.Open(path, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LoginCurrentLogout(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.db"))

	_, ok := s.Current()
	assert.False(t, ok, "fresh store must be unauthenticated")

	ident := domain.Identity{Name: "Asha Rao", Email: "asha.rao@example.com", Role: domain.RoleCitizen}
	require.NoError(t, s.Login(ident))

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, ident, got)

	require.NoError(t, s.Logout())
	_, ok = s.Current()
	assert.False(t, ok, "logout must clear the identity unconditionally")
}

func TestStore_LoginIsIdempotentLastWriteWins(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.db"))

	first := domain.Identity{Name: "Asha Rao", Email: "asha.rao@example.com", Role: domain.RoleCitizen}
	second := domain.Identity{Name: "Dev Kumar", Email: "dev.kumar@example.com", Role: domain.RoleAdmin}

	require.NoError(t, s.Login(first))
	require.NoError(t, s.Login(second))

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestStore_IdentitySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ident := domain.Identity{Name: "Asha Rao", Email: "asha.rao@example.com", Role: domain.RoleCitizen}

	s, err := session.Open(path, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Login(ident))
	require.NoError(t, s.Close())

	reopened := openStore(t, path)
	got, ok := reopened.Current()
	require.True(t, ok, "identity must survive a restart until explicit logout")
	assert.Equal(t, ident, got)
}

func TestStore_LogoutSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ident := domain.Identity{Name: "Asha Rao", Email: "asha.rao@example.com", Role: domain.RoleCitizen}

	s, err := session.Open(path, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Login(ident))
	require.NoError(t, s.Logout())
	require.NoError(t, s.Close())

	reopened := openStore(t, path)
	_, ok := reopened.Current()
	assert.False(t, ok)
}
