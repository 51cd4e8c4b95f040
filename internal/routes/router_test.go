package routes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/internal/routes"
	"github.com/civicai/civic-client/pkg/logger"
)

type fakeSession struct {
	ident *domain.Identity
}

func (f *fakeSession) Current() (domain.Identity, bool) {
	if f.ident == nil {
		return domain.Identity{}, false
	}
	return *f.ident, true
}

func TestRouter_GuardAppliedOnEveryAttempt(t *testing.T) {
	sess := &fakeSession{}
	r := routes.NewRouter(sess, logger.NewNop())

	assert.Equal(t, routes.ScreenLogin, r.Current())

	// Unauthenticated: protected screens land on login.
	assert.Equal(t, routes.ScreenLogin, r.Navigate(routes.ScreenAdminDepartments))
	assert.Equal(t, routes.ScreenLogin, r.Navigate(routes.ScreenPostComplaint))

	// Signing in as citizen opens citizen screens but not admin ones.
	sess.ident = &domain.Identity{Name: "Asha Rao", Email: "asha.rao@example.com", Role: domain.RoleCitizen}
	assert.Equal(t, routes.ScreenPostComplaint, r.Navigate(routes.ScreenPostComplaint))
	assert.Equal(t, routes.ScreenPostComplaint, r.Navigate(routes.ScreenAdminPending))

	// A role change mid-session is reflected on the next attempt.
	sess.ident.Role = domain.RoleAdmin
	assert.Equal(t, routes.ScreenAdminPending, r.Navigate(routes.ScreenAdminPending))

	// Logging out locks everything again.
	sess.ident = nil
	assert.Equal(t, routes.ScreenLogin, r.Navigate(routes.ScreenProfile))
}

func TestHome(t *testing.T) {
	citizen := domain.Identity{Role: domain.RoleCitizen}
	admin := domain.Identity{Role: domain.RoleAdmin}

	assert.Equal(t, routes.ScreenPostComplaint, routes.Home(citizen))
	assert.Equal(t, routes.ScreenAdminDepartments, routes.Home(admin))
}
