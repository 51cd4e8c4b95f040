package routes

import (
	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/pkg/logger"
)

// SessionReader supplies the active identity for guard evaluation
type SessionReader interface {
	Current() (domain.Identity, bool)
}

// Router tracks the current screen and applies the guard on every
// navigation attempt, not only at screen construction.
type Router struct {
	session SessionReader
	log     *logger.Logger
	current Screen
}

// NewRouter creates a router starting at the unauthenticated entry screen
func NewRouter(session SessionReader, log *logger.Logger) *Router {
	return &Router{
		session: session,
		log:     log.WithComponent("router"),
		current: ScreenLogin,
	}
}

// Current returns the screen the user is on
func (r *Router) Current() Screen {
	return r.current
}

// Navigate attempts to move to the requested screen and returns the screen
// actually landed on after guard evaluation.
func (r *Router) Navigate(screen Screen) Screen {
	var ident *domain.Identity
	if i, ok := r.session.Current(); ok {
		ident = &i
	}

	decision := Decide(screen, ident)
	if decision.Allowed {
		r.current = screen
		return screen
	}

	r.log.Debug().
		Str("requested", string(screen)).
		Str("redirected_to", string(decision.RedirectTo)).
		Msg("navigation refused")
	r.current = decision.RedirectTo
	return decision.RedirectTo
}

// Home returns the landing screen for the given identity after login
func Home(ident domain.Identity) Screen {
	if ident.IsAdmin() {
		return ScreenAdminDepartments
	}
	return ScreenPostComplaint
}
