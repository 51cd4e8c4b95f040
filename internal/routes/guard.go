package routes

import "github.com/civicai/civic-client/internal/domain"

// Decision is the guard's outcome for one navigation attempt
type Decision struct {
	Allowed    bool
	RedirectTo Screen
}

// Allow grants entry to the requested screen
func Allow() Decision {
	return Decision{Allowed: true}
}

// RedirectTo refuses entry and names the screen to land on instead
func RedirectTo(s Screen) Decision {
	return Decision{RedirectTo: s}
}

// Decide gates one navigation attempt. Pure and total: every screen/identity
// combination maps to exactly one decision, so a role change mid-session is
// reflected on the very next attempt. ident is nil when unauthenticated.
func Decide(screen Screen, ident *domain.Identity) Decision {
	req, known := requirements[screen]
	if !known {
		// Unknown screens are treated like protected ones: nothing to show,
		// send the user to the entry point.
		return RedirectTo(ScreenLogin)
	}

	if req.authenticated && ident == nil {
		return RedirectTo(ScreenLogin)
	}

	if req.adminOnly && !ident.IsAdmin() {
		return RedirectTo(ScreenPostComplaint)
	}

	return Allow()
}
