package routes

// Screen identifies a navigable screen of the client
type Screen string

const (
	// ScreenLogin is the unauthenticated entry point
	ScreenLogin Screen = "login"
	// ScreenPostComplaint is the citizen capture/analyze screen and the
	// default landing screen for authenticated citizens
	ScreenPostComplaint Screen = "post-complaint"
	// ScreenReviewComplaint presents the drafted letter for confirmation
	ScreenReviewComplaint Screen = "review-complaint"
	// ScreenProfile shows the citizen's own complaint history
	ScreenProfile Screen = "profile"
	// ScreenAdminDepartments is the admin department dashboard
	ScreenAdminDepartments Screen = "admin/departments"
	// ScreenAdminPending lists a department's open complaints
	ScreenAdminPending Screen = "admin/complaints"
	// ScreenAdminResolved lists a department's resolved complaints
	ScreenAdminResolved Screen = "admin/resolved"
)

// AllScreens enumerates every navigable screen. The guard must map each of
// them, combined with any identity, to exactly one decision.
var AllScreens = []Screen{
	ScreenLogin,
	ScreenPostComplaint,
	ScreenReviewComplaint,
	ScreenProfile,
	ScreenAdminDepartments,
	ScreenAdminPending,
	ScreenAdminResolved,
}

// requirement describes the access rule of one screen
type requirement struct {
	authenticated bool
	adminOnly     bool
}

var requirements = map[Screen]requirement{
	ScreenLogin:            {},
	ScreenPostComplaint:    {authenticated: true},
	ScreenReviewComplaint:  {authenticated: true},
	ScreenProfile:          {authenticated: true},
	ScreenAdminDepartments: {authenticated: true, adminOnly: true},
	ScreenAdminPending:     {authenticated: true, adminOnly: true},
	ScreenAdminResolved:    {authenticated: true, adminOnly: true},
}
