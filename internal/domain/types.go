package domain

// Role is the access level granted at login
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
)

// Identity is the authenticated user, as returned by the login collaborator.
// Exactly one Identity is active at a time; its absence means unauthenticated.
type Identity struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role" validate:"required,oneof=citizen admin"`
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CapturedImage is one decoded camera frame. It is never mutated after
// capture, only replaced by a retake.
type CapturedImage struct {
	Data     []byte
	MIME     string
	Filename string
}

// Position is a pair of device coordinates
type Position struct {
	Latitude  float64
	Longitude float64
}

// SentinelPosition is the placeholder used under the lenient geolocation
// policy when no real position can be obtained.
var SentinelPosition = Position{Latitude: 0.0, Longitude: 0.0}

// IsSentinel reports whether the position is the lenient-policy placeholder
func (p Position) IsSentinel() bool {
	return p == SentinelPosition
}

// Verdict is the AI service's classification of a submitted image.
// Exactly one of Accepted or Rejected implements it per analysis attempt.
type Verdict interface {
	isVerdict()
}

// Accepted carries the drafted complaint letter for an accepted image
type Accepted struct {
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Department string `json:"department"`
	IssueType  string `json:"issue_type"`
	Address    string `json:"address"`
}

func (Accepted) isVerdict() {}

// Rejected carries the service's reason for refusing an image
type Rejected struct {
	Reason string `json:"message"`
}

func (Rejected) isVerdict() {}

// ComplaintStatus is the server-side lifecycle of a complaint.
// Completed is terminal; the client never transitions it back.
type ComplaintStatus string

const (
	StatusPending   ComplaintStatus = "Pending"
	StatusCompleted ComplaintStatus = "Completed"
)

// Complaint mirrors the server's complaint record. The client references it
// but never owns it; the only mutation it requests is the resolve transition.
type Complaint struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Department  string          `json:"department"`
	IssueType   string          `json:"issue_type"`
	Address     string          `json:"address"`
	ImageURL    string          `json:"image_url"`
	Status      ComplaintStatus `json:"status"`
	CreatedAt   string          `json:"created_at"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
}

// IsResolved reports whether the complaint has reached its terminal status
func (c Complaint) IsResolved() bool {
	return c.Status == StatusCompleted
}

// Departments lists the municipal departments complaints are routed to
var Departments = []string{
	"Sanitation Department",
	"Roads & Highways",
	"Water Supply Board",
	"Electricity Board",
	"Forestry Department",
	"General Administration",
}
