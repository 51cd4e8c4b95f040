package testutil

import (
	"github.com/google/uuid"

	"github.com/civicai/civic-client/internal/domain"
)

// JPEGFrame is a minimal byte sequence carrying the JPEG magic, enough for
// image sniffing in tests.
var JPEGFrame = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

// CitizenIdentity returns a citizen fixture
func CitizenIdentity() domain.Identity {
	return domain.Identity{
		Name:  "Asha Rao",
		Email: "asha.rao@example.com",
		Role:  domain.RoleCitizen,
	}
}

// AdminIdentity returns an admin fixture
func AdminIdentity() domain.Identity {
	return domain.Identity{
		Name:  "Dev Kumar",
		Email: "dev.kumar@example.com",
		Role:  domain.RoleAdmin,
	}
}

// CapturedImage returns an in-memory image artifact fixture
func CapturedImage() domain.CapturedImage {
	return domain.CapturedImage{
		Data:     JPEGFrame,
		MIME:     "image/jpeg",
		Filename: "captured_" + uuid.NewString() + ".jpg",
	}
}

// PendingComplaint returns a pending complaint fixture for the department
func PendingComplaint(id, department string) domain.Complaint {
	return domain.Complaint{
		ID:          id,
		Title:       "Garbage pileup near market road",
		Description: "Accumulated waste blocking the footpath.",
		Department:  department,
		IssueType:   "garbage",
		Address:     "Market Road, Ward 12",
		ImageURL:    "/static/uploads/" + id + ".jpg",
		Status:      domain.StatusPending,
		CreatedAt:   "2025-06-01 10:30:00",
		Username:    "Asha Rao",
		Email:       "asha.rao@example.com",
	}
}

// ResolvedComplaint returns a completed complaint fixture for the department
func ResolvedComplaint(id, department string) domain.Complaint {
	c := PendingComplaint(id, department)
	c.Status = domain.StatusCompleted
	return c
}
