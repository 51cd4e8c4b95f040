package triage

import (
	"context"
	"fmt"

	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/internal/notify"
	apperrors "github.com/civicai/civic-client/pkg/errors"
	"github.com/civicai/civic-client/pkg/logger"
)

// Backend is the complaints collaborator consumed by the triage view
type Backend interface {
	DepartmentComplaints(ctx context.Context, department string) ([]domain.Complaint, error)
	Resolve(ctx context.Context, id string) error
}

// Confirmer asks the user to confirm a destructive action
type Confirmer func(prompt string) bool

// View is one department's triage screen: the fetched complaints partitioned
// client-side into pending and resolved by their status field.
type View struct {
	backend    Backend
	confirm    Confirmer
	notifier   notify.Notifier
	department string
	complaints []domain.Complaint
	busy       bool
	log        *logger.Logger
}

// NewView creates a triage view for one department
func NewView(backend Backend, confirm Confirmer, notifier notify.Notifier, department string, log *logger.Logger) *View {
	return &View{
		backend:    backend,
		confirm:    confirm,
		notifier:   notifier,
		department: department,
		log:        log.WithComponent("triage").WithScreen(department),
	}
}

// Department returns the department this view triages
func (v *View) Department() string {
	return v.department
}

// Load fetches the department's complaints. The server returns a single
// undifferentiated collection; partitioning happens locally.
func (v *View) Load(ctx context.Context) error {
	complaints, err := v.backend.DepartmentComplaints(ctx, v.department)
	if err != nil {
		v.log.Warn().Err(err).Msg("failed to fetch complaints")
		return err
	}
	v.complaints = complaints
	v.log.Debug().Int("count", len(complaints)).Msg("complaints loaded")
	return nil
}

// Partition splits complaints into pending and resolved by status. Pure,
// exhaustive and disjoint: every complaint lands in exactly one slice.
func Partition(complaints []domain.Complaint) (pending, resolved []domain.Complaint) {
	for _, c := range complaints {
		if c.IsResolved() {
			resolved = append(resolved, c)
		} else {
			pending = append(pending, c)
		}
	}
	return pending, resolved
}

// Pending returns the loaded complaints still awaiting resolution
func (v *View) Pending() []domain.Complaint {
	pending, _ := Partition(v.complaints)
	return pending
}

// Resolved returns the loaded complaints already completed
func (v *View) Resolved() []domain.Complaint {
	_, resolved := Partition(v.complaints)
	return resolved
}

// Resolve asks the server to transition the complaint Pending → Completed
// after user confirmation. The displayed status is updated optimistically
// and reverted when the server call fails, so the list never lies about an
// update that did not take effect.
func (v *View) Resolve(ctx context.Context, id string) error {
	if v.busy {
		return apperrors.InvalidState("a resolve is already in progress")
	}

	idx := v.indexOf(id)
	if idx < 0 {
		return apperrors.InvalidState(fmt.Sprintf("complaint %s not loaded", id))
	}
	if v.complaints[idx].IsResolved() {
		return apperrors.InvalidState(fmt.Sprintf("complaint %s is already resolved", id))
	}

	if !v.confirm("Mark as Resolved? This will update the status to 'Completed'.") {
		return nil
	}

	v.busy = true
	defer func() { v.busy = false }()

	previous := v.complaints[idx].Status
	v.complaints[idx].Status = domain.StatusCompleted

	if err := v.backend.Resolve(ctx, id); err != nil {
		v.complaints[idx].Status = previous
		v.log.Warn().Err(err).Str("complaint_id", id).Msg("resolve failed, status reverted")
		v.notifier.Error("Failed to update status.")
		return err
	}

	v.log.Info().Str("complaint_id", id).Msg("complaint resolved")
	v.notifier.Success("The complaint has been closed.")
	return nil
}

func (v *View) indexOf(id string) int {
	for i, c := range v.complaints {
		if c.ID == id {
			return i
		}
	}
	return -1
}
