package profile

import (
	"context"

	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/pkg/logger"
)

// Backend fetches a citizen's own complaints
type Backend interface {
	UserComplaints(ctx context.Context, email string) ([]domain.Complaint, error)
}

// View is the citizen profile screen: the active user's complaint history,
// newest first as ordered by the server.
type View struct {
	backend Backend
	log     *logger.Logger
}

// NewView creates a profile view
func NewView(backend Backend, log *logger.Logger) *View {
	return &View{
		backend: backend,
		log:     log.WithComponent("profile"),
	}
}

// History fetches the identity's complaint history
func (v *View) History(ctx context.Context, ident domain.Identity) ([]domain.Complaint, error) {
	complaints, err := v.backend.UserComplaints(ctx, ident.Email)
	if err != nil {
		v.log.Warn().Err(err).Str("email", ident.Email).Msg("failed to fetch history")
		return nil, err
	}
	return complaints, nil
}
