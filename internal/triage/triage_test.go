package triage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicai/civic-client/internal/api"
	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/internal/notify"
	"github.com/civicai/civic-client/internal/triage"
	"github.com/civicai/civic-client/pkg/config"
	"github.com/civicai/civic-client/pkg/logger"
	"github.com/civicai/civic-client/pkg/testutil"
)

func newHTTPClient(t *testing.T, server *testutil.Backend) *api.Client {
	t.Helper()
	return api.NewClient(config.ClientConfig{
		BaseURL:        server.URL(),
		APIPrefix:      "/api",
		RequestTimeout: 5 * time.Second,
	}, logger.NewNop())
}

type fakeBackend struct {
	complaints []domain.Complaint
	listErr    error
	resolveErr error
	resolved   []string
}

func (f *fakeBackend) DepartmentComplaints(ctx context.Context, department string) ([]domain.Complaint, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.complaints, nil
}

func (f *fakeBackend) Resolve(ctx context.Context, id string) error {
	if f.resolveErr != nil {
		return f.resolveErr
	}
	f.resolved = append(f.resolved, id)
	return nil
}

func confirmAlways(string) bool { return true }
func confirmNever(string) bool  { return false }

func newView(backend *fakeBackend, confirm triage.Confirmer) *triage.View {
	return triage.NewView(backend, confirm, notify.Nop{}, "Sanitation Department", logger.NewNop())
}

func TestPartition_ExhaustiveAndDisjoint(t *testing.T) {
	complaints := []domain.Complaint{
		testutil.PendingComplaint("c1", "Sanitation Department"),
		testutil.ResolvedComplaint("c2", "Sanitation Department"),
		testutil.PendingComplaint("c3", "Sanitation Department"),
		testutil.ResolvedComplaint("c4", "Sanitation Department"),
	}

	pending, resolved := triage.Partition(complaints)
	assert.Len(t, pending, 2)
	assert.Len(t, resolved, 2)
	assert.Equal(t, len(complaints), len(pending)+len(resolved), "partition is exhaustive")

	seen := map[string]int{}
	for _, c := range append(pending, resolved...) {
		seen[c.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "complaint %s appears in exactly one partition", id)
	}
	for _, c := range pending {
		assert.False(t, c.IsResolved())
	}
	for _, c := range resolved {
		assert.True(t, c.IsResolved())
	}
}

func TestResolve_SuccessMovesComplaint(t *testing.T) {
	backend := &fakeBackend{complaints: []domain.Complaint{
		testutil.PendingComplaint("c1", "Sanitation Department"),
		testutil.PendingComplaint("c2", "Sanitation Department"),
	}}
	view := newView(backend, confirmAlways)
	require.NoError(t, view.Load(context.Background()))

	require.NoError(t, view.Resolve(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, backend.resolved)

	pending := view.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "c2", pending[0].ID)

	resolved := view.Resolved()
	require.Len(t, resolved, 1)
	assert.Equal(t, "c1", resolved[0].ID)
}

func TestResolve_DeclinedConfirmationDoesNothing(t *testing.T) {
	backend := &fakeBackend{complaints: []domain.Complaint{
		testutil.PendingComplaint("c1", "Sanitation Department"),
	}}
	view := newView(backend, confirmNever)
	require.NoError(t, view.Load(context.Background()))

	require.NoError(t, view.Resolve(context.Background(), "c1"))
	assert.Empty(t, backend.resolved, "no server call without confirmation")
	assert.Len(t, view.Pending(), 1)
}

// A failed server call must not leave the list showing an update that never
// took effect: the optimistic status is reverted.
func TestResolve_FailureRevertsOptimisticUpdate(t *testing.T) {
	backend := &fakeBackend{
		complaints: []domain.Complaint{
			testutil.PendingComplaint("c1", "Sanitation Department"),
		},
		resolveErr: errors.New("server exploded"),
	}
	view := newView(backend, confirmAlways)
	require.NoError(t, view.Load(context.Background()))

	err := view.Resolve(context.Background(), "c1")
	require.Error(t, err)

	pending := view.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, domain.StatusPending, pending[0].Status)
	assert.Empty(t, view.Resolved())
}

func TestResolve_UnknownOrAlreadyResolved(t *testing.T) {
	backend := &fakeBackend{complaints: []domain.Complaint{
		testutil.ResolvedComplaint("c1", "Sanitation Department"),
	}}
	view := newView(backend, confirmAlways)
	require.NoError(t, view.Load(context.Background()))

	assert.Error(t, view.Resolve(context.Background(), "missing"))
	assert.Error(t, view.Resolve(context.Background(), "c1"), "Completed is terminal")
	assert.Empty(t, backend.resolved)
}

// Scenario: resolve against the fake backend, then refetch; the complaint
// has moved from the pending list to the resolved one.
func TestResolve_VisibleOnNextFetch(t *testing.T) {
	server := testutil.NewBackend()
	defer server.Close()
	server.Complaints = []domain.Complaint{
		testutil.PendingComplaint("x", "Sanitation Department"),
	}

	client := newHTTPClient(t, server)
	view := triage.NewView(client, confirmAlways, notify.Nop{}, "Sanitation Department", logger.NewNop())

	require.NoError(t, view.Load(context.Background()))
	require.Len(t, view.Pending(), 1)

	require.NoError(t, view.Resolve(context.Background(), "x"))

	require.NoError(t, view.Load(context.Background()))
	assert.Empty(t, view.Pending())
	require.Len(t, view.Resolved(), 1)
	assert.Equal(t, "x", view.Resolved()[0].ID)
}
