package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicai/civic-client/internal/api"
	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/pkg/config"
	apperrors "github.com/civicai/civic-client/pkg/errors"
	"github.com/civicai/civic-client/pkg/logger"
	"github.com/civicai/civic-client/pkg/testutil"
)

func newClient(t *testing.T, backend *testutil.Backend) *api.Client {
	t.Helper()
	return api.NewClient(config.ClientConfig{
		BaseURL:        backend.URL(),
		APIPrefix:      "/api",
		RequestTimeout: 5 * time.Second,
		AuthProvider:   "google",
	}, logger.NewNop())
}

func TestLogin(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	backend.LoginIdentity = testutil.CitizenIdentity()

	client := newClient(t, backend)
	ident, err := client.Login(context.Background(), "google", "provider-token")
	require.NoError(t, err)
	assert.Equal(t, testutil.CitizenIdentity(), ident)
}

func TestLogin_BackendDown(t *testing.T) {
	backend := testutil.NewBackend()
	backend.LoginIdentity = testutil.CitizenIdentity()
	client := newClient(t, backend)
	backend.Close()

	_, err := client.Login(context.Background(), "google", "provider-token")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBackendUnreachable))
}

func TestPredictImage_Accepted(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	backend.PredictBody = map[string]interface{}{
		"status":     "ok",
		"subject":    "Garbage accumulation at Market Road",
		"body":       "Respected Sir/Madam, ...",
		"department": "Sanitation Department",
		"issue_type": "garbage",
		"address":    "Market Road, Ward 12",
	}

	client := newClient(t, backend)
	verdict, err := client.PredictImage(context.Background(), testutil.CapturedImage(),
		domain.Position{Latitude: 12.9, Longitude: 77.6})
	require.NoError(t, err)

	accepted, ok := verdict.(domain.Accepted)
	require.True(t, ok, "expected an accepted verdict, got %T", verdict)
	assert.Equal(t, "Garbage accumulation at Market Road", accepted.Subject)
	assert.Equal(t, "Sanitation Department", accepted.Department)
	assert.Equal(t, "garbage", accepted.IssueType)

	// Coordinates travel as plain decimal form fields.
	assert.Equal(t, "12.9", backend.LastLat)
	assert.Equal(t, "77.6", backend.LastLong)
}

// The live service replies status "success"; the client accepts it the same
// way it accepts "ok".
func TestPredictImage_SuccessStatusAlias(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	backend.PredictBody = map[string]interface{}{
		"status":     "success",
		"subject":    "Pothole on 5th Cross",
		"body":       "...",
		"department": "Roads & Highways",
		"issue_type": "pothole",
		"address":    "5th Cross",
	}

	client := newClient(t, backend)
	verdict, err := client.PredictImage(context.Background(), testutil.CapturedImage(), domain.SentinelPosition)
	require.NoError(t, err)
	_, ok := verdict.(domain.Accepted)
	assert.True(t, ok)
}

func TestPredictImage_Rejected(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	backend.PredictBody = map[string]interface{}{
		"status":  "rejected",
		"message": "Image too dark",
	}

	client := newClient(t, backend)
	verdict, err := client.PredictImage(context.Background(), testutil.CapturedImage(), domain.SentinelPosition)
	require.NoError(t, err, "a rejection is a valid verdict, not an error")

	rejected, ok := verdict.(domain.Rejected)
	require.True(t, ok)
	assert.Equal(t, "Image too dark", rejected.Reason)
}

func TestPredictImage_ServerErrorIsUnreachable(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	backend.PredictStatus = http.StatusInternalServerError

	client := newClient(t, backend)
	_, err := client.PredictImage(context.Background(), testutil.CapturedImage(), domain.SentinelPosition)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBackendUnreachable))
}

func TestCreateComplaint(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	client := newClient(t, backend)
	err := client.CreateComplaint(context.Background(), api.Submission{
		Image:       testutil.CapturedImage(),
		Username:    "Asha Rao",
		Email:       "asha.rao@example.com",
		Title:       "Garbage accumulation at Market Road",
		Description: "Respected Sir/Madam, ...",
		Department:  "Sanitation Department",
		IssueType:   "garbage",
		Address:     "Market Road, Ward 12",
	})
	require.NoError(t, err)

	require.Len(t, backend.Created, 1)
	created := backend.Created[0]
	assert.Equal(t, "Asha Rao", created["username"])
	assert.Equal(t, "asha.rao@example.com", created["email"])
	assert.Equal(t, "Garbage accumulation at Market Road", created["title"])
	assert.Equal(t, "Sanitation Department", created["department"])
	assert.Equal(t, "garbage", created["issue_type"])
	assert.Equal(t, "Market Road, Ward 12", created["address"])
}

func TestCreateComplaint_ServerFailure(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	backend.CreateStatus = http.StatusBadGateway

	client := newClient(t, backend)
	err := client.CreateComplaint(context.Background(), api.Submission{
		Image:       testutil.CapturedImage(),
		Username:    "Asha Rao",
		Email:       "asha.rao@example.com",
		Title:       "t",
		Description: "d",
		Department:  "Sanitation Department",
		IssueType:   "garbage",
		Address:     "a",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSubmissionFailed))
}

func TestCreateComplaint_IncompleteSubmissionRefusedLocally(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	client := newClient(t, backend)
	err := client.CreateComplaint(context.Background(), api.Submission{
		Image: testutil.CapturedImage(),
	})
	require.Error(t, err)
	assert.Zero(t, backend.CreateCalls, "invalid payloads never reach the wire")
}

func TestDepartmentComplaints(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	backend.Complaints = []domain.Complaint{
		testutil.PendingComplaint("c1", "Sanitation Department"),
		testutil.ResolvedComplaint("c2", "Sanitation Department"),
		testutil.PendingComplaint("c3", "Roads & Highways"),
	}

	client := newClient(t, backend)
	got, err := client.DepartmentComplaints(context.Background(), "Sanitation Department")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c2", got[1].ID)
}

func TestUserComplaints(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	backend.Complaints = []domain.Complaint{
		testutil.PendingComplaint("c1", "Sanitation Department"),
	}

	client := newClient(t, backend)
	got, err := client.UserComplaints(context.Background(), "asha.rao@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
}

func TestResolve(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()
	backend.Complaints = []domain.Complaint{
		testutil.PendingComplaint("c1", "Sanitation Department"),
	}

	client := newClient(t, backend)
	require.NoError(t, client.Resolve(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, backend.ResolveCalls)

	// The transition shows up on the next fetch.
	got, err := client.DepartmentComplaints(context.Background(), "Sanitation Department")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusCompleted, got[0].Status)
}
