package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/pkg/config"
	apperrors "github.com/civicai/civic-client/pkg/errors"
	"github.com/civicai/civic-client/pkg/logger"
)

// Client talks to the Civic AI backend. Response shapes are decoded into
// typed structs and validated at this boundary; nothing downstream trusts
// the wire format.
type Client struct {
	baseURL    string
	apiPrefix  string
	httpClient *http.Client
	validate   *validator.Validate
	log        *logger.Logger
}

// NewClient creates a backend client from the client configuration
func NewClient(cfg config.ClientConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		apiPrefix: cfg.APIPrefix,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout, // analysis inference can take 10-20s
		},
		validate: validator.New(),
		log:      log.WithComponent("api"),
	}
}

// loginResponse mirrors the backend's auth response
type loginResponse struct {
	Message string `json:"message"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Role    string `json:"role" validate:"required,oneof=citizen admin"`
}

// Login exchanges an identity-provider token for an Identity.
// POST {api}/auth/{provider} {token} → {name, email, role}.
func (c *Client) Login(ctx context.Context, provider, token string) (domain.Identity, error) {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("api: marshal login payload: %w", err)
	}

	endpoint := c.baseURL + c.apiPrefix + "/auth/" + url.PathEscape(provider)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("api: create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return domain.Identity{}, err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Identity{}, fmt.Errorf("api: parse login response: %w", err)
	}
	if err := c.validate.Struct(resp); err != nil {
		return domain.Identity{}, fmt.Errorf("api: invalid login response: %w", err)
	}

	return domain.Identity{
		Name:  resp.Name,
		Email: resp.Email,
		Role:  domain.Role(resp.Role),
	}, nil
}

// predictResponse mirrors the analysis service response
type predictResponse struct {
	Status     string `json:"status" validate:"required,oneof=ok success rejected"`
	Message    string `json:"message"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Department string `json:"department"`
	IssueType  string `json:"issue_type"`
	Address    string `json:"address"`
}

// PredictImage sends the captured image and position for analysis and maps
// the response to a tagged verdict.
// POST /predict/image multipart{file, lat, long} → {status, ...}.
func (c *Client) PredictImage(ctx context.Context, image domain.CapturedImage, pos domain.Position) (domain.Verdict, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", image.Filename)
	if err != nil {
		return nil, fmt.Errorf("api: create form file: %w", err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, fmt.Errorf("api: write image data: %w", err)
	}
	if err := writer.WriteField("lat", formatCoord(pos.Latitude)); err != nil {
		return nil, fmt.Errorf("api: write lat field: %w", err)
	}
	if err := writer.WriteField("long", formatCoord(pos.Longitude)); err != nil {
		return nil, fmt.Errorf("api: write long field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("api: close multipart writer: %w", err)
	}

	endpoint := c.baseURL + "/predict/image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("api: create predict request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp predictResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("api: parse predict response: %w", err)
	}
	if err := c.validate.Struct(resp); err != nil {
		return nil, fmt.Errorf("api: invalid predict response: %w", err)
	}

	if resp.Status == "rejected" {
		reason := resp.Message
		if reason == "" {
			reason = "Image rejected"
		}
		return domain.Rejected{Reason: reason}, nil
	}

	return domain.Accepted{
		Subject:    resp.Subject,
		Body:       resp.Body,
		Department: resp.Department,
		IssueType:  resp.IssueType,
		Address:    resp.Address,
	}, nil
}

// Submission is the payload of a final complaint submission
type Submission struct {
	Image       domain.CapturedImage `validate:"required"`
	Username    string               `validate:"required"`
	Email       string               `validate:"required"`
	Title       string               `validate:"required"`
	Description string               `validate:"required"`
	Department  string               `validate:"required"`
	IssueType   string               `validate:"required"`
	Address     string               `validate:"required"`
}

// CreateComplaint submits the reviewed complaint.
// POST {api}/complaints multipart{file, username, email, title, description,
// department, issue_type, address}. The response body is not consumed.
func (c *Client) CreateComplaint(ctx context.Context, sub Submission) error {
	if err := c.validate.Struct(sub); err != nil {
		return fmt.Errorf("api: incomplete submission: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", sub.Image.Filename)
	if err != nil {
		return fmt.Errorf("api: create form file: %w", err)
	}
	if _, err := part.Write(sub.Image.Data); err != nil {
		return fmt.Errorf("api: write image data: %w", err)
	}
	fields := map[string]string{
		"username":    sub.Username,
		"email":       sub.Email,
		"title":       sub.Title,
		"description": sub.Description,
		"department":  sub.Department,
		"issue_type":  sub.IssueType,
		"address":     sub.Address,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("api: write %s field: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("api: close multipart writer: %w", err)
	}

	endpoint := c.baseURL + c.apiPrefix + "/complaints"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("api: create submission request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if _, err := c.do(req); err != nil {
		return apperrors.SubmissionFailed(err)
	}
	return nil
}

// DepartmentComplaints fetches a department's complaints, pending and
// resolved alike; the server returns a single undifferentiated collection.
// GET {api}/complaints/{department}.
func (c *Client) DepartmentComplaints(ctx context.Context, department string) ([]domain.Complaint, error) {
	endpoint := c.baseURL + c.apiPrefix + "/complaints/" + url.PathEscape(department)
	return c.getComplaints(ctx, endpoint)
}

// UserComplaints fetches the given citizen's complaint history, newest first.
// GET {api}/complaints/user/{email}.
func (c *Client) UserComplaints(ctx context.Context, email string) ([]domain.Complaint, error) {
	endpoint := c.baseURL + c.apiPrefix + "/complaints/user/" + url.PathEscape(email)
	return c.getComplaints(ctx, endpoint)
}

// Resolve asks the server to transition a complaint Pending → Completed.
// PUT {api}/complaints/{id}/resolve. The response body is not consumed.
func (c *Client) Resolve(ctx context.Context, id string) error {
	endpoint := c.baseURL + c.apiPrefix + "/complaints/" + url.PathEscape(id) + "/resolve"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return fmt.Errorf("api: create resolve request: %w", err)
	}
	if _, err := c.do(req); err != nil {
		return err
	}
	return nil
}

func (c *Client) getComplaints(ctx context.Context, endpoint string) ([]domain.Complaint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("api: create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var complaints []domain.Complaint
	if err := json.Unmarshal(body, &complaints); err != nil {
		return nil, fmt.Errorf("api: parse complaints: %w", err)
	}
	return complaints, nil
}

// do executes the request, treating transport failures and non-2xx statuses
// alike as an unreachable backend.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.BackendUnreachable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.BackendUnreachable(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("url", req.URL.Path).
			Msg("backend returned error status")
		return nil, apperrors.BackendUnreachable(
			fmt.Errorf("backend returned %d: %s", resp.StatusCode, string(body)))
	}
	return body, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
