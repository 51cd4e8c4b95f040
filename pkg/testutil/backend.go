// Package testutil provides testing utilities for the civic client: a
// configurable in-memory stand-in for the Civic AI backend plus common
// fixtures.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/civicai/civic-client/internal/domain"
)

// Backend is a fake Civic AI server exposing the consumed HTTP contract.
// Responses are configurable per test; requests are recorded for assertions.
type Backend struct {
	Server *httptest.Server

	mu sync.Mutex

	// Login behaviour
	LoginStatus   int
	LoginIdentity domain.Identity

	// Predict behaviour
	PredictStatus int
	PredictBody   map[string]interface{}
	PredictCalls  int
	LastLat       string
	LastLong      string

	// Complaint store
	CreateStatus  int
	CreateCalls   int
	Created       []map[string]string
	Complaints    []domain.Complaint
	ResolveStatus int
	ResolveCalls  []string
}

// NewBackend starts a fake backend with permissive defaults. Callers own
// shutdown via Close.
func NewBackend() *Backend {
	b := &Backend{
		LoginStatus:   http.StatusOK,
		PredictStatus: http.StatusOK,
		PredictBody:   map[string]interface{}{"status": "ok"},
		CreateStatus:  http.StatusOK,
		ResolveStatus: http.StatusOK,
	}

	r := chi.NewRouter()
	r.Post("/api/auth/{provider}", b.handleLogin)
	r.Post("/predict/image", b.handlePredict)
	r.Post("/api/complaints", b.handleCreate)
	r.Get("/api/complaints/user/{email}", b.handleUserComplaints)
	r.Get("/api/complaints/{department}", b.handleDepartmentComplaints)
	r.Put("/api/complaints/{id}/resolve", b.handleResolve)

	b.Server = httptest.NewServer(r)
	return b
}

// URL returns the backend base URL
func (b *Backend) URL() string {
	return b.Server.URL
}

// Close shuts the fake backend down
func (b *Backend) Close() {
	b.Server.Close()
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.LoginStatus != http.StatusOK {
		w.WriteHeader(b.LoginStatus)
		return
	}
	writeJSON(w, map[string]string{
		"message": "Login successful",
		"name":    b.LoginIdentity.Name,
		"email":   b.LoginIdentity.Email,
		"role":    string(b.LoginIdentity.Role),
	})
}

func (b *Backend) handlePredict(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.PredictCalls++
	if err := r.ParseMultipartForm(32 << 20); err == nil {
		b.LastLat = r.FormValue("lat")
		b.LastLong = r.FormValue("long")
	}

	if b.PredictStatus != http.StatusOK {
		w.WriteHeader(b.PredictStatus)
		return
	}
	writeJSON(w, b.PredictBody)
}

func (b *Backend) handleCreate(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.CreateCalls++
	if b.CreateStatus != http.StatusOK {
		w.WriteHeader(b.CreateStatus)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	fields := make(map[string]string)
	for _, name := range []string{"username", "email", "title", "description", "department", "issue_type", "address"} {
		fields[name] = r.FormValue(name)
	}
	b.Created = append(b.Created, fields)
	writeJSON(w, map[string]string{"message": "Saved", "id": "stored"})
}

func (b *Backend) handleDepartmentComplaints(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	department := chi.URLParam(r, "department")
	matched := []domain.Complaint{}
	for _, c := range b.Complaints {
		if c.Department == department {
			matched = append(matched, c)
		}
	}
	writeJSON(w, matched)
}

func (b *Backend) handleUserComplaints(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	email := chi.URLParam(r, "email")
	matched := []domain.Complaint{}
	for _, c := range b.Complaints {
		if c.Email == email {
			matched = append(matched, c)
		}
	}
	writeJSON(w, matched)
}

func (b *Backend) handleResolve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := chi.URLParam(r, "id")
	b.ResolveCalls = append(b.ResolveCalls, id)
	if b.ResolveStatus != http.StatusOK {
		w.WriteHeader(b.ResolveStatus)
		return
	}
	for i := range b.Complaints {
		if b.Complaints[i].ID == id {
			b.Complaints[i].Status = domain.StatusCompleted
		}
	}
	writeJSON(w, map[string]string{"message": "Complaint status updated and user notified"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
