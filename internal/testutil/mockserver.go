package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/kingcontent/videoai-client/internal/models"
)

// HTTPError represents an HTTP error response to inject.
type HTTPError struct {
	StatusCode int
	Message    string
}

// MockBackend is a configurable mock of the video generation backend.
type MockBackend struct {
	*httptest.Server
	mu sync.Mutex

	// Request tracking
	LoginCalls  int32
	MeCalls     int32
	UploadCalls int32
	CreateCalls int32
	ListCalls   int32
	DeleteCalls int32

	// Last request data
	LastListStatuses  string
	LastListPerPage   int
	LastCreateRequest *models.CreateJobRequest
	LastAuthHeader    string
	DeletedIDs        []int64

	// Configurable responses. List responses are consumed in order; once
	// exhausted, further list calls return an empty page.
	ListResponses []*models.JobsPage
	listIndex     int
	User          *models.User
	AccessToken   string
	NextImageID   int64
	NextJobID     int64

	// Failure injection
	LoginError  *HTTPError
	MeError     *HTTPError
	UploadError *HTTPError
	CreateError *HTTPError
	ListError   *HTTPError
	DeleteError *HTTPError
}

// NewMockBackend creates a started mock backend.
func NewMockBackend() *MockBackend {
	mock := &MockBackend{
		User:        &models.User{ID: 7, Name: "Test User", Email: "test@example.com", Credits: 42},
		AccessToken: "tok_test_abc123",
		NextImageID: 2183,
		NextJobID:   900,
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.handleRequest(w, r)
	}))

	return mock
}

func (m *MockBackend) handleRequest(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.LastAuthHeader = r.Header.Get("Authorization")
	m.mu.Unlock()

	path := r.URL.Path
	switch {
	case path == "/user/login" && r.Method == http.MethodPost:
		m.handleLogin(w, r)
	case path == "/user/me" && r.Method == http.MethodGet:
		m.handleMe(w, r)
	case path == "/user/video-ai/images" && r.Method == http.MethodPost:
		m.handleUpload(w, r)
	case path == "/user/video-ai/jobs" && r.Method == http.MethodPost:
		m.handleCreate(w, r)
	case path == "/user/video-ai/jobs" && r.Method == http.MethodGet:
		m.handleList(w, r)
	case strings.HasPrefix(path, "/user/video-ai/jobs/") && r.Method == http.MethodDelete:
		m.handleDelete(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (m *MockBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.LoginCalls, 1)

	if m.LoginError != nil {
		writeError(w, m.LoginError)
		return
	}

	var req models.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	writeJSON(w, models.LoginResponse{
		Success:     true,
		AccessToken: m.AccessToken,
		Data:        m.User,
	})
}

func (m *MockBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.MeCalls, 1)

	if m.MeError != nil {
		writeError(w, m.MeError)
		return
	}

	writeJSON(w, models.LoginResponse{Success: true, Data: m.User})
}

func (m *MockBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.UploadCalls, 1)

	if m.UploadError != nil {
		writeError(w, m.UploadError)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart body", http.StatusBadRequest)
		return
	}
	if _, _, err := r.FormFile("image"); err != nil {
		http.Error(w, "missing image field", http.StatusUnprocessableEntity)
		return
	}

	m.mu.Lock()
	id := m.NextImageID
	m.NextImageID++
	m.mu.Unlock()

	writeJSON(w, models.UploadedImage{ID: id, ImageURL: "https://cdn.example.com/img.jpg"})
}

func (m *MockBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.CreateCalls, 1)

	if m.CreateError != nil {
		writeError(w, m.CreateError)
		return
	}

	var req models.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.LastCreateRequest = &req
	id := m.NextJobID
	m.NextJobID++
	m.mu.Unlock()

	resp := models.CreateJobResponse{Success: true}
	resp.Data.JobID = id
	resp.Data.Status = models.StatusQueued
	writeJSON(w, resp)
}

func (m *MockBackend) handleList(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.ListCalls, 1)

	if m.ListError != nil {
		writeError(w, m.ListError)
		return
	}

	m.mu.Lock()
	m.LastListStatuses = r.URL.Query().Get("status")
	m.LastListPerPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))

	var page *models.JobsPage
	if m.listIndex < len(m.ListResponses) {
		page = m.ListResponses[m.listIndex]
		m.listIndex++
	} else {
		page = &models.JobsPage{CurrentPage: 1, Data: []models.Job{}, LastPage: 1}
	}
	m.mu.Unlock()

	writeJSON(w, page)
}

func (m *MockBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.DeleteCalls, 1)

	if m.DeleteError != nil {
		writeError(w, m.DeleteError)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/user/video-ai/jobs/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "bad job id", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.DeletedIDs = append(m.DeletedIDs, id)
	m.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

// QueueList adds a page to be returned by the next list call.
func (m *MockBackend) QueueList(page *models.JobsPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListResponses = append(m.ListResponses, page)
}

// QueueJobs is shorthand for QueueList with a single page of jobs.
func (m *MockBackend) QueueJobs(jobs ...models.Job) {
	m.QueueList(&models.JobsPage{CurrentPage: 1, Data: jobs, Total: len(jobs), LastPage: 1})
}

// GetListCalls returns the number of list calls (thread-safe).
func (m *MockBackend) GetListCalls() int {
	return int(atomic.LoadInt32(&m.ListCalls))
}

// GetCreateCalls returns the number of create calls (thread-safe).
func (m *MockBackend) GetCreateCalls() int {
	return int(atomic.LoadInt32(&m.CreateCalls))
}

// GetMeCalls returns the number of current-user calls (thread-safe).
func (m *MockBackend) GetMeCalls() int {
	return int(atomic.LoadInt32(&m.MeCalls))
}

// GetDeleteCalls returns the number of delete calls (thread-safe).
func (m *MockBackend) GetDeleteCalls() int {
	return int(atomic.LoadInt32(&m.DeleteCalls))
}

// GetUploadCalls returns the number of upload calls (thread-safe).
func (m *MockBackend) GetUploadCalls() int {
	return int(atomic.LoadInt32(&m.UploadCalls))
}

// LastStatuses returns the status filter of the most recent list call.
func (m *MockBackend) LastStatuses() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastListStatuses
}

// LastCreate returns the most recent create request body.
func (m *MockBackend) LastCreate() *models.CreateJobRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastCreateRequest
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, e *HTTPError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": e.Message})
}
