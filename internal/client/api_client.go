package client

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
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kingcontent/videoai-client/internal/models"
)

// APIError is a backend failure carrying the HTTP status and the
// human-readable message extracted from the response body when available.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// TokenSource supplies the current bearer token. An empty return means
// unauthenticated; the request is sent without an Authorization header.
type TokenSource func() string

// APIClient handles communication with the video generation backend.
type APIClient struct {
	baseURL        string
	token          TokenSource
	httpClient     *http.Client
	onUnauthorized func()
	log            zerolog.Logger
}

// NewAPIClient creates a new API client. baseURL includes the /api/v1 prefix.
func NewAPIClient(baseURL string, token TokenSource, log zerolog.Logger) *APIClient {
	if token == nil {
		token = func() string { return "" }
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSHandshakeTimeout: 10 * time.Second,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: log,
	}
}

// SetUnauthorizedHandler registers the shared 401 hook. It is invoked once
// per 401 response, before the error is returned to the caller.
func (c *APIClient) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// Login authenticates with email and password. No bearer token is sent.
func (c *APIClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/user/login", req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &APIError{Status: http.StatusOK, Message: out.Message}
	}
	return &out, nil
}

// Me fetches the current user's profile.
func (c *APIClient) Me(ctx context.Context) (*models.User, error) {
	var out models.LoginResponse
	if err := c.doJSON(ctx, http.MethodGet, "/user/me", nil, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Data == nil {
		return nil, &APIError{Status: http.StatusOK, Message: out.Message}
	}
	return out.Data, nil
}

// UploadImage uploads a single reference image as multipart form data and
// returns its durable identifier. Callers validate size and type first.
func (c *APIClient) UploadImage(ctx context.Context, filename string, data io.Reader) (*models.UploadedImage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/video-ai/images", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out models.UploadedImage
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateJob submits a video generation job.
func (c *APIClient) CreateJob(ctx context.Context, jobReq *models.CreateJobRequest) (*models.CreateJobResponse, error) {
	var out models.CreateJobResponse
	if err := c.doJSON(ctx, http.MethodPost, "/user/video-ai/jobs", jobReq, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &APIError{Status: http.StatusOK, Message: out.Message}
	}
	return &out, nil
}

// ListJobs fetches one page of jobs filtered by status set.
func (c *APIClient) ListJobs(ctx context.Context, statuses []models.JobStatus, page, perPage int, withResults bool) (*models.JobsPage, error) {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}

	q := url.Values{}
	q.Set("status", strings.Join(parts, ","))
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("with_results", strconv.FormatBool(withResults))

	var out models.JobsPage
	if err := c.doJSON(ctx, http.MethodGet, "/user/video-ai/jobs?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteJob removes a job by id.
func (c *APIClient) DeleteJob(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/user/video-ai/jobs/%d", id), nil, nil)
}

func (c *APIClient) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// send applies shared headers, executes the request, and maps non-2xx
// responses to *APIError. A 401 additionally fires the unauthorized hook.
func (c *APIClient) send(req *http.Request, out interface{}) error {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, RequestID: requestID}
		var errBody struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if json.Unmarshal(raw, &errBody) == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
		}
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.log.Warn().Str("request_id", requestID).Msg("session rejected by backend, clearing credentials")
			c.onUnauthorized()
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
