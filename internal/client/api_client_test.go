package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kingcontent/videoai-client/internal/models"
)

func testClient(url string) *APIClient {
	return NewAPIClient(url, func() string { return "tok_test" }, zerolog.Nop())
}

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}

		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "a@b.c" {
			t.Errorf("email = %q", req.Email)
		}

		_ = json.NewEncoder(w).Encode(models.LoginResponse{
			Success:     true,
			AccessToken: "tok_new",
			Data:        &models.User{ID: 1, Email: "a@b.c"},
		})
	}))
	defer server.Close()

	c := NewAPIClient(server.URL, nil, zerolog.Nop())
	resp, err := c.Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.AccessToken != "tok_new" {
		t.Errorf("AccessToken = %q", resp.AccessToken)
	}
}

func TestLogin_BackendRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.LoginResponse{Success: false, Message: "wrong password"})
	}))
	defer server.Close()

	c := NewAPIClient(server.URL, nil, zerolog.Nop())
	_, err := c.Login(context.Background(), "a@b.c", "bad")
	if err == nil {
		t.Fatal("Login() should fail on success=false")
	}
	if !strings.Contains(err.Error(), "wrong password") {
		t.Errorf("error should carry the backend message, got: %v", err)
	}
}

func TestMe_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok_test" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("request should carry an X-Request-ID")
		}
		_ = json.NewEncoder(w).Encode(models.LoginResponse{Success: true, Data: &models.User{ID: 9, Credits: 5}})
	}))
	defer server.Close()

	user, err := testClient(server.URL).Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error: %v", err)
	}
	if user.ID != 9 || user.Credits != 5 {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestUploadImage_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/video-ai/images" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("missing image field: %v", err)
		}
		defer file.Close()
		if header.Filename != "cat.png" {
			t.Errorf("filename = %q", header.Filename)
		}

		_ = json.NewEncoder(w).Encode(models.UploadedImage{ID: 2183, ImageURL: "https://cdn/x.png"})
	}))
	defer server.Close()

	img, err := testClient(server.URL).UploadImage(context.Background(), "cat.png", bytes.NewReader([]byte("fake image bytes")))
	if err != nil {
		t.Fatalf("UploadImage() error: %v", err)
	}
	if img.ID != 2183 {
		t.Errorf("ID = %d, want 2183", img.ID)
	}
}

func TestCreateJob_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateJobRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.AspectRatio != models.AspectLandscape {
			t.Errorf("aspect_ratio = %q", req.AspectRatio)
		}

		resp := models.CreateJobResponse{Success: true}
		resp.Data.JobID = 1234
		resp.Data.Status = models.StatusQueued
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	resp, err := testClient(server.URL).CreateJob(context.Background(), &models.CreateJobRequest{
		Prompt:      "sunset over mountains",
		AspectRatio: models.AspectLandscape,
		OutputCount: 1,
		Mode:        "short",
	})
	if err != nil {
		t.Fatalf("CreateJob() error: %v", err)
	}
	if resp.Data.JobID != 1234 {
		t.Errorf("JobID = %d", resp.Data.JobID)
	}
}

func TestListJobs_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "queued,processing,merging,failed" {
			t.Errorf("status = %q", q.Get("status"))
		}
		if q.Get("page") != "1" || q.Get("per_page") != "100" {
			t.Errorf("pagination = %s/%s", q.Get("page"), q.Get("per_page"))
		}
		if q.Get("with_results") != "true" {
			t.Errorf("with_results = %q", q.Get("with_results"))
		}

		_ = json.NewEncoder(w).Encode(models.JobsPage{
			CurrentPage: 1,
			Data:        []models.Job{{ID: 1, Status: models.StatusProcessing, Progress: 40}},
			Total:       1,
			LastPage:    1,
		})
	}))
	defer server.Close()

	page, err := testClient(server.URL).ListJobs(context.Background(), models.ActiveStatuses, 1, 100, true)
	if err != nil {
		t.Fatalf("ListJobs() error: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Progress != 40 {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestDeleteJob_Path(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/user/video-ai/jobs/42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := testClient(server.URL).DeleteJob(context.Background(), 42); err != nil {
		t.Fatalf("DeleteJob() error: %v", err)
	}
}

func TestAPIError_MessageExtraction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "prompt is required"})
	}))
	defer server.Close()

	err := testClient(server.URL).DeleteJob(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Message != "prompt is required" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestUnauthorized_FiresHookOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := testClient(server.URL)
	hookCalls := 0
	c.SetUnauthorizedHandler(func() { hookCalls++ })

	err := c.DeleteJob(context.Background(), 1)
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized() should be true, got: %v", err)
	}
	if hookCalls != 1 {
		t.Errorf("hook fired %d times, want 1", hookCalls)
	}
}

func TestNetworkFailure_WrapsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient("http://127.0.0.1:1").ListJobs(ctx, models.ActiveStatuses, 1, 10, true)
	if err == nil {
		t.Fatal("expected error on unreachable host")
	}
	if _, ok := err.(*APIError); ok {
		t.Error("transport failures should not be *APIError")
	}
}
