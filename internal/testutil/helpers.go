package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/kingcontent/videoai-client/internal/models"
)

// CreateJob creates a test job in a given state.
func CreateJob(id int64, status models.JobStatus, progress int) models.Job {
	return models.Job{
		ID:          id,
		Mode:        "short",
		Prompt:      "test prompt",
		OutputCount: 1,
		AspectRatio: models.AspectLandscape,
		Status:      status,
		Progress:    progress,
	}
}

// CreateDoneJob creates a completed test job with a result URL.
func CreateDoneJob(id int64, url string) models.Job {
	job := CreateJob(id, models.StatusDone, 100)
	job.ResultURLs = []string{url}
	return job
}

// WaitForCondition waits for a condition to be true or times out.
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timeout waiting for condition: %s", message)
}

// WaitForCallCount waits for a call count to reach expected value.
func WaitForCallCount(t *testing.T, getCalls func() int, expected int, timeout time.Duration, name string) {
	t.Helper()
	WaitForCondition(t, func() bool {
		return getCalls() >= expected
	}, timeout, name+" call count")
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// AssertErrorContains fails if err is nil or doesn't contain expected substring.
func AssertErrorContains(t *testing.T, err error, expected string, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error containing %q but got nil", msg, expected)
	}
	if !strings.Contains(err.Error(), expected) {
		t.Fatalf("%s: expected error containing %q but got %q", msg, expected, err.Error())
	}
}

// AssertEqual fails if got != want.
func AssertEqual[T comparable](t *testing.T, got, want T, msg string) {
	t.Helper()
	if got != want {
		t.Fatalf("%s: got %v, want %v", msg, got, want)
	}
}

// AssertTrue fails if condition is false.
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Fatalf("%s: expected true but got false", msg)
	}
}

// AssertFalse fails if condition is true.
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Fatalf("%s: expected false but got true", msg)
	}
}
