package models

import (
	"strings"
	"testing"
)

func TestJobStatusTerminal(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{StatusQueued, false},
		{StatusProcessing, false},
		{StatusMerging, false},
		{StatusDone, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("Terminal(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestDisplayStatus(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   DisplayStatus
	}{
		{StatusQueued, DisplayGenerating},
		{StatusProcessing, DisplayGenerating},
		{StatusMerging, DisplayGenerating},
		{StatusDone, DisplayCompleted},
		{StatusFailed, DisplayFailed},
		{JobStatus("something_new"), DisplayGenerating},
	}

	for _, tt := range tests {
		job := Job{Status: tt.status}
		if got := job.DisplayStatus(); got != tt.want {
			t.Errorf("DisplayStatus(%s) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestThumbnail(t *testing.T) {
	job := Job{
		Results: []JobResult{
			{ResultThumbnail: ""},
			{ResultThumbnail: "https://x/thumb2.jpg"},
			{ResultThumbnail: "https://x/thumb3.jpg"},
		},
	}
	if got := job.Thumbnail(); got != "https://x/thumb2.jpg" {
		t.Errorf("Thumbnail() = %q, want first available", got)
	}

	empty := Job{}
	if got := empty.Thumbnail(); got != "" {
		t.Errorf("Thumbnail() on job without results = %q, want empty", got)
	}
}

func TestVideoURL_Precedence(t *testing.T) {
	job := Job{
		MergedVideoURL: "https://x/merged.mp4",
		ResultURLs:     []string{"https://x/first.mp4"},
		Results:        []JobResult{{ResultURL: "https://x/scene.mp4"}},
	}
	if got := job.VideoURL(); got != "https://x/merged.mp4" {
		t.Errorf("VideoURL() = %q, want merged output first", got)
	}

	job.MergedVideoURL = ""
	if got := job.VideoURL(); got != "https://x/first.mp4" {
		t.Errorf("VideoURL() = %q, want first result URL", got)
	}

	job.ResultURLs = nil
	if got := job.VideoURL(); got != "https://x/scene.mp4" {
		t.Errorf("VideoURL() = %q, want per-scene result URL", got)
	}

	job.Results = nil
	if got := job.VideoURL(); got != "" {
		t.Errorf("VideoURL() = %q, want empty when no output exists", got)
	}
}

func TestAspectRatioRoundTrip(t *testing.T) {
	tests := []struct {
		ui   AspectRatio
		wire string
	}{
		{Aspect916, AspectPortrait},
		{Aspect169, AspectLandscape},
		{Aspect11, AspectSquare},
	}

	for _, tt := range tests {
		wire, err := tt.ui.Wire()
		if err != nil {
			t.Fatalf("Wire(%s) error: %v", tt.ui, err)
		}
		if wire != tt.wire {
			t.Errorf("Wire(%s) = %q, want %q", tt.ui, wire, tt.wire)
		}

		back, err := AspectFromWire(wire)
		if err != nil {
			t.Fatalf("AspectFromWire(%s) error: %v", wire, err)
		}
		if back != tt.ui {
			t.Errorf("AspectFromWire(%s) = %q, want %q", wire, back, tt.ui)
		}
	}
}

func TestAspectRatioUnknown(t *testing.T) {
	if _, err := AspectRatio("4:3").Wire(); err == nil {
		t.Error("Wire() on unknown ratio should fail")
	}
	if _, err := AspectFromWire("panorama"); err == nil {
		t.Error("AspectFromWire() on unknown value should fail")
	}
}

func TestToCreateJobRequest_Short(t *testing.T) {
	p := GenerationParams{
		Prompt:      "sunset over mountains",
		AspectRatio: Aspect169,
		OutputCount: 1,
	}

	req, err := p.ToCreateJobRequest()
	if err != nil {
		t.Fatalf("ToCreateJobRequest() error: %v", err)
	}
	if req.AspectRatio != AspectLandscape {
		t.Errorf("AspectRatio = %q, want %q", req.AspectRatio, AspectLandscape)
	}
	if req.Mode != "short" {
		t.Errorf("Mode = %q, want short", req.Mode)
	}
	if req.SceneCount != nil {
		t.Error("SceneCount should be nil for short jobs")
	}
	if req.StylePrompt != nil {
		t.Error("StylePrompt should be nil when empty")
	}
}

func TestToCreateJobRequest_Long(t *testing.T) {
	p := GenerationParams{
		Prompt:      "a day at the beach",
		StylePrompt: "cinematic",
		AspectRatio: Aspect916,
		OutputCount: 2,
		EnableLong:  true,
		AutoMerge:   true,
		SceneCount:  3,
		Scenes:      []string{"scene a", "scene b", "scene c"},
	}

	req, err := p.ToCreateJobRequest()
	if err != nil {
		t.Fatalf("ToCreateJobRequest() error: %v", err)
	}
	if req.Mode != "long" {
		t.Errorf("Mode = %q, want long", req.Mode)
	}
	if req.AspectRatio != AspectPortrait {
		t.Errorf("AspectRatio = %q, want %q", req.AspectRatio, AspectPortrait)
	}
	if req.SceneCount == nil || *req.SceneCount != 3 {
		t.Error("SceneCount should be 3")
	}
	if len(req.Scenes) != 3 {
		t.Errorf("Scenes length = %d, want 3", len(req.Scenes))
	}
	if req.StylePrompt == nil || *req.StylePrompt != "cinematic" {
		t.Error("StylePrompt should round-trip")
	}
}

func TestValidateImage(t *testing.T) {
	if err := ValidateImage(1024, "image/png"); err != nil {
		t.Errorf("small png should pass, got: %v", err)
	}

	err := ValidateImage(15*1024*1024, "image/png")
	if err == nil {
		t.Fatal("oversized image should fail")
	}
	if !strings.Contains(err.Error(), "10MB") {
		t.Errorf("size error should name the limit, got: %v", err)
	}

	if err := ValidateImage(1024, "text/plain"); err == nil {
		t.Error("non-image content type should fail")
	}
}
