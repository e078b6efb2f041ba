package models

// JobStatus is the lifecycle status reported by the backend for a video job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusMerging    JobStatus = "merging"
	StatusDone       JobStatus = "done"
	StatusFailed     JobStatus = "failed"
)

// DisplayStatus is the collapsed three-state view used for presentation.
type DisplayStatus string

const (
	DisplayGenerating DisplayStatus = "generating"
	DisplayCompleted  DisplayStatus = "completed"
	DisplayFailed     DisplayStatus = "failed"
)

// ActiveStatuses is the status filter used while polling for jobs that may
// still be advancing.
var ActiveStatuses = []JobStatus{StatusQueued, StatusProcessing, StatusMerging, StatusFailed}

// SnapshotStatuses is the status filter used for the authoritative snapshot
// fetch once polling has determined nothing is in flight.
var SnapshotStatuses = []JobStatus{StatusDone, StatusProcessing}

// Terminal reports whether a status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// JobResult is a single per-scene result record embedded in a job.
type JobResult struct {
	ID              int64     `json:"id"`
	JobID           int64     `json:"video_ai_job_id"`
	ResultURL       string    `json:"result_url"`
	ResultThumbnail string    `json:"result_thumbnail"`
	SceneIndex      int       `json:"scene_index"`
	ScenePrompt     string    `json:"scene_prompt"`
	Status          JobStatus `json:"status"`
	Order           int       `json:"order"`
	ErrorMessage    string    `json:"error_message"`
}

// Job mirrors a server-side video generation job. The id is assigned by the
// backend at creation and is stable for the job's lifetime.
type Job struct {
	ID             int64       `json:"id"`
	Mode           string      `json:"mode"`
	Prompt         string      `json:"prompt"`
	StylePrompt    string      `json:"style_prompt"`
	OutputCount    int         `json:"output_count"`
	AspectRatio    string      `json:"aspect_ratio"`
	EnableLong     bool        `json:"enable_long"`
	AutoMerge      bool        `json:"auto_merge"`
	SceneCount     int         `json:"scene_count"`
	Scenes         []string    `json:"scenes"`
	Status         JobStatus   `json:"status"`
	Progress       int         `json:"progress"`
	ResultURLs     []string    `json:"result_urls"`
	MergedVideoURL string      `json:"merged_video_url"`
	IsMerged       bool        `json:"is_merged"`
	ErrorMessage   string      `json:"error_message"`
	CreatedAt      string      `json:"created_at"`
	UpdatedAt      string      `json:"updated_at"`
	Results        []JobResult `json:"results"`
}

// DisplayStatus collapses the wire status into the three-state view.
// Unknown statuses map to generating so a job is never shown as finished on
// the strength of an unrecognized value.
func (j *Job) DisplayStatus() DisplayStatus {
	switch j.Status {
	case StatusDone:
		return DisplayCompleted
	case StatusFailed:
		return DisplayFailed
	default:
		return DisplayGenerating
	}
}

// Thumbnail returns the first available thumbnail among the job's results,
// or an empty string. Derived projection, never stored.
func (j *Job) Thumbnail() string {
	for _, r := range j.Results {
		if r.ResultThumbnail != "" {
			return r.ResultThumbnail
		}
	}
	return ""
}

// VideoURL returns the playable output for the job. Precedence: merged
// output, then the first top-level result URL, then the first per-scene
// result URL. Empty when no output exists yet.
func (j *Job) VideoURL() string {
	if j.MergedVideoURL != "" {
		return j.MergedVideoURL
	}
	if len(j.ResultURLs) > 0 && j.ResultURLs[0] != "" {
		return j.ResultURLs[0]
	}
	for _, r := range j.Results {
		if r.ResultURL != "" {
			return r.ResultURL
		}
	}
	return ""
}

// JobsPage is one page of the job listing endpoint.
type JobsPage struct {
	CurrentPage int   `json:"current_page"`
	Data        []Job `json:"data"`
	Total       int   `json:"total"`
	LastPage    int   `json:"last_page"`
}

// UploadedImage is returned after uploading a reference image.
type UploadedImage struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
}

// CreateJobRequest is the wire payload for job creation.
type CreateJobRequest struct {
	Prompt                     string   `json:"prompt"`
	StylePrompt                *string  `json:"style_prompt"`
	SelectedImages             []int64  `json:"selected_images"`
	OutputCount                int      `json:"output_count"`
	AspectRatio                string   `json:"aspect_ratio"`
	EnableLong                 bool     `json:"enable_long"`
	AutoMerge                  bool     `json:"auto_merge"`
	SceneCount                 *int     `json:"scene_count"`
	CharacterName              *string  `json:"character_name"`
	CharacterDescription       *string  `json:"character_description"`
	Scenes                     []string `json:"scenes"`
	SceneImages                []int64  `json:"scene_images"`
	EnableCharacterConsistency bool     `json:"enable_character_consistency"`
	Mode                       string   `json:"mode"`
}

// CreateJobResponse is returned from job creation.
type CreateJobResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		JobID  int64     `json:"job_id"`
		Status JobStatus `json:"status"`
	} `json:"data"`
}

// User is the authenticated user's profile as returned by the backend.
type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Credits int    `json:"credits"`
}

// LoginRequest is the credential payload for /user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned from login and from the current-user endpoint.
type LoginResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	Data        *User  `json:"data"`
}
