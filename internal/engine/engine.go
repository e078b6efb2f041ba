package engine

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/kingcontent/videoai-client/internal/client"
	"github.com/kingcontent/videoai-client/internal/models"
	"github.com/kingcontent/videoai-client/internal/session"
)

// PollState is the polling state machine's state.
type PollState int32

const (
	// StateIdle means polling has never started or was stopped explicitly.
	StateIdle PollState = iota
	// StatePolling means a poll cycle is scheduled.
	StatePolling
	// StateQuiescent means polling determined that no job is advancing and
	// stopped itself after a snapshot fetch.
	StateQuiescent
)

func (s PollState) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateQuiescent:
		return "quiescent"
	default:
		return "idle"
	}
}

// Engine maintains an eventually-consistent local mirror of the backend's
// job set for the current user. It exclusively owns the job collection and
// the polling task; other components issue intents (Generate, Delete,
// UploadImage) and observe the collection through Jobs.
type Engine struct {
	api      *client.APIClient
	session  *session.Store
	log      zerolog.Logger
	interval time.Duration
	pageSize int
	validate *validator.Validate

	runCtx context.Context

	mu         sync.Mutex
	jobs       []models.Job
	submitting bool
	state      PollState
	pollGen    uint64
	cancelPoll context.CancelFunc
	quiesced   chan struct{}
}

// New creates an engine. The session store may observe profile refreshes
// triggered by successful submissions.
func New(api *client.APIClient, sess *session.Store, cfg *Config, log zerolog.Logger) *Engine {
	return &Engine{
		api:      api,
		session:  sess,
		log:      log,
		interval: cfg.Poll.Interval,
		pageSize: cfg.Poll.PageSize,
		validate: validator.New(),
		runCtx:   context.Background(),
		quiesced: make(chan struct{}),
	}
}

// Start begins polling under ctx. Polling stops itself once no job is in a
// non-terminal state; Done signals that transition.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	e.runCtx = ctx
	e.mu.Unlock()
	e.StartPolling()
}

// StartPolling cancels any existing polling task and starts a fresh one:
// one immediate cycle, then a fixed interval until a cycle signals stop.
// At most one task is live at any time.
func (e *Engine) StartPolling() {
	e.mu.Lock()
	if e.cancelPoll != nil {
		e.cancelPoll()
	}
	ctx, cancel := context.WithCancel(e.runCtx)
	e.cancelPoll = cancel
	e.pollGen++
	gen := e.pollGen
	e.state = StatePolling
	e.quiesced = make(chan struct{})
	quiesced := e.quiesced
	e.mu.Unlock()

	go e.pollLoop(ctx, gen, quiesced)
}

// StopPolling cancels the polling task if present. Idempotent.
func (e *Engine) StopPolling() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancelPoll != nil {
		e.cancelPoll()
		e.cancelPoll = nil
	}
	if e.state == StatePolling {
		e.state = StateIdle
	}
}

// State returns the current polling state.
func (e *Engine) State() PollState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Done returns a channel closed when the current polling run reaches
// quiescence. Restarting polling installs a fresh channel.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quiesced
}

// Jobs returns a copy of the local job collection, newest first.
func (e *Engine) Jobs() []models.Job {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Job, len(e.jobs))
	copy(out, e.jobs)
	return out
}

// Submitting reports whether a Generate call is in flight.
func (e *Engine) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

func (e *Engine) pollLoop(ctx context.Context, gen uint64, quiesced chan struct{}) {
	if !e.PollOnce(ctx) {
		e.enterQuiescent(gen, quiesced)
		return
	}

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.PollOnce(ctx) {
				e.enterQuiescent(gen, quiesced)
				return
			}
		}
	}
}

// enterQuiescent records that the polling run identified by gen finished.
// A superseded run must not flip state out from under its successor.
func (e *Engine) enterQuiescent(gen uint64, quiesced chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pollGen != gen {
		return
	}
	e.state = StateQuiescent
	if e.cancelPoll != nil {
		e.cancelPoll()
		e.cancelPoll = nil
	}
	close(quiesced)
}

// PollOnce runs one polling cycle and reports whether polling should
// continue. The checks are ordered: an empty server response means the
// system is quiescent; a response with no queued or processing job likewise
// triggers one final snapshot fetch rather than trusting stale partial data;
// otherwise the fetched jobs are merged by id. Transient errors never stop
// the loop.
func (e *Engine) PollOnce(ctx context.Context) bool {
	page, err := e.api.ListJobs(ctx, models.ActiveStatuses, 1, e.pageSize, true)
	if err != nil {
		if ctx.Err() != nil {
			// Superseded or shut down; nothing to decide.
			return true
		}
		e.log.Warn().Err(err).Msg("poll failed, retrying next interval")
		return true
	}

	if len(page.Data) == 0 {
		e.LoadSnapshot(ctx)
		return false
	}

	advancing := false
	for i := range page.Data {
		s := page.Data[i].Status
		if s == models.StatusQueued || s == models.StatusProcessing {
			advancing = true
			break
		}
	}
	if !advancing {
		e.LoadSnapshot(ctx)
		return false
	}

	e.merge(page.Data)
	return true
}

// LoadSnapshot fetches the authoritative job list (done and processing) and
// replaces the local view wholesale. Full replacement is safe only when no
// job is silently progressing, so it is invoked right after PollOnce
// determines nothing is left in flight.
func (e *Engine) LoadSnapshot(ctx context.Context) {
	page, err := e.api.ListJobs(ctx, models.SnapshotStatuses, 1, e.pageSize, true)
	if err != nil {
		e.log.Warn().Err(err).Msg("snapshot fetch failed, keeping current view")
		return
	}

	e.mu.Lock()
	e.jobs = page.Data
	e.mu.Unlock()

	e.log.Info().Int("jobs", len(page.Data)).Msg("job list snapshot loaded")
}

// merge reconciles fetched jobs into the local collection by id: update in
// place if present, else prepend. A terminal local job is never regressed to
// a non-terminal status by a stale response. Idempotent per id, so results
// from a superseded poll cycle are still safe to apply.
func (e *Engine) merge(fetched []models.Job) {
	e.mu.Lock()
	defer e.mu.Unlock()

	index := make(map[int64]int, len(e.jobs))
	for i := range e.jobs {
		index[e.jobs[i].ID] = i
	}

	for _, f := range fetched {
		if i, ok := index[f.ID]; ok {
			if e.jobs[i].Status.Terminal() && !f.Status.Terminal() {
				continue
			}
			e.jobs[i] = f
		} else {
			e.jobs = append([]models.Job{f}, e.jobs...)
			for id, i := range index {
				index[id] = i + 1
			}
			index[f.ID] = 0
		}
		e.log.Debug().
			Int64("job_id", f.ID).
			Str("status", string(f.Status)).
			Int("progress", f.Progress).
			Msg("job update merged")
	}
}

// UploadImage validates and uploads a reference image, returning its durable
// id. Validation failures are reported before any network call. Job state is
// untouched.
func (e *Engine) UploadImage(ctx context.Context, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat image: %w", err)
	}

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return 0, fmt.Errorf("failed to read image: %w", err)
	}
	contentType := http.DetectContentType(head[:n])

	if err := models.ValidateImage(fi.Size(), contentType); err != nil {
		return 0, err
	}

	if _, err := f.Seek(0, 0); err != nil {
		return 0, fmt.Errorf("failed to rewind image: %w", err)
	}

	img, err := e.api.UploadImage(ctx, filepath.Base(path), f)
	if err != nil {
		return 0, fmt.Errorf("image upload failed: %w", err)
	}

	e.log.Info().Int64("image_id", img.ID).Str("url", img.ImageURL).Msg("image uploaded")
	return img.ID, nil
}

// Generate validates and submits a generation job. On success the user
// profile is refreshed out of band (quota consumption) and polling restarts
// so the new job is picked up within one interval. On failure existing jobs
// are untouched and the error propagates to the caller.
func (e *Engine) Generate(ctx context.Context, params models.GenerationParams) error {
	e.setSubmitting(true)
	defer e.setSubmitting(false)

	if strings.TrimSpace(params.Prompt) == "" {
		return fmt.Errorf("prompt must not be empty")
	}
	if err := e.validate.Struct(&params); err != nil {
		return fmt.Errorf("invalid generation request: %w", err)
	}
	if params.EnableLong {
		if params.SceneCount < models.MinSceneCount || params.SceneCount > models.MaxSceneCount {
			return fmt.Errorf("scene count must be between %d and %d for a long video", models.MinSceneCount, models.MaxSceneCount)
		}
		if len(params.Scenes) != params.SceneCount {
			return fmt.Errorf("long video needs %d scene descriptions, have %d", params.SceneCount, len(params.Scenes))
		}
	}

	req, err := params.ToCreateJobRequest()
	if err != nil {
		return err
	}

	resp, err := e.api.CreateJob(ctx, req)
	if err != nil {
		return fmt.Errorf("job submission failed: %w", err)
	}

	e.log.Info().
		Int64("job_id", resp.Data.JobID).
		Str("status", string(resp.Data.Status)).
		Str("mode", req.Mode).
		Msg("job submitted")

	if e.session != nil {
		go func() {
			rctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.session.Refresh(rctx, e.api); err != nil {
				e.log.Warn().Err(err).Msg("profile refresh after submit failed")
			}
		}()
	}

	e.StartPolling()
	return nil
}

// Delete removes a job. The local entry goes away only after the server
// confirms; on failure local state is untouched and the error propagates.
// Not retried automatically.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	if err := e.api.DeleteJob(ctx, id); err != nil {
		return fmt.Errorf("failed to delete job %d: %w", id, err)
	}

	e.mu.Lock()
	kept := e.jobs[:0]
	for _, j := range e.jobs {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	e.jobs = kept
	e.mu.Unlock()

	e.log.Info().Int64("job_id", id).Msg("job deleted")
	return nil
}

func (e *Engine) setSubmitting(v bool) {
	e.mu.Lock()
	e.submitting = v
	e.mu.Unlock()
}
