// Package capture derives a poster image from the first frame of a video and
// optionally persists it as the thumbnail of a media record.
package capture

import (
	"context"
	"errors"
	"sync"

	"github.com/hairizuanbinnoorazman/wise-institute/logger"
)

var (
	// ErrAlreadyStarted is returned when Run is called more than once.
	ErrAlreadyStarted = errors.New("capture already started")

	// ErrNoSource is recorded when the agent has no video source.
	ErrNoSource = errors.New("video source is required")

	// ErrNothingToRetry is returned by RetrySave when no failed save exists.
	ErrNothingToRetry = errors.New("no failed save to retry")
)

// Options configures an Agent.
type Options struct {
	// Src locates the video.
	Src string
	// FallbackPoster is an existing thumbnail. When set, nothing is saved.
	FallbackPoster string
	// RecordID is the media record the thumbnail belongs to.
	RecordID string
	// Admin marks an administrative session.
	Admin bool
	// OnSaved is called after a successful save.
	OnSaved func()
}

// Agent captures the first frame of one video. An agent runs once; create a
// new one for every mount.
type Agent struct {
	opts   Options
	frames FrameSource
	saver  Saver
	logger logger.Logger

	visible chan struct{}

	mu         sync.Mutex
	inView     bool
	stage      Stage
	poster     string
	saveState  SaveState
	saveResult *SaveResult
	err        error
}

// NewAgent creates an agent. saver may be nil when saving is never wanted.
func NewAgent(opts Options, frames FrameSource, saver Saver, log logger.Logger) *Agent {
	return &Agent{
		opts:    opts,
		frames:  frames,
		saver:   saver,
		logger:  log.WithField("src", opts.Src),
		visible: make(chan struct{}),
	}
}

// Observe reports an intersection change. Once the agent has been in view it
// stays in view.
func (a *Agent) Observe(intersecting bool) {
	if !intersecting {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inView {
		return
	}
	a.inView = true
	close(a.visible)
}

// ObserveRect reports the element and viewport geometry.
func (a *Agent) ObserveRect(element, viewport Rect) {
	a.Observe(InView(element, viewport))
}

// InView reports whether a video element is visible or about to be.
func (a *Agent) InView() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inView
}

// Run waits for visibility, captures the first frame and saves it when
// allowed. Capture failures are not returned; they leave the agent in
// StageFailed with the fallback poster. Run only returns an error when ctx
// ends or the agent was already started.
func (a *Agent) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.stage != StageIdle {
		a.mu.Unlock()
		return ErrAlreadyStarted
	}
	if a.opts.Src == "" {
		a.stage = StageFailed
		a.err = ErrNoSource
		a.mu.Unlock()
		return nil
	}
	a.stage = StageAwaitingVisibility
	a.mu.Unlock()

	select {
	case <-a.visible:
	case <-ctx.Done():
		return a.fail(ctx, ctx.Err())
	}

	a.setStage(StageAwaitingMetadata)
	meta, err := a.frames.LoadMetadata(ctx, a.opts.Src)
	if err != nil {
		return a.fail(ctx, err)
	}

	a.setStage(StageAwaitingSeek)
	frame, err := a.frames.FirstFrame(ctx, a.opts.Src)
	if err != nil {
		return a.fail(ctx, err)
	}

	poster, err := EncodeJPEG(frame, meta.Width, meta.Height)
	if err != nil {
		return a.fail(ctx, err)
	}

	a.mu.Lock()
	a.poster = poster
	a.stage = StageCaptured
	a.mu.Unlock()

	a.logger.Debug(ctx, "first frame captured", map[string]interface{}{
		"width":  meta.Width,
		"height": meta.Height,
	})

	a.save(ctx, poster)
	return nil
}

func (a *Agent) setStage(s Stage) {
	a.mu.Lock()
	a.stage = s
	a.mu.Unlock()
}

func (a *Agent) fail(ctx context.Context, err error) error {
	a.mu.Lock()
	a.stage = StageFailed
	a.err = err
	a.mu.Unlock()

	a.logger.Debug(ctx, "frame capture failed", map[string]interface{}{
		"error": err.Error(),
	})

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// shouldSave must be called with a.mu held.
func (a *Agent) shouldSave() bool {
	return a.saver != nil &&
		a.opts.Admin &&
		a.opts.RecordID != "" &&
		a.opts.FallbackPoster == "" &&
		a.saveState == SaveIdle
}

func (a *Agent) save(ctx context.Context, poster string) {
	a.mu.Lock()
	if !a.shouldSave() {
		a.mu.Unlock()
		return
	}
	a.saveState = SaveInFlight
	a.mu.Unlock()

	result, err := a.saver.SaveThumbnail(ctx, a.opts.RecordID, poster)

	a.mu.Lock()
	var saveErr *SaveError
	switch {
	case errors.As(err, &saveErr):
		a.saveState = SaveRejected
	case err != nil:
		a.saveState = SaveFailed
	default:
		a.saveState = Saved
		a.saveResult = result
	}
	state := a.saveState
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn(ctx, "thumbnail save failed", map[string]interface{}{
			"error":      err.Error(),
			"record_id":  a.opts.RecordID,
			"save_state": state.String(),
		})
		return
	}

	a.logger.Info(ctx, "thumbnail saved", map[string]interface{}{
		"record_id": a.opts.RecordID,
	})
	if a.opts.OnSaved != nil {
		a.opts.OnSaved()
	}
}

// RetrySave repeats a save that failed in transport.
func (a *Agent) RetrySave(ctx context.Context) error {
	a.mu.Lock()
	if a.saveState != SaveFailed || a.poster == "" {
		a.mu.Unlock()
		return ErrNothingToRetry
	}
	a.saveState = SaveIdle
	poster := a.poster
	a.mu.Unlock()

	a.save(ctx, poster)
	return nil
}

// PosterURL returns the captured frame, else the fallback poster, else "".
func (a *Agent) PosterURL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.posterURL()
}

func (a *Agent) posterURL() string {
	if a.poster != "" {
		return a.poster
	}
	return a.opts.FallbackPoster
}

// Stage returns the capture stage.
func (a *Agent) Stage() Stage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stage
}

// SaveState returns the save state.
func (a *Agent) SaveState() SaveState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saveState
}

// SaveResult returns the server's answer once saved.
func (a *Agent) SaveResult() *SaveResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saveResult
}

// Err returns the capture error, if any.
func (a *Agent) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Video returns the element to render for this agent.
func (a *Agent) Video() VideoElement {
	a.mu.Lock()
	defer a.mu.Unlock()
	return VideoElement{
		Src:         a.opts.Src,
		Poster:      a.posterURL(),
		Preload:     "metadata",
		Muted:       true,
		PlaysInline: true,
		Loop:        true,
	}
}
