// Package prep is the toolkit's controller: it owns the interview session,
// audio capture, resume job and research results, and turns user actions
// into gateway calls.
package prep

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/amishk599/prepkit/internal/gateway"
	"github.com/amishk599/prepkit/internal/media"
	"github.com/amishk599/prepkit/internal/model"
	"github.com/amishk599/prepkit/internal/resume"
	"github.com/amishk599/prepkit/internal/session"
)

// Gateway is the backend as seen by the controller. *gateway.Client implements it.
type Gateway interface {
	StartInterview(ctx context.Context, role, industry, difficulty string) (gateway.Interview, error)
	SubmitAnswer(ctx context.Context, j model.Journal, a model.Answer) (model.Evaluation, error)
	EndInterview(ctx context.Context, sessionID string, log []model.Exchange) (model.Summary, error)
	OptimizeResume(ctx context.Context, file model.ResumeFile, jobDescription string) (model.OptimizeResult, error)
	Research(ctx context.Context, company, role string) (model.ResearchResult, error)
}

// Tab is a top-level panel.
type Tab int

const (
	TabInterview Tab = iota
	TabResume
	TabResearch
)

// Tabs lists the panels in display order.
var Tabs = []Tab{TabInterview, TabResume, TabResearch}

func (t Tab) String() string {
	switch t {
	case TabInterview:
		return "Mock Interview"
	case TabResume:
		return "Resume Optimizer"
	case TabResearch:
		return "Research Agent"
	default:
		return fmt.Sprintf("tab(%d)", int(t))
	}
}

// Action is a user action that issues a request. While one is pending a
// second trigger of the same action is refused with model.ErrBusy.
type Action int

const (
	ActionStart Action = iota
	ActionSubmit
	ActionEnd
	ActionOptimize
	ActionResearch
)

// Controller serializes every state change behind one mutex. Handlers that
// talk to the backend release it while the request is in flight.
type Controller struct {
	gw          Gateway
	capture     *media.Capture
	logger      *slog.Logger
	downloadDir string

	mu       sync.Mutex
	tab      Tab
	sess     *session.Session
	textOnly bool
	job      resume.Job
	research *model.ResearchResult
	busy     map[Action]bool
}

// New returns a controller on the interview tab with an idle session.
func New(gw Gateway, capture *media.Capture, maxFollowUps int, downloadDir string, logger *slog.Logger) *Controller {
	return &Controller{
		gw:          gw,
		capture:     capture,
		logger:      logger,
		downloadDir: downloadDir,
		sess:        session.New(maxFollowUps),
		busy:        make(map[Action]bool),
	}
}

// begin marks a as pending. The caller holds c.mu.
func (c *Controller) begin(a Action) error {
	if c.busy[a] {
		return model.ErrBusy
	}
	c.busy[a] = true
	return nil
}

func (c *Controller) end(a Action) {
	c.mu.Lock()
	delete(c.busy, a)
	c.mu.Unlock()
}

// SwitchTab shows t. Tabs do not reset each other's state.
func (c *Controller) SwitchTab(t Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tab = t
}

// StartInterview validates the setup form, fetches the first question and
// acquires the microphone. Without microphone access the interview runs in
// text-only mode.
func (c *Controller) StartInterview(ctx context.Context, role, industry, difficulty string) error {
	c.mu.Lock()
	if st := c.sess.State(); st != session.Idle && st != session.Setup {
		c.mu.Unlock()
		return fmt.Errorf("an interview is already %s", st)
	}
	// a refused start must not touch the pending session's setup
	if err := c.begin(ActionStart); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.sess.Configure(role, industry, difficulty); err != nil {
		delete(c.busy, ActionStart)
		c.mu.Unlock()
		return err
	}
	snap := c.sess.Snapshot()
	c.mu.Unlock()
	defer c.end(ActionStart)

	iv, err := c.gw.StartInterview(ctx, snap.Role, snap.Industry, snap.Difficulty)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sess.Start(iv.ID, iv.Question); err != nil {
		return err
	}
	c.textOnly = !c.capture.RequestAccess(ctx)
	c.logger.Info("interview in progress", "session_id", iv.ID, "parts", len(c.sess.Snapshot().Parts), "text_only", c.textOnly)
	return nil
}

// ToggleRecording starts or stops the microphone.
func (c *Controller) ToggleRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State() != session.InProgress {
		return model.ErrNoActiveSession
	}
	if c.textOnly || !c.capture.HasAccess() {
		return model.ErrPermissionDenied
	}
	if c.busy[ActionSubmit] {
		return model.ErrBusy
	}
	if c.capture.IsRecording() {
		return c.capture.Stop()
	}
	return c.capture.Start()
}

// DiscardRecording drops a finished recording that was not accepted, so the
// next submission uses typed text. An active recording is left alone.
func (c *Controller) DiscardRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.capture.IsRecording() {
		c.capture.ClearBlob()
	}
}

// sessionJournal records into the controller's session as long as it is
// still the session the answer was submitted to.
type sessionJournal struct {
	c  *Controller
	id string
}

func (j sessionJournal) Record(ex model.Exchange, next string) error {
	j.c.mu.Lock()
	defer j.c.mu.Unlock()
	if j.c.sess.ID() != j.id || j.c.sess.State() != session.InProgress {
		return model.ErrNoActiveSession
	}
	return j.c.sess.Record(ex, next)
}

// SubmitAnswer submits the recorded audio, or text when nothing was
// recorded, for the sub-question on display. An active recording is stopped
// first. The session advances only when the whole submission succeeds.
func (c *Controller) SubmitAnswer(ctx context.Context, text string) (model.Evaluation, error) {
	c.mu.Lock()
	if c.sess.State() != session.InProgress {
		c.mu.Unlock()
		return model.Evaluation{}, model.ErrNoActiveSession
	}
	if c.capture.IsRecording() {
		if err := c.capture.Stop(); err != nil {
			c.mu.Unlock()
			return model.Evaluation{}, err
		}
	}

	snap := c.sess.Snapshot()
	answer := model.Answer{
		Question:   snap.Current(),
		Role:       snap.Role,
		Difficulty: snap.Difficulty,
		Text:       text,
		Audio:      c.capture.Blob(),
	}
	if answer.Question == "" {
		c.mu.Unlock()
		return model.Evaluation{}, model.ErrNoQuestion
	}
	if !answer.HasAudio() && strings.TrimSpace(text) == "" {
		c.mu.Unlock()
		return model.Evaluation{}, model.ErrNoAnswer
	}
	if err := c.begin(ActionSubmit); err != nil {
		c.mu.Unlock()
		return model.Evaluation{}, err
	}
	c.mu.Unlock()
	defer c.end(ActionSubmit)

	ev, err := c.gw.SubmitAnswer(ctx, sessionJournal{c: c, id: snap.ID}, answer)
	if err != nil {
		return model.Evaluation{}, err
	}

	c.mu.Lock()
	c.capture.ClearBlob()
	c.mu.Unlock()
	return ev, nil
}

// EndInterview requests the summary for the answers so far. Ending before
// every part is answered is allowed.
func (c *Controller) EndInterview(ctx context.Context) (model.Summary, error) {
	c.mu.Lock()
	if st := c.sess.State(); st != session.InProgress && st != session.Completed {
		c.mu.Unlock()
		return model.Summary{}, model.ErrNoActiveSession
	}
	if err := c.begin(ActionEnd); err != nil {
		c.mu.Unlock()
		return model.Summary{}, err
	}
	if c.capture.IsRecording() {
		if err := c.capture.Stop(); err != nil {
			c.logger.Warn("stop recording before summary", "error", err)
		}
	}
	id, log := c.sess.ID(), c.sess.Log()
	c.mu.Unlock()
	defer c.end(ActionEnd)

	summary, err := c.gw.EndInterview(ctx, id, log)
	if err != nil {
		return model.Summary{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.ID() != id {
		return model.Summary{}, model.ErrNoActiveSession
	}
	if err := c.sess.Finish(summary); err != nil {
		return model.Summary{}, err
	}
	return summary, nil
}

// CloseSummary dismisses the summary and returns to the setup form. The
// microphone is released.
func (c *Controller) CloseSummary() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capture.Release()
	c.sess.Close()
	c.textOnly = false
}

// SelectResume loads the resume at path for the next optimization.
func (c *Controller) SelectResume(path string) (model.ResumeFile, error) {
	f, err := resume.Load(path)
	if err != nil {
		return model.ResumeFile{}, err
	}
	c.mu.Lock()
	c.job.Select(f)
	c.mu.Unlock()
	return f, nil
}

// OptimizeResume sends the selected resume with jobDescription.
func (c *Controller) OptimizeResume(ctx context.Context, jobDescription string) (model.OptimizeResult, error) {
	c.mu.Lock()
	file, ok := c.job.File()
	if !ok {
		c.mu.Unlock()
		return model.OptimizeResult{}, model.Invalid("please upload a resume file")
	}
	if strings.TrimSpace(jobDescription) == "" {
		c.mu.Unlock()
		return model.OptimizeResult{}, model.Invalid("please enter a job description")
	}
	if err := c.begin(ActionOptimize); err != nil {
		c.mu.Unlock()
		return model.OptimizeResult{}, err
	}
	c.mu.Unlock()
	defer c.end(ActionOptimize)

	res, err := c.gw.OptimizeResume(ctx, file, jobDescription)
	if err != nil {
		return model.OptimizeResult{}, err
	}

	c.mu.Lock()
	c.job.SetResult(res)
	c.mu.Unlock()
	return res, nil
}

// DownloadResume writes the optimized resume to the download directory.
func (c *Controller) DownloadResume() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	path, err := c.job.Download(c.downloadDir)
	if err != nil {
		return "", err
	}
	c.logger.Info("optimized resume saved", "path", path)
	return path, nil
}

// Research looks up company and role. Backend failures are answered with
// mock data by the gateway, so an error here is a validation failure or a
// cancelled request.
func (c *Controller) Research(ctx context.Context, company, role string) (model.ResearchResult, error) {
	company, role = strings.TrimSpace(company), strings.TrimSpace(role)
	if company == "" || role == "" {
		return model.ResearchResult{}, model.Invalid("please enter both company name and job role")
	}

	c.mu.Lock()
	if err := c.begin(ActionResearch); err != nil {
		c.mu.Unlock()
		return model.ResearchResult{}, err
	}
	c.mu.Unlock()
	defer c.end(ActionResearch)

	res, err := c.gw.Research(ctx, company, role)
	if err != nil {
		return model.ResearchResult{}, err
	}

	c.mu.Lock()
	c.research = &res
	c.mu.Unlock()
	return res, nil
}

// Shutdown releases the microphone.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capture.Release()
}

// Snapshot is an immutable copy of the controller state for renderers.
type Snapshot struct {
	Tab       Tab
	Session   session.Snapshot
	Recording bool
	HasAudio  bool
	TextOnly  bool

	ResumeFile *model.ResumeFile
	Optimized  *model.OptimizeResult
	Research   *model.ResearchResult

	busy map[Action]bool
}

// Busy reports whether a is pending.
func (s Snapshot) Busy(a Action) bool {
	return s.busy[a]
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Tab:       c.tab,
		Session:   c.sess.Snapshot(),
		Recording: c.capture.IsRecording(),
		HasAudio:  len(c.capture.Blob()) > 0,
		TextOnly:  c.textOnly,
		busy:      make(map[Action]bool, len(c.busy)),
	}
	for a, v := range c.busy {
		snap.busy[a] = v
	}
	if f, ok := c.job.File(); ok {
		snap.ResumeFile = &f
	}
	if r, ok := c.job.Result(); ok {
		snap.Optimized = &r
	}
	if c.research != nil {
		r := *c.research
		snap.Research = &r
	}
	return snap
}
