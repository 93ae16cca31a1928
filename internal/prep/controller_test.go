package prep

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/amishk599/prepkit/internal/gateway"
	"github.com/amishk599/prepkit/internal/media"
	"github.com/amishk599/prepkit/internal/model"
	"github.com/amishk599/prepkit/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGateway answers from fields and counts calls. When gate is non-nil,
// calls block until it is closed.
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int
	gate  chan struct{}

	question  string
	startErr  error
	feedback  string
	next      string
	submitErr error
	answers   []model.Answer
	summary   model.Summary
	endErr    error
	optimized model.OptimizeResult
	research  model.ResearchResult
}

func (f *fakeGateway) hit(name string) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (f *fakeGateway) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeGateway) StartInterview(ctx context.Context, role, industry, difficulty string) (gateway.Interview, error) {
	f.hit("start")
	if f.startErr != nil {
		return gateway.Interview{}, f.startErr
	}
	return gateway.Interview{ID: "session_1", Question: f.question}, nil
}

func (f *fakeGateway) SubmitAnswer(ctx context.Context, j model.Journal, a model.Answer) (model.Evaluation, error) {
	f.hit("submit")
	if f.submitErr != nil {
		return model.Evaluation{}, f.submitErr
	}
	f.mu.Lock()
	f.answers = append(f.answers, a)
	f.mu.Unlock()
	text := a.Text
	if a.HasAudio() {
		text = "transcribed"
	}
	ev := model.Evaluation{
		Exchange:     model.Exchange{Question: a.Question, Answer: text, Feedback: f.feedback},
		NextQuestion: f.next,
	}
	if err := j.Record(ev.Exchange, ev.NextQuestion); err != nil {
		return model.Evaluation{}, err
	}
	return ev, nil
}

func (f *fakeGateway) EndInterview(ctx context.Context, id string, log []model.Exchange) (model.Summary, error) {
	f.hit("end")
	return f.summary, f.endErr
}

func (f *fakeGateway) OptimizeResume(ctx context.Context, file model.ResumeFile, jd string) (model.OptimizeResult, error) {
	f.hit("optimize")
	return f.optimized, nil
}

func (f *fakeGateway) Research(ctx context.Context, company, role string) (model.ResearchResult, error) {
	f.hit("research")
	return f.research, nil
}

// micSource grants a stream whose recordings return fixed audio.
type micSource struct{}

func (micSource) Open(context.Context) (media.Stream, error) { return micStream{}, nil }

type micStream struct{}

func (micStream) Record() (media.Recording, error) { return micRecording{}, nil }
func (micStream) Close() error                     { return nil }

type micRecording struct{}

func (micRecording) Stop() ([]byte, error) { return []byte("RIFF"), nil }

func newController(gw *fakeGateway, source media.Source) *Controller {
	if source == nil {
		source = media.DeniedSource{}
	}
	capture := media.NewCapture(source, discardLogger())
	return New(gw, capture, 2, "", discardLogger())
}

func startedController(t *testing.T, gw *fakeGateway, source media.Source) *Controller {
	t.Helper()
	c := newController(gw, source)
	if err := c.StartInterview(context.Background(), "SRE", "Fintech", "Junior"); err != nil {
		t.Fatalf("StartInterview: %v", err)
	}
	return c
}

func TestStartInterview_ValidationBeforeRequest(t *testing.T) {
	gw := &fakeGateway{question: "Q?"}
	c := newController(gw, nil)

	err := c.StartInterview(context.Background(), "SRE", "", "Junior")
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if gw.count("start") != 0 {
		t.Error("no request expected on validation failure")
	}
}

func TestStartInterview_SegmentsQuestion(t *testing.T) {
	gw := &fakeGateway{question: "1. What is X? 2. What is Y?"}
	c := startedController(t, gw, nil)

	snap := c.Snapshot()
	if snap.Session.State != session.InProgress {
		t.Fatalf("state = %v", snap.Session.State)
	}
	if len(snap.Session.Parts) != 2 || snap.Session.Current() != "What is X?" {
		t.Errorf("parts = %q", snap.Session.Parts)
	}
	if !snap.TextOnly {
		t.Error("denied microphone should put the interview in text-only mode")
	}
}

func TestStartInterview_FailureStaysInSetup(t *testing.T) {
	gw := &fakeGateway{startErr: &model.NetworkError{Op: "generate", Err: errors.New("down")}}
	c := newController(gw, nil)

	if err := c.StartInterview(context.Background(), "SRE", "Fintech", "Junior"); err == nil {
		t.Fatal("expected error")
	}
	snap := c.Snapshot()
	if snap.Session.State != session.Setup {
		t.Errorf("state = %v, want setup", snap.Session.State)
	}
	if snap.Busy(ActionStart) {
		t.Error("busy flag left set after failure")
	}
}

func TestSubmitAnswer_TextAdvances(t *testing.T) {
	gw := &fakeGateway{question: "1. What is X? 2. What is Y?", feedback: "ok"}
	c := startedController(t, gw, nil)

	ev, err := c.SubmitAnswer(context.Background(), "X is X")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if ev.Exchange.Question != "What is X?" {
		t.Errorf("question = %q", ev.Exchange.Question)
	}
	snap := c.Snapshot()
	if snap.Session.Index != 1 || len(snap.Session.Log) != 1 {
		t.Errorf("index = %d, log = %d", snap.Session.Index, len(snap.Session.Log))
	}
	if snap.Session.Log[0].Question != "What is X?" {
		t.Errorf("log question = %q, want the displayed sub-question", snap.Session.Log[0].Question)
	}
}

func TestSubmitAnswer_EmptyTextNoRequest(t *testing.T) {
	gw := &fakeGateway{question: "Q?"}
	c := startedController(t, gw, nil)

	if _, err := c.SubmitAnswer(context.Background(), "   "); !errors.Is(err, model.ErrNoAnswer) {
		t.Fatalf("err = %v, want ErrNoAnswer", err)
	}
	if gw.count("submit") != 0 {
		t.Error("no request expected")
	}
}

func TestSubmitAnswer_FailureDoesNotAdvance(t *testing.T) {
	gw := &fakeGateway{question: "Q?", submitErr: &model.TranscriptionError{Err: errors.New("bad audio")}}
	c := startedController(t, gw, nil)

	if _, err := c.SubmitAnswer(context.Background(), "a"); err == nil {
		t.Fatal("expected error")
	}
	snap := c.Snapshot()
	if snap.Session.Index != 0 || len(snap.Session.Log) != 0 {
		t.Errorf("state advanced after failure: %+v", snap.Session)
	}
}

func TestSubmitAnswer_NoSession(t *testing.T) {
	c := newController(&fakeGateway{}, nil)
	if _, err := c.SubmitAnswer(context.Background(), "a"); !errors.Is(err, model.ErrNoActiveSession) {
		t.Errorf("err = %v, want ErrNoActiveSession", err)
	}
}

func TestSubmitAnswer_SecondTriggerWhilePending(t *testing.T) {
	gw := &fakeGateway{question: "1. A? 2. B?"}
	c := startedController(t, gw, nil)

	gw.mu.Lock()
	gw.gate = make(chan struct{})
	gate := gw.gate
	gw.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := c.SubmitAnswer(context.Background(), "first")
		done <- err
	}()

	// poll until the first call holds the busy flag
	for !c.Snapshot().Busy(ActionSubmit) {
		runtime.Gosched()
	}
	if _, err := c.SubmitAnswer(context.Background(), "second"); !errors.Is(err, model.ErrBusy) {
		t.Errorf("second submit err = %v, want ErrBusy", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if gw.count("submit") != 1 {
		t.Errorf("submit calls = %d, want 1", gw.count("submit"))
	}
	if c.Snapshot().Busy(ActionSubmit) {
		t.Error("busy flag not cleared")
	}
}

func TestStartInterview_SecondTriggerKeepsSetup(t *testing.T) {
	gate := make(chan struct{})
	gw := &fakeGateway{question: "Q?", gate: gate}
	c := newController(gw, nil)

	done := make(chan error, 1)
	go func() {
		done <- c.StartInterview(context.Background(), "SRE", "Fintech", "Junior")
	}()

	for !c.Snapshot().Busy(ActionStart) {
		runtime.Gosched()
	}
	if err := c.StartInterview(context.Background(), "Chef", "Food", "Senior"); !errors.Is(err, model.ErrBusy) {
		t.Errorf("second start err = %v, want ErrBusy", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first start: %v", err)
	}
	snap := c.Snapshot().Session
	if snap.Role != "SRE" || snap.Industry != "Fintech" || snap.Difficulty != "Junior" {
		t.Errorf("setup = %q/%q/%q, want SRE/Fintech/Junior", snap.Role, snap.Industry, snap.Difficulty)
	}
	if gw.count("start") != 1 {
		t.Errorf("start calls = %d, want 1", gw.count("start"))
	}
}

func TestStartInterview_ValidationClearsBusy(t *testing.T) {
	gw := &fakeGateway{question: "Q?"}
	c := newController(gw, nil)

	if err := c.StartInterview(context.Background(), "", "", ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if c.Snapshot().Busy(ActionStart) {
		t.Fatal("busy flag left set after validation failure")
	}
	if err := c.StartInterview(context.Background(), "SRE", "Fintech", "Junior"); err != nil {
		t.Fatalf("retry after validation failure: %v", err)
	}
}

func TestDiscardRecording_AfterTranscriptionFailure(t *testing.T) {
	gw := &fakeGateway{question: "Q?"}
	c := startedController(t, gw, micSource{})

	if err := c.ToggleRecording(); err != nil {
		t.Fatal(err)
	}
	if err := c.ToggleRecording(); err != nil {
		t.Fatal(err)
	}

	gw.submitErr = &model.TranscriptionError{Err: errors.New("garbled")}
	var transErr *model.TranscriptionError
	if _, err := c.SubmitAnswer(context.Background(), ""); !errors.As(err, &transErr) {
		t.Fatalf("err = %v, want TranscriptionError", err)
	}
	if !c.Snapshot().HasAudio {
		t.Fatal("recording should be kept after a failed transcription")
	}

	c.DiscardRecording()
	if c.Snapshot().HasAudio {
		t.Fatal("recording not discarded")
	}

	gw.submitErr = nil
	if _, err := c.SubmitAnswer(context.Background(), "typed instead"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if len(gw.answers) != 1 || gw.answers[0].HasAudio() || gw.answers[0].Text != "typed instead" {
		t.Errorf("answers = %+v", gw.answers)
	}
}

func TestDiscardRecording_KeepsActiveRecording(t *testing.T) {
	c := startedController(t, &fakeGateway{question: "Q?"}, micSource{})
	if err := c.ToggleRecording(); err != nil {
		t.Fatal(err)
	}
	c.DiscardRecording()
	if !c.Snapshot().Recording {
		t.Error("active recording was stopped")
	}
}

func TestRecording_AudioWinsOverText(t *testing.T) {
	gw := &fakeGateway{question: "Q?"}
	c := startedController(t, gw, micSource{})

	if c.Snapshot().TextOnly {
		t.Fatal("microphone should be available")
	}
	if err := c.ToggleRecording(); err != nil {
		t.Fatalf("start recording: %v", err)
	}
	if !c.Snapshot().Recording {
		t.Fatal("not recording")
	}
	if err := c.ToggleRecording(); err != nil {
		t.Fatalf("stop recording: %v", err)
	}
	if !c.Snapshot().HasAudio {
		t.Fatal("no audio after stop")
	}

	if _, err := c.SubmitAnswer(context.Background(), "typed"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if string(gw.answers[0].Audio) != "RIFF" {
		t.Errorf("audio = %q", gw.answers[0].Audio)
	}
	if c.Snapshot().HasAudio {
		t.Error("audio not cleared after submission")
	}
}

func TestSubmitAnswer_StopsActiveRecording(t *testing.T) {
	gw := &fakeGateway{question: "Q?"}
	c := startedController(t, gw, micSource{})

	if err := c.ToggleRecording(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SubmitAnswer(context.Background(), ""); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if c.Snapshot().Recording {
		t.Error("recording still active")
	}
	if len(gw.answers) != 1 || !gw.answers[0].HasAudio() {
		t.Errorf("answers = %+v", gw.answers)
	}
}

func TestToggleRecording_TextOnly(t *testing.T) {
	c := startedController(t, &fakeGateway{question: "Q?"}, nil)
	if err := c.ToggleRecording(); !errors.Is(err, model.ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestEndInterview_ThenClose(t *testing.T) {
	gw := &fakeGateway{question: "1. A? 2. B?", summary: model.Summary{Text: "Nice work"}}
	c := startedController(t, gw, micSource{})

	// ending early is allowed
	summary, err := c.EndInterview(context.Background())
	if err != nil {
		t.Fatalf("EndInterview: %v", err)
	}
	if summary.Text != "Nice work" {
		t.Errorf("summary = %+v", summary)
	}
	snap := c.Snapshot()
	if snap.Session.State != session.Completed || snap.Session.Summary == nil {
		t.Fatalf("session = %+v", snap.Session)
	}

	c.CloseSummary()
	snap = c.Snapshot()
	if snap.Session.State != session.Idle || snap.Session.ID != "" || len(snap.Session.Log) != 0 {
		t.Errorf("session not reset: %+v", snap.Session)
	}
}

func TestEndInterview_FailureKeepsSession(t *testing.T) {
	gw := &fakeGateway{question: "Q?", endErr: &model.BackendError{Op: "end interview", Err: errors.New("x")}}
	c := startedController(t, gw, nil)

	if _, err := c.EndInterview(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if st := c.Snapshot().Session.State; st != session.InProgress {
		t.Errorf("state = %v, want in_progress", st)
	}
}

func TestEndInterview_NoSession(t *testing.T) {
	c := newController(&fakeGateway{}, nil)
	if _, err := c.EndInterview(context.Background()); !errors.Is(err, model.ErrNoActiveSession) {
		t.Errorf("err = %v", err)
	}
}

func TestResumeFlow(t *testing.T) {
	gw := &fakeGateway{optimized: model.OptimizeResult{OptimizedResume: "JANE"}}
	dir := t.TempDir()
	c := New(gw, media.NewCapture(media.DeniedSource{}, discardLogger()), 2, dir, discardLogger())

	if _, err := c.OptimizeResume(context.Background(), "jd"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("no file: err = %v", err)
	}
	if _, err := c.DownloadResume(); !errors.Is(err, model.ErrNothingToDownload) {
		t.Fatalf("nothing optimized: err = %v", err)
	}

	path := filepath.Join(dir, "cv.txt")
	os.WriteFile(path, []byte("resume"), 0o644)
	if _, err := c.SelectResume(path); err != nil {
		t.Fatalf("SelectResume: %v", err)
	}
	if _, err := c.OptimizeResume(context.Background(), "  "); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("blank jd: err = %v", err)
	}
	if gw.count("optimize") != 0 {
		t.Fatal("no request expected before valid input")
	}

	if _, err := c.OptimizeResume(context.Background(), "Go developer"); err != nil {
		t.Fatalf("OptimizeResume: %v", err)
	}
	out, err := c.DownloadResume()
	if err != nil {
		t.Fatalf("DownloadResume: %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "JANE" {
		t.Errorf("downloaded %q", data)
	}
	if snap := c.Snapshot(); snap.ResumeFile == nil || snap.Optimized == nil {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestResearch(t *testing.T) {
	gw := &fakeGateway{research: model.ResearchResult{Company: "Acme", Role: "SRE", Mock: true}}
	c := newController(gw, nil)

	if _, err := c.Research(context.Background(), "Acme", ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
	if _, err := c.Research(context.Background(), " Acme ", "SRE"); err != nil {
		t.Fatalf("Research: %v", err)
	}
	snap := c.Snapshot()
	if snap.Research == nil || !snap.Research.Mock {
		t.Errorf("research = %+v", snap.Research)
	}
}

func TestSwitchTab(t *testing.T) {
	c := newController(&fakeGateway{}, nil)
	c.SwitchTab(TabResearch)
	if c.Snapshot().Tab != TabResearch {
		t.Error("tab not switched")
	}
	if TabResume.String() != "Resume Optimizer" {
		t.Errorf("String() = %q", TabResume.String())
	}
}
