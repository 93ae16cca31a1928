// Package session holds the mock-interview state machine.
package session

import (
	"fmt"
	"strings"

	"github.com/amishk599/prepkit/internal/model"
	"github.com/amishk599/prepkit/internal/segment"
)

// State is a phase of the interview lifecycle.
type State int

const (
	Idle State = iota
	Setup
	InProgress
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Setup:
		return "setup"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is one mock interview from first question to summary close.
// It is not safe for concurrent use; the owner serializes access.
type Session struct {
	state      State
	id         string
	role       string
	industry   string
	difficulty string
	parts      []string
	index      int
	log        []model.Exchange
	summary    *model.Summary

	maxFollowUps  int
	followUpsUsed int
}

// New returns an idle session that accepts up to maxFollowUps follow-up
// questions from the backend once the initial parts are exhausted.
func New(maxFollowUps int) *Session {
	return &Session{maxFollowUps: maxFollowUps}
}

// State returns the current phase.
func (s *Session) State() State {
	return s.state
}

// Configure records the interview parameters and enters Setup.
func (s *Session) Configure(role, industry, difficulty string) error {
	if s.state != Idle && s.state != Setup {
		return fmt.Errorf("configure: session is %s", s.state)
	}
	role = strings.TrimSpace(role)
	industry = strings.TrimSpace(industry)
	difficulty = strings.TrimSpace(difficulty)
	if role == "" || industry == "" || difficulty == "" {
		return model.Invalid("please fill in all fields")
	}
	s.role, s.industry, s.difficulty = role, industry, difficulty
	s.state = Setup
	return nil
}

// Start enters InProgress with the segmented first question, resetting the
// log and index. A question with no parts leaves the session in Setup.
func (s *Session) Start(id, question string) error {
	if s.state != Setup {
		return fmt.Errorf("start: session is %s", s.state)
	}
	parts := segment.Split(question)
	if len(parts) == 0 {
		return model.ErrNoQuestion
	}
	s.id = id
	s.parts = parts
	s.index = 0
	s.log = nil
	s.summary = nil
	s.followUpsUsed = 0
	s.state = InProgress
	return nil
}

// CurrentPart returns the sub-question on display, or "" when none is left.
func (s *Session) CurrentPart() string {
	if s.index < len(s.parts) {
		return s.parts[s.index]
	}
	return ""
}

// Record appends an answered exchange and advances to the next part. When
// the parts run out, a non-empty next question is segmented and appended
// while the follow-up budget lasts; otherwise the session is Completed.
func (s *Session) Record(ex model.Exchange, next string) error {
	if s.state != InProgress {
		return fmt.Errorf("record: session is %s", s.state)
	}
	s.log = append(s.log, ex)
	s.index++

	if s.index >= len(s.parts) && next != "" && s.followUpsUsed < s.maxFollowUps {
		if more := segment.Split(next); len(more) > 0 {
			s.parts = append(s.parts, more...)
			s.followUpsUsed++
		}
	}
	if s.index >= len(s.parts) {
		s.state = Completed
	}
	return nil
}

// Finish attaches the end-of-interview summary. Ending before all parts are
// answered is allowed.
func (s *Session) Finish(summary model.Summary) error {
	if s.state != InProgress && s.state != Completed {
		return fmt.Errorf("finish: session is %s", s.state)
	}
	s.summary = &summary
	s.state = Completed
	return nil
}

// Close discards the session and returns to Idle.
func (s *Session) Close() {
	*s = Session{maxFollowUps: s.maxFollowUps}
}

// ID returns the session identifier, "" when none is active.
func (s *Session) ID() string {
	return s.id
}

// Log returns a copy of the conversation log.
func (s *Session) Log() []model.Exchange {
	return append([]model.Exchange(nil), s.log...)
}

// Snapshot is an immutable view of a Session.
type Snapshot struct {
	State      State
	ID         string
	Role       string
	Industry   string
	Difficulty string
	Parts      []string
	Index      int
	Log        []model.Exchange
	Summary    *model.Summary
}

// Snapshot copies the session for rendering.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:      s.state,
		ID:         s.id,
		Role:       s.role,
		Industry:   s.industry,
		Difficulty: s.difficulty,
		Parts:      append([]string(nil), s.parts...),
		Index:      s.index,
		Log:        s.Log(),
	}
	if s.summary != nil {
		sum := *s.summary
		snap.Summary = &sum
	}
	return snap
}

// Current returns the sub-question on display in the snapshot.
func (s Snapshot) Current() string {
	if s.Index < len(s.Parts) {
		return s.Parts[s.Index]
	}
	return ""
}

// Exhausted reports whether every part has been answered.
func (s Snapshot) Exhausted() bool {
	return len(s.Parts) > 0 && s.Index >= len(s.Parts)
}
