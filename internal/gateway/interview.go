package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"

	"github.com/amishk599/prepkit/internal/ai"
	"github.com/amishk599/prepkit/internal/model"
)

// NextQuestionMarker separates feedback from the follow-up question in an
// evaluation response.
const NextQuestionMarker = "Next Question:"

// FallbackSummaryPhrase identifies the backend's canned summary.
const FallbackSummaryPhrase = "Great job on completing the mock interview!"

// Interview is a freshly started session as returned by the backend.
type Interview struct {
	ID       string
	Question string // raw, unsegmented
}

func newSessionID() string {
	return "session_" + uuid.NewString()
}

// StartInterview asks for the opening question.
func (c *Client) StartInterview(ctx context.Context, role, industry, difficulty string) (Interview, error) {
	prompt, err := ai.Render(ai.InterviewQuestionTemplate, ai.QuestionPrompt{
		Role:       role,
		Industry:   industry,
		Difficulty: difficulty,
	})
	if err != nil {
		return Interview{}, err
	}

	question, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return Interview{}, fmt.Errorf("start interview: %w", err)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return Interview{}, model.ErrNoQuestion
	}

	iv := Interview{ID: c.newID(), Question: question}
	c.logger.Info("interview started", "session_id", iv.ID, "role", role, "difficulty", difficulty)
	return iv, nil
}

// SubmitAnswer resolves the answer text (transcribing audio if present),
// requests an evaluation and records exactly one exchange into j. Nothing is
// recorded when any step fails.
func (c *Client) SubmitAnswer(ctx context.Context, j model.Journal, a model.Answer) (model.Evaluation, error) {
	var text string
	if a.HasAudio() {
		transcript, err := c.Transcribe(ctx, a.Audio)
		if err != nil {
			return model.Evaluation{}, &model.TranscriptionError{Err: err}
		}
		text = transcript
	} else {
		text = strings.TrimSpace(a.Text)
	}
	if text == "" {
		return model.Evaluation{}, model.ErrNoAnswer
	}

	prompt, err := ai.Render(ai.AnswerEvaluationTemplate, ai.EvaluationPrompt{
		Role:       a.Role,
		Difficulty: a.Difficulty,
		Question:   a.Question,
		Answer:     text,
	})
	if err != nil {
		return model.Evaluation{}, err
	}

	response, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("evaluate answer: %w", err)
	}

	feedback, next := ParseFeedback(response)
	ev := model.Evaluation{
		Exchange:     model.Exchange{Question: a.Question, Answer: text, Feedback: feedback},
		NextQuestion: next,
	}
	if err := j.Record(ev.Exchange, ev.NextQuestion); err != nil {
		return model.Evaluation{}, fmt.Errorf("record answer: %w", err)
	}
	return ev, nil
}

// ParseFeedback splits an evaluation response on the first NextQuestionMarker.
// Without the marker the whole response is feedback and next is empty.
func ParseFeedback(response string) (feedback, next string) {
	before, after, found := strings.Cut(response, NextQuestionMarker)
	if !found {
		return strings.TrimSpace(response), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
	AI         string `json:"ai"`
}

// Transcribe uploads a WAV recording and returns its transcript.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("audio", "answer.wav")
	if err != nil {
		return "", fmt.Errorf("create audio part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio part: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	var out transcribeResponse
	if err := c.post(ctx, "transcribe", UploadAudioPath, w.FormDataContentType(), &body, &out); err != nil {
		return "", err
	}
	transcript := strings.TrimSpace(out.Transcript)
	if transcript == "" {
		return "", &model.BackendError{Op: "transcribe", Err: errors.New("empty transcript")}
	}
	return transcript, nil
}

type endInterviewRequest struct {
	SessionID       string           `json:"session_id"`
	ConversationLog []model.Exchange `json:"conversation_log"`
}

type endInterviewResponse struct {
	Summary string `json:"summary"`
}

// EndInterview requests the summary for the given conversation log.
func (c *Client) EndInterview(ctx context.Context, sessionID string, log []model.Exchange) (model.Summary, error) {
	if log == nil {
		log = []model.Exchange{}
	}

	var out endInterviewResponse
	req := endInterviewRequest{SessionID: sessionID, ConversationLog: log}
	if err := c.postJSON(ctx, "end interview", EndInterviewPath, req, &out); err != nil {
		return model.Summary{}, err
	}

	text := strings.TrimSpace(out.Summary)
	if text == "" {
		return model.Summary{}, &model.BackendError{Op: "end interview", Err: errors.New("empty summary")}
	}

	summary := model.Summary{Text: text, Fallback: strings.Contains(text, FallbackSummaryPhrase)}
	if summary.Fallback {
		c.logger.Warn("backend returned fallback summary", "session_id", sessionID, "exchanges", len(log))
	}
	return summary, nil
}
