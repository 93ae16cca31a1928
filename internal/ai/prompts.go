package ai

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed prompts/interview_question.md
var interviewQuestionRaw string

//go:embed prompts/answer_evaluation.md
var answerEvaluationRaw string

// Parsed once at package init; reused on every request.
var (
	InterviewQuestionTemplate = template.Must(template.New("interview_question").Parse(interviewQuestionRaw))
	AnswerEvaluationTemplate  = template.Must(template.New("answer_evaluation").Parse(answerEvaluationRaw))
)

// QuestionPrompt holds the interview setup fields.
type QuestionPrompt struct {
	Role       string
	Industry   string
	Difficulty string
}

// EvaluationPrompt holds one answer to be graded.
type EvaluationPrompt struct {
	Role       string
	Difficulty string
	Question   string
	Answer     string
}

// Render executes tmpl with data.
func Render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
