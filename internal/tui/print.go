package tui

import (
	"github.com/amishk599/prepkit/internal/model"
	"github.com/amishk599/prepkit/internal/session"
)

// Inline renderings for the line-mode commands, which print instead of
// running the full-screen program.

// QuestionText renders the sub-question on display.
func QuestionText(s session.Snapshot, width int) string { return renderQuestion(s, width) }

// FeedbackText renders the feedback of one answered exchange.
func FeedbackText(ex model.Exchange, width int) string {
	return wrapLines(feedbackMarkdown.Render(ex.Feedback), width)
}

// SummaryText renders the end-of-interview summary.
func SummaryText(sum model.Summary, width int) string { return renderSummary(sum, width) }

// OptimizedText renders an optimized resume with its change list.
func OptimizedText(r model.OptimizeResult, width int) string { return renderOptimized(r, width) }

// ResearchText renders a research result, noting when it is sample data.
func ResearchText(r model.ResearchResult, width int) string { return renderResearch(r, width) }

// ErrorText renders err as a titled error box.
func ErrorText(err error, width int) string { return renderError(err, width) }
