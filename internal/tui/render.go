package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/prepkit/internal/markdown"
	"github.com/amishk599/prepkit/internal/model"
	"github.com/amishk599/prepkit/internal/prep"
	"github.com/amishk599/prepkit/internal/research"
	"github.com/amishk599/prepkit/internal/resume"
	"github.com/amishk599/prepkit/internal/segment"
	"github.com/amishk599/prepkit/internal/session"
)

// Render functions are pure: snapshot in, string out.

var feedbackMarkdown = markdown.Renderer{
	Heading: func(s string) string { return strongStyle.Render(s) },
	Strong:  func(s string) string { return strongStyle.Render(s) },
	Em:      func(s string) string { return emStyle.Render(s) },
}

func renderTabBar(active prep.Tab) string {
	tabs := make([]string, 0, len(prep.Tabs))
	for i, t := range prep.Tabs {
		label := fmt.Sprintf("F%d %s", i+1, t)
		if t == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func divider(label string, width int) string {
	fill := strings.Repeat("─", max(width-len([]rune(label)), 3))
	return dividerStyle.Render(label + fill)
}

// renderQuestion shows the sub-question on display, split into its main line
// and numbered items.
func renderQuestion(s session.Snapshot, width int) string {
	var b strings.Builder

	if s.Exhausted() || s.Current() == "" {
		b.WriteString(titleStyle.Render("No more questions.") + "\n")
		if s.State == session.Completed {
			b.WriteString(hintStyle.Render("All questions answered. Press ctrl+e to end the interview and see your summary.") + "\n")
		}
		return b.String()
	}

	b.WriteString(hintStyle.Render(fmt.Sprintf("Question %d of %d · %s · %s", s.Index+1, len(s.Parts), s.Role, s.Difficulty)) + "\n")
	main, subs := segment.Outline(s.Current())
	b.WriteString(titleStyle.Render(wordWrap(main, width)) + "\n")
	for _, sub := range subs {
		b.WriteString(bodyStyle.Render(wordWrap("  • "+sub, width)) + "\n")
	}
	return b.String()
}

func renderRecordingStatus(s prep.Snapshot) string {
	switch {
	case s.Recording:
		return recordingStyle.Render("● Recording...") + hintStyle.Render("  press space to stop")
	case s.HasAudio:
		return addedStyle.Render("✓ Answer recorded.") + hintStyle.Render("  ctrl+s to submit, space to record again")
	case s.TextOnly:
		return hintStyle.Render("Microphone unavailable. Type your answer below.")
	default:
		return hintStyle.Render("Press space to record your answer, or tab to type it.")
	}
}

// renderFeedback lists the conversation log, newest last.
func renderFeedback(log []model.Exchange, width int) string {
	if len(log) == 0 {
		return hintStyle.Render("Feedback on your answers will appear here.")
	}

	var b strings.Builder
	for i, ex := range log {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(divider(fmt.Sprintf("── Answer %d ", i+1), width) + "\n")
		b.WriteString(labelStyle.Render("Question") + wordWrap(ex.Question, max(width-16, 20)) + "\n")
		b.WriteString(labelStyle.Render("Your answer") + wordWrap(ex.Answer, max(width-16, 20)) + "\n\n")
		b.WriteString(wrapLines(feedbackMarkdown.Render(ex.Feedback), width) + "\n")
	}
	return b.String()
}

func renderSummary(sum model.Summary, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Interview Summary") + "\n\n")
	b.WriteString(wrapLines(feedbackMarkdown.Render(sum.Text), width) + "\n")
	if sum.Fallback {
		b.WriteString("\n" + hintStyle.Render("The backend could not analyze this interview; this is a generic summary.") + "\n")
	}
	return b.String()
}

func renderResumeFile(f *model.ResumeFile) string {
	if f == nil {
		return hintStyle.Render("No file selected. Paste or drop a .pdf, .docx, .doc or .txt path and press enter.")
	}
	return addedStyle.Render("✓ "+f.Name) + hintStyle.Render(" ("+resume.FormatFileSize(f.Size())+")")
}

func renderOptimized(r model.OptimizeResult, width int) string {
	var b strings.Builder

	if len(r.Changes) > 0 {
		b.WriteString(divider("── Changes ", width) + "\n")
		for _, c := range r.Changes {
			switch c.Type {
			case "added":
				b.WriteString(addedStyle.Render("+ ") + wordWrap(c.Description, width-2) + "\n")
			case "modified":
				b.WriteString(modifiedStyle.Render("~ ") + wordWrap(c.Description, width-2) + "\n")
			default:
				b.WriteString("• " + wordWrap(c.Description, width-2) + "\n")
			}
		}
		b.WriteByte('\n')
	}

	if len(r.MissingKeywords) > 0 {
		b.WriteString(labelStyle.Render("Missing keywords") + wordWrap(strings.Join(r.MissingKeywords, ", "), max(width-16, 20)) + "\n")
	}
	if r.SummaryPreview != "" {
		b.WriteString(labelStyle.Render("Summary") + wordWrap(r.SummaryPreview, max(width-16, 20)) + "\n")
	}
	if r.OptimizedPath != "" {
		b.WriteString(labelStyle.Render("Server copy") + r.OptimizedPath + "\n")
	}

	b.WriteString("\n" + divider("── Optimized Resume ", width) + "\n")
	b.WriteString(bodyStyle.Render(r.OptimizedResume) + "\n\n")
	b.WriteString(hintStyle.Render("ctrl+d to save as "+resume.DownloadName) + "\n")
	return b.String()
}

func orNoData(s string) string {
	if s == "" {
		return research.NoData
	}
	return s
}

func renderResearch(r model.ResearchResult, width int) string {
	v := research.Parse(r.Raw)
	var b strings.Builder

	if r.Mock {
		b.WriteString(modifiedStyle.Render("Research service unavailable. Showing sample data.") + "\n\n")
	}
	b.WriteString(titleStyle.Render(r.Role+" at "+r.Company) + "\n\n")

	field := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + wordWrap(value, max(width-16, 20)) + "\n")
	}

	if v.Empty() {
		field("Company size", research.NoData)
		field("Domain", research.NoData)
		field("Latest news", "No news available.")
		field("Skills", "No skills found.")
		field("Experience", research.NoData)
		field("Salary", research.NoData)
		return b.String()
	}

	b.WriteString(divider("── Company Overview ", width) + "\n")
	field("Company size", orNoData(v.CompanySummary))
	field("Domain", orNoData(v.Domain))
	if len(v.News) > 0 {
		b.WriteString(labelStyle.Render("Latest news") + "\n")
		for _, n := range v.News {
			if n.Title != "" {
				b.WriteString("  " + strongStyle.Render(n.Title) + "\n")
			}
			if n.Summary != "" {
				b.WriteString(bodyStyle.Render(wordWrap("  "+n.Summary, width)) + "\n")
			}
		}
	}

	b.WriteString("\n" + divider("── Role Requirements ", width) + "\n")
	if len(v.Skills) > 0 {
		tags := make([]string, len(v.Skills))
		for i, s := range v.Skills {
			tags[i] = skillStyle.Render(s)
		}
		b.WriteString(labelStyle.Render("Skills") + strings.Join(tags, " ") + "\n")
	}
	field("Experience", orNoData(v.Experience))
	field("Salary", orNoData(v.Salary))

	if len(v.InterviewQuestions) > 0 {
		b.WriteString("\n" + divider("── Likely Interview Questions ", width) + "\n")
		for i, q := range v.InterviewQuestions {
			b.WriteString(wordWrap(fmt.Sprintf("%d. %s", i+1, q), width) + "\n")
		}
	}
	if v.Overview != "" {
		b.WriteString("\n" + divider("── Overview ", width) + "\n")
		b.WriteString(wrapLines(feedbackMarkdown.Render(v.Overview), width) + "\n")
	}
	return b.String()
}

var errorTitles = map[string]string{
	"transcription": "Transcription failed",
	"validation":    "Missing information",
	"network":       "Network error",
	"backend":       "Server error",
	"permission":    "Microphone unavailable",
}

// resendNote explains what ctrl+s does after a failed transcription.
const resendNote = "The recording is kept: ctrl+s sends it again, space records a new answer."

func renderError(err error, width int) string {
	return renderErrorNote(err, width, "")
}

// renderErrorNote is renderError with an optional line of advice under the
// message.
func renderErrorNote(err error, width int, note string) string {
	title, ok := errorTitles[model.ErrorKind(err)]
	if !ok {
		title = "Error"
	}
	body := wordWrap(err.Error(), max(width-6, 20))
	if note != "" {
		body += "\n\n" + wordWrap(note, max(width-6, 20))
	}
	return errorBorderStyle.Render(
		errorTitleStyle.Render(title) + "\n\n" + body + "\n\n" + hintStyle.Render("enter/esc to dismiss"),
	)
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// wrapLines word-wraps each line separately, keeping blank lines and the
// leading indentation of bullets and code.
func wrapLines(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
		if len(line) > width && strings.TrimSpace(line) != "" {
			lines[i] = indent + strings.ReplaceAll(wordWrap(line, max(width-len(indent), 10)), "\n", "\n"+indent)
		}
	}
	return strings.Join(lines, "\n")
}
