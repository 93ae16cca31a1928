// Package segment splits compound interview questions into sub-questions.
package segment

import (
	"regexp"
	"strings"
)

var (
	// "1. ", "12. ", "**2**", "**3.**"
	numberedMarker = regexp.MustCompile(`\*\*\d+\.?\*\*\s*|\d+\.\s+`)
	sentenceEnd    = regexp.MustCompile(`\.(?:\s+|$)`)

	boldQuestionLabel = regexp.MustCompile(`(?i)\*\*Question:\*\*\s*`)
	questionLabel     = regexp.MustCompile(`(?i)Question:\s*`)
	blankLines        = regexp.MustCompile(`\n+`)
)

// Split returns the ordered, trimmed, non-empty sub-questions of question.
//
// Numbered-list markers are tried first. When they yield at most one part the
// original text is split on blank lines, then single newlines, then sentence-ending
// periods; the first rule producing more than one part wins. Otherwise the
// whole trimmed question is the only part. Blank input yields an empty slice.
func Split(question string) []string {
	question = strings.TrimSpace(question)
	if question == "" {
		return []string{}
	}

	if parts := splitNumbered(question); len(parts) > 1 {
		return parts
	}

	// a single marker is ordinary text: the fallbacks see the input unchanged
	rules := []func(string) []string{
		func(s string) []string { return strings.Split(s, "\n\n") },
		func(s string) []string { return strings.Split(s, "\n") },
		splitSentences,
	}
	for _, rule := range rules {
		if parts := tidy(rule(question)); len(parts) > 1 {
			return parts
		}
	}
	return []string{question}
}

// splitNumbered splits on list markers. Text before the first marker is
// context for the first sub-question, so it is folded into it.
func splitNumbered(s string) []string {
	locs := numberedMarker.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return nil
	}

	preamble := strings.TrimSpace(s[:locs[0][0]])
	var raw []string
	for i, loc := range locs {
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		raw = append(raw, s[loc[1]:end])
	}

	parts := tidy(raw)
	if preamble != "" {
		if len(parts) == 0 {
			return []string{preamble}
		}
		parts[0] = preamble + " " + parts[0]
	}
	return parts
}

// splitSentences cuts after every period that ends a sentence, keeping it.
func splitSentences(s string) []string {
	var parts []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(s, -1) {
		parts = append(parts, s[start:loc[0]+1])
		start = loc[1]
	}
	return append(parts, s[start:])
}

func tidy(raw []string) []string {
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Clean strips a leading "**Question:**" or "Question:" label.
func Clean(question string) string {
	question = replaceFirst(boldQuestionLabel, question)
	question = replaceFirst(questionLabel, question)
	return strings.TrimSpace(question)
}

func replaceFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

// Outline splits a question for display into its main line and sub-items.
// Numbered items take precedence over line breaks.
func Outline(question string) (main string, subs []string) {
	main = Clean(question)

	if strings.Contains(main, "\n") {
		if lines := tidy(blankLines.Split(main, -1)); len(lines) > 1 {
			main, subs = lines[0], lines[1:]
		}
	}

	clean := Clean(question)
	if locs := numberedMarker.FindAllStringIndex(clean, -1); len(locs) > 0 {
		var raw []string
		prev := 0
		for _, loc := range locs {
			raw = append(raw, clean[prev:loc[0]])
			prev = loc[1]
		}
		raw = append(raw, clean[prev:])
		if numbered := tidy(raw); len(numbered) > 1 {
			main, subs = numbered[0], numbered[1:]
		}
	}
	return main, subs
}
