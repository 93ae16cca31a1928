package segment

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "numbered inline",
			input: "1. What is X? 2. What is Y?",
			want:  []string{"What is X?", "What is Y?"},
		},
		{
			name:  "numbered multiline",
			input: "1. Explain goroutines.\n2. Explain channels.\n3. Explain select.",
			want:  []string{"Explain goroutines.", "Explain channels.", "Explain select."},
		},
		{
			name:  "bold markers",
			input: "**1** Design a cache **2** Size the cache",
			want:  []string{"Design a cache", "Size the cache"},
		},
		{
			name:  "preamble folds into first part",
			input: "Consider a URL shortener. 1. How do you store keys? 2. How do you scale reads?",
			want:  []string{"Consider a URL shortener. How do you store keys?", "How do you scale reads?"},
		},
		{
			name:  "double newline",
			input: "Tell me about a conflict\n\nHow did you resolve it",
			want:  []string{"Tell me about a conflict", "How did you resolve it"},
		},
		{
			name:  "single newline",
			input: "Describe the project\nWhat was your role",
			want:  []string{"Describe the project", "What was your role"},
		},
		{
			name:  "sentences",
			input: "Describe a failure. What did you learn.",
			want:  []string{"Describe a failure.", "What did you learn."},
		},
		{
			name:  "decimal is not a sentence end",
			input: "What changed in Go 1.22?",
			want:  []string{"What changed in Go 1.22?"},
		},
		{
			name:  "single question",
			input: "   Why do you want this job?  ",
			want:  []string{"Why do you want this job?"},
		},
		{
			name:  "single marker falls through to sentences",
			input: "1. Why Go?",
			want:  []string{"1.", "Why Go?"},
		},
		{
			name:  "year before a period",
			input: "Tell me what happened in 2019. Why did you leave?",
			want:  []string{"Tell me what happened in 2019.", "Why did you leave?"},
		},
		{
			name:  "numbered label is kept",
			input: "Question 1. Explain X",
			want:  []string{"Question 1.", "Explain X"},
		},
		{
			name:  "year without a following sentence",
			input: "What did you ship in 2019.",
			want:  []string{"What did you ship in 2019."},
		},
		{
			name:  "empty",
			input: "",
			want:  []string{},
		},
		{
			name:  "whitespace only",
			input: " \n\t ",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplit_NumberedMarkerCount(t *testing.T) {
	for n := 2; n <= 9; n++ {
		var b strings.Builder
		for i := 1; i <= n; i++ {
			b.WriteString(strings.Repeat(" ", i%3))
			b.WriteString(string(rune('0' + i)))
			b.WriteString(". part question ")
		}
		parts := Split(b.String())
		if len(parts) != n {
			t.Fatalf("n=%d: got %d parts: %q", n, len(parts), parts)
		}
		for _, p := range parts {
			if p == "" || p != strings.TrimSpace(p) {
				t.Errorf("n=%d: part %q is empty or untrimmed", n, p)
			}
		}
	}
}

func TestClean(t *testing.T) {
	tests := map[string]string{
		"**Question:** Why Go?":  "Why Go?",
		"Question: Why Go?":      "Why Go?",
		"question:   Why Go?":    "Why Go?",
		"Why Go?":                "Why Go?",
		"**Question:**\nWhy Go?": "Why Go?",
	}
	for in, want := range tests {
		if got := Clean(in); got != want {
			t.Errorf("Clean(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOutline(t *testing.T) {
	main, subs := Outline("**Question:** Walk through a design\n1. Storage\n2. Caching")
	if main != "Walk through a design" {
		t.Errorf("main = %q", main)
	}
	if !reflect.DeepEqual(subs, []string{"Storage", "Caching"}) {
		t.Errorf("subs = %q", subs)
	}

	main, subs = Outline("Why Go?")
	if main != "Why Go?" || len(subs) != 0 {
		t.Errorf("Outline(single) = %q, %q", main, subs)
	}

	main, subs = Outline("Intro line\nDetail one\nDetail two")
	if main != "Intro line" || len(subs) != 2 {
		t.Errorf("Outline(lines) = %q, %q", main, subs)
	}
}
