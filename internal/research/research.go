// Package research reads company/role research results and supplies the
// offline substitute served when the backend is unreachable.
package research

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// NoData is displayed for every missing field.
const NoData = "No data available."

// NewsItem is one headline. Title is empty when the backend sent plain strings.
type NewsItem struct {
	Title   string
	Summary string
}

// View is the display form of a research response.
type View struct {
	CompanySummary     string
	Domain             string
	News               []NewsItem
	Skills             []string
	Experience         string
	Salary             string
	InterviewQuestions []string
	Overview           string
}

// Empty reports whether none of the headline fields were present.
func (v View) Empty() bool {
	return v.CompanySummary == "" && len(v.Skills) == 0 && v.Experience == "" && len(v.News) == 0
}

// Parse extracts a View from a backend response. Results are read from the
// "results" object when present, otherwise from the top level. Unknown or
// malformed fields are skipped.
func Parse(raw []byte) View {
	if !gjson.ValidBytes(raw) {
		return View{}
	}
	doc := gjson.ParseBytes(raw)
	results := doc.Get("results")
	if !results.IsObject() {
		results = doc
	}

	v := View{
		CompanySummary:     joined(results.Get("company_summary")),
		Domain:             firstString(results, "business_domain", "company_domain"),
		Skills:             stringList(results.Get("skills")),
		Experience:         joined(results.Get("experience_years")),
		Salary:             joined(results.Get("salary_range")),
		InterviewQuestions: stringList(results.Get("interview_questions")),
		Overview:           strings.TrimSpace(doc.Get("overview").String()),
	}

	results.Get("latest_news").ForEach(func(_, item gjson.Result) bool {
		var n NewsItem
		if item.IsObject() {
			n = NewsItem{
				Title:   strings.TrimSpace(item.Get("title").String()),
				Summary: strings.TrimSpace(item.Get("summary").String()),
			}
		} else {
			n.Summary = strings.TrimSpace(item.String())
		}
		if n.Title != "" || n.Summary != "" {
			v.News = append(v.News, n)
		}
		return true
	})

	return v
}

// joined returns a string value, or the elements of an array joined by spaces.
func joined(r gjson.Result) string {
	if r.IsArray() {
		return strings.Join(stringList(r), " ")
	}
	if r.Type == gjson.String || r.Type == gjson.Number {
		return strings.TrimSpace(r.String())
	}
	return ""
}

func stringList(r gjson.Result) []string {
	if !r.IsArray() {
		if s := joined(r); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, item := range r.Array() {
		if s := strings.TrimSpace(item.String()); s != "" && !item.IsObject() {
			out = append(out, s)
		}
	}
	return out
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := joined(r.Get(p)); s != "" {
			return s
		}
	}
	return ""
}

type mockNews struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type mockResults struct {
	CompanySummary     string     `json:"company_summary"`
	BusinessDomain     string     `json:"business_domain"`
	LatestNews         []mockNews `json:"latest_news"`
	Skills             []string   `json:"skills"`
	ExperienceYears    string     `json:"experience_years"`
	SalaryRange        string     `json:"salary_range"`
	InterviewQuestions []string   `json:"interview_questions"`
}

type mockEnvelope struct {
	Results  mockResults `json:"results"`
	Overview string      `json:"overview"`
}

// Mock returns canned research data in the backend's response shape. The
// output depends only on its arguments.
func Mock(company, role string) []byte {
	env := mockEnvelope{
		Results: mockResults{
			CompanySummary: "Large Enterprise (50,000+ employees)",
			BusinessDomain: "Technology, Cloud Computing, Software Development",
			LatestNews: []mockNews{
				{
					Title:   company + " announces new AI initiative",
					Summary: "The company is investing $2B in artificial intelligence research and development to enhance their product offerings.",
				},
				{
					Title:   "Record quarterly earnings reported",
					Summary: "Strong performance across all business segments with 15% year-over-year growth in revenue.",
				},
				{
					Title:   "Expansion into emerging markets",
					Summary: "New offices opening in Southeast Asia as part of global expansion strategy.",
				},
			},
			Skills: []string{
				"JavaScript", "React", "Node.js", "Python", "AWS",
				"Docker", "Kubernetes", "Git", "Agile", "Problem Solving",
			},
			ExperienceYears: "3-5 years of professional software development experience",
			SalaryRange:     "$95,000 - $140,000 annually (plus equity and benefits)",
			InterviewQuestions: []string{
				"Why do you want to work at " + company + "?",
				"Describe a project where you worked as a " + role + ".",
			},
		},
		Overview: "Sample research for " + role + " at " + company + ". The backend was unavailable.",
	}

	// a struct of strings cannot fail to marshal
	out, _ := json.Marshal(env)
	return out
}
