package model

// Exchange is one answered sub-question in the conversation log.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
}

// Answer is what the candidate submits for the current sub-question.
// Audio, when present, wins over Text and is transcribed first.
type Answer struct {
	Question   string // sub-question displayed at submission time
	Role       string
	Difficulty string
	Text       string
	Audio      []byte
}

// HasAudio reports whether the answer carries a recording.
func (a Answer) HasAudio() bool {
	return len(a.Audio) > 0
}

// Evaluation is the parsed response to a submitted answer.
type Evaluation struct {
	Exchange     Exchange
	NextQuestion string // raw, unsegmented; empty when the backend sent none
}

// Summary is the end-of-interview report.
type Summary struct {
	Text string
	// Fallback is set when the backend returned its canned summary instead of
	// an aggregate of the conversation log.
	Fallback bool
}

// Journal receives the exchange recorded by a successful answer submission,
// along with the raw follow-up question, if any.
type Journal interface {
	Record(ex Exchange, next string) error
}
