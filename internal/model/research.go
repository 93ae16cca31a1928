package model

// ResearchResult is the research collaborator's response, kept opaque.
// Raw holds the JSON body; renderers extract what they need from it.
type ResearchResult struct {
	Company string
	Role    string
	Raw     []byte
	// Mock is set when Raw is the deterministic fallback, not a live response.
	Mock bool
}
