package model

// ResumeFile is an uploaded resume held in memory.
type ResumeFile struct {
	Name string
	Data []byte
}

// Size returns the file size in bytes.
func (f ResumeFile) Size() int64 {
	return int64(len(f.Data))
}

// ResumeChange is one entry of the optimizer's change summary.
type ResumeChange struct {
	Type        string `json:"type"` // "added" or "modified"
	Description string `json:"description"`
}

// OptimizeResult is the resume optimizer response.
type OptimizeResult struct {
	OptimizedResume string         `json:"optimized_resume"`
	Changes         []ResumeChange `json:"changes_explanation"`
	OptimizedPath   string         `json:"optimized_path"`
	MissingKeywords []string       `json:"missing_keywords"`
	SummaryPreview  string         `json:"summary_preview"`
}
