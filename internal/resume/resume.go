// Package resume loads the resume to optimize and keeps the optimizer's result.
package resume

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amishk599/prepkit/internal/model"
)

// DownloadName is the file written by Job.Download.
const DownloadName = "optimized_resume.txt"

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
}

// NormalizePath undoes what terminals add when a file is dropped onto them:
// surrounding quotes, a file:// prefix, percent-escapes and escaped spaces.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, `"'`)
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			p = u.Path
		} else {
			p = strings.TrimPrefix(p, "file://")
		}
	}
	return strings.ReplaceAll(p, `\ `, " ")
}

// Load reads the resume at path. Only pdf, docx, doc and txt files are accepted.
func Load(path string) (model.ResumeFile, error) {
	path = NormalizePath(path)
	if path == "" {
		return model.ResumeFile{}, model.Invalid("please upload a resume file")
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		return model.ResumeFile{}, model.Invalid("unsupported resume type %q: use .pdf, .docx, .doc or .txt", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.ResumeFile{}, fmt.Errorf("read resume: %w", err)
	}
	if len(data) == 0 {
		return model.ResumeFile{}, model.Invalid("resume file %s is empty", filepath.Base(path))
	}

	return model.ResumeFile{Name: filepath.Base(path), Data: data}, nil
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders n bytes with up to two decimals: "0 Bytes", "1.5 KB".
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := math.Round(float64(n)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// Job is the resume tab's state: the selected file and the last result.
type Job struct {
	file   *model.ResumeFile
	result *model.OptimizeResult
}

// Select replaces the uploaded file. A previous result is kept until the
// next optimization succeeds.
func (j *Job) Select(f model.ResumeFile) {
	j.file = &f
}

// File returns the selected file, if any.
func (j *Job) File() (model.ResumeFile, bool) {
	if j.file == nil {
		return model.ResumeFile{}, false
	}
	return *j.file, true
}

// SetResult stores a successful optimization.
func (j *Job) SetResult(r model.OptimizeResult) {
	j.result = &r
}

// Result returns the last optimization, if any.
func (j *Job) Result() (model.OptimizeResult, bool) {
	if j.result == nil {
		return model.OptimizeResult{}, false
	}
	return *j.result, true
}

// Download writes the optimized resume as plain text into dir and returns
// the written path.
func (j *Job) Download(dir string) (string, error) {
	if j.result == nil || strings.TrimSpace(j.result.OptimizedResume) == "" {
		return "", model.ErrNothingToDownload
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	path := filepath.Join(dir, DownloadName)
	if err := os.WriteFile(path, []byte(j.result.OptimizedResume), 0o644); err != nil {
		return "", fmt.Errorf("write optimized resume: %w", err)
	}
	return path, nil
}
