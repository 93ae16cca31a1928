package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/amishk599/prepkit/internal/model"
)

// OptimizeResume uploads the resume with the job description.
func (c *Client) OptimizeResume(ctx context.Context, file model.ResumeFile, jobDescription string) (model.OptimizeResult, error) {
	if file.Name == "" || len(file.Data) == 0 {
		return model.OptimizeResult{}, model.Invalid("please upload a resume file")
	}
	if strings.TrimSpace(jobDescription) == "" {
		return model.OptimizeResult{}, model.Invalid("please enter a job description")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", file.Name)
	if err != nil {
		return model.OptimizeResult{}, fmt.Errorf("create resume part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return model.OptimizeResult{}, fmt.Errorf("write resume part: %w", err)
	}
	if err := w.WriteField("job_description", jobDescription); err != nil {
		return model.OptimizeResult{}, fmt.Errorf("write job description: %w", err)
	}
	if err := w.Close(); err != nil {
		return model.OptimizeResult{}, fmt.Errorf("close multipart body: %w", err)
	}

	var out model.OptimizeResult
	if err := c.post(ctx, "optimize resume", OptimizeResumePath, w.FormDataContentType(), &body, &out); err != nil {
		return model.OptimizeResult{}, err
	}
	if strings.TrimSpace(out.OptimizedResume) == "" {
		return model.OptimizeResult{}, &model.BackendError{Op: "optimize resume", Err: errors.New("no optimized resume returned")}
	}
	c.logger.Info("resume optimized", "file", file.Name, "changes", len(out.Changes), "missing_keywords", len(out.MissingKeywords))
	return out, nil
}
