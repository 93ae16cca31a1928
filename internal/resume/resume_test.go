package resume

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/amishk599/prepkit/internal/model"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/tmp/cv.pdf", "/tmp/cv.pdf"},
		{"  '/tmp/my cv.pdf'  ", "/tmp/my cv.pdf"},
		{`"/tmp/cv.pdf"`, "/tmp/cv.pdf"},
		{"file:///tmp/my%20cv.pdf", "/tmp/my cv.pdf"},
		{`/tmp/my\ cv.pdf`, "/tmp/my cv.pdf"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CV.PDF")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load("'" + path + "'")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Name != "CV.PDF" || string(f.Data) != "%PDF-1.4" || f.Size() != 8 {
		t.Errorf("file = %+v", f)
	}
}

func TestLoad_Rejects(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "photo.png")
	empty := filepath.Join(dir, "empty.txt")
	os.WriteFile(png, []byte("x"), 0o644)
	os.WriteFile(empty, nil, 0o644)

	for _, p := range []string{"", png, empty} {
		if _, err := Load(p); !errors.Is(err, model.ErrValidation) {
			t.Errorf("Load(%q) err = %v, want validation error", p, err)
		}
	}

	_, err := Load(filepath.Join(dir, "missing.docx"))
	if err == nil || errors.Is(err, model.ErrValidation) {
		t.Errorf("missing file err = %v, want read error", err)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 Bytes"},
		{500, "500 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1234567, "1.18 MB"},
		{5 << 30, "5 GB"},
		{3 << 40, "3072 GB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.n); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestJob_Download(t *testing.T) {
	var j Job
	if _, err := j.Download(t.TempDir()); !errors.Is(err, model.ErrNothingToDownload) {
		t.Fatalf("err = %v, want ErrNothingToDownload", err)
	}

	j.SetResult(model.OptimizeResult{OptimizedResume: "JANE DOE\nEngineer"})
	dir := filepath.Join(t.TempDir(), "out")
	path, err := j.Download(dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != DownloadName {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "JANE DOE\nEngineer" {
		t.Errorf("content = %q", data)
	}
}

func TestJob_SelectKeepsResult(t *testing.T) {
	var j Job
	if _, ok := j.File(); ok {
		t.Fatal("new job should have no file")
	}
	j.SetResult(model.OptimizeResult{OptimizedResume: "x"})
	j.Select(model.ResumeFile{Name: "b.txt", Data: []byte("b")})

	if f, ok := j.File(); !ok || f.Name != "b.txt" {
		t.Errorf("file = %+v, %v", f, ok)
	}
	if _, ok := j.Result(); !ok {
		t.Error("result dropped on select")
	}
}
