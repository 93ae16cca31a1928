package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/amishk599/prepkit/internal/model"
)

// DefaultRecorder captures 16 kHz mono WAV to stdout with ALSA's arecord.
var DefaultRecorder = CommandSource{
	Name: "arecord",
	Args: []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "wav", "-"},
}

// CommandSource records through an external process that writes audio to
// stdout until interrupted. A missing binary counts as denied access.
type CommandSource struct {
	Name string
	Args []string
}

// Open resolves the recorder binary.
func (s CommandSource) Open(_ context.Context) (Stream, error) {
	path, err := exec.LookPath(s.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPermissionDenied, err)
	}
	return &commandStream{path: path, args: s.Args}, nil
}

type commandStream struct {
	path string
	args []string

	mu     sync.Mutex
	active *commandRecording
}

func (s *commandStream) Record() (Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(s.path, s.args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPermissionDenied, err)
	}
	rec := &commandRecording{cmd: cmd, stdout: &stdout, stderr: &stderr, stream: s}
	s.active = rec
	return rec, nil
}

func (s *commandStream) Close() error {
	s.mu.Lock()
	rec := s.active
	s.active = nil
	s.mu.Unlock()

	if rec == nil {
		return nil
	}
	if err := rec.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill recorder: %w", err)
	}
	_ = rec.cmd.Wait()
	return nil
}

type commandRecording struct {
	cmd    *exec.Cmd
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	stream *commandStream
	once   sync.Once
	data   []byte
	err    error
}

func (r *commandRecording) Stop() ([]byte, error) {
	r.once.Do(func() {
		r.stream.mu.Lock()
		if r.stream.active == r {
			r.stream.active = nil
		}
		r.stream.mu.Unlock()

		if runtime.GOOS == "windows" {
			_ = r.cmd.Process.Kill()
		} else {
			_ = r.cmd.Process.Signal(os.Interrupt)
		}
		waitErr := r.cmd.Wait()

		// Recorders exit non-zero on interrupt; output is what matters.
		if r.stdout.Len() == 0 {
			r.err = fmt.Errorf("recorder produced no audio: %v %s", waitErr, bytes.TrimSpace(r.stderr.Bytes()))
			return
		}
		r.data = r.stdout.Bytes()
	})
	return r.data, r.err
}
