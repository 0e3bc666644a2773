package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecError is a failed tesseract (or other tool) invocation. Stderr holds the
// last meaningful lines, which is where tesseract says why it gave up.
type ExecError struct {
	Cmd      string
	ExitCode int // -1 when the process never ran or was killed
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	logger := r.logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		xe := &ExecError{Cmd: name, ExitCode: -1, Stderr: stderrTail(errb.String(), 3), Err: err}
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			xe.Err = ctx.Err()
		case errors.Is(err, exec.ErrNotFound):
			xe.Err = fmt.Errorf("%w (is tesseract installed and on PATH?)", err)
		case errors.As(err, &exitErr):
			xe.ExitCode = exitErr.ExitCode()
		}
		logger.Error("ocr.exec.failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"exit_code", xe.ExitCode,
			"elapsed_ms", dur.Milliseconds(),
			"error", xe.Err,
			"stderr", truncate(errb.String(), 8<<10),
		)
		return out.Bytes(), errb.Bytes(), xe
	}
	logger.Debug("ocr.exec.ok",
		"cmd", name,
		"args", strings.Join(args, " "),
		"elapsed_ms", dur.Milliseconds(),
		"stdout_bytes", out.Len(),
		"stderr_bytes", errb.Len(),
	)
	return out.Bytes(), errb.Bytes(), nil
}

// tesseract chatter that says nothing about a failure
var stderrNoise = []string{"Estimating resolution as", "Detected ", "Warning: Invalid resolution"}

// stderrTail keeps the last n non-empty, non-chatter lines of stderr.
func stderrTail(s string, n int) string {
	var keep []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || hasAnyPrefix(ln, stderrNoise) {
			continue
		}
		keep = append(keep, ln)
	}
	if len(keep) > n {
		keep = keep[len(keep)-n:]
	}
	return strings.Join(keep, " | ")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
