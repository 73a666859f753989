package pbm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

const errorPreviewLen = 50

// ProcessError is returned when pbm exits with a non-zero status.
type ProcessError struct {
	Code   int
	Stdout string
	Stderr string
}

func (e *ProcessError) Error() string {
	out := e.Stderr
	if out == "" {
		out = e.Stdout
	}
	return fmt.Sprintf("process returned failure result: %d - %s", e.Code, preview(out))
}

// Output returns whichever stream carries the failure text.
func (e *ProcessError) Output() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Stdout
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= errorPreviewLen {
		return string(r)
	}
	return string(r[:errorPreviewLen]) + "..."
}

// runProcess executes bin with args, feeding stdin when non-empty. The child
// inherits the current environment plus env.
func runProcess(ctx context.Context, bin string, args []string, stdin []byte, env []string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if len(stdin) > 0 {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s: %w", bin, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ProcessError{
				Code:   exitErr.ExitCode(),
				Stdout: stdout.String(),
				Stderr: stderr.String(),
			}
		}
		return "", fmt.Errorf("running %s: %w", bin, err)
	}

	return stdout.String(), nil
}
