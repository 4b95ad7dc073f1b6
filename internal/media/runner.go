package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ErrExternalTool is matched by every failure of an external process.
var ErrExternalTool = errors.New("external tool failed")

// ToolError records a failed ffmpeg invocation with its stderr output.
type ToolError struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLine(s)
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrExternalTool) true for any ToolError.
func (e *ToolError) Is(target error) bool { return target == ErrExternalTool }

// Runner executes an external binary, capturing stderr for diagnostics.
type Runner struct {
	Binary string
	Log    *zap.SugaredLogger
}

// Run executes the binary with args and waits for it. Cancelling ctx kills
// the process.
func (r Runner) Run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if r.Log != nil {
		r.Log.Debugw("exec", "tool", r.Binary, "args", args)
	}
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &ToolError{Tool: r.Binary, Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
