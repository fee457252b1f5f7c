// Package runner executes install plans produced by the backends. It is
// the only component that launches external processes.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/stacklok/toolhive-tool-manager/internal/backend"
	"github.com/stacklok/toolhive-tool-manager/internal/logger"
)

// ExecutionError is returned when the delegated tool exits nonzero. The
// captured output is surfaced verbatim, not interpreted.
type ExecutionError struct {
	Program  string
	ExitCode int
	Output   string
	Err      error
}

// Error returns the error message
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d: %s", e.Program, e.ExitCode, strings.TrimSpace(e.Output))
}

// Unwrap returns the underlying process error
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Runner executes an install plan and reports its outcome.
type Runner interface {
	// Run executes the plan, blocking until the process exits
	Run(ctx context.Context, plan *backend.InstallPlan) error
}

// execRunner runs plans with os/exec
type execRunner struct{}

var _ Runner = (*execRunner)(nil)

// New creates the default runner
func New() Runner {
	return &execRunner{}
}

// Run executes the plan. The plan's environment overlay is applied on
// top of the process environment and its extra paths are prepended to
// PATH. Output is captured and attached to the error on failure.
func (*execRunner) Run(ctx context.Context, plan *backend.InstallPlan) error {
	cmd := exec.CommandContext(ctx, plan.Program, plan.Args...)
	cmd.Env = buildEnv(plan)
	if plan.Root != "" {
		if info, err := os.Stat(plan.Root); err == nil && info.IsDir() {
			cmd.Dir = plan.Root
		}
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	logger.Infow("running install command", "program", plan.Program, "args", plan.Args)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &ExecutionError{
			Program:  plan.Program,
			ExitCode: exitCode,
			Output:   output.String(),
			Err:      err,
		}
	}

	logger.Debugf("%s completed successfully", plan.Program)
	return nil
}

// buildEnv merges the process environment with the plan's overlay and
// PATH prepends. Overlay entries win over inherited ones.
func buildEnv(plan *backend.InstallPlan) []string {
	merged := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			merged[k] = v
		}
	}
	for k, v := range plan.Env {
		merged[k] = v
	}

	if len(plan.ExtraPaths) > 0 {
		path := strings.Join(plan.ExtraPaths, string(os.PathListSeparator))
		if existing := merged["PATH"]; existing != "" {
			path += string(os.PathListSeparator) + existing
		}
		merged["PATH"] = path
	}

	env := make([]string, 0, len(merged))
	for k, v := range merged {
		env = append(env, k+"="+v)
	}
	return env
}
