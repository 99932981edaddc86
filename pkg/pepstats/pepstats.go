package pepstats

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/ppp-onestep/logger"
)

const (
	DefaultBinary  = "pepstats"
	ReportFileName = "protein_properties.txt"
)

// ToolError is returned when the statistics tool cannot be started or exits non-zero.
type ToolError struct {
	Tool   string
	Args   []string
	Output string // combined stdout and stderr
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += " - " + out
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ExitCode returns the tool's exit status, or -1 when it never ran to completion.
func (e *ToolError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Runner invokes EMBOSS pepstats (or a compatible binary).
type Runner struct {
	Binary  string
	Timeout time.Duration // zero means no limit
}

func NewRunner(binary string, timeout time.Duration) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Runner{
		Binary:  binary,
		Timeout: timeout,
	}
}

// ReportPath is where the report for outputDir is written.
func ReportPath(outputDir string) string {
	return filepath.Join(outputDir, ReportFileName)
}

// LookPath resolves the binary on PATH.
func (r *Runner) LookPath() (string, error) {
	p, err := exec.LookPath(r.Binary)
	if err != nil {
		return "", &ToolError{Tool: r.Binary, Err: err}
	}
	return p, nil
}

// Run executes `<binary> <sequenceFile> <outputDir>/protein_properties.txt`.
// The report path is returned even when the tool fails so callers may still
// inspect whatever was written.
func (r *Runner) Run(ctx context.Context, sequenceFile, outputDir string) (string, error) {

	reportPath := ReportPath(outputDir)
	args := []string{sequenceFile, reportPath}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Binary, args...)

	start := time.Now()
	output, err := cmd.CombinedOutput()
	duration := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return reportPath, &ToolError{
			Tool:   r.Binary,
			Args:   args,
			Output: string(output),
			Err:    err,
		}
	}

	logger.Debug("pepstats finished",
		zap.String("report", reportPath),
		zap.Duration("duration", duration),
		zap.Int("output_size", len(output)),
	)

	return reportPath, nil
}
