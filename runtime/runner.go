//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=../mocks/mock_runner.go -package=mocks

// Package runtime launches the external NER engine and classifies how its runs end.
package runtime

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"ner-lab/errors"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultJavaBin = "java"

// Invocation describes one run of an engine entry point.
type Invocation struct {
	MainClass string
	Args      []string
	Stdin     io.Reader
	Stdout    io.Writer
}

// Result is what is left of a finished run.
type Result struct {
	ExitCode int
	Stderr   string
	Duration time.Duration
}

type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// JavaOptions configures how the engine archive is launched.
type JavaOptions struct {
	JavaBin string
	JarPath string
	// Heap is passed as -Xmx, e.g. "2g". Empty leaves the JVM default.
	Heap string
	// StrictStderr also fails zero-exit runs that report an uncaught exception on stderr.
	StrictStderr bool
}

// JavaRunner runs `<java> [-Xmx<heap>] -cp <archive> <mainClass> <args...>` without a shell.
type JavaRunner struct {
	log       *slog.Logger
	javaBin   string
	jarPath   string
	heap      string
	heapBytes uint64
	strict    bool
}

// NewJavaRunner fails fast when the engine archive is missing, before any process is started.
func NewJavaRunner(log *slog.Logger, opts JavaOptions) (*JavaRunner, error) {
	if _, err := os.Stat(opts.JarPath); err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrResourceNotFound, opts.JarPath)
	}

	javaBin := opts.JavaBin
	if javaBin == "" {
		javaBin = defaultJavaBin
	}

	var heapBytes uint64
	if opts.Heap != "" {
		b, err := parseHeap(opts.Heap)
		if err != nil {
			return nil, fmt.Errorf("invalid heap size %q: %w", opts.Heap, err)
		}
		heapBytes = b
	}

	return &JavaRunner{
		log:       log,
		javaBin:   javaBin,
		jarPath:   opts.JarPath,
		heap:      opts.Heap,
		heapBytes: heapBytes,
		strict:    opts.StrictStderr,
	}, nil
}

// Argv returns the arguments given to the java binary for inv.
func (r *JavaRunner) Argv(inv Invocation) []string {
	argv := make([]string, 0, len(inv.Args)+4)
	if r.heap != "" {
		argv = append(argv, "-Xmx"+r.heap)
	}
	argv = append(argv, "-cp", r.jarPath, inv.MainClass)
	return append(argv, inv.Args...)
}

// Run blocks until the engine exits. Stderr is captured for the result and streamed to the logger.
func (r *JavaRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	r.checkHeap()

	cmd := exec.CommandContext(ctx, r.javaBin, r.Argv(inv)...)
	setPlatformSpecificAttrs(cmd)
	cmd.Stdin = inv.Stdin
	cmd.Stdout = inv.Stdout

	var stderr bytes.Buffer
	logWriter := newEngineLogWriter(r.log, inv.MainClass)
	cmd.Stderr = io.MultiWriter(&stderr, logWriter)

	runID := uuid.NewString()
	r.log.Debug("Engine called", "run_id", runID, "cmd", cmd.String())

	start := time.Now()
	runErr := cmd.Run()
	logWriter.Flush()

	result := Result{
		ExitCode: -1,
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err := r.classify(ctx, inv, result, runErr); err != nil {
		r.log.Debug("Engine run failed", "run_id", runID, "exit_code", result.ExitCode, "error", err)
		return result, err
	}

	r.log.Debug("Engine run finished", "run_id", runID, "duration", result.Duration)
	return result, nil
}

// classify decides on exit status first; stderr text only matters in strict mode.
func (r *JavaRunner) classify(ctx context.Context, inv Invocation, result Result, runErr error) error {
	if runErr != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(runErr, &exitErr) {
			return fmt.Errorf("%w: %s: %v", errors.ErrInvocationFailed, inv.MainClass, runErr)
		}
		reason := "non-zero exit"
		if ctx.Err() != nil {
			reason = ctx.Err().Error()
		}
		return &errors.InvocationError{
			MainClass: inv.MainClass,
			ExitCode:  result.ExitCode,
			Stderr:    result.Stderr,
			Reason:    reason,
		}
	}

	if r.strict {
		if line := uncaughtException(result.Stderr); line != "" {
			return &errors.InvocationError{
				MainClass: inv.MainClass,
				ExitCode:  result.ExitCode,
				Stderr:    result.Stderr,
				Reason:    line,
			}
		}
	}
	return nil
}

// stackTraceHead matches the first line printed by Throwable.printStackTrace.
var stackTraceHead = regexp.MustCompile(`^[\w.$]+(Exception|Error)(: .*)?$`)

// uncaughtException returns the first line reporting a JVM exception: an uncaught-exception
// or cause line, or a throwable header directly followed by a "\tat " frame.
func uncaughtException(stderr string) string {
	lines := strings.Split(strings.ReplaceAll(stderr, "\r\n", "\n"), "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, `Exception in thread "`) || strings.HasPrefix(line, "Caused by: ") {
			return line
		}
		if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "\tat ") && stackTraceHead.MatchString(line) {
			return line
		}
	}
	return ""
}
